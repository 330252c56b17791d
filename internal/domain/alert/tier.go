package alert

import "fmt"

// Niveles de alerta de un producto.
const (
	TierNone   = "NONE"
	TierYellow = "YELLOW"
	TierRed    = "RED"
)

// RedPrefix es el marcador de urgencia que antecede los mensajes de nivel RED.
const RedPrefix = "URGENTE: "

// Classify devuelve el nivel de alerta para el estado actual del producto:
// RED si on_hand <= punto de reorden, YELLOW si está dentro del colchón de
// seguridad por encima del reorden, NONE en otro caso.
func Classify(onHand, reorderPoint, safetyStock int64) string {
	switch {
	case onHand <= reorderPoint:
		return TierRed
	case onHand <= reorderPoint+safetyStock:
		return TierYellow
	default:
		return TierNone
	}
}

// SuggestedReorderQuantity es la cantidad de pedido sugerida para mensajería.
// Nunca menor que 1: aun en el borde exacto del reorden se sugiere pedir algo.
func SuggestedReorderQuantity(reorderPoint, onHand int64) int64 {
	qty := reorderPoint - onHand
	if qty < 1 {
		return 1
	}
	return qty
}

// Message construye el texto de la notificación para una transición de nivel.
// Solo RED lleva el marcador de urgencia.
func Message(tier, sku, name string, onHand, suggested int64) string {
	msg := fmt.Sprintf("Stock bajo para %s (%s): quedan %d unidades. Pedido sugerido: %d.",
		name, sku, onHand, suggested)
	if tier == TierRed {
		return RedPrefix + msg
	}
	return msg
}
