package entity

import "time"

// Orígenes conocidos de un movimiento del ledger. Source es texto libre:
// los conectores POS escriben su propio nombre.
const (
	LedgerSourceManual = "manual"
	LedgerSourceSale   = "sale"
	LedgerSourceCSV    = "csv"
)

// LedgerEntry es un registro inmutable de auditoría de un cambio de inventario.
// QuantityDelta conserva el delta solicitado; QuantityAfter es la foto del
// on_hand ya aplicado el delta (con el piso en cero). La suma prefija de los
// deltas aplicados debe reconciliar con el OnHand del producto.
// Las entradas nunca se actualizan ni se borran.
type LedgerEntry struct {
	ID            string
	ProductID     string
	QuantityDelta int64
	QuantityAfter int64
	Source        string
	ReferenceID   string // correlación externa opcional (vacío = sin referencia)
	CreatedAt     time.Time
}
