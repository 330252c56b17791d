package alert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/invorya/stock-alerts/internal/domain/alert"
)

// ──────────────────────────────────────────────────────────────────────────────
// Clasificación de niveles: la frontera exacta importa. on_hand igual al punto
// de reorden ya es RED, y el colchón de seguridad por encima del reorden marca
// el borde superior de YELLOW.
// ──────────────────────────────────────────────────────────────────────────────

func TestClassify_Fronteras(t *testing.T) {
	cases := []struct {
		name         string
		onHand       int64
		reorderPoint int64
		safetyStock  int64
		want         string
	}{
		{"muy por debajo del reorden", 0, 26, 5, alert.TierRed},
		{"exactamente en el reorden", 26, 26, 5, alert.TierRed},
		{"una unidad sobre el reorden", 27, 26, 5, alert.TierYellow},
		{"borde superior del colchón", 31, 26, 5, alert.TierYellow},
		{"una unidad sobre el colchón", 32, 26, 5, alert.TierNone},
		{"sin colchón: reorden+1 ya es normal", 27, 26, 0, alert.TierNone},
		{"stock cero con reorden cero", 0, 0, 0, alert.TierRed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := alert.Classify(tc.onHand, tc.reorderPoint, tc.safetyStock)
			assert.Equal(t, tc.want, got,
				"Classify(%d, %d, %d) debe ser %s", tc.onHand, tc.reorderPoint, tc.safetyStock, tc.want)
		})
	}
}

func TestSuggestedReorderQuantity_NuncaMenorQueUno(t *testing.T) {
	assert.Equal(t, int64(16), alert.SuggestedReorderQuantity(26, 10),
		"el pedido sugerido es la brecha hasta el reorden")
	assert.Equal(t, int64(1), alert.SuggestedReorderQuantity(26, 26),
		"en el borde exacto del reorden se sugiere pedir al menos 1")
	assert.Equal(t, int64(1), alert.SuggestedReorderQuantity(10, 50),
		"con sobrestock la sugerencia se fija en 1, nunca negativa")
}

func TestMessage_SoloRedLlevaPrefijoUrgente(t *testing.T) {
	red := alert.Message(alert.TierRed, "SKU-1", "Café molido", 3, 23)
	yellow := alert.Message(alert.TierYellow, "SKU-1", "Café molido", 30, 1)

	assert.True(t, len(red) > len(alert.RedPrefix) && red[:len(alert.RedPrefix)] == alert.RedPrefix,
		"el mensaje RED debe empezar con el marcador de urgencia")
	assert.NotContains(t, yellow, alert.RedPrefix,
		"el mensaje YELLOW no lleva marcador de urgencia")
	assert.Contains(t, red, "SKU-1")
	assert.Contains(t, red, "quedan 3 unidades")
	assert.Contains(t, red, "Pedido sugerido: 23")
}
