package threshold_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-alerts/internal/application/threshold"
	"github.com/invorya/stock-alerts/internal/domain"
	"github.com/invorya/stock-alerts/internal/domain/entity"
	"github.com/invorya/stock-alerts/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// El calculador deriva reorder_point y días de stock de la ventana móvil de
// ventas de 30 días. Escenario de referencia: 90 unidades vendidas en la
// ventana -> promedio diario 3; con colchón 5 y lead time 7 el punto de
// reorden es 5 + round(3×7) = 26.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID = "empresa-1"
	testProductID = "prod-1"
)

func seedProductWithSales(store *testutil.Store, onHand int64, totalSold int64) {
	store.AddProduct(entity.Product{
		ID:           testProductID,
		CompanyID:    testCompanyID,
		SKU:          "CAF-001",
		Name:         "Café molido",
		OnHand:       onHand,
		SafetyStock:  5,
		LeadTimeDays: 7,
	})
	if totalSold > 0 {
		store.AddSale(entity.SalesRecord{
			ID:        "venta-1",
			CompanyID: testCompanyID,
			ProductID: testProductID,
			Quantity:  totalSold,
			SoldAt:    time.Now().AddDate(0, 0, -3),
		})
	}
}

func TestAvgDailySales_PisoParaProductosSinHistorial(t *testing.T) {
	store := testutil.NewStore()
	calc := threshold.NewCalculator(store, store)

	assert.True(t, calc.AvgDailySales(0).Equal(decimal.RequireFromString("0.1")),
		"sin ventas el promedio se fija en el piso 0.1")
	assert.True(t, calc.AvgDailySales(1).Equal(decimal.RequireFromString("0.1")),
		"1 venta en 30 días (0.033/día) queda bajo el piso")
	assert.True(t, calc.AvgDailySales(90).Equal(decimal.NewFromInt(3)),
		"90 ventas en 30 días son 3 por día")
}

func TestStatsFor_EscenarioDeReferencia(t *testing.T) {
	store := testutil.NewStore()
	calc := threshold.NewCalculator(store, store)

	p := &entity.Product{
		ID: testProductID, CompanyID: testCompanyID,
		OnHand: 20, SafetyStock: 5, LeadTimeDays: 7,
	}
	s, err := calc.StatsFor(p, 90)
	require.NoError(t, err)

	assert.Equal(t, int64(26), s.ReorderPoint,
		"reorder_point = 5 + round(3×7) = 26")
	assert.Equal(t, "6.7", s.DaysOfStock.String(),
		"20 en mano / 3 por día = 6.666... redondeado a un decimal")
}

func TestStatsFor_ReorderPointMinimoUno(t *testing.T) {
	store := testutil.NewStore()
	calc := threshold.NewCalculator(store, store)

	// Sin ventas ni colchón: 0 + round(0.1×1) = 0, que se eleva a 1.
	p := &entity.Product{ID: testProductID, OnHand: 10, SafetyStock: 0, LeadTimeDays: 1}
	s, err := calc.StatsFor(p, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ReorderPoint,
		"el punto de reorden nunca baja de 1")
}

func TestStatsFor_LeadTimeInvalido(t *testing.T) {
	store := testutil.NewStore()
	calc := threshold.NewCalculator(store, store)

	p := &entity.Product{ID: testProductID, LeadTimeDays: 0}
	_, err := calc.StatsFor(p, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"lead_time_days no positivo no puede evaluarse")
}

func TestBatchStats_DosConsultasSinImportarElTamano(t *testing.T) {
	store := testutil.NewStore()
	for i, id := range []string{"p-a", "p-b", "p-c", "p-d", "p-e"} {
		store.AddProduct(entity.Product{
			ID: id, CompanyID: testCompanyID, SKU: id,
			OnHand: int64(10 * (i + 1)), SafetyStock: 2, LeadTimeDays: 5,
		})
	}
	calc := threshold.NewCalculator(store, store)

	stats, errs, err := calc.BatchStats(context.Background(), testCompanyID, nil)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Len(t, stats, 5)

	assert.Equal(t, 1, store.ProductListCalls,
		"el lote emite una sola consulta de productos")
	assert.Equal(t, 1, store.SalesQueryCalls,
		"el lote emite una sola consulta agregada de ventas")
}

func TestBatchStats_AislaProductosInvalidos(t *testing.T) {
	store := testutil.NewStore()
	store.AddProduct(entity.Product{
		ID: "p-ok", CompanyID: testCompanyID, SKU: "A",
		OnHand: 10, SafetyStock: 2, LeadTimeDays: 5,
	})
	store.AddProduct(entity.Product{
		ID: "p-mal", CompanyID: testCompanyID, SKU: "B",
		OnHand: 10, SafetyStock: 2, LeadTimeDays: 0, // inválido
	})
	calc := threshold.NewCalculator(store, store)

	stats, errs, err := calc.BatchStats(context.Background(), testCompanyID, nil)
	require.NoError(t, err, "un producto inválido no aborta el lote")
	assert.Contains(t, stats, "p-ok")
	assert.NotContains(t, stats, "p-mal")
	assert.ErrorIs(t, errs["p-mal"], domain.ErrInvalidInput)
}

func TestBatchStats_VentasFueraDeVentanaNoCuentan(t *testing.T) {
	store := testutil.NewStore()
	seedProductWithSales(store, 20, 0)
	store.AddSale(entity.SalesRecord{
		ID: "venta-vieja", CompanyID: testCompanyID, ProductID: testProductID,
		Quantity: 900, SoldAt: time.Now().AddDate(0, 0, -60),
	})
	calc := threshold.NewCalculator(store, store)

	stats, errs, err := calc.BatchStats(context.Background(), testCompanyID, nil)
	require.NoError(t, err)
	require.Empty(t, errs)

	// Solo la venta vieja existe: el promedio cae al piso 0.1.
	s := stats[testProductID]
	assert.True(t, s.AvgDailySales.Equal(decimal.RequireFromString("0.1")),
		"ventas fuera de la ventana de 30 días no alimentan el promedio")
}

func TestReorderPoint_IndividualCoincideConLote(t *testing.T) {
	store := testutil.NewStore()
	seedProductWithSales(store, 20, 90)
	calc := threshold.NewCalculator(store, store)
	ctx := context.Background()

	rp, err := calc.ReorderPoint(ctx, testCompanyID, testProductID)
	require.NoError(t, err)

	stats, errs, err := calc.BatchStats(ctx, testCompanyID, nil)
	require.NoError(t, err)
	require.Empty(t, errs)

	assert.Equal(t, stats[testProductID].ReorderPoint, rp,
		"el camino individual delega en el lote: mismos números siempre")
	assert.Equal(t, int64(26), rp)
}

func TestDaysOfStock_IndividualCoincideConLote(t *testing.T) {
	store := testutil.NewStore()
	seedProductWithSales(store, 20, 90)
	calc := threshold.NewCalculator(store, store)
	ctx := context.Background()

	days, err := calc.DaysOfStock(ctx, testCompanyID, testProductID)
	require.NoError(t, err)

	batch, err := calc.BatchDaysOfStock(ctx, testCompanyID, []string{testProductID})
	require.NoError(t, err)

	assert.True(t, batch[testProductID].Equal(days),
		"días de stock individual y por lote deben coincidir bit a bit")
	assert.Equal(t, "6.7", days.String())
}

func TestReorderPoint_ProductoInvisible(t *testing.T) {
	store := testutil.NewStore()
	seedProductWithSales(store, 20, 90)
	calc := threshold.NewCalculator(store, store)

	_, err := calc.ReorderPoint(context.Background(), "otra-empresa", testProductID)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"un producto de otra empresa no existe para el caller")
}
