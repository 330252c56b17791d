package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/stock-alerts/internal/application/ledger"
	"github.com/invorya/stock-alerts/internal/domain"
	"github.com/invorya/stock-alerts/internal/domain/entity"
	"github.com/invorya/stock-alerts/internal/testutil"
	"github.com/invorya/stock-alerts/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// El ledger es la única vía de mutación del on_hand: cada delta deja una
// entrada inmutable y el on_hand del producto debe ser siempre reconstruible
// como suma prefija (con recorte en cero) de sus entradas.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID = "empresa-1"
	testProductID = "prod-1"
)

func newUseCase(store *testutil.Store) *ledger.UseCase {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return ledger.NewUseCase(store, store, store, log)
}

func seedProduct(store *testutil.Store, onHand int64) {
	store.AddProduct(entity.Product{
		ID:        testProductID,
		CompanyID: testCompanyID,
		SKU:       "CAF-001",
		Name:      "Café molido",
		OnHand:    onHand,
	})
}

func TestApplyDelta_EntradaYSalida(t *testing.T) {
	store := testutil.NewStore()
	seedProduct(store, 10)
	uc := newUseCase(store)
	ctx := context.Background()

	p, err := uc.ApplyDelta(ctx, ledger.ApplyDeltaInput{
		CompanyID: testCompanyID, ProductID: testProductID,
		Delta: 15, Source: entity.LedgerSourceManual,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25), p.OnHand)

	p, err = uc.ApplyDelta(ctx, ledger.ApplyDeltaInput{
		CompanyID: testCompanyID, ProductID: testProductID,
		Delta: -5, Source: entity.LedgerSourceSale, ReferenceID: "factura-99",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), p.OnHand)

	entries := store.LedgerEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(15), entries[0].QuantityDelta)
	assert.Equal(t, int64(25), entries[0].QuantityAfter)
	assert.Equal(t, int64(-5), entries[1].QuantityDelta)
	assert.Equal(t, int64(20), entries[1].QuantityAfter)
	assert.Equal(t, "factura-99", entries[1].ReferenceID)
}

func TestApplyDelta_RecorteEnCeroEsAuditable(t *testing.T) {
	store := testutil.NewStore()
	seedProduct(store, 20)
	uc := newUseCase(store)

	p, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
		CompanyID: testCompanyID, ProductID: testProductID,
		Delta: -25, Source: entity.LedgerSourceSale,
	})
	require.NoError(t, err, "un delta que dejaría stock negativo no se rechaza")
	assert.Equal(t, int64(0), p.OnHand, "el on_hand se fija en cero")

	entries := store.LedgerEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-25), entries[0].QuantityDelta,
		"el delta solicitado queda íntegro en el ledger")
	assert.Equal(t, int64(0), entries[0].QuantityAfter,
		"quantity_after refleja el recorte: la discrepancia es visible")
	assert.Equal(t, int64(0), store.Product(testProductID).OnHand)
}

func TestApplyDelta_SumaPrefijaReconstruyeOnHand(t *testing.T) {
	store := testutil.NewStore()
	seedProduct(store, 0)
	uc := newUseCase(store)
	ctx := context.Background()

	deltas := []int64{30, -10, -25, 40, -5}
	for _, d := range deltas {
		_, err := uc.ApplyDelta(ctx, ledger.ApplyDeltaInput{
			CompanyID: testCompanyID, ProductID: testProductID,
			Delta: d, Source: entity.LedgerSourceManual,
		})
		require.NoError(t, err)
	}

	// Reproduce la suma prefija con recorte y compárala entrada a entrada.
	var running int64
	for i, e := range store.LedgerEntries() {
		running += e.QuantityDelta
		if running < 0 {
			running = 0
		}
		assert.Equal(t, running, e.QuantityAfter,
			"la entrada %d debe registrar la suma prefija recortada", i)
	}
	assert.Equal(t, running, store.Product(testProductID).OnHand,
		"el on_hand final es la última suma prefija")
}

func TestApplyDelta_ValidacionDeEntrada(t *testing.T) {
	store := testutil.NewStore()
	seedProduct(store, 10)
	uc := newUseCase(store)
	ctx := context.Background()

	_, err := uc.ApplyDelta(ctx, ledger.ApplyDeltaInput{
		CompanyID: testCompanyID, ProductID: testProductID,
		Delta: 0, Source: entity.LedgerSourceManual,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "delta cero no registra nada")

	_, err = uc.ApplyDelta(ctx, ledger.ApplyDeltaInput{
		CompanyID: testCompanyID, ProductID: testProductID, Delta: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "source es obligatorio")

	assert.Empty(t, store.LedgerEntries(), "las entradas inválidas no llegan al ledger")
}

func TestApplyDelta_ProductoDeOtraEmpresa(t *testing.T) {
	store := testutil.NewStore()
	seedProduct(store, 10)
	uc := newUseCase(store)

	_, err := uc.ApplyDelta(context.Background(), ledger.ApplyDeltaInput{
		CompanyID: "otra-empresa", ProductID: testProductID,
		Delta: 5, Source: entity.LedgerSourceManual,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"un producto ajeno no existe para el caller, nunca un forbidden")
	assert.Equal(t, int64(10), store.Product(testProductID).OnHand,
		"el intento ajeno no muta el producto")
}

func TestApplyDelta_DeltasConcurrentesSeSerializan(t *testing.T) {
	store := testutil.NewStore()
	seedProduct(store, 0)
	uc := newUseCase(store)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.ApplyDelta(ctx, ledger.ApplyDeltaInput{
				CompanyID: testCompanyID, ProductID: testProductID,
				Delta: 1, Source: entity.LedgerSourceManual,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(workers), store.Product(testProductID).OnHand,
		"ningún delta concurrente se pierde")
	assert.Len(t, store.LedgerEntries(), workers)
}

func TestListLedger_ProductoInvisibleDevuelveVacio(t *testing.T) {
	store := testutil.NewStore()
	seedProduct(store, 10)
	uc := newUseCase(store)
	ctx := context.Background()

	_, err := uc.ApplyDelta(ctx, ledger.ApplyDeltaInput{
		CompanyID: testCompanyID, ProductID: testProductID,
		Delta: 5, Source: entity.LedgerSourceManual,
	})
	require.NoError(t, err)

	entries, err := uc.ListLedger(ctx, "otra-empresa", testProductID, nil, nil)
	require.NoError(t, err, "listar no revela existencia: no es un error")
	assert.Empty(t, entries, "el historial de un producto ajeno se ve vacío")

	entries, err = uc.ListLedger(ctx, testCompanyID, testProductID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "la empresa dueña sí ve su historial")
}
