package threshold

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/stock-alerts/internal/domain"
	"github.com/invorya/stock-alerts/internal/domain/entity"
	"github.com/invorya/stock-alerts/internal/domain/repository"
)

// SalesWindowDays es la ventana móvil de ventas usada para el promedio diario.
const SalesWindowDays = 30

// minAvgDailySales evita artefactos de división para productos nuevos sin
// historial: el promedio nunca baja de 0.1 y el denominador de días de stock
// siempre es finito y distinto de cero.
var minAvgDailySales = decimal.RequireFromString("0.1")

// Stats es el resultado del cálculo de umbrales para un producto.
type Stats struct {
	Product       *entity.Product
	AvgDailySales decimal.Decimal
	ReorderPoint  int64
	DaysOfStock   decimal.Decimal
}

// Calculator deriva el punto de reorden y los días de stock a partir del
// historial de ventas y del on_hand reconciliado por el ledger.
// El camino por lotes emite exactamente dos consultas agregadas (productos y
// totales de ventas) sin importar cuántos productos se pidan: el barrido
// recorre todos los productos de la empresa y las consultas por producto lo
// volverían O(n) viajes a la base.
type Calculator struct {
	productRepo repository.ProductRepository
	salesRepo   repository.SalesRepository
	windowDays  int
}

// NewCalculator construye el calculador con la ventana de ventas por defecto.
func NewCalculator(productRepo repository.ProductRepository, salesRepo repository.SalesRepository) *Calculator {
	return &Calculator{
		productRepo: productRepo,
		salesRepo:   salesRepo,
		windowDays:  SalesWindowDays,
	}
}

// AvgDailySales promedio diario de ventas sobre la ventana, con piso en 0.1.
func (c *Calculator) AvgDailySales(totalSold int64) decimal.Decimal {
	avg := decimal.NewFromInt(totalSold).Div(decimal.NewFromInt(int64(c.windowDays)))
	if avg.LessThan(minAvgDailySales) {
		return minAvgDailySales
	}
	return avg
}

// StatsFor calcula los umbrales de un producto dado su total vendido en la
// ventana. Falla con entrada inválida si lead_time_days no es positivo.
func (c *Calculator) StatsFor(product *entity.Product, totalSold int64) (Stats, error) {
	if product.LeadTimeDays < 1 {
		return Stats{}, fmt.Errorf("lead_time_days %d del producto %s: %w",
			product.LeadTimeDays, product.ID, domain.ErrInvalidInput)
	}
	avg := c.AvgDailySales(totalSold)

	// reorder_point = safety_stock + round(promedio diario × lead time), mínimo 1
	reorderPoint := product.SafetyStock + avg.Mul(decimal.NewFromInt(int64(product.LeadTimeDays))).Round(0).IntPart()
	if reorderPoint < 1 {
		reorderPoint = 1
	}

	daysOfStock := decimal.NewFromInt(product.OnHand).Div(avg).Round(1)

	return Stats{
		Product:       product,
		AvgDailySales: avg,
		ReorderPoint:  reorderPoint,
		DaysOfStock:   daysOfStock,
	}, nil
}

// BatchStats calcula umbrales para los productos pedidos (todos los de la
// empresa si productIDs es vacío) con dos consultas agregadas en total.
// Los productos que no pueden evaluarse quedan en el mapa de errores; un
// fallo de la base aborta el lote completo.
func (c *Calculator) BatchStats(ctx context.Context, companyID string, productIDs []string) (map[string]Stats, map[string]error, error) {
	products, err := c.productRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("listar productos: %w", err)
	}

	since := time.Now().AddDate(0, 0, -c.windowDays)
	totals, err := c.salesRepo.TotalsSoldSince(ctx, companyID, since)
	if err != nil {
		return nil, nil, fmt.Errorf("totales de ventas: %w", err)
	}

	var wanted map[string]bool
	if len(productIDs) > 0 {
		wanted = make(map[string]bool, len(productIDs))
		for _, id := range productIDs {
			wanted[id] = true
		}
	}

	stats := make(map[string]Stats, len(products))
	errs := make(map[string]error)
	for _, p := range products {
		if wanted != nil && !wanted[p.ID] {
			continue
		}
		s, err := c.StatsFor(p, totals[p.ID])
		if err != nil {
			errs[p.ID] = err
			continue
		}
		stats[p.ID] = s
	}
	return stats, errs, nil
}

// ReorderPoint calcula el punto de reorden de un solo producto. Delega en el
// camino por lotes para que lote e individual sean bit a bit consistentes.
func (c *Calculator) ReorderPoint(ctx context.Context, companyID, productID string) (int64, error) {
	s, err := c.statsForOne(ctx, companyID, productID)
	if err != nil {
		return 0, err
	}
	return s.ReorderPoint, nil
}

// DaysOfStock días de stock de un solo producto, redondeado a un decimal.
func (c *Calculator) DaysOfStock(ctx context.Context, companyID, productID string) (decimal.Decimal, error) {
	s, err := c.statsForOne(ctx, companyID, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.DaysOfStock, nil
}

// BatchDaysOfStock días de stock por producto para el lote pedido.
func (c *Calculator) BatchDaysOfStock(ctx context.Context, companyID string, productIDs []string) (map[string]decimal.Decimal, error) {
	stats, errs, err := c.BatchStats(ctx, companyID, productIDs)
	if err != nil {
		return nil, err
	}
	for id, perr := range errs {
		return nil, fmt.Errorf("producto %s: %w", id, perr)
	}
	result := make(map[string]decimal.Decimal, len(stats))
	for id, s := range stats {
		result[id] = s.DaysOfStock
	}
	return result, nil
}

func (c *Calculator) statsForOne(ctx context.Context, companyID, productID string) (Stats, error) {
	stats, errs, err := c.BatchStats(ctx, companyID, []string{productID})
	if err != nil {
		return Stats{}, err
	}
	if perr, ok := errs[productID]; ok {
		return Stats{}, perr
	}
	s, ok := stats[productID]
	if !ok {
		return Stats{}, domain.ErrNotFound
	}
	return s, nil
}
