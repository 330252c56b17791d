// Package testutil provee dobles en memoria de los puertos de persistencia
// y transporte, para tests de casos de uso sin PostgreSQL ni SMTP.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/invorya/stock-alerts/internal/domain"
	"github.com/invorya/stock-alerts/internal/domain/entity"
	"github.com/invorya/stock-alerts/internal/domain/repository"
)

// Store implementa todos los puertos de repositorio sobre mapas en memoria,
// más los TxRunner de ledger y barrido. txMu serializa las "transacciones"
// igual que el bloqueo de fila en PostgreSQL serializa deltas concurrentes.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	products      map[string]*entity.Product
	ledger        []*entity.LedgerEntry
	sales         []*entity.SalesRecord
	alerts        []*entity.AlertRecord
	notifications []*entity.Notification
	companies     map[string]*entity.Company

	// Contadores de consultas agregadas, para asegurar el contrato de
	// lote del calculador (dos consultas, no 2n).
	ProductListCalls int
	SalesQueryCalls  int

	// FailAlertTierFor inyecta un error al actualizar el nivel del
	// producto indicado, para probar el aislamiento por producto.
	FailAlertTierFor map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:         make(map[string]*entity.Product),
		companies:        make(map[string]*entity.Company),
		FailAlertTierFor: make(map[string]error),
	}
}

// ── Siembra ──────────────────────────────────────────────────────────────────

// AddProduct registra un producto (copia defensiva).
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

// AddSale registra una venta histórica.
func (s *Store) AddSale(rec entity.SalesRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, &rec)
}

// AddCompany registra una empresa.
func (s *Store) AddCompany(c entity.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.ID] = &c
}

// Product devuelve el estado actual de un producto sin scope (inspección).
func (s *Store) Product(id string) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.products[id]
}

// LedgerEntries devuelve todas las entradas del ledger en orden de llegada.
func (s *Store) LedgerEntries() []*entity.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.LedgerEntry(nil), s.ledger...)
}

// Notifications devuelve todas las notificaciones en orden de llegada.
func (s *Store) Notifications() []*entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.Notification(nil), s.notifications...)
}

// Alerts devuelve todos los registros de alerta en orden de llegada.
func (s *Store) Alerts() []*entity.AlertRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entity.AlertRecord(nil), s.alerts...)
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

// Run emula ledger.TxRunner serializando con txMu.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s, s)
}

// RunSweep emula alerting.SweepTxRunner serializando con txMu.
func (s *Store) RunSweep(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	alertRepo repository.AlertRepository,
	notificationRepo repository.NotificationRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s, s, s.NotificationRepo())
}

// ── ProductRepository ────────────────────────────────────────────────────────

func (s *Store) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *Store) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return s.GetByID(ctx, companyID, id)
}

func (s *Store) ListByCompany(ctx context.Context, companyID string) ([]*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ProductListCalls++
	var list []*entity.Product
	for _, p := range s.products {
		if p.CompanyID == companyID {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return list, nil
}

func (s *Store) UpdateOnHand(ctx context.Context, id string, onHand int64, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.OnHand = onHand
	p.UpdatedAt = updatedAt
	return nil
}

func (s *Store) UpdateReorderPoint(ctx context.Context, id string, reorderPoint int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.ReorderPoint = reorderPoint
	return nil
}

func (s *Store) UpdateAlertTier(ctx context.Context, id, tier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.FailAlertTierFor[id]; ok {
		return err
	}
	p, ok := s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.AlertTier = tier
	return nil
}

// ── LedgerRepository ─────────────────────────────────────────────────────────

func (s *Store) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.ledger = append(s.ledger, &cp)
	return nil
}

func (s *Store) ListByProduct(ctx context.Context, productID string, from, to *time.Time) ([]*entity.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.LedgerEntry
	for _, e := range s.ledger {
		if e.ProductID != productID {
			continue
		}
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && e.CreatedAt.After(*to) {
			continue
		}
		cp := *e
		list = append(list, &cp)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// ── SalesRepository ──────────────────────────────────────────────────────────

func (s *Store) TotalsSoldSince(ctx context.Context, companyID string, since time.Time) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SalesQueryCalls++
	totals := make(map[string]int64)
	for _, rec := range s.sales {
		if rec.CompanyID != companyID || rec.SoldAt.Before(since) {
			continue
		}
		totals[rec.ProductID] += rec.Quantity
	}
	return totals, nil
}

// ── AlertRepository ──────────────────────────────────────────────────────────

func (s *Store) Create(ctx context.Context, record *entity.AlertRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.alerts {
		if rec.ProductID == record.ProductID && !rec.Resolved {
			return domain.ErrConflict
		}
	}
	cp := *record
	s.alerts = append(s.alerts, &cp)
	return nil
}

func (s *Store) ResolveOpen(ctx context.Context, productID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.alerts {
		if rec.ProductID == productID && !rec.Resolved {
			rec.Resolved = true
			t := at
			rec.ResolvedAt = &t
		}
	}
	return nil
}

func (s *Store) ListOpenByCompany(ctx context.Context, companyID string) ([]*entity.AlertRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.AlertRecord
	for _, rec := range s.alerts {
		if rec.CompanyID == companyID && !rec.Resolved {
			cp := *rec
			list = append(list, &cp)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// ── NotificationRepository ───────────────────────────────────────────────────

// NotificationRepo es la vista del almacén que implementa el puerto de
// notificaciones. Create colisiona con el de alertas, de ahí el tipo aparte.
type NotificationRepo struct{ s *Store }

// NotificationRepo devuelve la vista de notificaciones del almacén.
func (s *Store) NotificationRepo() *NotificationRepo { return &NotificationRepo{s: s} }

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *n
	r.s.notifications = append(r.s.notifications, &cp)
	return nil
}

func (r *NotificationRepo) ListUnread(ctx context.Context, companyID string, limit int) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Notification
	for _, n := range r.s.notifications {
		if n.CompanyID == companyID && n.ReadAt == nil {
			cp := *n
			list = append(list, &cp)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].SentAt.After(list[j].SentAt) })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == id && n.CompanyID == companyID {
			if n.ReadAt == nil {
				now := time.Now()
				n.ReadAt = &now
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, companyID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var marked int64
	now := time.Now()
	for _, n := range r.s.notifications {
		if n.CompanyID == companyID && n.ReadAt == nil {
			t := now
			n.ReadAt = &t
			marked++
		}
	}
	return marked, nil
}

func (r *NotificationRepo) Delete(ctx context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, n := range r.s.notifications {
		if n.ID == id && n.CompanyID == companyID {
			r.s.notifications = append(r.s.notifications[:i], r.s.notifications[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── CompanyRepository ────────────────────────────────────────────────────────

// CompanyRepo es la vista del almacén que implementa el directorio de
// empresas; GetByID aquí no lleva scope de tenant.
type CompanyRepo struct{ s *Store }

// CompanyRepo devuelve la vista de empresas del almacén.
func (s *Store) CompanyRepo() *CompanyRepo { return &CompanyRepo{s: s} }

func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CompanyRepo) ListIDs(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(r.s.companies))
	for id := range r.s.companies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

var (
	_ repository.ProductRepository      = (*Store)(nil)
	_ repository.LedgerRepository       = (*Store)(nil)
	_ repository.SalesRepository        = (*Store)(nil)
	_ repository.AlertRepository        = (*Store)(nil)
	_ repository.NotificationRepository = (*NotificationRepo)(nil)
	_ repository.CompanyRepository      = (*CompanyRepo)(nil)
)
