package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"samkitchen-backend/internal/domain"
)

// In-memory repositories with the same concurrency contract as the real
// ones: every mutation happens under a lock and the order CAS fails with
// ErrStaleState when the expected status no longer matches.

type fakeFoodRepo struct {
	mu    sync.Mutex
	foods map[string]domain.Food
}

func newFakeFoodRepo(foods ...domain.Food) *fakeFoodRepo {
	r := &fakeFoodRepo{foods: make(map[string]domain.Food)}
	for _, f := range foods {
		r.foods[f.ID] = f
	}
	return r
}

func (r *fakeFoodRepo) GetByID(_ context.Context, id string) (*domain.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.foods[id]
	if !ok {
		return nil, fmt.Errorf("food %s: %w", id, domain.ErrNotFound)
	}
	return &f, nil
}

func (r *fakeFoodRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Food
	for _, id := range ids {
		if f, ok := r.foods[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFoodRepo) List(_ context.Context) ([]domain.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Food, 0, len(r.foods))
	for _, f := range r.foods {
		out = append(out, f)
	}
	return out, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*domain.Order)}
	for _, o := range orders {
		cp := *o
		r.orders[o.ID] = &cp
	}
	return r
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if filter.CustomerEmail != "" && !strings.EqualFold(o.Customer.Email, filter.CustomerEmail) {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) ListByRider(_ context.Context, riderID string, completed bool) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.AssignedRiderID == nil || *o.AssignedRiderID != riderID {
			continue
		}
		delivered := o.Status == domain.OrderStatusDelivered
		if delivered == completed {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatusCAS(_ context.Context, id string, from, to domain.OrderStatus, patch domain.OrderPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return domain.ErrStaleState
	}
	o.Status = to
	if patch.PaymentStatus != nil {
		o.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaidAt != nil {
		o.PaidAt = patch.PaidAt
	}
	if patch.AssignedRiderID != nil {
		o.AssignedRiderID = patch.AssignedRiderID
	}
	if patch.RiderName != nil {
		o.RiderName = patch.RiderName
	}
	if patch.RiderEmail != nil {
		o.RiderEmail = patch.RiderEmail
	}
	if patch.AssignedAt != nil {
		o.AssignedAt = patch.AssignedAt
	}
	if patch.PickedAt != nil {
		o.PickedAt = patch.PickedAt
	}
	if patch.DeliveredAt != nil {
		o.DeliveredAt = patch.DeliveredAt
	}
	return nil
}

type fakeRiderRepo struct {
	mu     sync.Mutex
	riders map[string]*domain.Rider
}

func newFakeRiderRepo(riders ...*domain.Rider) *fakeRiderRepo {
	r := &fakeRiderRepo{riders: make(map[string]*domain.Rider)}
	for _, rd := range riders {
		cp := *rd
		r.riders[rd.ID] = &cp
	}
	return r
}

func (r *fakeRiderRepo) Create(_ context.Context, rider *domain.Rider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rider
	r.riders[rider.ID] = &cp
	return nil
}

func (r *fakeRiderRepo) GetByID(_ context.Context, id string) (*domain.Rider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rd, ok := r.riders[id]
	if !ok {
		return nil, fmt.Errorf("rider %s: %w", id, domain.ErrNotFound)
	}
	cp := *rd
	return &cp, nil
}

func (r *fakeRiderRepo) GetByEmail(_ context.Context, email string) (*domain.Rider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rd := range r.riders {
		if strings.EqualFold(rd.Email, email) {
			cp := *rd
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("rider %s: %w", email, domain.ErrNotFound)
}

func (r *fakeRiderRepo) ListPending(_ context.Context) ([]domain.Rider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Rider
	for _, rd := range r.riders {
		if rd.Status == domain.RiderStatusPending {
			out = append(out, *rd)
		}
	}
	return out, nil
}

func (r *fakeRiderRepo) ListAvailable(_ context.Context, thana string) ([]domain.Rider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Rider
	for _, rd := range r.riders {
		if rd.Status == domain.RiderStatusActive && strings.EqualFold(rd.ServiceThana, thana) {
			out = append(out, *rd)
		}
	}
	return out, nil
}

func (r *fakeRiderRepo) UpdateStatus(_ context.Context, id string, status domain.RiderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rd, ok := r.riders[id]
	if !ok {
		return fmt.Errorf("rider %s: %w", id, domain.ErrNotFound)
	}
	rd.Status = status
	return nil
}

type fakePaymentRepo struct {
	mu      sync.Mutex
	byOrder map[string]*domain.Payment
	created int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byOrder: make(map[string]*domain.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byOrder[payment.OrderID]; exists {
		return fmt.Errorf("order %s: %w", payment.OrderID, domain.ErrAlreadyPaid)
	}
	cp := *payment
	r.byOrder[payment.OrderID] = &cp
	r.created++
	return nil
}

func (r *fakePaymentRepo) GetByOrderID(_ context.Context, orderID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byOrder[orderID]
	if !ok {
		return nil, fmt.Errorf("payment for order %s: %w", orderID, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) ListByEmail(_ context.Context, email string) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Payment
	for _, p := range r.byOrder {
		if strings.EqualFold(p.Email, email) {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeCashoutRepo struct {
	mu      sync.Mutex
	byOrder map[string]*domain.CashoutRecord
}

func newFakeCashoutRepo(records ...*domain.CashoutRecord) *fakeCashoutRepo {
	r := &fakeCashoutRepo{byOrder: make(map[string]*domain.CashoutRecord)}
	for _, rec := range records {
		cp := *rec
		r.byOrder[rec.OrderID] = &cp
	}
	return r
}

func (r *fakeCashoutRepo) Create(_ context.Context, record *domain.CashoutRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byOrder[record.OrderID]; exists {
		return fmt.Errorf("cashout for order %s already exists", record.OrderID)
	}
	cp := *record
	r.byOrder[record.OrderID] = &cp
	return nil
}

func (r *fakeCashoutRepo) GetByOrderID(_ context.Context, orderID string) (*domain.CashoutRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byOrder[orderID]
	if !ok {
		return nil, fmt.Errorf("cashout for order %s: %w", orderID, domain.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeCashoutRepo) ListByRider(_ context.Context, riderID string, status domain.CashoutStatus) ([]domain.CashoutRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CashoutRecord
	for _, rec := range r.byOrder {
		if rec.RiderID == riderID && rec.Status == status {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeCashoutRepo) SettleByOrder(_ context.Context, riderID, orderID string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byOrder[orderID]
	if !ok || rec.RiderID != riderID || rec.Status != domain.CashoutStatusPending {
		return 0, domain.ErrStaleState
	}
	now := time.Now().UTC()
	rec.Status = domain.CashoutStatusCashedOut
	rec.CashedOutAt = &now
	return rec.Earning, nil
}

func (r *fakeCashoutRepo) SettleAllPending(_ context.Context, riderID string) (float64, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var (
		total float64
		count int
	)
	now := time.Now().UTC()
	for _, rec := range r.byOrder {
		if rec.RiderID == riderID && rec.Status == domain.CashoutStatusPending {
			rec.Status = domain.CashoutStatusCashedOut
			rec.CashedOutAt = &now
			total += rec.Earning
			count++
		}
	}
	return total, count, nil
}

// fakeTxManager runs the function directly; the fakes are individually
// atomic, which is enough for these tests.
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string]interface{})}
}

func (c *fakeCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value interface{}, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *fakeCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *fakeCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]interface{})
}
