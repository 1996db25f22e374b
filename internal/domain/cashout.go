package domain

import (
	"context"
	"time"
)

type CashoutStatus string

const (
	CashoutStatusPending   CashoutStatus = "pending_cashout"
	CashoutStatusCashedOut CashoutStatus = "cashed_out"
)

// CashoutRecord is created exactly once when an order reaches delivered and
// is mutated exactly once, to cashed_out. It is the rider's earning ledger.
type CashoutRecord struct {
	ID          string        `json:"id"`
	RiderID     string        `json:"riderId"`
	OrderID     string        `json:"orderId"`
	Earning     float64       `json:"earning"`
	Status      CashoutStatus `json:"cashoutStatus"`
	CreatedAt   time.Time     `json:"createdAt"`
	CashedOutAt *time.Time    `json:"cashedOutAt,omitempty"`
}

type CashoutRepository interface {
	// Create inserts the record for a delivered order. A second record for
	// the same order violates the unique order_id index and is reported as
	// a plain error since deliveries happen once.
	Create(ctx context.Context, record *CashoutRecord) error
	GetByOrderID(ctx context.Context, orderID string) (*CashoutRecord, error)
	ListByRider(ctx context.Context, riderID string, status CashoutStatus) ([]CashoutRecord, error)

	// SettleByOrder flips one pending record to cashed_out and returns its
	// earning; ErrStaleState when the record is no longer pending.
	SettleByOrder(ctx context.Context, riderID, orderID string) (float64, error)

	// SettleAllPending atomically flips every pending record of the rider
	// and returns the settled total and count. Safe to call repeatedly.
	SettleAllPending(ctx context.Context, riderID string) (total float64, count int, err error)
}
