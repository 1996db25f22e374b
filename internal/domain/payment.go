package domain

import (
	"context"
	"time"
)

// Payment is append-only: exactly one row per paid order, created by the
// idempotent confirmation path.
type Payment struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"orderId"`
	Email         string    `json:"email"`
	Amount        float64   `json:"amount"`
	TransactionID string    `json:"transactionId"`
	Method        string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PaymentRepository interface {
	// Create returns ErrAlreadyPaid when a payment row for the order already
	// exists (unique order_id), which is what makes concurrent confirms safe.
	Create(ctx context.Context, payment *Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*Payment, error)
	ListByEmail(ctx context.Context, email string) ([]Payment, error)
}
