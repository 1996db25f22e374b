package domain

import (
	"context"
	"time"
)

// OrderStatus is a closed enumeration; values outside it are rejected at the
// boundary and every change goes through the transition table below.
type OrderStatus string

const (
	OrderStatusPending     OrderStatus = "pending"
	OrderStatusCancelled   OrderStatus = "cancelled"
	OrderStatusNotAssigned OrderStatus = "not_assigned"
	OrderStatusAssigned    OrderStatus = "assigned"
	OrderStatusPicked      OrderStatus = "picked"
	OrderStatusDelivered   OrderStatus = "delivered"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusCancelled,
	OrderStatusNotAssigned,
	OrderStatusAssigned,
	OrderStatusPicked,
	OrderStatusDelivered,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusDelivered
}

// orderTransitions is the single authoritative edge set. pending->cancelled
// is the only cancellation edge; everything else moves forward.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:     {OrderStatusCancelled, OrderStatusNotAssigned},
	OrderStatusNotAssigned: {OrderStatusAssigned},
	OrderStatusAssigned:    {OrderStatusPicked},
	OrderStatusPicked:      {OrderStatusDelivered},
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns an InvalidStateTransitionError for any edge not in
// the graph, leaving classification to the caller.
func CheckTransition(from, to OrderStatus) error {
	if !CanTransition(from, to) {
		return &InvalidStateTransitionError{From: from, To: to}
	}
	return nil
}

type PaymentState string

const (
	PaymentStateNotPaid PaymentState = "not_paid"
	PaymentStatePaid    PaymentState = "paid"
)

type Address struct {
	Region   string `json:"region"`
	District string `json:"district"`
	Thana    string `json:"thana"`
	Street   string `json:"street"`
}

type Customer struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   Address `json:"address"`
}

// OrderItem is a frozen pricing line: unit price and discount are captured
// from the catalog at creation and never recomputed afterwards.
type OrderItem struct {
	FoodID          string  `json:"foodId"`
	Name            string  `json:"name"`
	Image           string  `json:"image,omitempty"`
	UnitPrice       float64 `json:"price"`
	DiscountPercent float64 `json:"discount"`
	Quantity        int     `json:"quantity"`
	LineSubtotal    float64 `json:"subtotal"`
}

type Order struct {
	ID       string      `json:"id"`
	Customer Customer    `json:"customer"`
	Items    []OrderItem `json:"items"`

	Subtotal       float64 `json:"subtotal"`
	Discount       float64 `json:"discount"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	Total          float64 `json:"total"`

	Status        OrderStatus  `json:"status"`
	PaymentStatus PaymentState `json:"paymentStatus"`
	Note          string       `json:"note,omitempty"`

	AssignedRiderID *string `json:"assignedRiderId,omitempty"`
	RiderName       *string `json:"riderName,omitempty"`
	RiderEmail      *string `json:"riderEmail,omitempty"`

	PlacedAt    time.Time  `json:"placedAt"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	AssignedAt  *time.Time `json:"assignedAt,omitempty"`
	PickedAt    *time.Time `json:"pickedAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
}

type OrderFilter struct {
	Page          int
	Limit         int
	Status        OrderStatus
	PaymentStatus PaymentState
	CustomerEmail string
}

// OrderPatch carries the dependent fields a status transition stamps along
// with the new status. Nil fields are left untouched.
type OrderPatch struct {
	PaymentStatus   *PaymentState
	PaidAt          *time.Time
	AssignedRiderID *string
	RiderName       *string
	RiderEmail      *string
	AssignedAt      *time.Time
	PickedAt        *time.Time
	DeliveredAt     *time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	ListByRider(ctx context.Context, riderID string, completed bool) ([]Order, error)

	// UpdateStatusCAS performs the single atomic compare-and-swap every
	// transition goes through: the row is updated only if its status still
	// equals from. A losing writer gets ErrStaleState and must re-read to
	// classify the outcome; there is no silent overwrite.
	UpdateStatusCAS(ctx context.Context, id string, from, to OrderStatus, patch OrderPatch) error
}

// TransactionManager runs fn inside a single database transaction.
// Repositories resolve the transaction from the context.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
