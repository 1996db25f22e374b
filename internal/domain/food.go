package domain

import (
	"context"
	"time"
)

// Food is a catalog entry. Read-only to the order core: it is consulted once
// at order-creation time and its price/discount are frozen into the order.
type Food struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Image           string    `json:"image,omitempty"`
	Price           float64   `json:"price"`
	DiscountPercent float64   `json:"discount"`
	Available       bool      `json:"available"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CartLine is what the customer's device sends at checkout. The cart itself
// is client-held; the server sees it exactly once, at order creation.
type CartLine struct {
	FoodID   string `json:"foodId"`
	Quantity int    `json:"quantity"`
}

type FoodRepository interface {
	GetByID(ctx context.Context, id string) (*Food, error)
	// GetByIDs returns only the foods that exist; callers detect missing ids.
	GetByIDs(ctx context.Context, ids []string) ([]Food, error)
	List(ctx context.Context) ([]Food, error)
}
