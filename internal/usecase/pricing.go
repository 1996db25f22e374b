package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"samkitchen-backend/internal/domain"
)

// PricingRules are the configurable business constants of the pricing engine.
type PricingRules struct {
	SingleLineCharge      float64
	MultiLineCharge       float64
	FreeDeliveryThreshold float64
}

// DefaultPricingRules mirrors production: 30 for one line, 50 for more,
// free delivery from 1000 up.
func DefaultPricingRules() PricingRules {
	return PricingRules{
		SingleLineCharge:      30,
		MultiLineCharge:       50,
		FreeDeliveryThreshold: 1000,
	}
}

// Quote is the immutable financial snapshot produced at order-creation time.
// Nothing in it is ever recomputed from a live catalog.
type Quote struct {
	Items          []domain.OrderItem
	Subtotal       float64
	Discount       float64
	DeliveryCharge float64
	Total          float64
}

// PricingEngine prices a cart against a point-in-time catalog read.
type PricingEngine struct {
	foods domain.FoodRepository
	rules PricingRules
}

func NewPricingEngine(foods domain.FoodRepository, rules PricingRules) *PricingEngine {
	return &PricingEngine{foods: foods, rules: rules}
}

// PriceCart fetches the referenced foods once and prices the cart.
// Any missing or unavailable food fails the whole quote.
func (e *PricingEngine) PriceCart(ctx context.Context, lines []domain.CartLine) (*Quote, error) {
	lines = mergeLines(lines)

	ids := make([]string, len(lines))
	for i, line := range lines {
		if line.Quantity < 1 {
			return nil, &domain.UnavailableItemError{FoodID: line.FoodID}
		}
		ids[i] = line.FoodID
	}

	foods, err := e.foods.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Food, len(foods))
	for _, f := range foods {
		byID[f.ID] = f
	}

	return e.price(lines, byID)
}

// price computes the quote from already-resolved foods. Arithmetic runs on
// decimals; each monetary output is rounded to two places exactly once, at
// the end, so intermediate rounding drift cannot compound.
func (e *PricingEngine) price(lines []domain.CartLine, byID map[string]domain.Food) (*Quote, error) {
	var (
		subtotal = decimal.Zero
		discount = decimal.Zero
		hundred  = decimal.NewFromInt(100)
	)

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		food, ok := byID[line.FoodID]
		if !ok || !food.Available {
			return nil, &domain.UnavailableItemError{FoodID: line.FoodID}
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		price := decimal.NewFromFloat(food.Price)
		pct := decimal.NewFromFloat(food.DiscountPercent)

		lineDiscount := price.Mul(pct).Div(hundred).Mul(qty)
		lineSubtotal := price.Mul(qty).Sub(lineDiscount)

		// Subtotal reflects pre-discount pricing; the per-line discount is
		// accumulated separately so subtotal-discount is the goods total.
		subtotal = subtotal.Add(price.Mul(qty))
		discount = discount.Add(lineDiscount)

		items = append(items, domain.OrderItem{
			FoodID:          food.ID,
			Name:            food.Name,
			Image:           food.Image,
			UnitPrice:       food.Price,
			DiscountPercent: food.DiscountPercent,
			Quantity:        line.Quantity,
			LineSubtotal:    round2(lineSubtotal),
		})
	}

	candidate := e.candidateCharge(len(items))

	// The threshold test uses the candidate charge, never a pre- or
	// post-zeroed value.
	total := subtotal.Sub(discount).Add(candidate)
	charge := candidate
	if total.GreaterThanOrEqual(decimal.NewFromFloat(e.rules.FreeDeliveryThreshold)) {
		charge = decimal.Zero
		total = subtotal.Sub(discount)
	}

	return &Quote{
		Items:          items,
		Subtotal:       round2(subtotal),
		Discount:       round2(discount),
		DeliveryCharge: round2(charge),
		Total:          round2(total),
	}, nil
}

func (e *PricingEngine) candidateCharge(distinctLines int) decimal.Decimal {
	switch {
	case distinctLines == 0:
		return decimal.Zero
	case distinctLines == 1:
		return decimal.NewFromFloat(e.rules.SingleLineCharge)
	default:
		return decimal.NewFromFloat(e.rules.MultiLineCharge)
	}
}

// mergeLines collapses duplicate food ids by summing quantities, so the
// distinct-line count matches what the customer's cart shows.
func mergeLines(lines []domain.CartLine) []domain.CartLine {
	merged := make([]domain.CartLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		if i, ok := index[line.FoodID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.FoodID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// round2 applies standard round-half-up to two decimal places.
func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
