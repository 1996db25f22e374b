package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samkitchen-backend/internal/domain"
)

func food(id string, price, discountPct float64) domain.Food {
	return domain.Food{ID: id, Name: "food-" + id, Price: price, DiscountPercent: discountPct, Available: true}
}

func newTestEngine(foods ...domain.Food) *PricingEngine {
	return NewPricingEngine(newFakeFoodRepo(foods...), DefaultPricingRules())
}

func TestPriceCart_SingleLineWithDiscount(t *testing.T) {
	// 2 x 100 at 10% off: subtotal 200, discount 20, charge 30, total 210.
	engine := newTestEngine(food("a", 100, 10))

	quote, err := engine.PriceCart(context.Background(), []domain.CartLine{{FoodID: "a", Quantity: 2}})
	require.NoError(t, err)

	assert.Equal(t, 200.0, quote.Subtotal)
	assert.Equal(t, 20.0, quote.Discount)
	assert.Equal(t, 30.0, quote.DeliveryCharge)
	assert.Equal(t, 210.0, quote.Total)

	require.Len(t, quote.Items, 1)
	assert.Equal(t, 180.0, quote.Items[0].LineSubtotal)
	assert.Equal(t, 100.0, quote.Items[0].UnitPrice)
	assert.Equal(t, 10.0, quote.Items[0].DiscountPercent)
}

func TestPriceCart_ThresholdUsesCandidateCharge(t *testing.T) {
	t.Run("single line 980 crosses with 30 candidate", func(t *testing.T) {
		// 980 + 30 = 1010 >= 1000, so delivery is free and total stays 980.
		engine := newTestEngine(food("a", 980, 0))

		quote, err := engine.PriceCart(context.Background(), []domain.CartLine{{FoodID: "a", Quantity: 1}})
		require.NoError(t, err)
		assert.Equal(t, 0.0, quote.DeliveryCharge)
		assert.Equal(t, 980.0, quote.Total)
	})

	t.Run("two lines 950 crosses with 50 candidate", func(t *testing.T) {
		engine := newTestEngine(food("a", 500, 0), food("b", 450, 0))

		quote, err := engine.PriceCart(context.Background(), []domain.CartLine{
			{FoodID: "a", Quantity: 1},
			{FoodID: "b", Quantity: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, quote.DeliveryCharge)
		assert.Equal(t, 950.0, quote.Total)
	})

	t.Run("below threshold keeps the charge", func(t *testing.T) {
		engine := newTestEngine(food("a", 900, 0))

		quote, err := engine.PriceCart(context.Background(), []domain.CartLine{{FoodID: "a", Quantity: 1}})
		require.NoError(t, err)
		assert.Equal(t, 30.0, quote.DeliveryCharge)
		assert.Equal(t, 930.0, quote.Total)
	})
}

func TestPriceCart_ChargeByDistinctLines(t *testing.T) {
	engine := newTestEngine(food("a", 100, 0), food("b", 100, 0))

	t.Run("one line", func(t *testing.T) {
		quote, err := engine.PriceCart(context.Background(), []domain.CartLine{{FoodID: "a", Quantity: 5}})
		require.NoError(t, err)
		assert.Equal(t, 30.0, quote.DeliveryCharge)
	})

	t.Run("two lines", func(t *testing.T) {
		quote, err := engine.PriceCart(context.Background(), []domain.CartLine{
			{FoodID: "a", Quantity: 1},
			{FoodID: "b", Quantity: 1},
		})
		require.NoError(t, err)
		assert.Equal(t, 50.0, quote.DeliveryCharge)
	})

	t.Run("duplicate ids merge into one line", func(t *testing.T) {
		quote, err := engine.PriceCart(context.Background(), []domain.CartLine{
			{FoodID: "a", Quantity: 1},
			{FoodID: "a", Quantity: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, 30.0, quote.DeliveryCharge)
		require.Len(t, quote.Items, 1)
		assert.Equal(t, 3, quote.Items[0].Quantity)
	})
}

func TestPriceCart_RoundsHalfUpOnce(t *testing.T) {
	// 3 x 33.335 = 100.005, which rounds half-up to 100.01.
	engine := newTestEngine(food("a", 33.335, 0))

	quote, err := engine.PriceCart(context.Background(), []domain.CartLine{{FoodID: "a", Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, 100.01, quote.Subtotal)
}

func TestPriceCart_UnavailableOrMissingFood(t *testing.T) {
	unavailable := food("b", 50, 0)
	unavailable.Available = false
	engine := newTestEngine(food("a", 100, 0), unavailable)

	var unavailableErr *domain.UnavailableItemError

	_, err := engine.PriceCart(context.Background(), []domain.CartLine{
		{FoodID: "a", Quantity: 1},
		{FoodID: "b", Quantity: 1},
	})
	require.ErrorAs(t, err, &unavailableErr)
	assert.Equal(t, "b", unavailableErr.FoodID)

	_, err = engine.PriceCart(context.Background(), []domain.CartLine{{FoodID: "missing", Quantity: 1}})
	require.ErrorAs(t, err, &unavailableErr)
	assert.Equal(t, "missing", unavailableErr.FoodID)
}

func TestPriceCart_RejectsNonPositiveQuantity(t *testing.T) {
	engine := newTestEngine(food("a", 100, 0))

	var unavailableErr *domain.UnavailableItemError
	_, err := engine.PriceCart(context.Background(), []domain.CartLine{{FoodID: "a", Quantity: 0}})
	require.ErrorAs(t, err, &unavailableErr)
}
