package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samkitchen-backend/internal/domain"
)

var (
	customerActor = domain.ActorContext{ID: "cust-1", Email: "alice@example.com", Role: domain.RoleCustomer}
	adminActor    = domain.ActorContext{ID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}
	riderActor    = domain.ActorContext{ID: "rider-1", Email: "rider@example.com", Role: domain.RoleRider}
)

func testCustomer() domain.Customer {
	return domain.Customer{
		FirstName: "Alice",
		LastName:  "Rahman",
		Email:     "alice@example.com",
		Phone:     "01700000000",
		Address: domain.Address{
			Region:   "Dhaka",
			District: "Dhaka",
			Thana:    "Dhanmondi",
			Street:   "Road 27",
		},
	}
}

func pendingOrder(id string) *domain.Order {
	return &domain.Order{
		ID:             id,
		Customer:       testCustomer(),
		Items:          []domain.OrderItem{{FoodID: "a", Name: "food-a", UnitPrice: 100, Quantity: 2, LineSubtotal: 200}},
		Subtotal:       200,
		DeliveryCharge: 30,
		Total:          230,
		Status:         domain.OrderStatusPending,
		PaymentStatus:  domain.PaymentStateNotPaid,
	}
}

func newOrderUsecase(orders *fakeOrderRepo, cashouts *fakeCashoutRepo, foods ...domain.Food) *OrderUsecase {
	engine := NewPricingEngine(newFakeFoodRepo(foods...), DefaultPricingRules())
	return NewOrderUsecase(orders, cashouts, engine, fakeTxManager{})
}

func TestOrderCreate_FreezesQuote(t *testing.T) {
	orders := newFakeOrderRepo()
	uc := newOrderUsecase(orders, newFakeCashoutRepo(), food("a", 100, 10))

	order, err := uc.Create(context.Background(), customerActor, CreateOrderReq{
		Customer: testCustomer(),
		Items:    []domain.CartLine{{FoodID: "a", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentStateNotPaid, order.PaymentStatus)
	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 20.0, order.Discount)
	assert.Equal(t, 30.0, order.DeliveryCharge)
	assert.Equal(t, 210.0, order.Total)
	assert.NotEmpty(t, order.ID)
	assert.False(t, order.PlacedAt.IsZero())

	stored, err := orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Total, stored.Total)
}

func TestOrderCreate_Validation(t *testing.T) {
	uc := newOrderUsecase(newFakeOrderRepo(), newFakeCashoutRepo(), food("a", 100, 0))

	t.Run("empty cart", func(t *testing.T) {
		_, err := uc.Create(context.Background(), customerActor, CreateOrderReq{Customer: testCustomer()})
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
	})

	t.Run("incomplete address", func(t *testing.T) {
		customer := testCustomer()
		customer.Address.Thana = ""
		_, err := uc.Create(context.Background(), customerActor, CreateOrderReq{
			Customer: customer,
			Items:    []domain.CartLine{{FoodID: "a", Quantity: 1}},
		})
		assert.Error(t, err)
	})

	t.Run("rider cannot place orders", func(t *testing.T) {
		_, err := uc.Create(context.Background(), riderActor, CreateOrderReq{
			Customer: testCustomer(),
			Items:    []domain.CartLine{{FoodID: "a", Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestOrderCancel(t *testing.T) {
	t.Run("pending order cancels", func(t *testing.T) {
		orders := newFakeOrderRepo(pendingOrder("o1"))
		uc := newOrderUsecase(orders, newFakeCashoutRepo())

		order, err := uc.Cancel(context.Background(), customerActor, "o1")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	})

	t.Run("paid order cannot cancel", func(t *testing.T) {
		o := pendingOrder("o1")
		o.Status = domain.OrderStatusNotAssigned
		o.PaymentStatus = domain.PaymentStatePaid
		uc := newOrderUsecase(newFakeOrderRepo(o), newFakeCashoutRepo())

		var transitionErr *domain.InvalidStateTransitionError
		_, err := uc.Cancel(context.Background(), customerActor, "o1")
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, domain.OrderStatusNotAssigned, transitionErr.From)
	})

	t.Run("other customer forbidden", func(t *testing.T) {
		uc := newOrderUsecase(newFakeOrderRepo(pendingOrder("o1")), newFakeCashoutRepo())

		other := domain.ActorContext{ID: "cust-2", Email: "bob@example.com", Role: domain.RoleCustomer}
		_, err := uc.Cancel(context.Background(), other, "o1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestUpdateDeliveryStatus(t *testing.T) {
	assignedOrder := func() *domain.Order {
		o := pendingOrder("o1")
		o.Status = domain.OrderStatusAssigned
		o.PaymentStatus = domain.PaymentStatePaid
		riderID := riderActor.ID
		o.AssignedRiderID = &riderID
		return o
	}

	t.Run("assigned to picked", func(t *testing.T) {
		uc := newOrderUsecase(newFakeOrderRepo(assignedOrder()), newFakeCashoutRepo())

		order, err := uc.UpdateDeliveryStatus(context.Background(), riderActor, "o1", domain.OrderStatusPicked)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPicked, order.Status)
		assert.NotNil(t, order.PickedAt)
	})

	t.Run("delivered creates the cashout record", func(t *testing.T) {
		o := assignedOrder()
		o.Status = domain.OrderStatusPicked
		cashouts := newFakeCashoutRepo()
		uc := newOrderUsecase(newFakeOrderRepo(o), cashouts)

		order, err := uc.UpdateDeliveryStatus(context.Background(), riderActor, "o1", domain.OrderStatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusDelivered, order.Status)

		record, err := cashouts.GetByOrderID(context.Background(), "o1")
		require.NoError(t, err)
		assert.Equal(t, riderActor.ID, record.RiderID)
		assert.Equal(t, 30.0, record.Earning)
		assert.Equal(t, domain.CashoutStatusPending, record.Status)
	})

	t.Run("skipping picked is rejected", func(t *testing.T) {
		uc := newOrderUsecase(newFakeOrderRepo(assignedOrder()), newFakeCashoutRepo())

		var transitionErr *domain.InvalidStateTransitionError
		_, err := uc.UpdateDeliveryStatus(context.Background(), riderActor, "o1", domain.OrderStatusDelivered)
		require.ErrorAs(t, err, &transitionErr)
	})

	t.Run("wrong rider forbidden", func(t *testing.T) {
		uc := newOrderUsecase(newFakeOrderRepo(assignedOrder()), newFakeCashoutRepo())

		other := domain.ActorContext{ID: "rider-2", Role: domain.RoleRider}
		_, err := uc.UpdateDeliveryStatus(context.Background(), other, "o1", domain.OrderStatusPicked)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestDeliveryEarning(t *testing.T) {
	t.Run("frozen charge wins", func(t *testing.T) {
		o := pendingOrder("o1")
		o.DeliveryCharge = 50
		assert.Equal(t, 50.0, DeliveryEarning(o))
	})

	t.Run("free-delivery order falls back on the schedule", func(t *testing.T) {
		o := pendingOrder("o1")
		o.DeliveryCharge = 0
		assert.Equal(t, 30.0, DeliveryEarning(o))

		o.Items = append(o.Items, domain.OrderItem{FoodID: "b"})
		assert.Equal(t, 50.0, DeliveryEarning(o))
	})
}

func TestOrderList_CustomerScopedToOwnEmail(t *testing.T) {
	mine := pendingOrder("o1")
	theirs := pendingOrder("o2")
	theirs.Customer.Email = "bob@example.com"
	uc := newOrderUsecase(newFakeOrderRepo(mine, theirs), newFakeCashoutRepo())

	orders, total, err := uc.List(context.Background(), customerActor, domain.OrderFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)

	orders, total, err = uc.List(context.Background(), adminActor, domain.OrderFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, orders, 2)
}
