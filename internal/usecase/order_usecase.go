package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"samkitchen-backend/internal/domain"
	"samkitchen-backend/pkg/logger"
	"samkitchen-backend/pkg/utils"
)

// OrderUsecase is the order ledger: it owns order creation, cancellation and
// the rider-driven picked/delivered progression. Every transition funnels
// through the repository's compare-and-swap.
type OrderUsecase struct {
	orders    domain.OrderRepository
	cashouts  domain.CashoutRepository
	pricing   *PricingEngine
	txManager domain.TransactionManager
}

func NewOrderUsecase(orders domain.OrderRepository, cashouts domain.CashoutRepository, pricing *PricingEngine, txManager domain.TransactionManager) *OrderUsecase {
	return &OrderUsecase{
		orders:    orders,
		cashouts:  cashouts,
		pricing:   pricing,
		txManager: txManager,
	}
}

type CreateOrderReq struct {
	Customer domain.Customer   `json:"customer"`
	Items    []domain.CartLine `json:"items"`
	Note     string            `json:"note,omitempty"`
}

func (req *CreateOrderReq) validate() error {
	if len(req.Items) == 0 {
		return domain.ErrEmptyCart
	}
	c := req.Customer
	if strings.TrimSpace(c.FirstName) == "" || strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: customer name and email are required", domain.ErrInvalidInput)
	}
	a := c.Address
	if a.Region == "" || a.District == "" || a.Thana == "" || a.Street == "" {
		return fmt.Errorf("%w: delivery address is incomplete", domain.ErrInvalidInput)
	}
	return nil
}

// Create prices the cart against a point-in-time catalog read and freezes the
// quote into a new pending order. The cart is consumed here and never seen
// again by the server.
func (u *OrderUsecase) Create(ctx context.Context, actor domain.ActorContext, req CreateOrderReq) (*domain.Order, error) {
	if actor.Role != domain.RoleCustomer && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	quote, err := u.pricing.PriceCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:             utils.GenerateUUID(),
		Customer:       req.Customer,
		Items:          quote.Items,
		Subtotal:       quote.Subtotal,
		Discount:       quote.Discount,
		DeliveryCharge: quote.DeliveryCharge,
		Total:          quote.Total,
		Status:         domain.OrderStatusPending,
		PaymentStatus:  domain.PaymentStateNotPaid,
		Note:           req.Note,
		PlacedAt:       time.Now().UTC(),
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	logger.Get().Info().
		Str("order_id", order.ID).
		Str("customer", order.Customer.Email).
		Float64("total", order.Total).
		Msg("Order placed")

	return order, nil
}

func (u *OrderUsecase) Get(ctx context.Context, actor domain.ActorContext, id string) (*domain.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrderRead(actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns the actor's own orders for customers and a filtered listing
// for admins; the dispatcher's assignable view is the
// status=not_assigned + paymentStatus=paid filter.
func (u *OrderUsecase) List(ctx context.Context, actor domain.ActorContext, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	if actor.Role != domain.RoleAdmin {
		filter.CustomerEmail = actor.Email
	}
	return u.orders.List(ctx, filter)
}

// Cancel is the customer's single escape hatch, valid only while pending.
func (u *OrderUsecase) Cancel(ctx context.Context, actor domain.ActorContext, id string) (*domain.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && !strings.EqualFold(order.Customer.Email, actor.Email) {
		return nil, domain.ErrForbidden
	}
	if err := domain.CheckTransition(order.Status, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}

	err = u.orders.UpdateStatusCAS(ctx, id, domain.OrderStatusPending, domain.OrderStatusCancelled, domain.OrderPatch{})
	if err != nil {
		return nil, u.classifyCASFailure(ctx, err, id, domain.OrderStatusCancelled)
	}

	logger.Get().Info().Str("order_id", id).Msg("Order cancelled")
	return u.orders.GetByID(ctx, id)
}

// UpdateDeliveryStatus moves an assigned order forward on behalf of its
// rider: assigned->picked, picked->delivered. Reaching delivered creates the
// rider's cashout record in the same transaction.
func (u *OrderUsecase) UpdateDeliveryStatus(ctx context.Context, actor domain.ActorContext, id string, to domain.OrderStatus) (*domain.Order, error) {
	if actor.Role != domain.RoleRider {
		return nil, domain.ErrForbidden
	}
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.AssignedRiderID == nil || *order.AssignedRiderID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if err := domain.CheckTransition(order.Status, to); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch to {
	case domain.OrderStatusPicked:
		err = u.orders.UpdateStatusCAS(ctx, id, domain.OrderStatusAssigned, to, domain.OrderPatch{PickedAt: &now})
	case domain.OrderStatusDelivered:
		err = u.txManager.Do(ctx, func(txCtx context.Context) error {
			if err := u.orders.UpdateStatusCAS(txCtx, id, domain.OrderStatusPicked, to, domain.OrderPatch{DeliveredAt: &now}); err != nil {
				return err
			}
			record := &domain.CashoutRecord{
				ID:        utils.GenerateUUID(),
				RiderID:   actor.ID,
				OrderID:   order.ID,
				Earning:   DeliveryEarning(order),
				Status:    domain.CashoutStatusPending,
				CreatedAt: now,
			}
			return u.cashouts.Create(txCtx, record)
		})
	default:
		return nil, &domain.InvalidStateTransitionError{From: order.Status, To: to}
	}
	if err != nil {
		return nil, u.classifyCASFailure(ctx, err, id, to)
	}

	logger.Get().Info().
		Str("order_id", id).
		Str("rider_id", actor.ID).
		Str("status", string(to)).
		Msg("Delivery status updated")

	return u.orders.GetByID(ctx, id)
}

// classifyCASFailure turns a lost compare-and-swap into the most useful
// outcome for the caller: the order already moved to the requested status, a
// concrete invalid edge, or a genuine race to retry.
func (u *OrderUsecase) classifyCASFailure(ctx context.Context, casErr error, id string, to domain.OrderStatus) error {
	if casErr != domain.ErrStaleState {
		return casErr
	}
	current, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return casErr
	}
	if current.Status == to {
		switch to {
		case domain.OrderStatusAssigned:
			return domain.ErrAlreadyAssigned
		default:
			return &domain.InvalidStateTransitionError{From: current.Status, To: to}
		}
	}
	if !domain.CanTransition(current.Status, to) {
		return &domain.InvalidStateTransitionError{From: current.Status, To: to}
	}
	return domain.ErrStaleState
}

func authorizeOrderRead(actor domain.ActorContext, order *domain.Order) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleCustomer:
		if strings.EqualFold(order.Customer.Email, actor.Email) {
			return nil
		}
	case domain.RoleRider:
		if order.AssignedRiderID != nil && *order.AssignedRiderID == actor.ID {
			return nil
		}
	}
	return domain.ErrForbidden
}

// DeliveryEarning is what the rider earns for a delivered order: the frozen
// delivery charge when present, otherwise the historical schedule for orders
// that predate the deliveryCharge field.
func DeliveryEarning(order *domain.Order) float64 {
	if order.DeliveryCharge > 0 {
		return order.DeliveryCharge
	}
	if len(order.Items) > 1 {
		return 50
	}
	return 30
}
