package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"samkitchen-backend/internal/domain"
	"samkitchen-backend/internal/gateway"
	"samkitchen-backend/pkg/logger"
	"samkitchen-backend/pkg/utils"
)

// PaymentUsecase unifies the two payment backends behind one idempotent
// confirmation contract. Confirm may be invoked any number of times for the
// same order (back-navigation, webhook retries); exactly one Payment row and
// one pending->not_assigned transition ever happen.
type PaymentUsecase struct {
	orders    domain.OrderRepository
	payments  domain.PaymentRepository
	gateways  gateway.Registry
	txManager domain.TransactionManager
}

func NewPaymentUsecase(orders domain.OrderRepository, payments domain.PaymentRepository, gateways gateway.Registry, txManager domain.TransactionManager) *PaymentUsecase {
	return &PaymentUsecase{
		orders:    orders,
		payments:  payments,
		gateways:  gateways,
		txManager: txManager,
	}
}

// Initiate opens a gateway session for an unpaid pending order. The amount is
// always the order's frozen total, never client input.
func (u *PaymentUsecase) Initiate(ctx context.Context, actor domain.ActorContext, orderID, method string) (*gateway.Session, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrderRead(actor, order); err != nil {
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentStatePaid {
		return nil, domain.ErrAlreadyPaid
	}
	if order.Status != domain.OrderStatusPending {
		return nil, &domain.InvalidStateTransitionError{From: order.Status, To: domain.OrderStatusNotAssigned}
	}

	gw, err := u.gateways.ForMethod(method)
	if err != nil {
		return nil, err
	}
	return gw.Initiate(ctx, order.ID, order.Total)
}

type ConfirmPaymentReq struct {
	OrderID       string  `json:"orderId"`
	TransactionID string  `json:"transactionId"`
	Method        string  `json:"paymentMethod"`
	Amount        float64 `json:"amount"`
}

// Confirm records the externally-confirmed charge. Idempotent keyed by order:
// a repeat confirm, with the same or a different transaction id, returns
// ErrAlreadyPaid without touching state. An amount that disagrees with the
// order total is fatal and mutates nothing.
func (u *PaymentUsecase) Confirm(ctx context.Context, actor domain.ActorContext, req ConfirmPaymentReq) (*domain.Payment, error) {
	order, err := u.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && !strings.EqualFold(order.Customer.Email, actor.Email) {
		return nil, domain.ErrForbidden
	}
	if order.PaymentStatus == domain.PaymentStatePaid {
		return nil, domain.ErrAlreadyPaid
	}
	if req.Amount != order.Total {
		return nil, &domain.AmountMismatchError{OrderID: order.ID, Expected: order.Total, Got: req.Amount}
	}
	if order.Status != domain.OrderStatusPending {
		return nil, &domain.InvalidStateTransitionError{From: order.Status, To: domain.OrderStatusNotAssigned}
	}

	now := time.Now().UTC()
	paid := domain.PaymentStatePaid
	payment := &domain.Payment{
		ID:            utils.GenerateUUID(),
		OrderID:       order.ID,
		Email:         order.Customer.Email,
		Amount:        order.Total,
		TransactionID: req.TransactionID,
		Method:        req.Method,
		Status:        "succeeded",
		CreatedAt:     now,
	}

	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		// The CAS and the unique payment row back each other up: whichever a
		// concurrent confirm loses first rolls back the whole transaction.
		patch := domain.OrderPatch{PaymentStatus: &paid, PaidAt: &now}
		if err := u.orders.UpdateStatusCAS(txCtx, order.ID, domain.OrderStatusPending, domain.OrderStatusNotAssigned, patch); err != nil {
			return err
		}
		return u.payments.Create(txCtx, payment)
	})
	if err != nil {
		return nil, u.classifyConfirmFailure(ctx, err, order.ID)
	}

	logger.Get().Info().
		Str("order_id", order.ID).
		Str("transaction_id", req.TransactionID).
		Float64("amount", payment.Amount).
		Msg("Payment confirmed")

	return payment, nil
}

func (u *PaymentUsecase) GetByOrder(ctx context.Context, actor domain.ActorContext, orderID string) (*domain.Payment, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOrderRead(actor, order); err != nil {
		return nil, err
	}
	return u.payments.GetByOrderID(ctx, orderID)
}

func (u *PaymentUsecase) classifyConfirmFailure(ctx context.Context, txErr error, orderID string) error {
	if errors.Is(txErr, domain.ErrAlreadyPaid) {
		return domain.ErrAlreadyPaid
	}
	if !errors.Is(txErr, domain.ErrStaleState) {
		return txErr
	}
	current, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return txErr
	}
	if current.PaymentStatus == domain.PaymentStatePaid {
		return domain.ErrAlreadyPaid
	}
	if current.Status != domain.OrderStatusPending {
		return &domain.InvalidStateTransitionError{From: current.Status, To: domain.OrderStatusNotAssigned}
	}
	return domain.ErrStaleState
}
