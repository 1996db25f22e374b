package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"samkitchen-backend/internal/domain"
	"samkitchen-backend/pkg/logger"
)

// AssignmentUsecase matches paid orders to riders. At-most-one assignment per
// order is guaranteed by the status compare-and-swap, not by dispatcher
// coordination: concurrent assigns race and exactly one wins.
type AssignmentUsecase struct {
	orders domain.OrderRepository
	riders domain.RiderRepository
}

func NewAssignmentUsecase(orders domain.OrderRepository, riders domain.RiderRepository) *AssignmentUsecase {
	return &AssignmentUsecase{orders: orders, riders: riders}
}

// ListAvailable returns the active riders serving a thana. Ordering is
// unspecified; there is no load balancing.
func (u *AssignmentUsecase) ListAvailable(ctx context.Context, actor domain.ActorContext, thana string) ([]domain.Rider, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	riders, err := u.riders.ListAvailable(ctx, thana)
	if err != nil {
		return nil, err
	}
	if len(riders) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrRiderUnavailable, thana)
	}
	return riders, nil
}

// Assign re-validates the full guard at call time (rider still active and in
// the order's thana, order still not_assigned) and performs the CAS. The
// loser of a concurrent race gets ErrAlreadyAssigned, never a retry loop.
func (u *AssignmentUsecase) Assign(ctx context.Context, actor domain.ActorContext, orderID, riderID string) (*domain.Order, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusNotAssigned {
		if order.AssignedRiderID != nil {
			return nil, domain.ErrAlreadyAssigned
		}
		return nil, &domain.InvalidStateTransitionError{From: order.Status, To: domain.OrderStatusAssigned}
	}

	rider, err := u.riders.GetByID(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if rider.Status != domain.RiderStatusActive {
		return nil, fmt.Errorf("%w: rider %s is not active", domain.ErrRiderUnavailable, riderID)
	}
	// Thana matching is case-insensitive, same rule as the availability list.
	if !strings.EqualFold(rider.ServiceThana, order.Customer.Address.Thana) {
		return nil, fmt.Errorf("%w: rider %s does not serve %s", domain.ErrRiderUnavailable, riderID, order.Customer.Address.Thana)
	}

	now := time.Now().UTC()
	patch := domain.OrderPatch{
		AssignedRiderID: &rider.ID,
		RiderName:       &rider.Name,
		RiderEmail:      &rider.Email,
		AssignedAt:      &now,
	}
	err = u.orders.UpdateStatusCAS(ctx, orderID, domain.OrderStatusNotAssigned, domain.OrderStatusAssigned, patch)
	if err == domain.ErrStaleState {
		// Lost the race: surface "already assigned" when that is what
		// happened, otherwise let the caller re-fetch and decide.
		current, getErr := u.orders.GetByID(ctx, orderID)
		if getErr == nil && current.AssignedRiderID != nil {
			return nil, domain.ErrAlreadyAssigned
		}
		return nil, domain.ErrStaleState
	}
	if err != nil {
		return nil, err
	}

	logger.Get().Info().
		Str("order_id", orderID).
		Str("rider_id", riderID).
		Str("thana", rider.ServiceThana).
		Msg("Rider assigned")

	return u.orders.GetByID(ctx, orderID)
}
