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

// RiderUsecase covers the rider lifecycle around the order core:
// self-registration, admin activation, and the rider's delivery listings.
type RiderUsecase struct {
	riders domain.RiderRepository
	orders domain.OrderRepository
}

func NewRiderUsecase(riders domain.RiderRepository, orders domain.OrderRepository) *RiderUsecase {
	return &RiderUsecase{riders: riders, orders: orders}
}

type RegisterRiderReq struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Region       string `json:"region"`
	District     string `json:"district"`
	ServiceThana string `json:"serviceThana"`
}

// Register creates a pending rider. Activation is an admin decision.
func (u *RiderUsecase) Register(ctx context.Context, req RegisterRiderReq) (*domain.Rider, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: rider name and email are required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.ServiceThana) == "" {
		return nil, fmt.Errorf("%w: service thana is required", domain.ErrInvalidInput)
	}

	if existing, err := u.riders.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: rider with email %s already exists", domain.ErrInvalidInput, req.Email)
	}

	now := time.Now().UTC()
	rider := &domain.Rider{
		ID:           utils.GenerateUUID(),
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		Region:       req.Region,
		District:     req.District,
		ServiceThana: req.ServiceThana,
		Status:       domain.RiderStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.riders.Create(ctx, rider); err != nil {
		return nil, fmt.Errorf("register rider: %w", err)
	}

	logger.Get().Info().
		Str("rider_id", rider.ID).
		Str("thana", rider.ServiceThana).
		Msg("Rider registered")

	return rider, nil
}

func (u *RiderUsecase) ListPending(ctx context.Context, actor domain.ActorContext) ([]domain.Rider, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return u.riders.ListPending(ctx)
}

// SetStatus activates or rejects a pending rider.
func (u *RiderUsecase) SetStatus(ctx context.Context, actor domain.ActorContext, riderID string, status domain.RiderStatus) (*domain.Rider, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown rider status %q", domain.ErrInvalidInput, status)
	}
	if _, err := u.riders.GetByID(ctx, riderID); err != nil {
		return nil, err
	}
	if err := u.riders.UpdateStatus(ctx, riderID, status); err != nil {
		return nil, err
	}

	logger.Get().Info().
		Str("rider_id", riderID).
		Str("status", string(status)).
		Msg("Rider status updated")

	return u.riders.GetByID(ctx, riderID)
}

// Deliveries lists the rider's own orders: in-flight (assigned/picked) or
// completed (delivered).
func (u *RiderUsecase) Deliveries(ctx context.Context, actor domain.ActorContext, completed bool) ([]domain.Order, error) {
	if actor.Role != domain.RoleRider {
		return nil, domain.ErrForbidden
	}
	return u.orders.ListByRider(ctx, actor.ID, completed)
}
