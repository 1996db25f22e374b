package usecase

import (
	"context"

	"samkitchen-backend/internal/domain"
	"samkitchen-backend/pkg/logger"
)

// CashoutUsecase settles a rider's delivered-but-unsettled earnings. Settling
// is irreversible and never double-pays: a record flips to cashed_out exactly
// once, and repeat calls are safe no-ops.
type CashoutUsecase struct {
	cashouts  domain.CashoutRepository
	txManager domain.TransactionManager
}

func NewCashoutUsecase(cashouts domain.CashoutRepository, txManager domain.TransactionManager) *CashoutUsecase {
	return &CashoutUsecase{cashouts: cashouts, txManager: txManager}
}

// CashoutOrder settles the single record behind one delivered order.
func (u *CashoutUsecase) CashoutOrder(ctx context.Context, actor domain.ActorContext, orderID string) (float64, error) {
	if actor.Role != domain.RoleRider {
		return 0, domain.ErrForbidden
	}
	record, err := u.cashouts.GetByOrderID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if record.RiderID != actor.ID {
		return 0, domain.ErrForbidden
	}
	if record.Status == domain.CashoutStatusCashedOut {
		return 0, domain.ErrAlreadyCashedOut
	}

	earning, err := u.cashouts.SettleByOrder(ctx, actor.ID, orderID)
	if err == domain.ErrStaleState {
		// A concurrent settle got there first.
		return 0, domain.ErrAlreadyCashedOut
	}
	if err != nil {
		return 0, err
	}

	logger.Get().Info().
		Str("rider_id", actor.ID).
		Str("order_id", orderID).
		Float64("earning", earning).
		Msg("Delivery cashed out")

	return earning, nil
}

type CashoutResult struct {
	SettledTotal float64 `json:"settledTotal"`
	SettledCount int     `json:"settledCount"`
}

// RequestCashout batch-settles everything the rider has pending, in one
// transaction. Records created after the batch read simply stay pending for
// the next cashout.
func (u *CashoutUsecase) RequestCashout(ctx context.Context, actor domain.ActorContext) (*CashoutResult, error) {
	if actor.Role != domain.RoleRider {
		return nil, domain.ErrForbidden
	}

	var result CashoutResult
	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		total, count, err := u.cashouts.SettleAllPending(txCtx, actor.ID)
		if err != nil {
			return err
		}
		result = CashoutResult{SettledTotal: total, SettledCount: count}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.SettledCount > 0 {
		logger.Get().Info().
			Str("rider_id", actor.ID).
			Float64("total", result.SettledTotal).
			Int("count", result.SettledCount).
			Msg("Cashout settled")
	}

	return &result, nil
}

// PendingEarnings lists what the rider could cash out right now.
func (u *CashoutUsecase) PendingEarnings(ctx context.Context, actor domain.ActorContext) ([]domain.CashoutRecord, error) {
	if actor.Role != domain.RoleRider {
		return nil, domain.ErrForbidden
	}
	return u.cashouts.ListByRider(ctx, actor.ID, domain.CashoutStatusPending)
}
