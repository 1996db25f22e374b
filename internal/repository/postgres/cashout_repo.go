package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"samkitchen-backend/internal/domain"
)

type cashoutRepository struct {
	db *pgxpool.Pool
}

func NewCashoutRepository(db *pgxpool.Pool) domain.CashoutRepository {
	return &cashoutRepository{db: db}
}

const cashoutColumns = `id, rider_id, order_id, earning, status, created_at, cashed_out_at`

func scanCashout(row pgx.Row) (*domain.CashoutRecord, error) {
	var (
		c      domain.CashoutRecord
		status string
	)
	err := row.Scan(&c.ID, &c.RiderID, &c.OrderID, &c.Earning, &status, &c.CreatedAt, &c.CashedOutAt)
	if err != nil {
		return nil, err
	}
	c.Status = domain.CashoutStatus(status)
	return &c, nil
}

func (r *cashoutRepository) Create(ctx context.Context, record *domain.CashoutRecord) error {
	_, err := q(ctx, r.db).Exec(ctx, `
		INSERT INTO cashouts (id, rider_id, order_id, earning, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.RiderID, record.OrderID, record.Earning, string(record.Status), record.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("cashout for order %s already exists", record.OrderID)
	}
	return err
}

func (r *cashoutRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.CashoutRecord, error) {
	row := q(ctx, r.db).QueryRow(ctx, `SELECT `+cashoutColumns+` FROM cashouts WHERE order_id = $1`, orderID)
	record, err := scanCashout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cashout for order %s: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *cashoutRepository) ListByRider(ctx context.Context, riderID string, status domain.CashoutStatus) ([]domain.CashoutRecord, error) {
	rows, err := q(ctx, r.db).Query(ctx, `
		SELECT `+cashoutColumns+` FROM cashouts
		WHERE rider_id = $1 AND status = $2
		ORDER BY created_at DESC`,
		riderID, string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.CashoutRecord
	for rows.Next() {
		c, err := scanCashout(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *c)
	}
	return records, rows.Err()
}

// SettleByOrder flips the record in the same guarded-update shape the order
// status CAS uses; only a still-pending row settles.
func (r *cashoutRepository) SettleByOrder(ctx context.Context, riderID, orderID string) (float64, error) {
	var earning float64
	err := q(ctx, r.db).QueryRow(ctx, `
		UPDATE cashouts
		SET status = $3, cashed_out_at = now()
		WHERE rider_id = $1 AND order_id = $2 AND status = $4
		RETURNING earning`,
		riderID, orderID, string(domain.CashoutStatusCashedOut), string(domain.CashoutStatusPending),
	).Scan(&earning)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrStaleState
	}
	if err != nil {
		return 0, err
	}
	return earning, nil
}

func (r *cashoutRepository) SettleAllPending(ctx context.Context, riderID string) (float64, int, error) {
	rows, err := q(ctx, r.db).Query(ctx, `
		UPDATE cashouts
		SET status = $2, cashed_out_at = now()
		WHERE rider_id = $1 AND status = $3
		RETURNING earning`,
		riderID, string(domain.CashoutStatusCashedOut), string(domain.CashoutStatusPending),
	)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	var (
		total float64
		count int
	)
	for rows.Next() {
		var earning float64
		if err := rows.Scan(&earning); err != nil {
			return 0, 0, err
		}
		total += earning
		count++
	}
	return total, count, rows.Err()
}
