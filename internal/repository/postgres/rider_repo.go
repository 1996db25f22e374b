package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"samkitchen-backend/internal/domain"
)

type riderRepository struct {
	db *pgxpool.Pool
}

func NewRiderRepository(db *pgxpool.Pool) domain.RiderRepository {
	return &riderRepository{db: db}
}

const riderColumns = `id, name, email, phone, region, district, service_thana, status, created_at, updated_at`

func scanRider(row pgx.Row) (*domain.Rider, error) {
	var (
		r      domain.Rider
		status string
	)
	err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.Region, &r.District, &r.ServiceThana, &status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Status = domain.RiderStatus(status)
	return &r, nil
}

func (r *riderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	_, err := q(ctx, r.db).Exec(ctx, `
		INSERT INTO riders (id, name, email, phone, region, district, service_thana, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rider.ID, rider.Name, rider.Email, rider.Phone, rider.Region, rider.District,
		rider.ServiceThana, string(rider.Status), rider.CreatedAt, rider.UpdatedAt,
	)
	return err
}

func (r *riderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	row := q(ctx, r.db).QueryRow(ctx, `SELECT `+riderColumns+` FROM riders WHERE id = $1`, id)
	rider, err := scanRider(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("rider %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rider, nil
}

func (r *riderRepository) GetByEmail(ctx context.Context, email string) (*domain.Rider, error) {
	row := q(ctx, r.db).QueryRow(ctx, `SELECT `+riderColumns+` FROM riders WHERE lower(email) = lower($1)`, email)
	rider, err := scanRider(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("rider %s: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rider, nil
}

func (r *riderRepository) ListPending(ctx context.Context) ([]domain.Rider, error) {
	return r.list(ctx, `SELECT `+riderColumns+` FROM riders WHERE status = $1 ORDER BY created_at`, string(domain.RiderStatusPending))
}

func (r *riderRepository) ListAvailable(ctx context.Context, thana string) ([]domain.Rider, error) {
	return r.list(ctx, `
		SELECT `+riderColumns+` FROM riders
		WHERE status = $1 AND lower(service_thana) = lower($2)
		ORDER BY created_at`,
		string(domain.RiderStatusActive), thana,
	)
}

func (r *riderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Rider, error) {
	rows, err := q(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var riders []domain.Rider
	for rows.Next() {
		rider, err := scanRider(rows)
		if err != nil {
			return nil, err
		}
		riders = append(riders, *rider)
	}
	return riders, rows.Err()
}

func (r *riderRepository) UpdateStatus(ctx context.Context, id string, status domain.RiderStatus) error {
	tag, err := q(ctx, r.db).Exec(ctx,
		`UPDATE riders SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rider %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
