package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"samkitchen-backend/internal/domain"
)

type foodRepository struct {
	db *pgxpool.Pool
}

func NewFoodRepository(db *pgxpool.Pool) domain.FoodRepository {
	return &foodRepository{db: db}
}

const foodColumns = `id, name, image, price, discount_percent, available, created_at, updated_at`

func scanFood(row pgx.Row) (*domain.Food, error) {
	var f domain.Food
	err := row.Scan(&f.ID, &f.Name, &f.Image, &f.Price, &f.DiscountPercent, &f.Available, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *foodRepository) GetByID(ctx context.Context, id string) (*domain.Food, error) {
	row := q(ctx, r.db).QueryRow(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = $1`, id)
	food, err := scanFood(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("food %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return food, nil
}

func (r *foodRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Food, error) {
	rows, err := q(ctx, r.db).Query(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foods []domain.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, *f)
	}
	return foods, rows.Err()
}

func (r *foodRepository) List(ctx context.Context) ([]domain.Food, error) {
	rows, err := q(ctx, r.db).Query(ctx, `SELECT `+foodColumns+` FROM foods ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foods []domain.Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, *f)
	}
	return foods, rows.Err()
}
