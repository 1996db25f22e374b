package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"samkitchen-backend/internal/domain"
)

type paymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) domain.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, order_id, email, amount, transaction_id, method, status, created_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Email, &p.Amount, &p.TransactionID, &p.Method, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	_, err := q(ctx, r.db).Exec(ctx, `
		INSERT INTO payments (id, order_id, email, amount, transaction_id, method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		payment.ID, payment.OrderID, payment.Email, payment.Amount,
		payment.TransactionID, payment.Method, payment.Status, payment.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("order %s: %w", payment.OrderID, domain.ErrAlreadyPaid)
	}
	return err
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	row := q(ctx, r.db).QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID)
	payment, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("payment for order %s: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepository) ListByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	rows, err := q(ctx, r.db).Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE lower(email) = lower($1) ORDER BY created_at DESC`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
