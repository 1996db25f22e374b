package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"samkitchen-backend/internal/domain"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, first_name, last_name, email, phone,
	addr_region, addr_district, addr_thana, addr_street,
	items, subtotal, discount, delivery_charge, total,
	status, payment_status, note,
	assigned_rider_id, rider_name, rider_email,
	placed_at, paid_at, assigned_at, picked_at, delivered_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		items  []byte
		status string
		pay    string
	)
	err := row.Scan(
		&o.ID, &o.Customer.FirstName, &o.Customer.LastName, &o.Customer.Email, &o.Customer.Phone,
		&o.Customer.Address.Region, &o.Customer.Address.District, &o.Customer.Address.Thana, &o.Customer.Address.Street,
		&items, &o.Subtotal, &o.Discount, &o.DeliveryCharge, &o.Total,
		&status, &pay, &o.Note,
		&o.AssignedRiderID, &o.RiderName, &o.RiderEmail,
		&o.PlacedAt, &o.PaidAt, &o.AssignedAt, &o.PickedAt, &o.DeliveredAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.PaymentStatus = domain.PaymentState(pay)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode order items: %w", err)
		}
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}

	_, err = q(ctx, r.db).Exec(ctx, `
		INSERT INTO orders (
			id, first_name, last_name, email, phone,
			addr_region, addr_district, addr_thana, addr_street,
			items, subtotal, discount, delivery_charge, total,
			status, payment_status, note, placed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		order.ID, order.Customer.FirstName, order.Customer.LastName, order.Customer.Email, order.Customer.Phone,
		order.Customer.Address.Region, order.Customer.Address.District, order.Customer.Address.Thana, order.Customer.Address.Street,
		items, order.Subtotal, order.Discount, order.DeliveryCharge, order.Total,
		string(order.Status), string(order.PaymentStatus), order.Note, order.PlacedAt,
	)
	return err
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := q(ctx, r.db).QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}
	n := 0
	if filter.Status != "" {
		n++
		where += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, string(filter.Status))
	}
	if filter.PaymentStatus != "" {
		n++
		where += fmt.Sprintf(" AND payment_status = $%d", n)
		args = append(args, string(filter.PaymentStatus))
	}
	if filter.CustomerEmail != "" {
		n++
		where += fmt.Sprintf(" AND lower(email) = lower($%d)", n)
		args = append(args, filter.CustomerEmail)
	}

	var total int64
	if err := q(ctx, r.db).QueryRow(ctx, `SELECT count(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(` ORDER BY placed_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := q(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func (r *orderRepository) ListByRider(ctx context.Context, riderID string, completed bool) ([]domain.Order, error) {
	statuses := []string{string(domain.OrderStatusAssigned), string(domain.OrderStatusPicked)}
	if completed {
		statuses = []string{string(domain.OrderStatusDelivered)}
	}

	rows, err := q(ctx, r.db).Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE assigned_rider_id = $1 AND status = ANY($2)
		ORDER BY placed_at DESC`,
		riderID, statuses,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// UpdateStatusCAS is the one write path for status: the row moves only if it
// is still in the expected state, in a single statement. Zero rows affected
// means somebody else won.
func (r *orderRepository) UpdateStatusCAS(ctx context.Context, id string, from, to domain.OrderStatus, patch domain.OrderPatch) error {
	var payment *string
	if patch.PaymentStatus != nil {
		s := string(*patch.PaymentStatus)
		payment = &s
	}

	tag, err := q(ctx, r.db).Exec(ctx, `
		UPDATE orders SET
			status = $3,
			payment_status = COALESCE($4, payment_status),
			paid_at = COALESCE($5, paid_at),
			assigned_rider_id = COALESCE($6, assigned_rider_id),
			rider_name = COALESCE($7, rider_name),
			rider_email = COALESCE($8, rider_email),
			assigned_at = COALESCE($9, assigned_at),
			picked_at = COALESCE($10, picked_at),
			delivered_at = COALESCE($11, delivered_at),
			updated_at = now()
		WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
		payment, patch.PaidAt,
		patch.AssignedRiderID, patch.RiderName, patch.RiderEmail,
		patch.AssignedAt, patch.PickedAt, patch.DeliveredAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleState
	}
	return nil
}
