package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

// ListFilter narrows the repository scan. Date bounds match any visit whose
// visitDate falls inside the range, mirroring the store's filtered-scan
// contract; finer selection happens in memory.
type ListFilter struct {
	Technician string
	Type       string
	From       *time.Time
	To         *time.Time
}

// Repository is the order store. It owns persisted orders exclusively; the
// aggregation and report layers only ever read through List.
type Repository interface {
	Create(ctx context.Context, order Order) (*Order, error)
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	AppendVisit(ctx context.Context, id uuid.UUID, visit Visit, reportedToUfinet *bool) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db dbtx
}

// NewRepository builds the Postgres-backed order store. The visit log lives
// in a jsonb column and is only ever appended to.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	client_number TEXT NOT NULL,
	reported_to_ufinet BOOLEAN NOT NULL DEFAULT FALSE,
	visits JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_orders_client_number ON orders (client_number);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at);
`

// EnsureSchema creates the orders table when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("orders: ensure schema: %w", err)
	}
	return nil
}

func (r *repository) Create(ctx context.Context, order Order) (*Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	payload, err := json.Marshal(order.Visits)
	if err != nil {
		return nil, fmt.Errorf("orders: marshal visits: %w", err)
	}

	const query = `
		INSERT INTO orders (id, client_number, reported_to_ufinet, visits)
		VALUES ($1, $2, $3, $4)
		RETURNING id, client_number, reported_to_ufinet, visits, created_at, updated_at`
	row := r.db.QueryRow(ctx, query, order.ID, order.ClientNumber, order.ReportedToUfinet, payload)
	return scanOrder(row)
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	const query = `
		SELECT id, client_number, reported_to_ufinet, visits, created_at, updated_at
		FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *repository) AppendVisit(ctx context.Context, id uuid.UUID, visit Visit, reportedToUfinet *bool) (*Order, error) {
	payload, err := json.Marshal([]Visit{visit})
	if err != nil {
		return nil, fmt.Errorf("orders: marshal visit: %w", err)
	}

	// visits || $2 appends without touching prior entries, keeping the log
	// write-once-per-entry.
	const query = `
		UPDATE orders
		SET visits = visits || $2::jsonb,
		    reported_to_ufinet = COALESCE($3, reported_to_ufinet),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, client_number, reported_to_ufinet, visits, created_at, updated_at`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id, payload, reportedToUfinet))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Order, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Technician != "" {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements(visits) v WHERE v->>'technician' = $%d)`, argPos))
		args = append(args, filter.Technician)
		argPos++
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements(visits) v WHERE v->>'type' = $%d)`, argPos))
		args = append(args, filter.Type)
		argPos++
	}
	if filter.From != nil || filter.To != nil {
		dateConds := ""
		if filter.From != nil {
			dateConds = fmt.Sprintf(`(v->>'visitDate')::timestamptz >= $%d`, argPos)
			args = append(args, *filter.From)
			argPos++
		}
		if filter.To != nil {
			if dateConds != "" {
				dateConds += " AND "
			}
			dateConds += fmt.Sprintf(`(v->>'visitDate')::timestamptz <= $%d`, argPos)
			args = append(args, *filter.To)
			argPos++
		}
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements(visits) v WHERE v->>'visitDate' IS NOT NULL AND %s)`, dateConds))
	}

	query := `SELECT id, client_number, reported_to_ufinet, visits, created_at, updated_at FROM orders`
	if len(conditions) > 0 {
		query += " WHERE " + conditions[0]
		for _, cond := range conditions[1:] {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()

	result := []Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders: list rows: %w", err)
	}
	return result, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o       Order
		payload []byte
	)
	if err := row.Scan(&o.ID, &o.ClientNumber, &o.ReportedToUfinet, &payload, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &o.Visits); err != nil {
		return nil, fmt.Errorf("orders: unmarshal visits: %w", err)
	}
	return &o, nil
}
