package customers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Repository defines persistence operations for the customers module.
type Repository interface {
	List(ctx context.Context, clientID int64) ([]Customer, error)
	Get(ctx context.Context, clientID, id int64) (Customer, error)
	Create(ctx context.Context, clientID int64, customer Customer) (Customer, error)
	Update(ctx context.Context, clientID int64, customer Customer) (Customer, error)
	Delete(ctx context.Context, clientID, id int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) List(ctx context.Context, clientID int64) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(address, ''), credit_limit, created_at
FROM customers WHERE client_id = $1 ORDER BY id DESC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Customer{}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreditLimit, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *PGRepository) Get(ctx context.Context, clientID, id int64) (Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(address, ''), credit_limit, created_at
FROM customers WHERE id = $1 AND client_id = $2`, id, clientID)
	var c Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreditLimit, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, shared.ErrNotFound
		}
		return Customer{}, err
	}
	return c, nil
}

func (r *PGRepository) Create(ctx context.Context, clientID int64, customer Customer) (Customer, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO customers (client_id, name, phone, email, address, credit_limit)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`, clientID, customer.Name, customer.Phone, customer.Email, customer.Address, customer.CreditLimit).
		Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		return Customer{}, err
	}
	return customer, nil
}

func (r *PGRepository) Update(ctx context.Context, clientID int64, customer Customer) (Customer, error) {
	err := r.pool.QueryRow(ctx, `UPDATE customers
SET name = $1, phone = $2, email = $3, address = $4, credit_limit = $5
WHERE id = $6 AND client_id = $7
RETURNING created_at`, customer.Name, customer.Phone, customer.Email, customer.Address, customer.CreditLimit, customer.ID, clientID).
		Scan(&customer.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, shared.ErrNotFound
		}
		return Customer{}, err
	}
	return customer, nil
}

func (r *PGRepository) Delete(ctx context.Context, clientID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND client_id = $2`, id, clientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
