package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByMobile(ctx context.Context, mobile string) (*User, error)
	CreateUser(ctx context.Context, user *User) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByMobile fetches a user by mobile number.
func (r *PGRepository) FindByMobile(ctx context.Context, mobile string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, first_name, last_name, mobile_num, password, role, client_id, store_id, created_at
FROM users WHERE mobile_num = $1`, mobile)

	var (
		user     User
		clientID pgtype.Int8
		storeID  pgtype.Int8
	)
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Mobile, &user.PasswordHash, &user.Role, &clientID, &storeID, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	user.ClientID = clientID.Int64
	user.StoreID = storeID.Int64
	return &user, nil
}

// CreateUser inserts a new user account. A duplicate mobile number maps to
// shared.ErrDuplicate.
func (r *PGRepository) CreateUser(ctx context.Context, user *User) (*User, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO users (first_name, last_name, mobile_num, password, role, client_id, store_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at`,
		user.FirstName, user.LastName, user.Mobile, user.PasswordHash, user.Role,
		nullableID(user.ClientID), nullableID(user.StoreID))

	created := *user
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicate
		}
		return nil, err
	}
	return &created, nil
}

func nullableID(id int64) pgtype.Int8 {
	return pgtype.Int8{Int64: id, Valid: id != 0}
}

var _ Repository = (*PGRepository)(nil)
