package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Repository defines persistence operations for the catalog module.
type Repository interface {
	ListBrands(ctx context.Context, clientID int64) ([]Brand, error)
	CreateBrand(ctx context.Context, clientID int64, name string) (Brand, error)
	UpdateBrand(ctx context.Context, clientID, id int64, name string) (Brand, error)
	DeleteBrand(ctx context.Context, clientID, id int64) error
	ListCategories(ctx context.Context, clientID int64) ([]Category, error)
	CreateCategory(ctx context.Context, clientID int64, name string) (Category, error)
	UpdateCategory(ctx context.Context, clientID, id int64, name string) (Category, error)
	DeleteCategory(ctx context.Context, clientID, id int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) ListBrands(ctx context.Context, clientID int64) ([]Brand, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM brands WHERE client_id = $1 ORDER BY name`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Brand{}
	for rows.Next() {
		var item Brand
		if err := rows.Scan(&item.ID, &item.Name, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PGRepository) CreateBrand(ctx context.Context, clientID int64, name string) (Brand, error) {
	var brand Brand
	brand.Name = name
	err := r.pool.QueryRow(ctx, `INSERT INTO brands (client_id, name) VALUES ($1, $2) RETURNING id, created_at`, clientID, name).
		Scan(&brand.ID, &brand.CreatedAt)
	if err != nil {
		return Brand{}, mapConstraint(err)
	}
	return brand, nil
}

func (r *PGRepository) UpdateBrand(ctx context.Context, clientID, id int64, name string) (Brand, error) {
	var brand Brand
	brand.ID = id
	brand.Name = name
	err := r.pool.QueryRow(ctx, `UPDATE brands SET name = $1 WHERE id = $2 AND client_id = $3 RETURNING created_at`, name, id, clientID).
		Scan(&brand.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Brand{}, shared.ErrNotFound
		}
		return Brand{}, mapConstraint(err)
	}
	return brand, nil
}

func (r *PGRepository) DeleteBrand(ctx context.Context, clientID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM brands WHERE id = $1 AND client_id = $2`, id, clientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) ListCategories(ctx context.Context, clientID int64) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM categories WHERE client_id = $1 ORDER BY name`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Category{}
	for rows.Next() {
		var item Category
		if err := rows.Scan(&item.ID, &item.Name, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PGRepository) CreateCategory(ctx context.Context, clientID int64, name string) (Category, error) {
	var category Category
	category.Name = name
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (client_id, name) VALUES ($1, $2) RETURNING id, created_at`, clientID, name).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return Category{}, mapConstraint(err)
	}
	return category, nil
}

func (r *PGRepository) UpdateCategory(ctx context.Context, clientID, id int64, name string) (Category, error) {
	var category Category
	category.ID = id
	category.Name = name
	err := r.pool.QueryRow(ctx, `UPDATE categories SET name = $1 WHERE id = $2 AND client_id = $3 RETURNING created_at`, name, id, clientID).
		Scan(&category.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		return Category{}, mapConstraint(err)
	}
	return category, nil
}

func (r *PGRepository) DeleteCategory(ctx context.Context, clientID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND client_id = $2`, id, clientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
