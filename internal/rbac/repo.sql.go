package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Repository defines persistence operations for the rbac module.
type Repository interface {
	ListRoles(ctx context.Context) ([]Role, error)
	ListFunctionalities(ctx context.Context) ([]Functionality, error)
	ListAssignments(ctx context.Context) ([][2]int64, error)
	BaseFeatures(ctx context.Context, roleName string) ([]string, error)
	UserOverrides(ctx context.Context, userID int64) (Overrides, error)
	Grant(ctx context.Context, roleID, functionalityID int64) error
	Revoke(ctx context.Context, roleID, functionalityID int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListRoles returns all roles ordered by name.
func (r *PGRepository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	roles := []Role{}
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// ListFunctionalities returns the full feature catalog ordered by key.
func (r *PGRepository) ListFunctionalities(ctx context.Context) ([]Functionality, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, key FROM functionalities ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	fns := []Functionality{}
	for rows.Next() {
		var fn Functionality
		if err := rows.Scan(&fn.ID, &fn.Key); err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return fns, rows.Err()
}

// ListAssignments returns every granted (roleID, functionalityID) pair.
func (r *PGRepository) ListAssignments(ctx context.Context) ([][2]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT role_id, functionality_id FROM role_functionalities`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	pairs := [][2]int64{}
	for rows.Next() {
		var roleID, fnID int64
		if err := rows.Scan(&roleID, &fnID); err != nil {
			return nil, err
		}
		pairs = append(pairs, [2]int64{roleID, fnID})
	}
	return pairs, rows.Err()
}

// BaseFeatures returns the feature keys assigned to the named role. An
// unknown role yields an empty slice, not an error.
func (r *PGRepository) BaseFeatures(ctx context.Context, roleName string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT f.key
FROM functionalities f
JOIN role_functionalities rf ON rf.functionality_id = f.id
JOIN roles ro ON ro.id = rf.role_id
WHERE ro.name = $1`, roleName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	features := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		features = append(features, key)
	}
	return features, rows.Err()
}

// UserOverrides returns the per-user added and removed feature keys.
func (r *PGRepository) UserOverrides(ctx context.Context, userID int64) (Overrides, error) {
	rows, err := r.pool.Query(ctx, `SELECT f.key, uo.is_removed
FROM user_feature_overrides uo
JOIN functionalities f ON f.id = uo.functionality_id
WHERE uo.user_id = $1`, userID)
	if err != nil {
		return Overrides{}, err
	}
	defer rows.Close()
	var ov Overrides
	for rows.Next() {
		var key string
		var removed bool
		if err := rows.Scan(&key, &removed); err != nil {
			return Overrides{}, err
		}
		if removed {
			ov.Removes = append(ov.Removes, key)
		} else {
			ov.Adds = append(ov.Adds, key)
		}
	}
	return ov, rows.Err()
}

// Grant inserts a role-functionality assignment. Granting an existing pair
// is a no-op; an unknown role or functionality maps to ErrNotFound.
func (r *PGRepository) Grant(ctx context.Context, roleID, functionalityID int64) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO role_functionalities (role_id, functionality_id)
VALUES ($1, $2)
ON CONFLICT (role_id, functionality_id) DO NOTHING`, roleID, functionalityID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil
			case "23503":
				return shared.ErrNotFound
			}
		}
		return err
	}
	return nil
}

// Revoke deletes a role-functionality assignment. Revoking a pair that was
// never granted is a no-op success.
func (r *PGRepository) Revoke(ctx context.Context, roleID, functionalityID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM role_functionalities
WHERE role_id = $1 AND functionality_id = $2`, roleID, functionalityID)
	return err
}

var _ Repository = (*PGRepository)(nil)
