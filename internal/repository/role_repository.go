package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// RoleRepository resolves the roles currently assigned to a user. The
// middleware consults this on every request instead of trusting the role
// snapshot embedded in tokens.
type RoleRepository interface {
	GetRolesForUser(ctx context.Context, userID string) ([]domain.Role, error)
	Assign(ctx context.Context, userID string, role domain.Role) error
	Revoke(ctx context.Context, userID string, role domain.Role) error
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) GetRolesForUser(ctx context.Context, userID string) ([]domain.Role, error) {
	const query = `SELECT role FROM user_roles WHERE user_id=$1 ORDER BY role`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepository) Assign(ctx context.Context, userID string, role domain.Role) error {
	const query = `
        INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
        ON CONFLICT (user_id, role) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, userID, role)
	return err
}

func (r *roleRepository) Revoke(ctx context.Context, userID string, role domain.Role) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id=$1 AND role=$2`, userID, role)
	return err
}
