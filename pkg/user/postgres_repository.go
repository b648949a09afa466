package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tenauth/tenauth/pkg/uow"
)

// DBTX is the subset of pgx used by the repository, satisfied by both
// pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements Repository using PostgreSQL. Statements run
// on the transaction of the ambient unit of work when one is in progress.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL-based user repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) db(ctx context.Context) DBTX {
	if tx, ok := uow.PgxTx(ctx); ok {
		return tx
	}
	return r.pool
}

const userColumns = `
	id, tenant_id, user_name, email, password_hash, is_active,
	is_email_confirmed, authentication_source, last_login_at
`

const findUserByExternalLogin = `
SELECT ` + userColumns + `
FROM users u
JOIN user_logins ul ON ul.user_id = u.id
WHERE u.tenant_id IS NOT DISTINCT FROM $1
  AND ul.login_provider = $2
  AND ul.provider_key = $3
`

const findUserByIdentifier = `
SELECT ` + userColumns + `
FROM users u
WHERE u.tenant_id IS NOT DISTINCT FROM $1
  AND (lower(u.user_name) = lower($2) OR lower(u.email) = lower($2))
`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.TenantID, &u.UserName, &u.Email, &u.PasswordHash,
		&u.IsActive, &u.IsEmailConfirmed, &u.AuthenticationSource,
		&u.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByExternalLogin finds a user by external provider identity within the
// given tenant.
func (r *PostgresRepository) FindByExternalLogin(ctx context.Context, tenantID *int64, loginProvider, providerKey string) (*User, error) {
	if err := checkScope(ctx, tenantID); err != nil {
		return nil, err
	}
	return scanUser(r.db(ctx).QueryRow(ctx, findUserByExternalLogin, tenantID, loginProvider, providerKey))
}

// FindByIdentifier finds a user by username or email within the given
// tenant.
func (r *PostgresRepository) FindByIdentifier(ctx context.Context, tenantID *int64, identifier string) (*User, error) {
	if err := checkScope(ctx, tenantID); err != nil {
		return nil, err
	}
	return scanUser(r.db(ctx).QueryRow(ctx, findUserByIdentifier, tenantID, identifier))
}

const insertUser = `
INSERT INTO users (
	tenant_id, user_name, email, password_hash, is_active,
	is_email_confirmed, authentication_source, last_login_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`

const insertUserRole = `
INSERT INTO user_roles (tenant_id, user_id, role_id)
VALUES ($1, $2, $3)
`

// Create persists a new user and its role assignments, assigning its id.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	if err := checkScope(ctx, u.TenantID); err != nil {
		return err
	}

	db := r.db(ctx)
	err := db.QueryRow(ctx, insertUser,
		u.TenantID, u.UserName, u.Email, u.PasswordHash, u.IsActive,
		u.IsEmailConfirmed, u.AuthenticationSource, u.LastLoginAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	for i := range u.Roles {
		u.Roles[i].UserID = u.ID
		if _, err := db.Exec(ctx, insertUserRole, u.Roles[i].TenantID, u.ID, u.Roles[i].RoleID); err != nil {
			return fmt.Errorf("failed to insert user role: %w", err)
		}
	}
	return nil
}

const updateUser = `
UPDATE users SET
	user_name = $2, email = $3, password_hash = $4, is_active = $5,
	is_email_confirmed = $6, authentication_source = $7, last_login_at = $8
WHERE id = $1
`

// Update persists changes to an existing user.
func (r *PostgresRepository) Update(ctx context.Context, u *User) error {
	if err := checkScope(ctx, u.TenantID); err != nil {
		return err
	}

	tag, err := r.db(ctx).Exec(ctx, updateUser,
		u.ID, u.UserName, u.Email, u.PasswordHash, u.IsActive,
		u.IsEmailConfirmed, u.AuthenticationSource, u.LastLoginAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

const findDefaultRoles = `
SELECT id, tenant_id, name, is_default
FROM roles
WHERE tenant_id IS NOT DISTINCT FROM $1 AND is_default
`

// PostgresRoleRepository implements RoleRepository using PostgreSQL.
type PostgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoleRepository creates a new PostgreSQL-based role repository.
func NewPostgresRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{pool: pool}
}

// DefaultRoles returns the roles flagged as default for the given tenant.
func (r *PostgresRoleRepository) DefaultRoles(ctx context.Context, tenantID *int64) ([]Role, error) {
	var rows pgx.Rows
	var err error
	if tx, ok := uow.PgxTx(ctx); ok {
		rows, err = tx.Query(ctx, findDefaultRoles, tenantID)
	} else {
		rows, err = r.pool.Query(ctx, findDefaultRoles, tenantID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.TenantID, &role.Name, &role.IsDefault); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
