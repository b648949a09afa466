package tenant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tenauth/tenauth/pkg/uow"
)

// PostgresRepository implements Repository using PostgreSQL. Statements run
// on the transaction of the ambient unit of work when one is in progress,
// otherwise directly on the pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL-based tenant repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const findTenantByName = `
SELECT id, tenancy_name, is_active
FROM tenants
WHERE tenancy_name = $1
`

// FindByName finds a tenant by exact tenancy name match.
func (r *PostgresRepository) FindByName(ctx context.Context, tenancyName string) (*Tenant, error) {
	var row pgx.Row
	if tx, ok := uow.PgxTx(ctx); ok {
		row = tx.QueryRow(ctx, findTenantByName, tenancyName)
	} else {
		row = r.pool.QueryRow(ctx, findTenantByName, tenancyName)
	}

	var t Tenant
	err := row.Scan(&t.ID, &t.TenancyName, &t.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}
