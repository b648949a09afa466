package attempt

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tenauth/tenauth/pkg/uow"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL-based attempt repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const insertAttempt = `
INSERT INTO login_attempts (
	id, tenant_id, tenancy_name, user_id, identifier, outcome,
	browser_info, client_ip, client_name, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// Record inserts an attempt. Inserts go through the ambient work's
// transaction when one is in progress; the recorder always begins an
// independent one.
func (r *PostgresRepository) Record(ctx context.Context, a Attempt) error {
	args := []any{
		a.ID, a.TenantID, a.TenancyName, a.UserID, a.Identifier, a.Outcome,
		a.BrowserInfo, a.ClientIP, a.ClientName, a.CreatedAt,
	}

	var err error
	if tx, ok := uow.PgxTx(ctx); ok {
		_, err = tx.Exec(ctx, insertAttempt, args...)
	} else {
		_, err = r.pool.Exec(ctx, insertAttempt, args...)
	}
	if err != nil {
		return fmt.Errorf("failed to insert login attempt: %w", err)
	}
	return nil
}
