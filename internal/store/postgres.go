package store

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Anish565/Cloud-Final-Project/internal/item"
)

// PgxPool is the subset of *pgxpool.Pool the store uses.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// Postgres stores each item as a JSONB document keyed by one attribute.
// Writing the same key again replaces the document, as PutItem does.
type Postgres struct {
	pool    PgxPool
	keyAttr string
}

// NewPostgres creates a Postgres store keyed by keyAttr.
func NewPostgres(pool PgxPool, keyAttr string) *Postgres {
	return &Postgres{pool: pool, keyAttr: keyAttr}
}

// EnsureTable creates table if it does not exist.
func (p *Postgres) EnsureTable(ctx context.Context, table string) error {
	ident := pgx.Identifier{table}.Sanitize()
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+ident+` (
			item_key   TEXT PRIMARY KEY,
			item       JSONB NOT NULL,
			written_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

func (p *Postgres) PutItem(ctx context.Context, table string, it map[string]item.Item) error {
	key, err := keyText(it, p.keyAttr)
	if err != nil {
		return fmt.Errorf("%w: %s", err, p.keyAttr)
	}

	doc, err := sonic.ConfigStd.Marshal(it)
	if err != nil {
		return fmt.Errorf("encode item %s: %w", key, err)
	}

	ident := pgx.Identifier{table}.Sanitize()
	_, err = p.pool.Exec(ctx, `
		INSERT INTO `+ident+` (item_key, item, written_at)
		VALUES ($1, $2, now())
		ON CONFLICT (item_key) DO UPDATE
		SET item = EXCLUDED.item, written_at = EXCLUDED.written_at
	`, key, doc)
	if err != nil {
		return fmt.Errorf("postgres put %s: %w", table, err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
