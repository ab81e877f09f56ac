package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/config"
)

const upsertDocumentSQL = `
INSERT INTO documents (kind, id, body, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (kind, id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`

// Postgres wraps access to a pgx connection pool and stores documents in a
// jsonb table.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool when DSN is provided.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; skipping database connection")
		return &Postgres{Pool: nil}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &Postgres{Pool: pool}, nil
}

// Load returns all documents of kind.
func (p *Postgres) Load(ctx context.Context, kind string) ([]Document, error) {
	if p == nil || p.Pool == nil {
		return nil, errors.New("postgres pool not configured")
	}
	rows, err := p.Pool.Query(ctx, `SELECT id, body FROM documents WHERE kind = $1 ORDER BY id`, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s documents: %w", kind, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc := Document{Kind: kind}
		if err := rows.Scan(&doc.ID, &doc.Body); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", kind, err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Put upserts docs in one transaction.
func (p *Postgres) Put(ctx context.Context, docs ...Document) error {
	if len(docs) == 0 {
		return nil
	}
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return pgx.BeginFunc(ctx, p.Pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, d := range docs {
			batch.Queue(upsertDocumentSQL, d.Kind, d.ID, d.Body)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.Pool.Ping(ctx)
}

// Close releases pool resources.
func (p *Postgres) Close() error {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
	return nil
}

// PoolHandle returns the underlying pgx pool.
func (p *Postgres) PoolHandle() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	return p.Pool
}
