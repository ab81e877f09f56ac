package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/config"
)

// Document is one persisted entity: a JSON body keyed by kind and id.
type Document struct {
	Kind string
	ID   string
	Body []byte
}

// DocumentStore persists JSON documents grouped by kind.
type DocumentStore interface {
	// Load returns every document of kind ordered by id.
	Load(ctx context.Context, kind string) ([]Document, error)
	// Put upserts docs. Backends apply a single call atomically where they
	// can.
	Put(ctx context.Context, docs ...Document) error
	Ping(ctx context.Context) error
	Close() error
}

// NewDocumentStore opens the backend selected by cfg.Store.Backend.
func NewDocumentStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (DocumentStore, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory, "":
		logger.Warn("using in-memory document store; state is lost on restart")
		return NewMemoryStore(), nil
	case config.StorePostgres:
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("postgres store requires POSTGRES_DSN")
		}
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), migrationsDir, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return pg, nil
	case config.StoreRedis:
		rdb := NewRedis(cfg.Redis, logger)
		if err := rdb.Ping(ctx); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return rdb, nil
	case config.StoreSQLite:
		db, err := NewSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.SQLite.Path))
		return db, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, kind string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byID := m.docs[kind]
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		body := append([]byte(nil), byID[id]...)
		out = append(out, Document{Kind: kind, ID: id, Body: body})
	}
	return out, nil
}

func (m *MemoryStore) Put(_ context.Context, docs ...Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		byID, ok := m.docs[d.Kind]
		if !ok {
			byID = make(map[string][]byte)
			m.docs[d.Kind] = byID
		}
		byID[d.ID] = append([]byte(nil), d.Body...)
	}
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
