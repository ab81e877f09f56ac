package persistence

import (
	"context"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/config"
)

const documentKeyPrefix = "svc:doc:"

// Redis wraps the go-redis client. Documents live in one hash per kind,
// keyed by document id.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

func documentKey(kind string) string {
	return documentKeyPrefix + kind
}

// Load returns every document of kind ordered by id.
func (r *Redis) Load(ctx context.Context, kind string) ([]Document, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("redis client not configured")
	}
	fields, err := r.Client.HGetAll(ctx, documentKey(kind)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, Document{Kind: kind, ID: id, Body: []byte(fields[id])})
	}
	return out, nil
}

// Put writes docs with one HSET per kind.
func (r *Redis) Put(ctx context.Context, docs ...Document) error {
	if len(docs) == 0 {
		return nil
	}
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	var kinds []string
	values := make(map[string][]interface{})
	for _, d := range docs {
		if _, ok := values[d.Kind]; !ok {
			kinds = append(kinds, d.Kind)
		}
		values[d.Kind] = append(values[d.Kind], d.ID, string(d.Body))
	}
	for _, kind := range kinds {
		if err := r.Client.HSet(ctx, documentKey(kind), values[kind]...).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Publish sends payload to channel subscribers.
func (r *Redis) Publish(ctx context.Context, channel string, payload []byte) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Publish(ctx, channel, string(payload)).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	if r != nil && r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
