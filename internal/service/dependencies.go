package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/clock"
	"github.com/spec-kit/service-center/internal/events"
	"github.com/spec-kit/service-center/internal/observability"
	"github.com/spec-kit/service-center/internal/repository"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// Dependencies bundles what every service needs. Zero-valued optional
// fields fall back to no-op implementations.
type Dependencies struct {
	Registry   *repository.Registry
	Flusher    repository.Flusher
	Dispatcher events.Dispatcher
	Clock      clock.Clock
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Registry == nil {
		d.Registry = repository.NewRegistry()
	}
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// base carries the shared plumbing embedded by each service.
type base struct {
	registry   *repository.Registry
	flusher    repository.Flusher
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
	metrics    *observability.Metrics
}

func newBase(deps Dependencies) base {
	deps = deps.withDefaults()
	return base{
		registry:   deps.Registry,
		flusher:    deps.Flusher,
		dispatcher: deps.Dispatcher,
		clock:      deps.Clock,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

func (b base) now() time.Time {
	return b.clock.Now()
}

// commit writes the batch. The in-memory change already happened; a store
// failure is reported as NOT_DURABLE and the change is kept.
func (b base) commit(ctx context.Context, batch *repository.Batch) error {
	if b.flusher == nil {
		return nil
	}
	if err := b.flusher.Flush(ctx, batch); err != nil {
		b.metrics.Inc(observability.CounterFlushFailures)
		b.logger.Warn("change not persisted", zap.Error(err))
		return apperrors.NewPersistenceError(err)
	}
	return nil
}

func (b base) publish(ctx context.Context, event events.Event) {
	if b.dispatcher == nil {
		return
	}
	_ = b.dispatcher.Publish(ctx, event)
}

// lookupError converts a repository miss into a NOT_FOUND domain error.
func lookupError(err error, resource string, details map[string]any) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFound(resource, details)
	}
	return apperrors.MapError(err)
}
