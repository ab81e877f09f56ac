package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/service-center/internal/config"
	"github.com/spec-kit/service-center/internal/domain"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

func TestHistoryRecordsLifecycle(t *testing.T) {
	env := newTestEnv(t, config.DispatchConfig{})
	history := NewHistoryService(env.deps, nil)
	history.RegisterHandlers()
	ctx := context.Background()

	served, err := env.dispatch.CreateTicket(ctx, "C001", 1)
	require.NoError(t, err)
	cancelled, err := env.dispatch.CreateTicket(ctx, "C001", 1)
	require.NoError(t, err)

	env.clock.Advance(5 * time.Minute)
	_, err = env.dispatch.AssignNextTicket(ctx, "emp1")
	require.NoError(t, err)
	_, err = env.dispatch.CompleteTicket(ctx, served.Code, "emp1")
	require.NoError(t, err)
	_, err = env.dispatch.CancelTicket(ctx, cancelled.Code, "C001")
	require.NoError(t, err)

	trail, err := history.History(ctx, served.Code)
	require.NoError(t, err)
	require.Len(t, trail, 3)

	assert.Equal(t, domain.ChangeTypeCreated, trail[0].ChangeType)
	assert.Equal(t, domain.ChangedByClient, trail[0].ChangedByType)
	assert.Equal(t, "C001", trail[0].ChangedByID)
	assert.Equal(t, t0, trail[0].CreatedAt)

	assert.Equal(t, domain.ChangeTypeAssignee, trail[1].ChangeType)
	assert.Equal(t, domain.TicketStatusInProgress, trail[1].NewStatus)
	assert.Equal(t, "emp1", trail[1].ChangedByID)
	assert.Equal(t, 1, trail[1].StationNumber)

	assert.Equal(t, domain.TicketStatusCompleted, trail[2].NewStatus)

	trail, err = history.History(ctx, cancelled.Code)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, domain.TicketStatusWaiting, trail[1].OldStatus)
	assert.Equal(t, domain.TicketStatusCancelled, trail[1].NewStatus)
}

func TestHistoryUnknownTicket(t *testing.T) {
	env := newTestEnv(t, config.DispatchConfig{})
	history := NewHistoryService(env.deps, nil)

	_, err := history.History(context.Background(), "GEN-999")
	assert.True(t, apperrors.HasCode(err, "NOT_FOUND"))
}
