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

var testAuth = config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 30, BcryptCost: 4}

func TestRegisterStaff(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, config.DispatchConfig{})
	svc := NewEmployeeService(testAuth, env.deps)

	emp, err := svc.RegisterEmployee(ctx, StaffInput{ID: "emp2", Name: "Maria Garcia", Password: "pass123"})
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityOffline, emp.Availability())
	assert.NotEqual(t, "pass123", emp.PasswordHash)

	_, err = svc.RegisterEmployee(ctx, StaffInput{ID: "emp2", Name: "Again", Password: "x"})
	assert.True(t, apperrors.HasCode(err, "CONFLICT"))
	_, err = svc.RegisterEmployee(ctx, StaffInput{ID: "emp3", Name: "No password"})
	assert.True(t, apperrors.HasCode(err, "VALIDATION_FAILED"))

	admin, err := svc.RegisterAdministrator(ctx, StaffInput{ID: "admin", Name: "Admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, 1, admin.AccessLevel)
	_, err = svc.RegisterAdministrator(ctx, StaffInput{ID: "emp1", Name: "Clash", Password: "x"})
	assert.True(t, apperrors.HasCode(err, "CONFLICT"))

	assert.Len(t, svc.ListEmployees(), 2)
}

func TestEmployeeAvailability(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, config.DispatchConfig{})
	svc := NewEmployeeService(testAuth, env.deps)

	emp, err := svc.Pause(ctx, "emp1")
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityPaused, emp.Availability())

	_, err = svc.Pause(ctx, "emp1")
	assert.True(t, apperrors.HasCode(err, "INVALID_STATE"))

	_, err = svc.Resume(ctx, "emp1")
	require.NoError(t, err)

	_, err = env.dispatch.CreateTicket(ctx, "C001", 1)
	require.NoError(t, err)
	_, err = env.dispatch.AssignNextTicket(ctx, "emp1")
	require.NoError(t, err)

	_, err = svc.Pause(ctx, "emp1")
	assert.True(t, apperrors.HasCode(err, "INVALID_STATE"), "busy employee cannot pause")
	_, err = svc.GoOffline(ctx, "emp1")
	assert.True(t, apperrors.HasCode(err, "INVALID_STATE"))
	assert.Equal(t, domain.AvailabilityBusy, env.employee.Availability())

	_, err = svc.Resume(ctx, "ghost")
	assert.True(t, apperrors.HasCode(err, "NOT_FOUND"))
}

func TestAttentionSummary(t *testing.T) {
	env := newTestEnv(t, config.DispatchConfig{})
	svc := NewEmployeeService(testAuth, env.deps)
	serve(t, env, 1, 5*time.Minute, 10*time.Minute)
	serve(t, env, 1, 5*time.Minute, 20*time.Minute)

	summary, err := svc.AttentionSummary("emp1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Completed)
	assert.InDelta(t, 15.0, summary.AverageServiceTime, 0.001)
	assert.Equal(t, "Juan Perez", summary.Name)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, config.DispatchConfig{})
	staff := NewEmployeeService(testAuth, env.deps)
	_, err := staff.RegisterEmployee(ctx, StaffInput{ID: "emp2", Name: "Maria Garcia", Password: "pass123"})
	require.NoError(t, err)
	_, err = staff.RegisterAdministrator(ctx, StaffInput{ID: "admin", Name: "Admin", Password: "admin123", AccessLevel: 3})
	require.NoError(t, err)

	svc := NewAuthService(testAuth, env.deps)

	user, token, err := svc.Login(ctx, "emp2", "pass123")
	require.NoError(t, err)
	assert.Equal(t, domain.UserKindEmployee, user.Kind)
	assert.Equal(t, domain.UserKindEmployee, token.Kind)
	claims, err := svc.TokenManager().ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, "emp2", claims.SubjectID)

	user, token, err = svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, 3, user.Administrator.AccessLevel)
	assert.Equal(t, domain.UserKindAdministrator, token.Kind)

	_, _, err = svc.Login(ctx, "emp2", "wrong")
	assert.True(t, apperrors.HasCode(err, "UNAUTHORIZED"))
	_, _, err = svc.Login(ctx, "nobody", "pass123")
	assert.True(t, apperrors.HasCode(err, "UNAUTHORIZED"))
}

func TestClientRegistration(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, config.DispatchConfig{})
	svc := NewClientService(env.deps)

	client, err := svc.RegisterClient(ctx, domain.Client{Name: "Carlos Ruiz", ContactInfo: "555-0101"})
	require.NoError(t, err)
	assert.NotEmpty(t, client.ID)

	_, err = svc.RegisterClient(ctx, domain.Client{ID: "C001", Name: "Duplicate"})
	assert.True(t, apperrors.HasCode(err, "CONFLICT"))
	_, err = svc.RegisterClient(ctx, domain.Client{ID: "C009"})
	assert.True(t, apperrors.HasCode(err, "VALIDATION_FAILED"))

	updated, err := svc.UpdateClient(ctx, domain.Client{ID: client.ID, ContactInfo: "carlos@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Carlos Ruiz", updated.Name)
	assert.Equal(t, "carlos@example.com", updated.ContactInfo)

	got, err := svc.GetClient(client.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
	assert.Len(t, svc.ListClients(), 2)

	_, err = svc.GetClient("missing")
	assert.True(t, apperrors.HasCode(err, "NOT_FOUND"))
}
