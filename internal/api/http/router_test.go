package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/api/http/handlers"
	"github.com/spec-kit/service-center/internal/auth"
	"github.com/spec-kit/service-center/internal/config"
	"github.com/spec-kit/service-center/internal/events"
	"github.com/spec-kit/service-center/internal/observability"
	"github.com/spec-kit/service-center/internal/persistence"
	"github.com/spec-kit/service-center/internal/repository"
	"github.com/spec-kit/service-center/internal/seed"
	"github.com/spec-kit/service-center/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	authCfg := config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 30, BcryptCost: 4}

	registry := repository.NewRegistry()
	require.NoError(t, seed.Apply(registry, seed.Default(), authCfg.BcryptCost))

	store := persistence.NewMemoryStore()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(nil)
	deps := service.Dependencies{
		Registry:   registry,
		Flusher:    repository.NewFlusher(store, nil),
		Dispatcher: dispatcher,
		Metrics:    metrics,
	}

	stats := service.NewStatisticsService(deps)
	dispatch := service.NewDispatchService(deps, stats, config.DispatchConfig{})
	categories := service.NewCategoryService(deps)
	stations := service.NewStationService(deps)
	employees := service.NewEmployeeService(authCfg, deps)
	clients := service.NewClientService(deps)
	authService := service.NewAuthService(authCfg, deps)
	notifications := service.NewNotificationService(service.NotificationDependencies{Dispatcher: dispatcher}, config.NotificationConfig{})
	notifications.RegisterHandlers()
	history := service.NewHistoryService(deps, nil)
	history.RegisterHandlers()

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("service-center", "test", config.StoreMemory, store),
		Users:          handlers.NewUsersHandler(authService),
		Clients:        handlers.NewClientsHandler(clients, dispatch),
		Tickets:        handlers.NewTicketsHandler(dispatch, categories, history),
		Employee:       handlers.NewEmployeeHandler(dispatch, employees, stations, notifications),
		Admin:          handlers.NewAdminHandler(categories, stations, employees),
		Statistics:     handlers.NewStatisticsHandler(stats),
		Display:        handlers.NewDisplayHandler(notifications, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), registry.Users),
	})
	return app
}

type apiResponse struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, apiResponse) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func login(t *testing.T, app *fiber.App, id, password string) string {
	t.Helper()
	status, resp := call(t, app, fiber.MethodPost, "/auth/login", "", map[string]string{"id": id, "password": password})
	require.Equal(t, fiber.StatusOK, status)
	var data struct {
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Auth.Token)
	return data.Auth.Token
}

type ticketBody struct {
	Code       string `json:"code"`
	Status     string `json:"status"`
	Position   int    `json:"position"`
	EmployeeID string `json:"employee_id"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)

	status, resp := call(t, app, fiber.MethodPost, "/tickets", "", map[string]any{"client_id": "C001", "category_id": 1})
	require.Equal(t, fiber.StatusCreated, status)
	first := decode[ticketBody](t, resp.Data)
	assert.True(t, strings.HasPrefix(first.Code, "GEN-"))
	assert.Equal(t, "WAITING", first.Status)
	assert.Equal(t, 1, first.Position)

	status, resp = call(t, app, fiber.MethodPost, "/tickets", "", map[string]any{"client_id": "C002", "category_id": 1})
	require.Equal(t, fiber.StatusCreated, status)
	second := decode[ticketBody](t, resp.Data)
	assert.Equal(t, 2, second.Position)

	token := login(t, app, "emp1", "pass123")

	status, _ = call(t, app, fiber.MethodPost, "/employee/resume", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, resp = call(t, app, fiber.MethodPost, "/employee/next", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	served := decode[ticketBody](t, resp.Data)
	assert.Equal(t, first.Code, served.Code)
	assert.Equal(t, "IN_PROGRESS", served.Status)
	assert.Equal(t, "emp1", served.EmployeeID)

	status, resp = call(t, app, fiber.MethodGet, "/tickets/"+second.Code+"/position", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, decode[struct {
		Position int `json:"position"`
	}](t, resp.Data).Position)

	status, resp = call(t, app, fiber.MethodGet, "/display", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	board := decode[struct {
		CurrentTicket string `json:"current_ticket"`
		Station       int    `json:"station"`
	}](t, resp.Data)
	assert.Equal(t, first.Code, board.CurrentTicket)
	assert.Equal(t, 1, board.Station)

	// Busy employees cannot pull another ticket.
	status, resp = call(t, app, fiber.MethodPost, "/employee/next", token, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)

	status, resp = call(t, app, fiber.MethodPost, "/employee/tickets/"+first.Code+"/complete", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "COMPLETED", decode[ticketBody](t, resp.Data).Status)

	// Only the holder can withdraw a ticket.
	status, resp = call(t, app, fiber.MethodPost, "/tickets/"+second.Code+"/cancel", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, resp = call(t, app, fiber.MethodPost, "/tickets/"+second.Code+"/cancel", "", map[string]any{"client_id": "C001"})
	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	status, resp = call(t, app, fiber.MethodPost, "/tickets/"+second.Code+"/cancel?client_id=C002", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "CANCELLED", decode[ticketBody](t, resp.Data).Status)

	status, _ = call(t, app, fiber.MethodPost, "/employee/next", token, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, resp = call(t, app, fiber.MethodGet, "/tickets/"+first.Code+"/history", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	trail := decode[[]struct {
		NewStatus string `json:"new_status"`
	}](t, resp.Data)
	require.Len(t, trail, 3)
	assert.Equal(t, "COMPLETED", trail[2].NewStatus)
}

func TestCreateTicketValidation(t *testing.T) {
	app := newTestApp(t)

	status, resp := call(t, app, fiber.MethodPost, "/tickets", "", map[string]any{"client_id": "C001"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)

	status, resp = call(t, app, fiber.MethodPost, "/tickets", "", map[string]any{"client_id": "C001", "category_id": 99})
	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestRoleSeparation(t *testing.T) {
	app := newTestApp(t)
	employeeToken := login(t, app, "emp1", "pass123")
	adminToken := login(t, app, "admin", "admin123")

	status, resp := call(t, app, fiber.MethodGet, "/admin/categories", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	status, resp = call(t, app, fiber.MethodGet, "/admin/categories", employeeToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	status, _ = call(t, app, fiber.MethodPost, "/employee/next", adminToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, resp = call(t, app, fiber.MethodGet, "/admin/categories", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, resp.Data), 4)

	status, _ = call(t, app, fiber.MethodPost, "/auth/login", "", map[string]string{"id": "emp1", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAdminManagesCategoriesAndStations(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "admin", "admin123")

	status, resp := call(t, app, fiber.MethodPost, "/admin/categories", token, map[string]string{
		"name": "Loans", "description": "Loan applications", "prefix": "lon",
	})
	require.Equal(t, fiber.StatusCreated, status)
	category := decode[struct {
		ID     int    `json:"id"`
		Prefix string `json:"prefix"`
	}](t, resp.Data)
	assert.Equal(t, "LON", category.Prefix)

	status, _ = call(t, app, fiber.MethodPost, "/admin/categories", token, map[string]string{"name": "Dup", "prefix": "GEN"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, resp = call(t, app, fiber.MethodPost, "/admin/stations", token, map[string]int{"number": 9})
	require.Equal(t, fiber.StatusCreated, status)
	station := decode[struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}](t, resp.Data)
	assert.Equal(t, "CLOSED", station.Status)

	stationPath := "/admin/stations/" + strconv.Itoa(station.ID)
	status, resp = call(t, app, fiber.MethodPost, stationPath+"/open", token, nil)
	assert.Equal(t, fiber.StatusConflict, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)

	status, _ = call(t, app, fiber.MethodPost, stationPath+"/categories", token, map[string]int{"category_id": category.ID})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, app, fiber.MethodPost, "/admin/employees", token, map[string]string{
		"id": "emp9", "name": "Nina", "password": "pw",
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = call(t, app, fiber.MethodPost, stationPath+"/employee", token, map[string]string{"employee_id": "emp9"})
	require.Equal(t, fiber.StatusOK, status)

	status, resp = call(t, app, fiber.MethodPost, stationPath+"/open", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "OPEN", decode[struct {
		Status string `json:"status"`
	}](t, resp.Data).Status)

	status, resp = call(t, app, fiber.MethodPost, "/admin/categories/"+strconv.Itoa(category.ID)+"/deactivate", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.False(t, decode[struct {
		Active bool `json:"active"`
	}](t, resp.Data).Active)

	status, resp = call(t, app, fiber.MethodGet, "/categories", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, resp.Data), 4)
}

func TestStatisticsEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "admin", "admin123")

	status, _ := call(t, app, fiber.MethodPost, "/tickets", "", map[string]any{"client_id": "C001", "category_id": 2})
	require.Equal(t, fiber.StatusCreated, status)

	status, resp := call(t, app, fiber.MethodGet, "/admin/statistics/daily", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, resp.Data)

	req := httptest.NewRequest(fiber.MethodGet, "/admin/statistics/weekly?format=text", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, fiber.StatusOK, raw.StatusCode)
	assert.True(t, strings.HasPrefix(raw.Header.Get(fiber.HeaderContentType), fiber.MIMETextPlain))

	status, resp = call(t, app, fiber.MethodGet, "/admin/statistics/range?from=2026-03-10&to=2026-03-01", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)

	status, _ = call(t, app, fiber.MethodGet, "/admin/statistics/range?from=yesterday&to=2026-03-01", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call(t, app, fiber.MethodGet, "/admin/statistics/productivity/ghost", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHealthMetricsAndUnknownRoutes(t *testing.T) {
	app := newTestApp(t)

	status, _ := call(t, app, fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, resp := call(t, app, fiber.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)

	req := httptest.NewRequest(fiber.MethodGet, "/metrics", nil)
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	defer raw.Body.Close()
	var snapshot observability.MetricsSnapshot
	require.NoError(t, json.NewDecoder(raw.Body).Decode(&snapshot))
	assert.NotEmpty(t, snapshot.Requests)
}
