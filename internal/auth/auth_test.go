package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/repository"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	tok, err := tm.GenerateToken("emp1", domain.UserKindEmployee)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, tok.ExpiresAt.Sub(tok.IssuedAt))

	claims, err := tm.ParseToken(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "emp1", claims.SubjectID)
	assert.Equal(t, domain.UserKindEmployee, claims.Kind)

	_, err = NewTokenManager("other", 30).ParseToken(tok.Value)
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	tok, err := tm.GenerateToken("admin", domain.UserKindAdministrator)
	require.NoError(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.ParseToken(tok.Value)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("pass123", 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "pass123"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrPasswordMismatch)
	assert.ErrorIs(t, ComparePassword("", "pass123"), ErrPasswordMismatch)
}

func TestPasswordCostClamped(t *testing.T) {
	hash, err := HashPassword("pass123", 1)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func newAuthApp(t *testing.T) (*fiber.App, *TokenManager) {
	t.Helper()
	users := repository.NewUserRepository()
	require.NoError(t, users.Add(domain.EmployeeUser(domain.NewEmployee("emp1", "Juan", ""))))
	require.NoError(t, users.Add(domain.AdministratorUser(&domain.Administrator{ID: "admin", Name: "Admin", AccessLevel: 3})))

	tm := NewTokenManager("secret", 30)
	mw := NewAuthMiddleware(tm, users)

	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.SendStatus(fe.Code)
		}
		return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
	}})
	ok := func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.User.ID())
	}
	app.Get("/employee", mw.Handle, RequireKind(domain.UserKindEmployee), ok)
	app.Get("/admin", mw.Handle, RequireKind(domain.UserKindAdministrator), RequireAccessLevel(3), ok)
	return app, tm
}

func TestMiddlewareEnforcesKind(t *testing.T) {
	app, tm := newAuthApp(t)
	empTok, err := tm.GenerateToken("emp1", domain.UserKindEmployee)
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing header", "/employee", "", fiber.StatusUnauthorized},
		{"bad scheme", "/employee", "Basic abc", fiber.StatusUnauthorized},
		{"employee ok", "/employee", "Bearer " + empTok.Value, fiber.StatusOK},
		{"employee on admin route", "/admin", "Bearer " + empTok.Value, fiber.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestMiddlewareRejectsKindMismatch(t *testing.T) {
	app, tm := newAuthApp(t)
	forged, err := tm.GenerateToken("emp1", domain.UserKindAdministrator)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+forged.Value)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
