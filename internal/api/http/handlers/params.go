package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-center/internal/auth"
	"github.com/spec-kit/service-center/internal/domain"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

func intParam(c *fiber.Ctx, name string) (int, error) {
	v, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return v, nil
}

func timeQuery(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, apperrors.NewValidationError(name+" required", nil)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid "+name, map[string]any{name: raw})
	}
	return t, nil
}

func currentEmployee(c *fiber.Ctx) (*domain.Employee, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	employee := principal.Employee()
	if employee == nil {
		return nil, apperrors.NewForbidden("employee required")
	}
	return employee, nil
}

// respond writes data with status even when err reports a persistence
// failure, so the caller sees the applied change alongside the error.
func respond(c *fiber.Ctx, status int, data any, err error) error {
	if err != nil {
		if apperrors.HasCode(err, "NOT_DURABLE") {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{
				"data":  data,
				"error": fiber.Map{"code": de.Code, "message": de.Message},
			})
		}
		return err
	}
	return c.Status(status).JSON(fiber.Map{"data": data})
}
