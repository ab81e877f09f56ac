package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-center/internal/api/dto"
	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/service"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// EmployeeHandler exposes the endpoints an employee uses at their station.
type EmployeeHandler struct {
	dispatch      *service.DispatchService
	employees     *service.EmployeeService
	stations      *service.StationService
	notifications *service.NotificationService
}

// NewEmployeeHandler constructs handler.
func NewEmployeeHandler(dispatch *service.DispatchService, employees *service.EmployeeService, stations *service.StationService, notifications *service.NotificationService) *EmployeeHandler {
	return &EmployeeHandler{dispatch: dispatch, employees: employees, stations: stations, notifications: notifications}
}

// Status GET /employee.
func (h *EmployeeHandler) Status(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	data := fiber.Map{"employee": dto.NewEmployeeResponse(employee)}
	if station, err := h.stations.StationForEmployee(employee.ID); err == nil {
		data["station"] = dto.NewStationResponse(station)
	}
	return c.JSON(fiber.Map{"data": data})
}

// Pause POST /employee/pause.
func (h *EmployeeHandler) Pause(c *fiber.Ctx) error {
	return h.availability(c, h.employees.Pause)
}

// Resume POST /employee/resume.
func (h *EmployeeHandler) Resume(c *fiber.Ctx) error {
	return h.availability(c, h.employees.Resume)
}

// Offline POST /employee/offline.
func (h *EmployeeHandler) Offline(c *fiber.Ctx) error {
	return h.availability(c, h.employees.GoOffline)
}

func (h *EmployeeHandler) availability(c *fiber.Ctx, change func(ctx context.Context, id string) (*domain.Employee, error)) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	updated, err := change(c.UserContext(), employee.ID)
	if updated == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewEmployeeResponse(updated), err)
}

// Next POST /employee/next pulls the next ticket. 204 when every queue is
// empty.
func (h *EmployeeHandler) Next(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	ticket, err := h.dispatch.AssignNextTicket(c.UserContext(), employee.ID)
	if ticket == nil {
		if err != nil {
			return err
		}
		return c.SendStatus(http.StatusNoContent)
	}
	return respond(c, http.StatusOK, dto.NewTicketResponse(ticket, 0), err)
}

// Current GET /employee/current.
func (h *EmployeeHandler) Current(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	ticket, err := h.dispatch.CurrentTicket(employee.ID)
	if err != nil {
		return err
	}
	if ticket == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, 0)})
}

// Complete POST /employee/tickets/:code/complete.
func (h *EmployeeHandler) Complete(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	ticket, err := h.dispatch.CompleteTicket(c.UserContext(), c.Params("code"), employee.ID)
	if ticket == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewTicketResponse(ticket, 0), err)
}

// Recall POST /employee/recall flashes the current ticket on the display.
func (h *EmployeeHandler) Recall(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	ticket := employee.CurrentTicket()
	if ticket == nil {
		return apperrors.NewPreconditionFailed("no ticket in service", map[string]any{"employee_id": employee.ID})
	}
	h.notifications.Recall(c.UserContext(), ticket.Code)
	return c.JSON(fiber.Map{"data": h.notifications.Board().State()})
}

// Summary GET /employee/summary.
func (h *EmployeeHandler) Summary(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	summary, err := h.employees.AttentionSummary(employee.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Tickets GET /employee/tickets.
func (h *EmployeeHandler) Tickets(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(h.dispatch.TicketsByEmployee(employee.ID))})
}
