package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-center/internal/api/dto"
	"github.com/spec-kit/service-center/internal/service"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// TicketsHandler manages the public ticket kiosk endpoints.
type TicketsHandler struct {
	dispatch   *service.DispatchService
	categories *service.CategoryService
	history    *service.HistoryService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(dispatch *service.DispatchService, categories *service.CategoryService, history *service.HistoryService) *TicketsHandler {
	return &TicketsHandler{dispatch: dispatch, categories: categories, history: history}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ClientID == "" || req.CategoryID <= 0 {
		return apperrors.NewValidationError("client_id and category_id required", nil)
	}

	ticket, err := h.dispatch.CreateTicket(c.UserContext(), req.ClientID, req.CategoryID)
	if ticket == nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewTicketResponse(ticket, h.dispatch.QueuePosition(ticket.Code)), err)
}

// GetTicket GET /tickets/:code.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.dispatch.GetTicket(c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, h.dispatch.QueuePosition(ticket.Code))})
}

// Position GET /tickets/:code/position.
func (h *TicketsHandler) Position(c *fiber.Ctx) error {
	ticket, err := h.dispatch.GetTicket(c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PositionResponse{
		Code:     ticket.Code,
		Status:   ticket.Status(),
		Position: h.dispatch.QueuePosition(ticket.Code),
	}})
}

// History GET /tickets/:code/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	trail, err := h.history.History(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trail})
}

// CancelTicket POST /tickets/:code/cancel. The client_id comes from the body
// or the query string.
func (h *TicketsHandler) CancelTicket(c *fiber.Ctx) error {
	var req dto.CancelTicketRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if req.ClientID == "" {
		req.ClientID = c.Query("client_id")
	}
	if req.ClientID == "" {
		return apperrors.NewValidationError("client_id required", nil)
	}

	ticket, err := h.dispatch.CancelTicket(c.UserContext(), c.Params("code"), req.ClientID)
	if ticket == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewTicketResponse(ticket, 0), err)
}

// ListCategories GET /categories lists categories accepting tickets.
func (h *TicketsHandler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponses(h.categories.ListActive())})
}

// Queue GET /categories/:id/queue.
func (h *TicketsHandler) Queue(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	waiting, err := h.dispatch.WaitingTickets(id)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(waiting))
	for i, t := range waiting {
		items = append(items, dto.NewTicketResponse(t, i+1))
	}
	return c.JSON(fiber.Map{"data": items})
}
