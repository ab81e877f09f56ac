package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-center/internal/api/dto"
	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/service"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// ClientsHandler manages walk-in client registration.
type ClientsHandler struct {
	clients  *service.ClientService
	dispatch *service.DispatchService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clients *service.ClientService, dispatch *service.DispatchService) *ClientsHandler {
	return &ClientsHandler{clients: clients, dispatch: dispatch}
}

// Register POST /clients.
func (h *ClientsHandler) Register(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	client, err := h.clients.RegisterClient(c.UserContext(), domain.Client{
		ID:          req.ID,
		Name:        req.Name,
		ContactInfo: req.ContactInfo,
	})
	if err != nil && client.ID == "" {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewClientResponse(client), err)
}

// Update PUT /clients/:id.
func (h *ClientsHandler) Update(c *fiber.Ctx) error {
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	client, err := h.clients.UpdateClient(c.UserContext(), domain.Client{
		ID:          c.Params("id"),
		Name:        req.Name,
		ContactInfo: req.ContactInfo,
	})
	if err != nil && client.ID == "" {
		return err
	}
	return respond(c, http.StatusOK, dto.NewClientResponse(client), err)
}

// Get GET /clients/:id.
func (h *ClientsHandler) Get(c *fiber.Ctx) error {
	client, err := h.clients.GetClient(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientResponse(client)})
}

// Tickets GET /clients/:id/tickets.
func (h *ClientsHandler) Tickets(c *fiber.Ctx) error {
	if _, err := h.clients.GetClient(c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(h.dispatch.TicketsByClient(c.Params("id")))})
}

// List GET /admin/clients.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	clients := h.clients.ListClients()
	items := make([]dto.ClientResponse, 0, len(clients))
	for _, client := range clients {
		items = append(items, dto.NewClientResponse(client))
	}
	return c.JSON(fiber.Map{"data": items})
}
