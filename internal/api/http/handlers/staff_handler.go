package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-center/internal/api/dto"
	"github.com/spec-kit/service-center/internal/service"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// AdminHandler exposes administration of categories, stations and staff.
type AdminHandler struct {
	categories *service.CategoryService
	stations   *service.StationService
	employees  *service.EmployeeService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(categories *service.CategoryService, stations *service.StationService, employees *service.EmployeeService) *AdminHandler {
	return &AdminHandler{categories: categories, stations: stations, employees: employees}
}

// ListCategories GET /admin/categories.
func (h *AdminHandler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponses(h.categories.ListCategories())})
}

// GetCategory GET /admin/categories/:id.
func (h *AdminHandler) GetCategory(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	category, err := h.categories.GetCategory(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// CreateCategory POST /admin/categories.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.categories.CreateCategory(c.UserContext(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Prefix:      req.Prefix,
	})
	if category == nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewCategoryResponse(category), err)
}

// UpdateCategory PUT /admin/categories/:id.
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.categories.UpdateCategory(c.UserContext(), id, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Prefix:      req.Prefix,
	})
	if category == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCategoryResponse(category), err)
}

// ActivateCategory POST /admin/categories/:id/activate.
func (h *AdminHandler) ActivateCategory(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	category, err := h.categories.ActivateCategory(c.UserContext(), id)
	if category == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCategoryResponse(category), err)
}

// DeactivateCategory POST /admin/categories/:id/deactivate.
func (h *AdminHandler) DeactivateCategory(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	category, err := h.categories.DeactivateCategory(c.UserContext(), id)
	if category == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCategoryResponse(category), err)
}

// AssignCategoryEmployee POST /admin/categories/:id/employees.
func (h *AdminHandler) AssignCategoryEmployee(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.EmployeeAssignmentRequest
	if err := c.BodyParser(&req); err != nil || req.EmployeeID == "" {
		return apperrors.NewValidationError("employee_id required", nil)
	}
	category, err := h.categories.AssignEmployee(c.UserContext(), id, req.EmployeeID)
	if category == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCategoryResponse(category), err)
}

// RemoveCategoryEmployee DELETE /admin/categories/:id/employees/:employeeID.
func (h *AdminHandler) RemoveCategoryEmployee(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	category, err := h.categories.RemoveEmployee(c.UserContext(), id, c.Params("employeeID"))
	if category == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewCategoryResponse(category), err)
}

// QueueStatus GET /admin/queues.
func (h *AdminHandler) QueueStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.categories.QueueStatuses()})
}

// ListStations GET /admin/stations.
func (h *AdminHandler) ListStations(c *fiber.Ctx) error {
	stations := h.stations.ListStations()
	if c.Query("status") == "open" {
		stations = h.stations.ListOpen()
	}
	if raw := c.QueryInt("category_id", 0); raw > 0 {
		stations = h.stations.StationsSupporting(raw)
	}
	return c.JSON(fiber.Map{"data": dto.NewStationResponses(stations)})
}

// CreateStation POST /admin/stations.
func (h *AdminHandler) CreateStation(c *fiber.Ctx) error {
	var req dto.StationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	station, err := h.stations.CreateStation(c.UserContext(), req.Number)
	if station == nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewStationResponse(station), err)
}

// OpenStation POST /admin/stations/:id/open.
func (h *AdminHandler) OpenStation(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	station, err := h.stations.OpenStation(c.UserContext(), id)
	if station == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStationResponse(station), err)
}

// CloseStation POST /admin/stations/:id/close.
func (h *AdminHandler) CloseStation(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	station, err := h.stations.CloseStation(c.UserContext(), id)
	if station == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStationResponse(station), err)
}

// AssignStationEmployee POST /admin/stations/:id/employee.
func (h *AdminHandler) AssignStationEmployee(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.EmployeeAssignmentRequest
	if err := c.BodyParser(&req); err != nil || req.EmployeeID == "" {
		return apperrors.NewValidationError("employee_id required", nil)
	}
	station, err := h.stations.AssignEmployee(c.UserContext(), id, req.EmployeeID)
	if station == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStationResponse(station), err)
}

// UnassignStationEmployee DELETE /admin/stations/:id/employee.
func (h *AdminHandler) UnassignStationEmployee(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	station, err := h.stations.UnassignEmployee(c.UserContext(), id)
	if station == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStationResponse(station), err)
}

// AddStationCategory POST /admin/stations/:id/categories.
func (h *AdminHandler) AddStationCategory(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.StationCategoryRequest
	if err := c.BodyParser(&req); err != nil || req.CategoryID <= 0 {
		return apperrors.NewValidationError("category_id required", nil)
	}
	station, err := h.stations.AddCategory(c.UserContext(), id, req.CategoryID)
	if station == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStationResponse(station), err)
}

// RemoveStationCategory DELETE /admin/stations/:id/categories/:categoryID.
func (h *AdminHandler) RemoveStationCategory(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	categoryID, err := intParam(c, "categoryID")
	if err != nil {
		return err
	}
	station, err := h.stations.RemoveCategory(c.UserContext(), id, categoryID)
	if station == nil {
		return err
	}
	return respond(c, http.StatusOK, dto.NewStationResponse(station), err)
}

// ListEmployees GET /admin/employees.
func (h *AdminHandler) ListEmployees(c *fiber.Ctx) error {
	employees := h.employees.ListEmployees()
	items := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		items = append(items, dto.NewEmployeeResponse(e))
	}
	return c.JSON(fiber.Map{"data": items})
}

// RegisterEmployee POST /admin/employees.
func (h *AdminHandler) RegisterEmployee(c *fiber.Ctx) error {
	var req dto.RegisterStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	employee, err := h.employees.RegisterEmployee(c.UserContext(), service.StaffInput{
		ID:       req.ID,
		Name:     req.Name,
		Password: req.Password,
	})
	if employee == nil {
		return err
	}
	return respond(c, http.StatusCreated, dto.NewEmployeeResponse(employee), err)
}

// RegisterAdministrator POST /admin/administrators.
func (h *AdminHandler) RegisterAdministrator(c *fiber.Ctx) error {
	var req dto.RegisterStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	admin, err := h.employees.RegisterAdministrator(c.UserContext(), service.StaffInput{
		ID:          req.ID,
		Name:        req.Name,
		Password:    req.Password,
		AccessLevel: req.AccessLevel,
	})
	if admin == nil {
		return err
	}
	return respond(c, http.StatusCreated, fiber.Map{
		"id":           admin.ID,
		"name":         admin.Name,
		"access_level": admin.AccessLevel,
	}, err)
}

// EmployeeSummary GET /admin/employees/:id/summary.
func (h *AdminHandler) EmployeeSummary(c *fiber.Ctx) error {
	summary, err := h.employees.AttentionSummary(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
