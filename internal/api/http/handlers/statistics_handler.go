package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-center/internal/api/dto"
	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/service"
)

// StatisticsHandler serves period reports and productivity figures.
type StatisticsHandler struct {
	stats *service.StatisticsService
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(stats *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// Daily GET /admin/statistics/daily.
func (h *StatisticsHandler) Daily(c *fiber.Ctx) error {
	return writeReport(c, h.stats.DailyStatistics())
}

// Weekly GET /admin/statistics/weekly.
func (h *StatisticsHandler) Weekly(c *fiber.Ctx) error {
	return writeReport(c, h.stats.WeeklyStatistics())
}

// Monthly GET /admin/statistics/monthly.
func (h *StatisticsHandler) Monthly(c *fiber.Ctx) error {
	return writeReport(c, h.stats.MonthlyStatistics())
}

// Range GET /admin/statistics/range?from=&to=.
func (h *StatisticsHandler) Range(c *fiber.Ctx) error {
	from, err := timeQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		return err
	}
	report, err := h.stats.StatisticsForRange(from, to)
	if err != nil {
		return err
	}
	return writeReport(c, report)
}

// Productivity GET /admin/statistics/productivity.
func (h *StatisticsHandler) Productivity(c *fiber.Ctx) error {
	rates := h.stats.EmployeeProductivityAll()
	items := make([]dto.ProductivityResponse, 0, len(rates))
	for id, rate := range rates {
		items = append(items, dto.ProductivityResponse{EmployeeID: id, TicketsPerHour: rate})
	}
	return c.JSON(fiber.Map{"data": items})
}

// EmployeeProductivity GET /admin/statistics/productivity/:id.
func (h *StatisticsHandler) EmployeeProductivity(c *fiber.Ctx) error {
	rate, err := h.stats.EmployeeProductivity(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProductivityResponse{EmployeeID: c.Params("id"), TicketsPerHour: rate}})
}

// CategoryWait GET /admin/statistics/categories/:id/waiting.
func (h *StatisticsHandler) CategoryWait(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	avg, err := h.stats.AverageWaitingTimeByCategory(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CategoryWaitResponse{CategoryID: id, AverageMinutes: avg}})
}

// writeReport renders JSON, or the plain-text report for ?format=text.
func writeReport(c *fiber.Ctx, report domain.StatisticsReport) error {
	if c.Query("format") == "text" {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(report.Text())
	}
	return c.JSON(fiber.Map{"data": report})
}
