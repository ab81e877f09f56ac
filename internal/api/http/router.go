package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-center/internal/api/http/handlers"
	"github.com/spec-kit/service-center/internal/auth"
	"github.com/spec-kit/service-center/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Clients        *handlers.ClientsHandler
	Tickets        *handlers.TicketsHandler
	Employee       *handlers.EmployeeHandler
	Admin          *handlers.AdminHandler
	Statistics     *handlers.StatisticsHandler
	Display        *handlers.DisplayHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Display.Metrics)
	app.Get("/display", cfg.Display.Show)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)

	clients := app.Group("/clients")
	clients.Post("/", cfg.Clients.Register)
	clients.Get("/:id", cfg.Clients.Get)
	clients.Put("/:id", cfg.Clients.Update)
	clients.Get("/:id/tickets", cfg.Clients.Tickets)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/:code", cfg.Tickets.GetTicket)
	tickets.Get("/:code/position", cfg.Tickets.Position)
	tickets.Get("/:code/history", cfg.Tickets.History)
	tickets.Post("/:code/cancel", cfg.Tickets.CancelTicket)

	app.Get("/categories", cfg.Tickets.ListCategories)
	app.Get("/categories/:id/queue", cfg.Tickets.Queue)

	employee := app.Group("/employee", cfg.AuthMiddleware.Handle, auth.RequireKind(domain.UserKindEmployee))
	employee.Get("/", cfg.Employee.Status)
	employee.Post("/pause", cfg.Employee.Pause)
	employee.Post("/resume", cfg.Employee.Resume)
	employee.Post("/offline", cfg.Employee.Offline)
	employee.Post("/next", cfg.Employee.Next)
	employee.Get("/current", cfg.Employee.Current)
	employee.Post("/recall", cfg.Employee.Recall)
	employee.Get("/summary", cfg.Employee.Summary)
	employee.Get("/tickets", cfg.Employee.Tickets)
	employee.Post("/tickets/:code/complete", cfg.Employee.Complete)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireKind(domain.UserKindAdministrator))

	admin.Get("/categories", cfg.Admin.ListCategories)
	admin.Post("/categories", cfg.Admin.CreateCategory)
	admin.Get("/categories/:id", cfg.Admin.GetCategory)
	admin.Put("/categories/:id", cfg.Admin.UpdateCategory)
	admin.Post("/categories/:id/activate", cfg.Admin.ActivateCategory)
	admin.Post("/categories/:id/deactivate", cfg.Admin.DeactivateCategory)
	admin.Post("/categories/:id/employees", cfg.Admin.AssignCategoryEmployee)
	admin.Delete("/categories/:id/employees/:employeeID", cfg.Admin.RemoveCategoryEmployee)
	admin.Get("/queues", cfg.Admin.QueueStatus)

	admin.Get("/stations", cfg.Admin.ListStations)
	admin.Post("/stations", cfg.Admin.CreateStation)
	admin.Post("/stations/:id/open", cfg.Admin.OpenStation)
	admin.Post("/stations/:id/close", cfg.Admin.CloseStation)
	admin.Post("/stations/:id/employee", cfg.Admin.AssignStationEmployee)
	admin.Delete("/stations/:id/employee", cfg.Admin.UnassignStationEmployee)
	admin.Post("/stations/:id/categories", cfg.Admin.AddStationCategory)
	admin.Delete("/stations/:id/categories/:categoryID", cfg.Admin.RemoveStationCategory)

	admin.Get("/employees", cfg.Admin.ListEmployees)
	admin.Post("/employees", cfg.Admin.RegisterEmployee)
	admin.Get("/employees/:id/summary", cfg.Admin.EmployeeSummary)
	admin.Post("/administrators", auth.RequireAccessLevel(2), cfg.Admin.RegisterAdministrator)
	admin.Get("/clients", cfg.Clients.List)

	stats := admin.Group("/statistics")
	stats.Get("/daily", cfg.Statistics.Daily)
	stats.Get("/weekly", cfg.Statistics.Weekly)
	stats.Get("/monthly", cfg.Statistics.Monthly)
	stats.Get("/range", cfg.Statistics.Range)
	stats.Get("/productivity", cfg.Statistics.Productivity)
	stats.Get("/productivity/:id", cfg.Statistics.EmployeeProductivity)
	stats.Get("/categories/:id/waiting", cfg.Statistics.CategoryWait)

	admin.Put("/display", cfg.Display.Update)
	admin.Delete("/display", cfg.Display.Clear)
}
