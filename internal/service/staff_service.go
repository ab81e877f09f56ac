package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/auth"
	"github.com/spec-kit/service-center/internal/config"
	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/repository"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// EmployeeService manages staff accounts and employee availability.
type EmployeeService struct {
	base
	bcryptCost int
}

// StaffInput describes a new staff account.
type StaffInput struct {
	ID          string
	Name        string
	Password    string
	AccessLevel int
}

// NewEmployeeService constructs the service.
func NewEmployeeService(cfg config.AuthConfig, deps Dependencies) *EmployeeService {
	return &EmployeeService{base: newBase(deps), bcryptCost: cfg.BcryptCost}
}

func (s *EmployeeService) validate(input StaffInput) (StaffInput, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.Name = strings.TrimSpace(input.Name)
	if input.ID == "" || input.Name == "" || input.Password == "" {
		return input, apperrors.NewValidationError("id, name and password are required", nil)
	}
	return input, nil
}

// RegisterEmployee creates an OFFLINE employee.
func (s *EmployeeService) RegisterEmployee(ctx context.Context, input StaffInput) (*domain.Employee, error) {
	input, err := s.validate(input)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	employee := domain.NewEmployee(input.ID, input.Name, hash)
	if err := s.registry.Users.Add(domain.EmployeeUser(employee)); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("employee registered", zap.String("employee_id", employee.ID))
	return employee, s.commit(ctx, repository.NewBatch().Employee(employee))
}

// RegisterAdministrator creates an administrator account.
func (s *EmployeeService) RegisterAdministrator(ctx context.Context, input StaffInput) (*domain.Administrator, error) {
	input, err := s.validate(input)
	if err != nil {
		return nil, err
	}
	if input.AccessLevel <= 0 {
		input.AccessLevel = 1
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	admin := &domain.Administrator{ID: input.ID, Name: input.Name, PasswordHash: hash, AccessLevel: input.AccessLevel}
	user := domain.AdministratorUser(admin)
	if err := s.registry.Users.Add(user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("administrator registered", zap.String("admin_id", admin.ID), zap.Int("access_level", admin.AccessLevel))
	return admin, s.commit(ctx, repository.NewBatch().User(user))
}

// Pause takes an idle employee out of rotation.
func (s *EmployeeService) Pause(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return s.transition(ctx, employeeID, "pause", (*domain.Employee).Pause)
}

// Resume makes an employee AVAILABLE.
func (s *EmployeeService) Resume(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return s.transition(ctx, employeeID, "resume", (*domain.Employee).Resume)
}

// GoOffline signs an idle employee off.
func (s *EmployeeService) GoOffline(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return s.transition(ctx, employeeID, "go offline", (*domain.Employee).GoOffline)
}

func (s *EmployeeService) transition(ctx context.Context, employeeID, action string, apply func(*domain.Employee) bool) (*domain.Employee, error) {
	employee, err := s.GetEmployee(employeeID)
	if err != nil {
		return nil, err
	}
	from := employee.Availability()
	if !apply(employee) {
		return nil, apperrors.NewPreconditionFailed("cannot "+action, map[string]any{
			"employee_id": employeeID, "availability": from,
		})
	}
	s.logger.Info("employee availability changed",
		zap.String("employee_id", employeeID),
		zap.String("from", string(from)),
		zap.String("to", string(employee.Availability())))
	return employee, s.commit(ctx, repository.NewBatch().Employee(employee))
}

// GetEmployee returns an employee by id.
func (s *EmployeeService) GetEmployee(id string) (*domain.Employee, error) {
	employee, err := s.registry.Users.Employee(id)
	if err != nil {
		return nil, lookupError(err, "employee", map[string]any{"employee_id": id})
	}
	return employee, nil
}

// ListEmployees returns all employees ordered by id.
func (s *EmployeeService) ListEmployees() []*domain.Employee {
	return s.registry.Users.Employees()
}

// AttentionSummary reports how many tickets an employee completed and the
// average service time.
func (s *EmployeeService) AttentionSummary(employeeID string) (domain.AttentionSummary, error) {
	employee, err := s.GetEmployee(employeeID)
	if err != nil {
		return domain.AttentionSummary{}, err
	}
	return employee.Summary(s.now()), nil
}
