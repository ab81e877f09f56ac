package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/repository"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// CategoryService manages service categories and their staffing.
type CategoryService struct {
	base
	mu sync.Mutex
}

// CategoryInput describes a category create or update.
type CategoryInput struct {
	Name        string
	Description string
	Prefix      string
}

// QueueStatus reports how many tickets wait in a category.
type QueueStatus struct {
	CategoryID int    `json:"category_id"`
	Name       string `json:"name"`
	Prefix     string `json:"prefix"`
	Active     bool   `json:"active"`
	Pending    int    `json:"pending"`
}

// NewCategoryService constructs the service.
func NewCategoryService(deps Dependencies) *CategoryService {
	return &CategoryService{base: newBase(deps)}
}

// CreateCategory registers an active category with a unique prefix.
func (s *CategoryService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	prefix := strings.ToUpper(strings.TrimSpace(input.Prefix))
	if name == "" || prefix == "" {
		return nil, apperrors.NewValidationError("name and prefix are required", nil)
	}

	s.mu.Lock()
	category := domain.NewCategory(s.registry.Categories.NextID(), name, strings.TrimSpace(input.Description), prefix)
	err := s.registry.Categories.Add(category)
	s.mu.Unlock()
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("category created", zap.Int("category_id", category.ID), zap.String("prefix", prefix))
	return category, s.commit(ctx, repository.NewBatch().Category(category))
}

// UpdateCategory changes descriptive fields. The prefix is fixed once
// tickets have been issued under it.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int, input CategoryInput) (*domain.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	if prefix := strings.ToUpper(strings.TrimSpace(input.Prefix)); prefix != "" && prefix != category.Prefix {
		return nil, apperrors.NewValidationError("prefix cannot be changed", map[string]any{"category_id": id})
	}
	category.SetDetails(strings.TrimSpace(input.Name), strings.TrimSpace(input.Description))
	return category, s.commit(ctx, repository.NewBatch().Category(category))
}

// ActivateCategory allows new tickets for the category.
func (s *CategoryService) ActivateCategory(ctx context.Context, id int) (*domain.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	category.Activate()
	return category, s.commit(ctx, repository.NewBatch().Category(category))
}

// DeactivateCategory stops new tickets. Waiting tickets are still served.
func (s *CategoryService) DeactivateCategory(ctx context.Context, id int) (*domain.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	category.Deactivate()
	s.logger.Info("category deactivated", zap.Int("category_id", id), zap.Int("pending", category.CountPending()))
	return category, s.commit(ctx, repository.NewBatch().Category(category))
}

// AssignEmployee records that an employee serves the category.
func (s *CategoryService) AssignEmployee(ctx context.Context, categoryID int, employeeID string) (*domain.Category, error) {
	category, err := s.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.registry.Users.Employee(employeeID); err != nil {
		return nil, lookupError(err, "employee", map[string]any{"employee_id": employeeID})
	}
	if !category.AssignEmployee(employeeID) {
		return category, nil
	}
	return category, s.commit(ctx, repository.NewBatch().Category(category))
}

// RemoveEmployee drops an employee from the category.
func (s *CategoryService) RemoveEmployee(ctx context.Context, categoryID int, employeeID string) (*domain.Category, error) {
	category, err := s.GetCategory(categoryID)
	if err != nil {
		return nil, err
	}
	if !category.RemoveEmployee(employeeID) {
		return nil, apperrors.NewNotFound("category employee", map[string]any{
			"category_id": categoryID, "employee_id": employeeID,
		})
	}
	return category, s.commit(ctx, repository.NewBatch().Category(category))
}

// GetCategory returns a category by id.
func (s *CategoryService) GetCategory(id int) (*domain.Category, error) {
	category, err := s.registry.Categories.Get(id)
	if err != nil {
		return nil, lookupError(err, "category", map[string]any{"category_id": id})
	}
	return category, nil
}

// GetByPrefix returns a category by its ticket prefix.
func (s *CategoryService) GetByPrefix(prefix string) (*domain.Category, error) {
	category, err := s.registry.Categories.GetByPrefix(prefix)
	if err != nil {
		return nil, lookupError(err, "category", map[string]any{"prefix": prefix})
	}
	return category, nil
}

// ListCategories returns every category ordered by id.
func (s *CategoryService) ListCategories() []*domain.Category {
	return s.registry.Categories.List()
}

// ListActive returns categories that accept new tickets.
func (s *CategoryService) ListActive() []*domain.Category {
	var out []*domain.Category
	for _, category := range s.registry.Categories.List() {
		if category.IsActive() {
			out = append(out, category)
		}
	}
	return out
}

// QueueStatus reports the pending count of a category.
func (s *CategoryService) QueueStatus(id int) (QueueStatus, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return QueueStatus{}, err
	}
	return queueStatus(category), nil
}

// QueueStatuses reports every category's pending count.
func (s *CategoryService) QueueStatuses() []QueueStatus {
	categories := s.registry.Categories.List()
	out := make([]QueueStatus, 0, len(categories))
	for _, category := range categories {
		out = append(out, queueStatus(category))
	}
	return out
}

func queueStatus(c *domain.Category) QueueStatus {
	return QueueStatus{
		CategoryID: c.ID,
		Name:       c.Name(),
		Prefix:     c.Prefix,
		Active:     c.IsActive(),
		Pending:    c.CountPending(),
	}
}
