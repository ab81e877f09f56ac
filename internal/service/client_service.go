package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/repository"
	apperrors "github.com/spec-kit/service-center/pkg/util/errorutil"
)

// ClientService registers walk-in clients.
type ClientService struct {
	base
}

// NewClientService constructs the service.
func NewClientService(deps Dependencies) *ClientService {
	return &ClientService{base: newBase(deps)}
}

// RegisterClient stores a client. An empty id is generated.
func (s *ClientService) RegisterClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	client.ID = strings.TrimSpace(client.ID)
	client.Name = strings.TrimSpace(client.Name)
	if client.Name == "" {
		return domain.Client{}, apperrors.NewValidationError("name is required", nil)
	}
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if err := s.registry.Clients.Add(client); err != nil {
		return domain.Client{}, apperrors.MapError(err)
	}
	s.logger.Info("client registered", zap.String("client_id", client.ID))
	return client, s.commit(ctx, repository.NewBatch().Client(client))
}

// UpdateClient replaces a client's name and contact info.
func (s *ClientService) UpdateClient(ctx context.Context, client domain.Client) (domain.Client, error) {
	existing, err := s.GetClient(client.ID)
	if err != nil {
		return domain.Client{}, err
	}
	if name := strings.TrimSpace(client.Name); name != "" {
		existing.Name = name
	}
	if client.ContactInfo != "" {
		existing.ContactInfo = strings.TrimSpace(client.ContactInfo)
	}
	if err := s.registry.Clients.Save(existing); err != nil {
		return domain.Client{}, apperrors.MapError(err)
	}
	return existing, s.commit(ctx, repository.NewBatch().Client(existing))
}

// GetClient returns a client by id.
func (s *ClientService) GetClient(id string) (domain.Client, error) {
	client, err := s.registry.Clients.Get(id)
	if err != nil {
		return domain.Client{}, lookupError(err, "client", map[string]any{"client_id": id})
	}
	return client, nil
}

// ListClients returns all clients.
func (s *ClientService) ListClients() []domain.Client {
	return s.registry.Clients.List()
}
