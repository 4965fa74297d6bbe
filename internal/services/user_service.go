package services

import (
	"context"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"
	"fieldtrack/internal/repositories"

	"github.com/google/uuid"
)

type UserService interface {
	// EnsureUser resolves an identity-provider subject to the local user
	// row, creating it with the SALESMAN role on first sight.
	EnsureUser(ctx context.Context, externalID, email string, name *string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) EnsureUser(ctx context.Context, externalID, email string, name *string) (*models.User, error) {
	if externalID == "" {
		return nil, common.NewValidationError("external id is required")
	}

	existing, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err == nil {
		return existing, nil
	}
	if !common.IsNotFound(err) {
		return nil, err
	}

	user := &models.User{
		ID:         uuid.New(),
		ExternalID: externalID,
		Email:      email,
		Name:       name,
		Role:       models.RoleSalesman,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByExternalID(ctx, externalID)
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.userRepo.GetByExternalID(ctx, externalID)
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	if !role.Valid() {
		return common.NewValidationError("unknown role %q", role)
	}
	return s.userRepo.UpdateRole(ctx, id, role)
}
