package services

import (
	"context"
	"strings"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"
	"fieldtrack/internal/repositories"

	"github.com/google/uuid"
)

type StoreService interface {
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Store, error)
}

type storeService struct {
	storeRepo repositories.StoreRepository
}

func NewStoreService(storeRepo repositories.StoreRepository) StoreService {
	return &storeService{storeRepo: storeRepo}
}

func validateStore(store *models.Store) error {
	if strings.TrimSpace(store.Name) == "" {
		return common.NewValidationError("store name is required")
	}
	// Coordinates come as a pair: a fence needs both.
	if (store.Latitude == nil) != (store.Longitude == nil) {
		return common.NewValidationError("latitude and longitude must be provided together")
	}
	if store.Latitude != nil {
		if *store.Latitude < -90 || *store.Latitude > 90 {
			return common.NewValidationError("latitude out of range")
		}
		if *store.Longitude < -180 || *store.Longitude > 180 {
			return common.NewValidationError("longitude out of range")
		}
	}
	return nil
}

func (s *storeService) Create(ctx context.Context, store *models.Store) error {
	if err := validateStore(store); err != nil {
		return err
	}
	store.ID = uuid.New()
	return s.storeRepo.Create(ctx, store)
}

func (s *storeService) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	return s.storeRepo.GetByID(ctx, id)
}

func (s *storeService) Update(ctx context.Context, store *models.Store) error {
	if err := validateStore(store); err != nil {
		return err
	}
	return s.storeRepo.Update(ctx, store)
}

func (s *storeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.storeRepo.Delete(ctx, id)
}

func (s *storeService) List(ctx context.Context, limit, offset int) ([]*models.Store, error) {
	return s.storeRepo.List(ctx, limit, offset)
}
