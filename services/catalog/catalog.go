// Package catalog is the read side of the service marketplace: the listings
// the booking dialog is opened from.
package catalog

import (
	serviceRepo "timebank/database/repository/service"
	"timebank/models"
)

// CatalogService lists service offers.
type CatalogService interface {
	ListServices() ([]models.Service, error)
	GetService(id string) (*models.Service, error)
}

// DefaultCatalogService is the production implementation.
type DefaultCatalogService struct {
	Repo serviceRepo.ServiceRepository
}

func (s *DefaultCatalogService) ListServices() ([]models.Service, error) {
	return s.Repo.GetAll()
}

func (s *DefaultCatalogService) GetService(id string) (*models.Service, error) {
	return s.Repo.GetByID(id)
}
