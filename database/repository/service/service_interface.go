package serviceRepo

import "timebank/models"

// ServiceRepository defines methods for service-offer data access.
type ServiceRepository interface {
	// GetByID retrieves a service offer by its unique ID; nil if not found.
	GetByID(id string) (*models.Service, error)
	// GetAll retrieves all listed service offers.
	GetAll() ([]models.Service, error)
	// Create inserts a new service offer.
	Create(service *models.Service) error
}
