package bookingRepo

import "timebank/models"

// BookingRepository defines methods for booking-request data access.
type BookingRepository interface {
	// Create inserts a new booking request and returns its assigned ID.
	Create(req *models.BookingRequest) (string, error)
	// GetByID retrieves a booking request by its unique ID; nil if not found.
	GetByID(id string) (*models.BookingRequest, error)
	// ListByRequester retrieves all booking requests made by a user.
	ListByRequester(requesterID string) ([]models.BookingRequest, error)
	// UpdateStatus moves a booking request to a new confirmation status.
	UpdateStatus(id, status string) error
}
