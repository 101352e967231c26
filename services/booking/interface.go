package booking

import (
	"context"

	bookingRepo "timebank/database/repository/booking"
	serviceRepo "timebank/database/repository/service"
	userRepo "timebank/database/repository/user"
	"timebank/models"

	"github.com/go-redis/redis/v8"
)

// BookingService drives the booking request workflow: eligibility quotes and
// the submit state machine.
type BookingService interface {
	Quote(ctx context.Context, userID, serviceID string, durationHours int) (*Quote, error)
	Submit(ctx context.Context, session models.Session, req SubmitRequest) (*SubmitResult, error)
	Respond(ctx context.Context, session models.Session, bookingID, status string) (*models.BookingRequest, error)
	ListForRequester(ctx context.Context, requesterID string) ([]models.BookingRequest, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Users    userRepo.UserRepository
	Services serviceRepo.ServiceRepository
	Bookings bookingRepo.BookingRepository
	// Guard serializes submissions per (requester, service). Optional;
	// when nil, no in-flight guard is enforced.
	Guard *redis.Client
}

// Quote is the pre-submit view shown in the booking dialog: the requester's
// standing against the soft quota and the credit hold for the candidate
// duration.
type Quote struct {
	Balance      int     `json:"balance"`
	CanRequest   bool    `json:"can_request"`
	TotalCredits float64 `json:"total_credits"`
}

// SubmitRequest is the candidate booking carried from the dialog.
type SubmitRequest struct {
	ServiceID      string `json:"service_id" binding:"required"`
	ScheduledStart string `json:"scheduled_start" binding:"required"` // RFC 3339
	DurationHours  int    `json:"duration_hours" binding:"required"`
}
