package booking

import (
	"context"
	"fmt"

	"timebank/models"
	"timebank/utils"

	"go.uber.org/zap"
)

// Respond lets the provider of a pending booking confirm or decline it.
// On confirmation the provider's completed-services counter advances, which
// is what pays down the requester-side quota across the marketplace.
func (s *DefaultBookingService) Respond(ctx context.Context, session models.Session, bookingID, status string) (*models.BookingRequest, error) {
	if status != models.BookingStatusConfirmed && status != models.BookingStatusDeclined {
		return nil, fmt.Errorf("invalid confirmation status %q", status)
	}

	req, err := s.Bookings.GetByID(bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if req == nil {
		return nil, ErrBookingNotFound
	}
	if req.ProviderID != session.UserID {
		return nil, ErrNotProvider
	}
	if req.ConfirmationStatus != models.BookingStatusPending {
		return nil, ErrAlreadyResolved
	}

	if err := s.Bookings.UpdateStatus(bookingID, status); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	req.ConfirmationStatus = status

	if status == models.BookingStatusConfirmed {
		if err := s.Users.IncrementServicesCompleted(session.UserID); err != nil {
			utils.GetLogger().Warn("Respond: failed to increment completed counter",
				zap.String("userID", session.UserID), zap.Error(err))
		}
	}

	return req, nil
}
