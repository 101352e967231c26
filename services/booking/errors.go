package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmissionInFlight means another submission for the same service is
	// still outstanding; the caller should retry after it resolves.
	ErrSubmissionInFlight = errors.New("a booking submission is already in progress for this service")
	// ErrQuotaReached blocks new requests once the service balance hits the quota.
	ErrQuotaReached = errors.New("service request quota reached: please provide a service first")
	// ErrInvalidSchedule means the scheduled start could not be parsed.
	ErrInvalidSchedule = errors.New("scheduled_start must be a valid RFC 3339 timestamp")
	// ErrServiceNotFound means the requested service offer does not exist.
	ErrServiceNotFound = errors.New("service not found")
	// ErrBookingNotFound means the booking request does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrNotProvider means the caller is not the provider of the booking.
	ErrNotProvider = errors.New("only the service provider may respond to this booking")
	// ErrAlreadyResolved means the booking has already been confirmed or declined.
	ErrAlreadyResolved = errors.New("booking has already been resolved")
)

// InvalidDurationError reports a duration outside the bookable range.
type InvalidDurationError struct {
	Hours int
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("duration must be between %d and %d hours, got %d",
		MinDurationHours, MaxDurationHours, e.Hours)
}
