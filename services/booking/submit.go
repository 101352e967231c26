package booking

import (
	"context"
	"fmt"
	"time"

	"timebank/models"
	"timebank/utils"

	"go.uber.org/zap"
)

// Outcome classifies the result of a submit attempt. QuotaExceeded is
// informational: the booking was created, only future requests are blocked.
type Outcome string

const (
	OutcomeAccepted      Outcome = "accepted"
	OutcomeQuotaExceeded Outcome = "quota_exceeded"
	OutcomeDemoBlocked   Outcome = "demo_blocked"
	OutcomeFailed        Outcome = "failed"
)

// SubmitResult is the classified outcome of a submit attempt.
type SubmitResult struct {
	Outcome   Outcome `json:"outcome"`
	BookingID string  `json:"booking_id,omitempty"`
	Balance   int     `json:"balance"`
	Message   string  `json:"message,omitempty"`
}

// guardTTL bounds how long an in-flight submission can hold the guard.
const guardTTL = 30 * time.Second

// Quote evaluates the requester's quota standing and the credit hold for a
// candidate duration, without submitting anything.
func (s *DefaultBookingService) Quote(ctx context.Context, userID, serviceID string, durationHours int) (*Quote, error) {
	if err := ValidateDuration(durationHours); err != nil {
		return nil, err
	}

	svc, err := s.Services.GetByID(serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}

	user, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	elig := EvaluateEligibility(user)
	return &Quote{
		Balance:      elig.Balance,
		CanRequest:   elig.CanRequest,
		TotalCredits: ComputeCost(durationHours, svc.CreditsPerHour),
	}, nil
}

// Submit runs the booking submit state machine. Entry conditions are checked
// in strict order: a demo session is blocked before any cost or quota logic
// runs and before anything is sent to the store. Exactly one create call is
// made per successful attempt; a Failed outcome leaves no state behind and
// requires explicit resubmission.
func (s *DefaultBookingService) Submit(ctx context.Context, session models.Session, req SubmitRequest) (*SubmitResult, error) {
	if session.Demo {
		return &SubmitResult{
			Outcome: OutcomeDemoBlocked,
			Message: "You're currently browsing in demo mode. To book services, please log in with your account.",
		}, nil
	}

	if err := ValidateDuration(req.DurationHours); err != nil {
		return nil, err
	}
	start, err := time.Parse(time.RFC3339, req.ScheduledStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	svc, err := s.Services.GetByID(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}

	// Only one submission may be in flight per (requester, service): there is
	// no idempotency key, so a concurrent duplicate would double-create.
	if s.Guard != nil {
		guardKey := fmt.Sprintf("booking:inflight:%s:%s", session.UserID, req.ServiceID)
		ok, err := s.Guard.SetNX(ctx, guardKey, 1, guardTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire submission guard: %w", err)
		}
		if !ok {
			return nil, ErrSubmissionInFlight
		}
		defer s.Guard.Del(ctx, guardKey)
	}

	user, err := s.Users.GetByID(session.UserID)
	if err != nil {
		utils.GetLogger().Error("Submit: failed to load requester", zap.Error(err))
		return &SubmitResult{
			Outcome: OutcomeFailed,
			Message: "Failed to create booking. Please try again.",
		}, nil
	}

	request := &models.BookingRequest{
		ServiceID:      svc.ID,
		ProviderID:     svc.ProviderID,
		RequesterID:    session.UserID,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Duration(req.DurationHours) * time.Hour),
		DurationHours:  req.DurationHours,
		CreditsHeld:    ComputeCost(req.DurationHours, svc.CreditsPerHour),
	}

	bookingID, err := s.Bookings.Create(request)
	if err != nil {
		utils.GetLogger().Error("Submit: booking create failed",
			zap.String("serviceID", svc.ID), zap.Error(err))
		return &SubmitResult{
			Outcome: OutcomeFailed,
			Message: "Failed to create booking. Please try again.",
		}, nil
	}

	if err := s.Users.IncrementServicesRequested(session.UserID); err != nil {
		// The booking exists; the counter catches up on the next snapshot.
		utils.GetLogger().Warn("Submit: failed to increment requested counter",
			zap.String("userID", session.UserID), zap.Error(err))
	}

	newBalance := (user.ServicesRequested + 1) - user.ServicesCompleted
	if newBalance >= MaxServiceBalance {
		return &SubmitResult{
			Outcome:   OutcomeQuotaExceeded,
			BookingID: bookingID,
			Balance:   newBalance,
			Message: fmt.Sprintf(
				"You've successfully booked this service! However, you've reached your service request quota: %d more requests than provided. To request more services, please provide a service first.",
				newBalance),
		}, nil
	}

	return &SubmitResult{
		Outcome:   OutcomeAccepted,
		BookingID: bookingID,
		Balance:   newBalance,
	}, nil
}

// ListForRequester returns the booking requests made by a user.
func (s *DefaultBookingService) ListForRequester(ctx context.Context, requesterID string) ([]models.BookingRequest, error) {
	return s.Bookings.ListByRequester(requesterID)
}
