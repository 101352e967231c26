package booking

import "timebank/models"

const (
	// MaxServiceBalance is the soft quota: a user may request services only
	// while they have fewer than this many more requests than completions.
	// The request that pushes the balance to the quota is still accepted;
	// only the next one is blocked.
	MaxServiceBalance = 3

	// Bookable duration range in whole hours.
	MinDurationHours = 1
	MaxDurationHours = 8
)

// Eligibility is a user's standing against the soft service quota.
type Eligibility struct {
	Balance    int
	CanRequest bool
}

// EvaluateEligibility computes the requester's service balance
// (requested - completed) and whether a new request is permitted.
// Pure function of the user snapshot; zero counters evaluate naturally.
func EvaluateEligibility(user *models.User) Eligibility {
	if user == nil {
		return Eligibility{Balance: 0, CanRequest: true}
	}
	balance := user.ServicesRequested - user.ServicesCompleted
	return Eligibility{
		Balance:    balance,
		CanRequest: balance < MaxServiceBalance,
	}
}

// ComputeCost returns the credit hold for a candidate booking. Callers must
// validate the duration with ValidateDuration first; this function does not
// re-validate.
func ComputeCost(durationHours int, creditsPerHour float64) float64 {
	return float64(durationHours) * creditsPerHour
}

// ValidateDuration checks that a candidate duration is a whole number of
// hours within the bookable range.
func ValidateDuration(hours int) error {
	if hours < MinDurationHours || hours > MaxDurationHours {
		return &InvalidDurationError{Hours: hours}
	}
	return nil
}
