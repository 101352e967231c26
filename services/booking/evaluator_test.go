package booking

import (
	"testing"

	"timebank/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateEligibility(t *testing.T) {
	tests := []struct {
		name        string
		completed   int
		requested   int
		wantBalance int
		wantCan     bool
	}{
		{"fresh user", 0, 0, 0, true},
		{"one ahead", 0, 1, 1, true},
		{"two ahead", 0, 2, 2, true},
		{"at quota", 0, 3, 3, false},
		{"past quota", 0, 5, 5, false},
		{"balanced heavy user", 5, 5, 0, true},
		{"provider in credit", 10, 2, -8, true},
		{"catches up after providing", 3, 5, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.User{
				ServicesCompleted: tt.completed,
				ServicesRequested: tt.requested,
			}
			elig := EvaluateEligibility(user)
			assert.Equal(t, tt.wantBalance, elig.Balance)
			assert.Equal(t, tt.wantCan, elig.CanRequest)
		})
	}
}

func TestEvaluateEligibilityNilUser(t *testing.T) {
	elig := EvaluateEligibility(nil)
	assert.Equal(t, 0, elig.Balance)
	assert.True(t, elig.CanRequest)
}

func TestComputeCost(t *testing.T) {
	tests := []struct {
		name           string
		hours          int
		creditsPerHour float64
		want           float64
	}{
		{"minimum duration", 1, 2, 2},
		{"maximum duration", 8, 2, 16},
		{"fractional rate", 3, 1.5, 4.5},
		{"three hours at two credits", 3, 2, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Exact product, no rounding.
			assert.Equal(t, tt.want, ComputeCost(tt.hours, tt.creditsPerHour))
		})
	}
}

func TestValidateDuration(t *testing.T) {
	for hours := MinDurationHours; hours <= MaxDurationHours; hours++ {
		require.NoError(t, ValidateDuration(hours))
	}

	for _, hours := range []int{0, 9, -1, 100} {
		err := ValidateDuration(hours)
		require.Error(t, err, "duration %d should be rejected", hours)

		var durErr *InvalidDurationError
		require.ErrorAs(t, err, &durErr)
		assert.Equal(t, hours, durErr.Hours)
	}
}
