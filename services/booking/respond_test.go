package booking

import (
	"context"
	"testing"
	"time"

	"timebank/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPendingBooking(t *testing.T, bookings *fakeBookingRepo) string {
	t.Helper()
	id, err := bookings.Create(&models.BookingRequest{
		ServiceID:      "svc-1",
		ProviderID:     "provider-1",
		RequesterID:    "user-1",
		ScheduledStart: time.Now().Add(24 * time.Hour),
		ScheduledEnd:   time.Now().Add(27 * time.Hour),
		DurationHours:  3,
		CreditsHeld:    6,
	})
	require.NoError(t, err)
	return id
}

func TestRespondConfirm(t *testing.T) {
	svc, users, bookings := newTestService(t, &models.User{ID: "provider-1"})
	id := seedPendingBooking(t, bookings)

	session := models.Session{UserID: "provider-1"}
	resolved, err := svc.Respond(context.Background(), session, id, models.BookingStatusConfirmed)
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusConfirmed, resolved.ConfirmationStatus)
	assert.Equal(t, models.BookingStatusConfirmed, bookings.statuses[id])
	assert.Equal(t, 1, users.completeIncs, "confirmation pays down the provider's balance")
}

func TestRespondDecline(t *testing.T) {
	svc, users, bookings := newTestService(t, &models.User{ID: "provider-1"})
	id := seedPendingBooking(t, bookings)

	session := models.Session{UserID: "provider-1"}
	resolved, err := svc.Respond(context.Background(), session, id, models.BookingStatusDeclined)
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusDeclined, resolved.ConfirmationStatus)
	assert.Equal(t, 0, users.completeIncs, "declining must not advance the completed counter")
}

func TestRespondRejectsNonProvider(t *testing.T) {
	svc, _, bookings := newTestService(t, &models.User{ID: "provider-1"})
	id := seedPendingBooking(t, bookings)

	session := models.Session{UserID: "user-1"}
	_, err := svc.Respond(context.Background(), session, id, models.BookingStatusConfirmed)
	require.ErrorIs(t, err, ErrNotProvider)
}

func TestRespondUnknownBooking(t *testing.T) {
	svc, _, _ := newTestService(t, &models.User{ID: "provider-1"})

	session := models.Session{UserID: "provider-1"}
	_, err := svc.Respond(context.Background(), session, "missing", models.BookingStatusConfirmed)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRespondAlreadyResolved(t *testing.T) {
	svc, _, bookings := newTestService(t, &models.User{ID: "provider-1"})
	id := seedPendingBooking(t, bookings)
	require.NoError(t, bookings.UpdateStatus(id, models.BookingStatusDeclined))

	session := models.Session{UserID: "provider-1"}
	_, err := svc.Respond(context.Background(), session, id, models.BookingStatusConfirmed)
	require.ErrorIs(t, err, ErrAlreadyResolved)
}

func TestRespondRejectsInvalidStatus(t *testing.T) {
	svc, _, bookings := newTestService(t, &models.User{ID: "provider-1"})
	id := seedPendingBooking(t, bookings)

	session := models.Session{UserID: "provider-1"}
	_, err := svc.Respond(context.Background(), session, id, "maybe")
	require.Error(t, err)
	assert.Empty(t, bookings.statuses[id])
}
