package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"timebank/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type fakeUserRepo struct {
	users        map[string]*models.User
	getErr       error
	requestIncs  int
	completeIncs int
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %s not found", id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) { return nil, nil }
func (f *fakeUserRepo) GetByPhone(phone string) (*models.User, error) { return nil, nil }
func (f *fakeUserRepo) Create(user *models.User) error {
	f.users[user.ID] = user
	return nil
}
func (f *fakeUserRepo) Delete(id string) error                        { return nil }
func (f *fakeUserRepo) UpdateSetDocument(id string, doc bson.M) error { return nil }

func (f *fakeUserRepo) IncrementServicesRequested(id string) error {
	f.requestIncs++
	if u, ok := f.users[id]; ok {
		u.ServicesRequested++
	}
	return nil
}

func (f *fakeUserRepo) IncrementServicesCompleted(id string) error {
	f.completeIncs++
	if u, ok := f.users[id]; ok {
		u.ServicesCompleted++
	}
	return nil
}

type fakeServiceRepo struct {
	services map[string]*models.Service
}

func (f *fakeServiceRepo) GetByID(id string) (*models.Service, error) {
	return f.services[id], nil
}
func (f *fakeServiceRepo) GetAll() ([]models.Service, error) { return nil, nil }
func (f *fakeServiceRepo) Create(s *models.Service) error    { return nil }

type fakeBookingRepo struct {
	createErr   error
	createCalls int
	created     []*models.BookingRequest
	statuses    map[string]string
}

func (f *fakeBookingRepo) Create(req *models.BookingRequest) (string, error) {
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	req.ID = fmt.Sprintf("booking-%d", f.createCalls)
	req.ConfirmationStatus = models.BookingStatusPending
	f.created = append(f.created, req)
	return req.ID, nil
}

func (f *fakeBookingRepo) GetByID(id string) (*models.BookingRequest, error) {
	for _, b := range f.created {
		if b.ID == id {
			cp := *b
			if status, ok := f.statuses[id]; ok {
				cp.ConfirmationStatus = status
			}
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) ListByRequester(requesterID string) ([]models.BookingRequest, error) {
	var out []models.BookingRequest
	for _, b := range f.created {
		if b.RequesterID == requesterID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(id, status string) error {
	if f.statuses == nil {
		f.statuses = make(map[string]string)
	}
	f.statuses[id] = status
	return nil
}

func newTestService(t *testing.T, user *models.User) (*DefaultBookingService, *fakeUserRepo, *fakeBookingRepo) {
	t.Helper()
	users := &fakeUserRepo{users: map[string]*models.User{}}
	if user != nil {
		users.users[user.ID] = user
	}
	bookings := &fakeBookingRepo{}
	services := &fakeServiceRepo{services: map[string]*models.Service{
		"svc-1": {
			ID:             "svc-1",
			Title:          "Garden help",
			ProviderID:     "provider-1",
			CreditsPerHour: 2,
		},
	}}
	svc := &DefaultBookingService{
		Users:    users,
		Services: services,
		Bookings: bookings,
	}
	return svc, users, bookings
}

func validRequest() SubmitRequest {
	return SubmitRequest{
		ServiceID:      "svc-1",
		ScheduledStart: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		DurationHours:  3,
	}
}

func TestSubmitDemoBlockedBeforeAnything(t *testing.T) {
	// A demo session is blocked before any quota or cost logic, whatever the
	// quota state; the store must never be touched.
	svc, users, bookings := newTestService(t, &models.User{
		ID: "user-1", ServicesCompleted: 0, ServicesRequested: 5,
	})

	session := models.Session{UserID: "user-1", Demo: true}
	result, err := svc.Submit(context.Background(), session, validRequest())
	require.NoError(t, err)

	assert.Equal(t, OutcomeDemoBlocked, result.Outcome)
	assert.Empty(t, result.BookingID)
	assert.Equal(t, 0, bookings.createCalls)
	assert.Equal(t, 0, users.requestIncs)
}

func TestSubmitAccepted(t *testing.T) {
	svc, users, bookings := newTestService(t, &models.User{
		ID: "user-1", ServicesCompleted: 0, ServicesRequested: 1,
	})

	session := models.Session{UserID: "user-1"}
	result, err := svc.Submit(context.Background(), session, validRequest())
	require.NoError(t, err)

	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.NotEmpty(t, result.BookingID)
	assert.Equal(t, 2, result.Balance)
	assert.Equal(t, 1, bookings.createCalls)
	assert.Equal(t, 1, users.requestIncs)

	require.Len(t, bookings.created, 1)
	created := bookings.created[0]
	assert.Equal(t, "provider-1", created.ProviderID)
	assert.Equal(t, "user-1", created.RequesterID)
	assert.Equal(t, models.BookingStatusPending, created.ConfirmationStatus)
	assert.Equal(t, float64(6), created.CreditsHeld)
	assert.Equal(t, created.ScheduledStart.Add(3*time.Hour), created.ScheduledEnd)
}

func TestSubmitQuotaTransition(t *testing.T) {
	// The request that pushes the balance to the quota is still accepted;
	// the outcome only signals that future requests will be blocked.
	svc, _, bookings := newTestService(t, &models.User{
		ID: "user-1", ServicesCompleted: 0, ServicesRequested: 2,
	})

	session := models.Session{UserID: "user-1"}
	result, err := svc.Submit(context.Background(), session, validRequest())
	require.NoError(t, err)

	assert.Equal(t, OutcomeQuotaExceeded, result.Outcome)
	assert.NotEmpty(t, result.BookingID, "booking must still be created")
	assert.Equal(t, 3, result.Balance)
	assert.Contains(t, result.Message, "3 more requests than provided")
	assert.Equal(t, 1, bookings.createCalls)
}

func TestSubmitFailedLeavesNoState(t *testing.T) {
	svc, users, bookings := newTestService(t, &models.User{
		ID: "user-1", ServicesCompleted: 0, ServicesRequested: 1,
	})
	bookings.createErr = errors.New("store unavailable")

	session := models.Session{UserID: "user-1"}
	result, err := svc.Submit(context.Background(), session, validRequest())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Empty(t, result.BookingID)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, 0, users.requestIncs, "requested counter must not move on failure")
	assert.Equal(t, 1, bookings.createCalls, "exactly one create attempt, no retries")
}

func TestSubmitConcreteScenario(t *testing.T) {
	// User {completed:5, requested:5}, service at 2 credits/hour, 3 hours:
	// canRequest, 6 credits held, Accepted with new balance 1.
	user := &models.User{ID: "user-1", ServicesCompleted: 5, ServicesRequested: 5}
	svc, _, bookings := newTestService(t, user)

	quote, err := svc.Quote(context.Background(), "user-1", "svc-1", 3)
	require.NoError(t, err)
	assert.True(t, quote.CanRequest)
	assert.Equal(t, 0, quote.Balance)
	assert.Equal(t, float64(6), quote.TotalCredits)

	result, err := svc.Submit(context.Background(), models.Session{UserID: "user-1"}, validRequest())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.Equal(t, 1, result.Balance)
	assert.Equal(t, 1, bookings.createCalls)
}

func TestSubmitRejectsInvalidDuration(t *testing.T) {
	svc, _, bookings := newTestService(t, &models.User{ID: "user-1"})

	for _, hours := range []int{0, 9} {
		req := validRequest()
		req.DurationHours = hours
		_, err := svc.Submit(context.Background(), models.Session{UserID: "user-1"}, req)

		var durErr *InvalidDurationError
		require.ErrorAs(t, err, &durErr)
	}
	assert.Equal(t, 0, bookings.createCalls)
}

func TestSubmitRejectsMalformedStart(t *testing.T) {
	svc, _, bookings := newTestService(t, &models.User{ID: "user-1"})

	req := validRequest()
	req.ScheduledStart = "tomorrow at noon"
	_, err := svc.Submit(context.Background(), models.Session{UserID: "user-1"}, req)
	require.ErrorIs(t, err, ErrInvalidSchedule)
	assert.Equal(t, 0, bookings.createCalls)
}

func TestSubmitUnknownService(t *testing.T) {
	svc, _, _ := newTestService(t, &models.User{ID: "user-1"})

	req := validRequest()
	req.ServiceID = "nope"
	_, err := svc.Submit(context.Background(), models.Session{UserID: "user-1"}, req)
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestSubmitInFlightGuard(t *testing.T) {
	mr := miniredis.RunT(t)
	guard := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc, _, bookings := newTestService(t, &models.User{ID: "user-1"})
	svc.Guard = guard

	// Simulate an outstanding submission for the same (requester, service).
	require.NoError(t, mr.Set("booking:inflight:user-1:svc-1", "1"))

	_, err := svc.Submit(context.Background(), models.Session{UserID: "user-1"}, validRequest())
	require.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, 0, bookings.createCalls)

	// Once the guard clears, the submission goes through and releases it again.
	mr.Del("booking:inflight:user-1:svc-1")
	result, err := svc.Submit(context.Background(), models.Session{UserID: "user-1"}, validRequest())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccepted, result.Outcome)
	assert.False(t, mr.Exists("booking:inflight:user-1:svc-1"))
}

func TestQuoteValidatesDuration(t *testing.T) {
	svc, _, _ := newTestService(t, &models.User{ID: "user-1"})

	var durErr *InvalidDurationError
	_, err := svc.Quote(context.Background(), "user-1", "svc-1", 0)
	require.ErrorAs(t, err, &durErr)
	_, err = svc.Quote(context.Background(), "user-1", "svc-1", 9)
	require.ErrorAs(t, err, &durErr)
}
