package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"timebank/middleware"
	"timebank/models"
	"timebank/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type fakeBookingService struct {
	submitCalls  int
	submitResult *booking.SubmitResult
	submitErr    error
	quote        *booking.Quote
	quoteErr     error
}

func (f *fakeBookingService) Quote(ctx context.Context, userID, serviceID string, durationHours int) (*booking.Quote, error) {
	return f.quote, f.quoteErr
}

func (f *fakeBookingService) Submit(ctx context.Context, session models.Session, req booking.SubmitRequest) (*booking.SubmitResult, error) {
	f.submitCalls++
	return f.submitResult, f.submitErr
}

func (f *fakeBookingService) Respond(ctx context.Context, session models.Session, bookingID, status string) (*models.BookingRequest, error) {
	return nil, booking.ErrBookingNotFound
}

func (f *fakeBookingService) ListForRequester(ctx context.Context, requesterID string) ([]models.BookingRequest, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users    map[string]*models.User
	getCalls int
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	f.getCalls++
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %s not found", id)
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error)  { return nil, nil }
func (f *fakeUserRepo) GetByPhone(phone string) (*models.User, error)  { return nil, nil }
func (f *fakeUserRepo) Create(user *models.User) error                 { return nil }
func (f *fakeUserRepo) Delete(id string) error                         { return nil }
func (f *fakeUserRepo) UpdateSetDocument(id string, doc bson.M) error  { return nil }
func (f *fakeUserRepo) IncrementServicesRequested(id string) error     { return nil }
func (f *fakeUserRepo) IncrementServicesCompleted(id string) error     { return nil }

func newBookingRouter(session models.Session, svc booking.BookingService, users *fakeUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SessionKey, session)
		c.Next()
	})
	h := NewBookingHandler(svc, users, zap.NewNop())
	r.GET("/bookings/quote", h.QuoteHandler)
	r.POST("/bookings", h.SubmitHandler)
	return r
}

func submitBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(booking.SubmitRequest{
		ServiceID:      "svc-1",
		ScheduledStart: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		DurationHours:  3,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestSubmitHandlerQuotaGuard(t *testing.T) {
	// A caller at the quota is rejected here, before the submit flow runs.
	// This guard is independent of the check inside the submit flow itself.
	svc := &fakeBookingService{}
	users := &fakeUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", ServicesCompleted: 0, ServicesRequested: 3},
	}}
	router := newBookingRouter(models.Session{UserID: "user-1"}, svc, users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, svc.submitCalls, "submit flow must not be invoked")

	var resp struct {
		Error   string `json:"error"`
		Balance int    `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Balance)
	assert.Contains(t, resp.Error, "provide a service first")
}

func TestSubmitHandlerBelowQuotaPasses(t *testing.T) {
	svc := &fakeBookingService{submitResult: &booking.SubmitResult{
		Outcome:   booking.OutcomeAccepted,
		BookingID: "booking-1",
		Balance:   3,
	}}
	users := &fakeUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", ServicesCompleted: 0, ServicesRequested: 2},
	}}
	router := newBookingRouter(models.Session{UserID: "user-1"}, svc, users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, svc.submitCalls)
}

func TestSubmitHandlerDemoSkipsGuard(t *testing.T) {
	// Demo sessions bypass the quota guard entirely; the submit flow blocks
	// them itself, whatever the demo account's counters look like.
	svc := &fakeBookingService{submitResult: &booking.SubmitResult{
		Outcome: booking.OutcomeDemoBlocked,
		Message: "You're currently browsing in demo mode. To book services, please log in with your account.",
	}}
	users := &fakeUserRepo{users: map[string]*models.User{}}
	router := newBookingRouter(models.Session{UserID: "demo-1", Demo: true}, svc, users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, users.getCalls, "guard must not run for demo sessions")
	assert.Equal(t, 1, svc.submitCalls)
	assert.Contains(t, w.Body.String(), "demo mode")
}

func TestSubmitHandlerQuotaExceededOutcomeStillCreated(t *testing.T) {
	svc := &fakeBookingService{submitResult: &booking.SubmitResult{
		Outcome:   booking.OutcomeQuotaExceeded,
		BookingID: "booking-1",
		Balance:   3,
	}}
	users := &fakeUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", ServicesCompleted: 0, ServicesRequested: 2},
	}}
	router := newBookingRouter(models.Session{UserID: "user-1"}, svc, users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// The booking was created; the outcome only warns about the quota.
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSubmitHandlerFailedOutcome(t *testing.T) {
	svc := &fakeBookingService{submitResult: &booking.SubmitResult{
		Outcome: booking.OutcomeFailed,
		Message: "Failed to create booking. Please try again.",
	}}
	users := &fakeUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1"},
	}}
	router := newBookingRouter(models.Session{UserID: "user-1"}, svc, users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSubmitHandlerInfrastructureError(t *testing.T) {
	// Faults inside the submit flow (e.g. the guard store being down) are
	// server errors, not the caller's fault.
	svc := &fakeBookingService{submitErr: errors.New("failed to acquire submission guard: connection refused")}
	users := &fakeUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1"},
	}}
	router := newBookingRouter(models.Session{UserID: "user-1"}, svc, users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSubmitHandlerInvalidSchedule(t *testing.T) {
	svc := &fakeBookingService{submitErr: booking.ErrInvalidSchedule}
	users := &fakeUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1"},
	}}
	router := newBookingRouter(models.Session{UserID: "user-1"}, svc, users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitHandlerInFlight(t *testing.T) {
	svc := &fakeBookingService{submitErr: booking.ErrSubmissionInFlight}
	users := &fakeUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1"},
	}}
	router := newBookingRouter(models.Session{UserID: "user-1"}, svc, users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestQuoteHandler(t *testing.T) {
	svc := &fakeBookingService{quote: &booking.Quote{
		Balance:      1,
		CanRequest:   true,
		TotalCredits: 6,
	}}
	users := &fakeUserRepo{users: map[string]*models.User{}}
	router := newBookingRouter(models.Session{UserID: "user-1"}, svc, users)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings/quote?service_id=svc-1&duration=3", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var quote booking.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, 1, quote.Balance)
	assert.True(t, quote.CanRequest)
	assert.Equal(t, float64(6), quote.TotalCredits)
}

func TestQuoteHandlerRequiresServiceID(t *testing.T) {
	svc := &fakeBookingService{}
	router := newBookingRouter(models.Session{UserID: "user-1"}, svc, &fakeUserRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings/quote", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitHandlerRequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBookingHandler(&fakeBookingService{}, &fakeUserRepo{}, zap.NewNop())
	r.POST("/bookings", h.SubmitHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
