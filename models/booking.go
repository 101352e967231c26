package models

import "time"

// Confirmation statuses of a booking request. Requests are always created
// pending; the provider moves them to confirmed or declined.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusDeclined  = "declined"
)

// BookingRequest is a request by one user for another user's service,
// scheduled for a concrete window and paid in time credits.
type BookingRequest struct {
	ID                 string    `bson:"id" json:"id"`
	ServiceID          string    `bson:"service_id" json:"service_id"`
	ProviderID         string    `bson:"provider_id" json:"provider_id"`
	RequesterID        string    `bson:"requester_id" json:"requester_id"`
	ScheduledStart     time.Time `bson:"scheduled_start" json:"scheduled_start"`
	ScheduledEnd       time.Time `bson:"scheduled_end" json:"scheduled_end"`
	DurationHours      int       `bson:"duration_hours" json:"duration_hours"`
	CreditsHeld        float64   `bson:"credits_held" json:"credits_held"`
	ConfirmationStatus string    `bson:"confirmation_status" json:"confirmation_status"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}
