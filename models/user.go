package models

import "time"

// User represents a platform member. Service counters are owned by the
// booking flow: ServicesRequested is incremented once per created booking,
// ServicesCompleted once per service the user provided.
type User struct {
	ID                string    `bson:"id" json:"id"`
	Username          string    `bson:"username" json:"username"`
	Email             string    `bson:"email" json:"email"`
	PhoneNumber       string    `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	PasswordHash      string    `bson:"password_hash" json:"-"`
	ServicesCompleted int       `bson:"services_completed" json:"services_completed"`
	ServicesRequested int       `bson:"services_requested" json:"services_requested"`
	Demo              bool      `bson:"demo,omitempty" json:"demo,omitempty"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at" json:"updated_at"`
}
