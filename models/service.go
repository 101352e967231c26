package models

import "time"

// Service is a service offer listed by a provider. Offers are immutable from
// the booking flow's perspective: fetched, never mutated.
type Service struct {
	ID             string    `bson:"id" json:"id"`
	Title          string    `bson:"title" json:"title"`
	Description    string    `bson:"description" json:"description"`
	ProviderID     string    `bson:"provider_id" json:"provider_id"`
	CreditsPerHour float64   `bson:"credits_per_hour" json:"credits_per_hour"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
