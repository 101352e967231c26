package userRepo

import (
	"timebank/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address; nil if not found.
	GetByEmail(email string) (*models.User, error)
	// GetByPhone retrieves a user by its phone number; nil if not found.
	GetByPhone(phone string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Delete removes a user record by its ID.
	Delete(id string) error
	// UpdateSetDocument applies a $set update to the user with the given ID.
	UpdateSetDocument(id string, updateDoc bson.M) error
	// IncrementServicesRequested bumps the requested-services counter by one.
	IncrementServicesRequested(id string) error
	// IncrementServicesCompleted bumps the completed-services counter by one.
	IncrementServicesCompleted(id string) error
}
