package models

// Session identifies the authenticated caller. It is passed explicitly into
// services so that nothing reads authentication state from ambient scope.
// Demo sessions may browse but hold no booking-write privileges.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Demo   bool   `json:"demo"`
}
