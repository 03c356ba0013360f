package domain

import "errors"

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")

// Conversation is a two-party chat thread.
type Conversation struct {
	ID             string   `json:"id"`
	ParticipantIDs []string `json:"participantIds"`
}

// User is the subset of a user profile needed to notify them.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
	FCMToken string `json:"fcmToken,omitempty"`
}
