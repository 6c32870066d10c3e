package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Session is a present session: the signed-in user plus the collaborator's
// access token. An absent session is a nil *Session.
type Session struct {
	User        User
	AccessToken string
	ExpiresAt   time.Time
}

// UserID returns the owner identifier, or "" for an absent session.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.User.ID
}
