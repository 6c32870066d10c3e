package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_UserID(t *testing.T) {
	var absent *Session
	assert.Equal(t, "", absent.UserID())

	s := &Session{User: User{ID: "u-1", Email: "cook@example.com"}, AccessToken: "tok"}
	assert.Equal(t, "u-1", s.UserID())
}
