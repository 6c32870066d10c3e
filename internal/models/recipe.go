// Package models defines the records exchanged with the identity/data
// collaborator.
package models

import "time"

// Recipe is one row of the recipes table. ID and CreatedAt are assigned by
// the collaborator.
type Recipe struct {
	ID           string    `json:"id,omitempty"`
	OwnerID      string    `json:"user_id"`
	Name         string    `json:"name"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}
