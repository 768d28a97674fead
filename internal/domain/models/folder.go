package models

import "time"

// Folder is a node in a user's folder tree. The parent chain of every
// folder terminates at a root (nil ParentID); the folder service enforces
// acyclicity on every reparent.
type Folder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ParentID  *string   `json:"parent_id"` // nil = root level
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
