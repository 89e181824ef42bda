// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserRequestTable represents the 'users.request' table
type UserRequestTable struct {
	Table       string
	ID          string
	Title       string
	Description string
	Status      string
	AuthorID    string
	CreatedAt   string
	UpdatedAt   string
}

// UserRequest is the schema definition for users.request
var UserRequest = UserRequestTable{
	Table:       "users.request",
	ID:          "id",
	Title:       "title",
	Description: "description",
	Status:      "status",
	AuthorID:    "authorid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns the selectable columns in scan order.
func (t UserRequestTable) Columns() []string {
	return []string{t.ID, t.Title, t.Description, t.Status, t.AuthorID, t.CreatedAt, t.UpdatedAt}
}
