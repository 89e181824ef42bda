// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the credential database so
// SQL in the repositories is assembled from one source of truth.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Email       string
	Password    string
	Name        string
	Role        string
	CreatedAt   string
	UpdatedAt   string
	EmailUnique string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Email:       "email",
	Password:    "passwordhash",
	Name:        "name",
	Role:        "role",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	EmailUnique: "account_email_key",
}

// Columns returns the selectable columns in scan order.
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.Password, t.Name, t.Role, t.CreatedAt, t.UpdatedAt}
}
