// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies PostgreSQL errors for the repositories.
//
// Repositories translate driver errors into domain outcomes here so no
// caller outside the storage layer inspects a SQLSTATE.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories care about.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
)

// IsNotFound reports whether err means the query matched no row.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// When constraint is non-empty only that constraint matches.
func IsUniqueViolation(err error, constraint string) bool {
	return hasCode(err, CodeUniqueViolation, constraint)
}

// IsForeignKeyViolation reports whether err is a foreign-key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, CodeForeignKeyViolation, "")
}

func hasCode(err error, code, constraint string) bool {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) || pgError.Code != code {
		return false
	}
	return constraint == "" || pgError.ConstraintName == constraint
}
