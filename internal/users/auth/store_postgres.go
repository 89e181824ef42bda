// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/credauth/internal/platform/database/schema"
	"github.com/taibuivan/credauth/internal/platform/dberr"
	"github.com/taibuivan/credauth/internal/platform/sec"
)

// # PostgreSQL Directory

// PostgresDirectory implements [Directory] on the users.account table.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a new PostgreSQL implementation of [Directory].
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

var selectAccount = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.UserAccount.Columns(), ", "),
	schema.UserAccount.Table,
)

/*
FindByEmail retrieves an account by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: sec.ErrUserNotFound or database errors
*/
func (repository *PostgresDirectory) FindByEmail(context context.Context, email string) (*User, error) {
	query := selectAccount + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.Email)

	user, err := repository.scanOne(context, query, email)
	if err != nil {
		return nil, fmt.Errorf("postgres_directory_find_by_email_failed: %w", err)
	}
	return user, nil
}

/*
FindByID retrieves an account by primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity
  - error: sec.ErrUserNotFound or database errors
*/
func (repository *PostgresDirectory) FindByID(context context.Context, id int64) (*User, error) {
	query := selectAccount + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)

	user, err := repository.scanOne(context, query, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_directory_find_by_id_failed: %w", err)
	}
	return user, nil
}

/*
Create inserts a new account.

Description: The email unique constraint is the final arbiter of duplicates,
so two concurrent registrations for one address cannot both succeed.

Parameters:
  - context: context.Context
  - user: *User (ID and timestamps are filled from the inserted row)

Returns:
  - error: sec.ErrDuplicateIdentity or database errors
*/
func (repository *PostgresDirectory) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Password, schema.UserAccount.Name, schema.UserAccount.Role,
		schema.UserAccount.ID, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err, schema.UserAccount.EmailUnique) {
			return sec.ErrDuplicateIdentity
		}
		return fmt.Errorf("postgres_directory_create_failed: %w", err)
	}

	return nil
}

func (repository *PostgresDirectory) scanOne(context context.Context, query string, argument any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, sec.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
