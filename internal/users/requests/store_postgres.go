// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requests

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/credauth/internal/platform/database/schema"
	"github.com/taibuivan/credauth/internal/platform/dberr"
	"github.com/taibuivan/credauth/internal/platform/sec"
)

// # PostgreSQL Repository

// PostgresStore implements [Store] on the users.request table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL backed request store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

var requestColumns = strings.Join(schema.UserRequest.Columns(), ", ")

/*
Create inserts a new request in the pending state.

Parameters:
  - context: context.Context
  - request: *Request

Returns:
  - error: sec.ErrUserNotFound on a dangling author, or database errors
*/
func (repository *PostgresStore) Create(context context.Context, request *Request) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s`,
		schema.UserRequest.Table,
		schema.UserRequest.Title, schema.UserRequest.Description, schema.UserRequest.AuthorID,
		requestColumns,
	)

	row := repository.pool.QueryRow(context, query, request.Title, request.Description, request.AuthorID)
	if err := scanRequest(row, request); err != nil {
		// The author was deleted between authentication and insert.
		if dberr.IsForeignKeyViolation(err) {
			return sec.ErrUserNotFound
		}
		return fmt.Errorf("postgres_request_create_failed: %w", err)
	}
	return nil
}

/*
FindByID retrieves a request by primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Request: Hydrated entity
  - error: ErrNotFound or database errors
*/
func (repository *PostgresStore) FindByID(context context.Context, id int64) (*Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		requestColumns, schema.UserRequest.Table, schema.UserRequest.ID,
	)

	request := &Request{}
	if err := scanRequest(repository.pool.QueryRow(context, query, id), request); err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres_request_find_failed: %w", err)
	}
	return request, nil
}

// ListByAuthor implements [Store].
func (repository *PostgresStore) ListByAuthor(context context.Context, authorID int64, limit, offset int) ([]*Request, int, error) {
	where := fmt.Sprintf(`WHERE %s = $3`, schema.UserRequest.AuthorID)
	requests, total, err := repository.page(context, where, limit, offset, authorID)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_request_list_by_author_failed: %w", err)
	}
	return requests, total, nil
}

// List implements [Store].
func (repository *PostgresStore) List(context context.Context, limit, offset int) ([]*Request, int, error) {
	requests, total, err := repository.page(context, "", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_request_list_failed: %w", err)
	}
	return requests, total, nil
}

/*
Decide records a review outcome.

Description: The pending check and the update are one statement, so two
moderators deciding at once produce exactly one decision.

Parameters:
  - context: context.Context
  - id: int64
  - status: Status

Returns:
  - *Request: The updated entity
  - error: ErrNotFound, ErrAlreadyReviewed or database errors
*/
func (repository *PostgresStore) Decide(context context.Context, id int64, status Status) (*Request, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = now()
		WHERE %s = $1 AND %s = $3
		RETURNING %s`,
		schema.UserRequest.Table,
		schema.UserRequest.Status, schema.UserRequest.UpdatedAt,
		schema.UserRequest.ID, schema.UserRequest.Status,
		requestColumns,
	)

	request := &Request{}
	err := scanRequest(repository.pool.QueryRow(context, query, id, status, StatusPending), request)
	if err == nil {
		return request, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, fmt.Errorf("postgres_request_decide_failed: %w", err)
	}

	// Nothing updated: either the request is missing or it left pending.
	if _, err := repository.FindByID(context, id); err != nil {
		return nil, err
	}
	return nil, ErrAlreadyReviewed
}

// page runs a windowed listing. COUNT(*) OVER() carries the total on every
// row, so an out-of-range page reports a total of zero.
func (repository *PostgresStore) page(context context.Context, where string, limit, offset int, args ...any) ([]*Request, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		%s
		ORDER BY %s DESC, %s DESC
		LIMIT $1 OFFSET $2`,
		requestColumns, schema.UserRequest.Table, where,
		schema.UserRequest.CreatedAt, schema.UserRequest.ID,
	)

	rows, err := repository.pool.Query(context, query, append([]any{limit, offset}, args...)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]*Request, 0, limit)
	total := 0
	for rows.Next() {
		request := &Request{}
		if err := rows.Scan(
			&request.ID,
			&request.Title,
			&request.Description,
			&request.Status,
			&request.AuthorID,
			&request.CreatedAt,
			&request.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		requests = append(requests, request)
	}
	return requests, total, rows.Err()
}

func scanRequest(row pgx.Row, request *Request) error {
	return row.Scan(
		&request.ID,
		&request.Title,
		&request.Description,
		&request.Status,
		&request.AuthorID,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
}
