// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requests

import "context"

// # Repository Interface

// Store defines persistence operations for review requests.
type Store interface {

	/*
		Create persists a new request and fills in its ID, status and timestamps.

		Parameters:
		  - context: context.Context
		  - request: *Request (Title, Description, AuthorID set)

		Returns:
		  - error: sec.ErrUserNotFound when the author no longer exists, or persistence failures
	*/
	Create(context context.Context, request *Request) error

	/*
		FindByID returns a single request.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Request: Hydrated entity
		  - error: ErrNotFound or retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Request, error)

	/*
		ListByAuthor returns one page of an author's requests, newest first.

		Parameters:
		  - context: context.Context
		  - authorID: int64
		  - limit: int
		  - offset: int

		Returns:
		  - []*Request: The page
		  - int: Total number of the author's requests
		  - error: Retrieval failures
	*/
	ListByAuthor(context context.Context, authorID int64, limit, offset int) ([]*Request, int, error)

	// List returns one page of every request, newest first, and the total count.
	List(context context.Context, limit, offset int) ([]*Request, int, error)

	/*
		Decide moves a pending request to a review outcome.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - status: Status (approved or rejected)

		Returns:
		  - *Request: The updated entity
		  - error: ErrNotFound, ErrAlreadyReviewed or persistence failures
	*/
	Decide(context context.Context, id int64, status Status) (*Request, error)
}
