// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requests

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/credauth/internal/platform/apperr"
	"github.com/taibuivan/credauth/internal/platform/sec"
	"github.com/taibuivan/credauth/pkg/pagination"
)

// # Service Layer

// Service enforces ownership and review rules on top of a [Store].
//
// Capability checks on the route decide who may call an operation at all;
// the service decides which records the caller may see.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateInput carries the author-supplied fields of a new request.
type CreateInput struct {
	Title       string
	Description string
}

/*
Create files a new pending request authored by the caller.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - input: CreateInput

Returns:
  - *Request: The stored request
  - error: 401 if the caller's account disappeared, or storage failures
*/
func (service *Service) Create(context context.Context, caller *sec.Identity, input CreateInput) (*Request, error) {
	request := &Request{
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    caller.UserID,
	}

	if err := service.store.Create(context, request); err != nil {
		if errors.Is(err, sec.ErrUserNotFound) {
			return nil, apperr.FromAuth(err)
		}
		return nil, fmt.Errorf("request_service_create_failed: %w", err)
	}

	service.logger.Info("request_created",
		slog.Int64("request_id", request.ID),
		slog.Int64("author_id", caller.UserID),
	)
	return request, nil
}

/*
ListOwn returns one page of the caller's requests.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - params: pagination.Params

Returns:
  - []*Request: The page
  - int: Total count
  - error: Retrieval failures
*/
func (service *Service) ListOwn(context context.Context, caller *sec.Identity, params pagination.Params) ([]*Request, int, error) {
	requests, total, err := service.store.ListByAuthor(context, caller.UserID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("request_service_list_own_failed: %w", err)
	}
	return requests, total, nil
}

// ListAll returns one page of every request. Callers must hold the review
// capability; the route enforces it.
func (service *Service) ListAll(context context.Context, params pagination.Params) ([]*Request, int, error) {
	requests, total, err := service.store.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("request_service_list_all_failed: %w", err)
	}
	return requests, total, nil
}

/*
Get returns a single request.

Description: Authors see their own requests. Reviewers see every request.
Anyone else gets 403, even for IDs that exist.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - id: int64

Returns:
  - *Request: The request
  - error: 404, 403 or retrieval failures
*/
func (service *Service) Get(context context.Context, caller *sec.Identity, id int64) (*Request, error) {
	request, err := service.store.FindByID(context, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound(resourceName)
		}
		return nil, fmt.Errorf("request_service_get_failed: %w", err)
	}

	if request.AuthorID != caller.UserID && !caller.Role.Can(sec.CapabilityReviewRequests) {
		return nil, apperr.Forbidden("Access denied")
	}
	return request, nil
}

/*
Decide records a reviewer's outcome on a pending request.

Parameters:
  - context: context.Context
  - reviewer: *sec.Identity
  - id: int64
  - status: Status (approved or rejected)

Returns:
  - *Request: The updated request
  - error: 400 for a non-decision status, 404, 409 if already reviewed, or storage failures
*/
func (service *Service) Decide(context context.Context, reviewer *sec.Identity, id int64, status Status) (*Request, error) {
	if !status.IsDecision() {
		return nil, apperr.ValidationError("Invalid status", apperr.FieldError{
			Field:   FieldStatus,
			Message: "Must be one of: approved, rejected",
		})
	}

	request, err := service.store.Decide(context, id, status)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, apperr.NotFound(resourceName)
	case errors.Is(err, ErrAlreadyReviewed):
		return nil, apperr.Conflict("Request has already been reviewed")
	case err != nil:
		return nil, fmt.Errorf("request_service_decide_failed: %w", err)
	}

	service.logger.Info("request_reviewed",
		slog.Int64("request_id", id),
		slog.Int64("reviewer_id", reviewer.UserID),
		slog.String("status", string(status)),
	)
	return request, nil
}
