// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requests manages review requests submitted by authenticated users.

Every endpoint sits behind the access guard. Authors create and read their
own requests; holders of the review capability read every request and
decide its outcome.
*/
package requests

import (
	"errors"
	"time"
)

// # Status

// Status is the review state of a [Request].
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsDecision reports whether s is a valid review outcome.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// # Domain Entities

// Request is a single submission awaiting or having received review.
type Request struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	AuthorID    int64     `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Sentinel Errors

var (
	// ErrNotFound is returned by stores when no request has the given ID.
	ErrNotFound = errors.New("request not found")

	// ErrAlreadyReviewed is returned when a decision targets a request that
	// is no longer pending.
	ErrAlreadyReviewed = errors.New("request already reviewed")
)

// # Limits & Field Identifiers

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 4000

	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"

	resourceName = "Request"
)
