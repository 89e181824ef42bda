// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requests

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/credauth/internal/platform/middleware"
	requestutil "github.com/taibuivan/credauth/internal/platform/request"
	"github.com/taibuivan/credauth/internal/platform/respond"
	"github.com/taibuivan/credauth/internal/platform/sec"
	"github.com/taibuivan/credauth/internal/platform/validate"
	"github.com/taibuivan/credauth/pkg/pagination"
)

// Handler implements the HTTP layer for review requests.
type Handler struct {
	service *Service
}

// NewHandler constructs a new requests [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the request endpoints. The router must
// be mounted behind the access guard.
//
// # Endpoints
//   - POST  /             : requests:create
//   - GET   /             : requests:read_own
//   - GET   /all          : requests:review
//   - GET   /{id}         : requests:read_own (owner) or requests:review
//   - PATCH /{id}/status  : requests:review
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequireCapability(sec.CapabilityCreateRequest)).Post("/", handler.create)
	router.With(middleware.RequireCapability(sec.CapabilityReadOwnRequest)).Get("/", handler.listOwn)
	router.With(middleware.RequireCapability(sec.CapabilityReviewRequests)).Get("/all", handler.listAll)
	router.With(middleware.RequireCapability(sec.CapabilityReadOwnRequest)).Get("/{id}", handler.get)
	router.With(middleware.RequireCapability(sec.CapabilityReviewRequests)).Patch("/{id}/status", handler.decide)

	return router
}

// # Request Payloads

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type decideRequest struct {
	Status string `json:"status"`
}

/*
POST /api/v1/requests.

Request:
  - Body: createRequest (Title, Description?)

Response:
  - 201: Request: Created in the pending state
  - 400: VALIDATION_ERROR
  - 401: UNAUTHORIZED
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title := strings.TrimSpace(input.Title)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLength).
		MaxLen(FieldDescription, input.Description, MaxDescriptionLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), caller, CreateInput{
		Title:       title,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
GET /api/v1/requests.

Description: Lists the caller's own requests, newest first.

Response:
  - 200: []Request with pagination meta
*/
func (handler *Handler) listOwn(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromQuery(request.URL.Query())
	items, total, err := handler.service.ListOwn(request.Context(), caller, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(params, total))
}

/*
GET /api/v1/requests/all.

Response:
  - 200: []Request with pagination meta
  - 403: FORBIDDEN: Caller cannot review
*/
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromQuery(request.URL.Query())
	items, total, err := handler.service.ListAll(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(params, total))
}

/*
GET /api/v1/requests/{id}.

Response:
  - 200: Request
  - 403: FORBIDDEN: Not the author and cannot review
  - 404: NOT_FOUND
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.Int64Param(request, "id", resourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.Get(request.Context(), caller, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

/*
PATCH /api/v1/requests/{id}/status.

Request:
  - Body: decideRequest (Status: approved | rejected)

Response:
  - 200: Request: Updated
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
  - 409: CONFLICT: Already reviewed
*/
func (handler *Handler) decide(writer http.ResponseWriter, request *http.Request) {
	reviewer, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.Int64Param(request, "id", resourceName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input decideRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldStatus, input.Status, string(StatusApproved), string(StatusRejected))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Decide(request.Context(), reviewer, id, Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
