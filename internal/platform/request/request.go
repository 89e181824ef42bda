// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides the router's parameter extraction and body decoding so handlers get
consistent client errors.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/credauth/internal/platform/apperr"
	"github.com/taibuivan/credauth/internal/platform/ctxutil"
	"github.com/taibuivan/credauth/internal/platform/sec"
	"github.com/taibuivan/credauth/internal/platform/validate"
)

// maxBodyBytes caps JSON payloads. Auth and request bodies are tiny.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body and decodes it into target.

Parameters:
  - writer: http.ResponseWriter (needed to cap the body size)
  - request: *http.Request
  - target: any (pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Int64Param parses a numeric URL parameter.

Returns:
  - int64: parsed value
  - error: 404 for a non-numeric value, so "/requests/abc" reads as a missing resource
*/
func Int64Param(request *http.Request, name, resource string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, apperr.NotFound(resource)
	}
	return value, nil
}

/*
RequiredIdentity returns the identity attached by the access guard.

Returns:
  - *sec.Identity: the caller
  - error: apperr.Unauthorized if the route was mounted without the guard
*/
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	identity := ctxutil.GetIdentity(request.Context())
	if identity == nil {
		return nil, apperr.Unauthorized(apperr.MessageUnauthorized)
	}
	return identity, nil
}
