// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/credauth/internal/platform/apperr"
	"github.com/taibuivan/credauth/internal/platform/constants"
	"github.com/taibuivan/credauth/internal/platform/ctxutil"
	"github.com/taibuivan/credauth/internal/platform/middleware"
	requestutil "github.com/taibuivan/credauth/internal/platform/request"
	"github.com/taibuivan/credauth/internal/platform/respond"
	"github.com/taibuivan/credauth/internal/platform/sec"
	"github.com/taibuivan/credauth/internal/platform/validate"
)

// # Definitions & Constructors

// Handler exposes the [Authority] over HTTP.
//
// It knows which carrier its scheme uses: the token scheme answers login
// with a bearer token in the body, the session scheme with an HTTP-only
// cookie. The two are never mixed.
type Handler struct {
	authority     Authority
	carrier       middleware.CredentialExtractor
	secureCookies bool
}

// NewHandler constructs a new [Handler]. secureCookies sets the Secure
// attribute on the session cookie.
func NewHandler(authority Authority, secureCookies bool) *Handler {
	return &Handler{
		authority:     authority,
		carrier:       Carrier(authority.Scheme()),
		secureCookies: secureCookies,
	}
}

// Carrier returns the credential extractor matching scheme.
func Carrier(scheme string) middleware.CredentialExtractor {
	if scheme == SchemeSession {
		return middleware.SessionCookieCredential
	}
	return middleware.BearerCredential
}

// Routes returns a [chi.Router] with the authentication endpoints.
//
// # Endpoints
//   - POST /register : Creates a new account (throttled).
//   - POST /login    : Issues a credential (throttled).
//   - POST /logout   : Invalidates the presented credential.
//   - GET  /me       : Returns the resolved identity (guarded).
func (handler *Handler) Routes(guard, throttle func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(throttle)
		r.Post("/register", handler.register)
		r.Post("/login", handler.login)
	})

	router.Post("/logout", handler.logout)

	router.With(guard).Get("/me", handler.me)

	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Request:
  - Body: registerRequest (Email, Password, Name?)

Response:
  - 201: User: Created account without secret fields
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: Email already registered
  - 503: SERVICE_UNAVAILABLE
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	email := strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > MaxPasswordBytes, "Maximum 72 bytes")
	if input.Name != nil {
		validator.MaxLen(FieldName, *input.Name, MaxNameLength)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authority.Register(request.Context(), RegisterInput{
		Email:    email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		respond.Error(writer, request, apperr.FromAuth(err))
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and hands out a credential.

POST /api/v1/auth/login

Response:
  - 200 (token scheme): {access_token, token_type, expires_in}
  - 200 (session scheme): {user}, with the sessionId cookie set
  - 401: UNAUTHORIZED: Unknown email or wrong password, indistinguishably
  - 503: SERVICE_UNAVAILABLE
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	credential, err := handler.authority.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, apperr.FromAuth(err))
		return
	}

	if handler.authority.Scheme() == SchemeSession {
		http.SetCookie(writer, handler.sessionCookie(credential.Value, credential.ExpiresAt))
		respond.OK(writer, map[string]any{FieldUser: credential.User})
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: credential.Value,
		FieldTokenType:   TokenType,
		FieldExpiresIn:   int64(time.Until(credential.ExpiresAt).Round(time.Second) / time.Second),
	})
}

/*
Logout invalidates the presented credential.

POST /api/v1/auth/logout

Description: Always answers 204. A missing or malformed credential has
nothing to invalidate; a store outage is logged, never surfaced.

Response:
  - 204: No Content
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if credential, ok := handler.carrier(request); ok {
		if err := handler.authority.Logout(request.Context(), credential); err != nil {
			ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "auth_logout_failed",
				slog.String("reason", sec.Reason(err)),
				slog.Any("error", err),
			)
		}
	}

	if handler.authority.Scheme() == SchemeSession {
		cookie := handler.sessionCookie("", time.Unix(0, 0))
		cookie.MaxAge = -1
		http.SetCookie(writer, cookie)
	}

	respond.NoContent(writer)
}

/*
Me returns the identity resolved by the access guard.

GET /api/v1/auth/me

Response:
  - 200: {user_id, email, role}
  - 401: UNAUTHORIZED
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, identity)
}

func (handler *Handler) sessionCookie(value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     constants.SessionCookiePath,
		Expires:  expiresAt,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
