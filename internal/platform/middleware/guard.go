// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/credauth/internal/platform/apperr"
	"github.com/taibuivan/credauth/internal/platform/constants"
	"github.com/taibuivan/credauth/internal/platform/ctxutil"
	"github.com/taibuivan/credauth/internal/platform/metrics"
	"github.com/taibuivan/credauth/internal/platform/respond"
	"github.com/taibuivan/credauth/internal/platform/sec"
)

// CredentialValidator resolves a raw credential into an identity.
//
// The credential authority satisfies it; tests can pass a stub.
type CredentialValidator interface {
	Validate(ctx context.Context, credential string) (*sec.Identity, error)
}

// CredentialExtractor pulls the raw credential from its carrier. It reports
// false when the carrier is absent or empty.
type CredentialExtractor func(request *http.Request) (string, bool)

// BearerCredential reads "Authorization: Bearer <token>". The scheme word is
// matched case-insensitively.
func BearerCredential(request *http.Request) (string, bool) {
	header := request.Header.Get(constants.HeaderAuthorization)
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerPrefix) {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

// SessionCookieCredential reads the HTTP-only session cookie.
func SessionCookieCredential(request *http.Request) (string, bool) {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

/*
Authenticate is the access guard in front of protected routes.

Flow:
 1. Extract the credential with extract. Missing means ErrUnauthenticated
    and the validator is never called.
 2. Validate it. An unavailable authority answers 503; every other failure
    answers the same generic 401. The precise reason is logged and counted.
 3. Attach the resolved identity to the request context.

Parameters:
  - validator: the deployment's credential authority
  - extract: the carrier reader matching the scheme
  - recorder: rejection counter (may be nil)
*/
func Authenticate(validator CredentialValidator, extract CredentialExtractor, recorder *metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			// 1. Carrier
			credential, ok := extract(request)
			if !ok {
				reject(writer, request, recorder, sec.ErrUnauthenticated)
				return
			}

			// 2. Validation
			identity, err := validator.Validate(ctx, credential)
			if err != nil {
				reject(writer, request, recorder, err)
				return
			}

			// 3. Context injection
			recordUserID(ctx, identity.UserID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithIdentity(ctx, identity)))
		})
	}
}

func reject(writer http.ResponseWriter, request *http.Request, recorder *metrics.Recorder, err error) {
	recorder.ObserveRejection(err)

	level := slog.LevelInfo
	if errors.Is(err, sec.ErrAuthorityUnavailable) {
		level = slog.LevelError
	}
	ctxutil.GetLogger(request.Context()).Log(request.Context(), level, "auth_guard_rejected",
		slog.String("reason", sec.Reason(err)),
	)

	respond.Error(writer, request, apperr.FromAuth(err))
}

// RequireCapability answers 403 unless the resolved identity's role grants
// capability. It must be mounted after [Authenticate].
func RequireCapability(capability sec.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized(apperr.MessageUnauthorized))
				return
			}

			if !identity.Role.Can(capability) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
