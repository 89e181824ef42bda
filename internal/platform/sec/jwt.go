// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing,
// random handles) from the domain logic. It acts as an infrastructure
// service injected into the credential authority.
package sec

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Codec failures. Signature and expiry problems are reported separately so
// callers can log which one happened.
var (
	ErrTokenMalformed = errors.New("sec: token malformed")
	ErrTokenSignature = errors.New("sec: token signature invalid")
	ErrTokenExpired   = errors.New("sec: token expired")
)

// Identity is the resolved {userId, email, role} attached to a request after
// its credential passed validation. It lives only as long as the request.
type Identity struct {
	UserID int64    `json:"user_id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
}

// AuthClaims represents the payload embedded inside a signed token.
//
// The subject carries the numeric user id; email and role ride along so the
// guard can rebuild the identity without a directory lookup.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Role  string `json:"role"`
}

// Identity converts the claims into a request identity.
func (claims *AuthClaims) Identity() (*Identity, error) {
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrTokenMalformed)
	}
	return &Identity{
		UserID: userID,
		Email:  claims.Email,
		Role:   UserRole(claims.Role),
	}, nil
}

// TokenService signs and verifies access tokens.
//
// It supports HS256 with a shared secret and RS256 with a PEM key pair; the
// method is fixed at construction and any other algorithm is refused on
// verification.
type TokenService struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	issuer    string
	now       func() time.Time
}

// NewHMACTokenService creates a TokenService signing with HS256.
func NewHMACTokenService(secret []byte, issuer string) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("sec: hmac secret must be at least 32 bytes, got %d", len(secret))
	}
	return &TokenService{
		method:    jwt.SigningMethodHS256,
		signKey:   secret,
		verifyKey: secret,
		issuer:    issuer,
		now:       time.Now,
	}, nil
}

// NewRSATokenService creates a TokenService signing with RS256.
// It reads RSA keys from the provided filesystem paths.
func NewRSATokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenService{
		method:    jwt.SigningMethodRS256,
		signKey:   privateKey,
		verifyKey: publicKey,
		issuer:    issuer,
		now:       time.Now,
	}, nil
}

// WithClock replaces the time source used for issuing and verifying.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	service.now = now
	return service
}

// Issue signs a token for identity that expires after timeToLive. Each token
// carries a random jti, so two logins in the same second never share a
// token string and cannot revoke each other.
func (service *TokenService) Issue(identity Identity, timeToLive time.Duration) (string, time.Time, error) {
	currentTime := service.now()
	expiresAt := jwt.NewNumericDate(currentTime.Add(timeToLive))

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(identity.UserID, 10),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: expiresAt,
		},
		Email: identity.Email,
		Role:  string(identity.Role),
	}

	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.signKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, expiresAt.Time, nil
}

// Verify checks the signature, issuer and expiry of a token string.
//
// The returned error wraps exactly one of ErrTokenSignature,
// ErrTokenExpired or ErrTokenMalformed.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{service.method.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)

	claims := &AuthClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return service.verifyKey, nil
	})

	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, fmt.Errorf("%w: %v", ErrTokenSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	default:
		return nil, ErrTokenMalformed
	}
}

// Decode reads the claims of a token without checking its signature or
// expiry. It exists for logout, which only needs the embedded expiry and
// must work on tokens that are already expired.
func (service *TokenService) Decode(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp", ErrTokenMalformed)
	}
	return claims, nil
}
