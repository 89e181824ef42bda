// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the account does not exist, so a login
// for an unknown email costs the same bcrypt work as a wrong password.
var dummyHash = mustHash("credauth-timing-equaliser")

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// An empty hash burns a comparison against dummyHash and reports false.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	if existingHash == "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plainTextPassword))
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// GenerateSecureToken returns length bytes from crypto/rand encoded as
// unpadded URL-safe base64, fit for cookies and headers.
func GenerateSecureToken(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// HashToken returns the hex BLAKE3-256 digest of a credential string.
// Store keys use the digest so raw credentials never land in the cache.
func HashToken(token string) string {
	sum := blake3.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func mustHash(plain string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		panic("sec: failed to prepare dummy hash: " + err.Error())
	}
	return string(hashed)
}
