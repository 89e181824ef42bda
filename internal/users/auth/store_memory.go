// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/credauth/internal/platform/sec"
)

// MemoryDirectory is an in-process [Directory] for local runs and tests.
// Its contents are lost on restart.
type MemoryDirectory struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]User
	byEmail map[string]int64
	now     func() time.Time
}

// NewMemoryDirectory returns an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byID:    make(map[int64]User),
		byEmail: make(map[string]int64),
		now:     time.Now,
	}
}

// FindByEmail implements [Directory].
func (directory *MemoryDirectory) FindByEmail(_ context.Context, email string) (*User, error) {
	directory.mu.RLock()
	defer directory.mu.RUnlock()

	id, ok := directory.byEmail[email]
	if !ok {
		return nil, sec.ErrUserNotFound
	}
	user := directory.byID[id]
	return &user, nil
}

// FindByID implements [Directory].
func (directory *MemoryDirectory) FindByID(_ context.Context, id int64) (*User, error) {
	directory.mu.RLock()
	defer directory.mu.RUnlock()

	user, ok := directory.byID[id]
	if !ok {
		return nil, sec.ErrUserNotFound
	}
	return &user, nil
}

// Create implements [Directory]. The email check and the insert happen under
// one lock, so concurrent registrations for one address produce one account.
func (directory *MemoryDirectory) Create(_ context.Context, user *User) error {
	directory.mu.Lock()
	defer directory.mu.Unlock()

	if _, taken := directory.byEmail[user.Email]; taken {
		return sec.ErrDuplicateIdentity
	}

	directory.nextID++
	user.ID = directory.nextID
	user.CreatedAt = directory.now().UTC()
	user.UpdatedAt = user.CreatedAt

	directory.byID[user.ID] = *user
	directory.byEmail[user.Email] = user.ID
	return nil
}

// Delete removes an account. The credential authority never calls it; it
// exists for administrative tooling and tests.
func (directory *MemoryDirectory) Delete(id int64) {
	directory.mu.Lock()
	defer directory.mu.Unlock()

	if user, ok := directory.byID[id]; ok {
		delete(directory.byEmail, user.Email)
		delete(directory.byID, id)
	}
}
