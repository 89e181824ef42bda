// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requests

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore is an in-process [Store] used with the memory directory.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Request
	now    func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[int64]Request),
		now:  time.Now,
	}
}

// Create implements [Store].
func (store *MemoryStore) Create(_ context.Context, request *Request) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.nextID++
	request.ID = store.nextID
	request.Status = StatusPending
	request.CreatedAt = store.now().UTC()
	request.UpdatedAt = request.CreatedAt

	store.byID[request.ID] = *request
	return nil
}

// FindByID implements [Store].
func (store *MemoryStore) FindByID(_ context.Context, id int64) (*Request, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	request, ok := store.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &request, nil
}

// ListByAuthor implements [Store].
func (store *MemoryStore) ListByAuthor(_ context.Context, authorID int64, limit, offset int) ([]*Request, int, error) {
	requests, total := store.page(func(request Request) bool { return request.AuthorID == authorID }, limit, offset)
	return requests, total, nil
}

// List implements [Store].
func (store *MemoryStore) List(_ context.Context, limit, offset int) ([]*Request, int, error) {
	requests, total := store.page(func(Request) bool { return true }, limit, offset)
	return requests, total, nil
}

// Decide implements [Store].
func (store *MemoryStore) Decide(_ context.Context, id int64, status Status) (*Request, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	request, ok := store.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if request.Status != StatusPending {
		return nil, ErrAlreadyReviewed
	}

	request.Status = status
	request.UpdatedAt = store.now().UTC()
	store.byID[id] = request
	return &request, nil
}

func (store *MemoryStore) page(keep func(Request) bool, limit, offset int) ([]*Request, int) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	matched := make([]*Request, 0)
	for _, request := range store.byID {
		if keep(request) {
			matched = append(matched, &request)
		}
	}

	// Newest first; IDs break ties between requests created in the same instant.
	slices.SortFunc(matched, func(a, b *Request) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	start := min(offset, len(matched))
	end := min(start+limit, len(matched))
	return matched[start:end], len(matched)
}
