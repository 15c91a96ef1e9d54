// Package fallback implements the device-local backup slot for results
// whose persistence failed. The slot holds at most one entry and each new
// write overwrites it (last-write-wins); concurrent sessions clobbering
// each other is an accepted limitation, not a guarantee.
package fallback

import (
	"context"
	"sync"

	"github.com/quizlink/quizlink/internal/domain"
)

// Slot is the single-entry backup store.
type Slot interface {
	// Put replaces the slot content with the given result.
	Put(ctx context.Context, result domain.Result) error
	// Get returns the slot content when its quiz id matches.
	Get(ctx context.Context, quizID int64) (domain.Result, bool, error)
	// Clear empties the slot.
	Clear(ctx context.Context) error
}

// MemorySlot keeps the slot in process memory.
type MemorySlot struct {
	mu     sync.Mutex
	result domain.Result
	filled bool
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Put(_ context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.filled = true
	return nil
}

func (s *MemorySlot) Get(_ context.Context, quizID int64) (domain.Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.filled || s.result.QuizID != quizID {
		return domain.Result{}, false, nil
	}
	return s.result, true, nil
}

func (s *MemorySlot) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = domain.Result{}
	s.filled = false
	return nil
}
