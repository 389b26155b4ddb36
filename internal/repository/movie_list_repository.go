// Package repository holds the per-community movie lists.
package repository

import (
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
)

// ErrEmptyList is returned by PickRandom when a community has no movies.
var ErrEmptyList = errors.New("movie list is empty")

// MovieListRepository keeps an ordered list of movie titles per community in
// memory. Lists are created on first Append and lost on restart. All methods
// are safe for concurrent use.
type MovieListRepository struct {
	mu    sync.RWMutex
	lists map[int64][]string
	intN  func(n int) int
}

// NewMovieListRepository creates an empty repository.
func NewMovieListRepository() *MovieListRepository {
	return &MovieListRepository{
		lists: make(map[int64][]string),
		intN:  rand.IntN,
	}
}

// Append adds title to the end of the community's list.
func (r *MovieListRepository) Append(communityID int64, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lists[communityID] = append(r.lists[communityID], title)
}

// GetAll returns a copy of the community's list in insertion order.
// A community without movies yields an empty, non-nil slice.
func (r *MovieListRepository) GetAll(communityID int64) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	titles := r.lists[communityID]
	if len(titles) == 0 {
		return []string{}
	}
	return slices.Clone(titles)
}

// Count returns the number of titles stored for the community.
func (r *MovieListRepository) Count(communityID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.lists[communityID])
}

// Clear removes every title for the community. Clearing an unknown
// community is a no-op.
func (r *MovieListRepository) Clear(communityID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.lists, communityID)
}

// PickRandom returns a uniformly chosen title from the community's list.
func (r *MovieListRepository) PickRandom(communityID int64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	titles := r.lists[communityID]
	if len(titles) == 0 {
		return "", ErrEmptyList
	}
	return titles[r.intN(len(titles))], nil
}
