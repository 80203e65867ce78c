package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/GokalpAyar/amplify-lms-client/internal/models"
)

// Registry is the locally cached assignment mapping used as an
// offline/demo fallback when the backend cannot serve an assignment. The
// authoring flow populates it; the taking-session consults it only after
// a failed fetch.
type Registry struct {
	cache CacheService
}

const registryKeyPrefix = "assignments:"

func NewRegistry(cache CacheService) *Registry {
	return &Registry{cache: cache}
}

// Put caches one assignment under its id.
func (r *Registry) Put(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		return fmt.Errorf("cannot register assignment without an id")
	}
	// Registry entries do not expire; they back offline use.
	return r.cache.Set(ctx, registryKeyPrefix+assignment.ID, assignment, 0)
}

// Get returns the cached assignment, or (nil, nil) when absent.
func (r *Registry) Get(ctx context.Context, assignmentID string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.cache.Get(ctx, registryKeyPrefix+assignmentID, &assignment)
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	assignment.AssignmentTimeLimit = assignment.EffectiveTimeLimit()
	return &assignment, nil
}

// Delete removes one cached assignment.
func (r *Registry) Delete(ctx context.Context, assignmentID string) error {
	return r.cache.Delete(ctx, registryKeyPrefix+assignmentID)
}

// Clear removes every cached assignment.
func (r *Registry) Clear(ctx context.Context) error {
	return r.cache.DeletePattern(ctx, registryKeyPrefix+"*")
}
