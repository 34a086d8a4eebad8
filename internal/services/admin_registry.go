package services

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ad/go-telegram-poster/internal/db"
	"github.com/ad/go-telegram-poster/internal/models"
)

// AdminRegistry holds the delegated admin identities. The owner id comes
// from configuration, is implicitly privileged and is never a member of
// the set, so it can never be removed. Only the owner may mutate the set.
type AdminRegistry struct {
	mu      sync.Mutex
	ownerID int64
	admins  []int64
	repo    *db.AdminRepository
}

func NewAdminRegistry(ownerID int64, repo *db.AdminRepository) (*AdminRegistry, error) {
	ids, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load admins: %w", err)
	}

	admins := make([]int64, 0, len(ids))
	for _, s := range ids {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			continue
		}
		if id == ownerID {
			continue
		}
		admins = append(admins, id)
	}

	return &AdminRegistry{
		ownerID: ownerID,
		admins:  admins,
		repo:    repo,
	}, nil
}

func (r *AdminRegistry) IsOwner(userID int64) bool {
	return userID == r.ownerID
}

func (r *AdminRegistry) IsPrivileged(userID int64) bool {
	if userID == r.ownerID {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.admins {
		if id == userID {
			return true
		}
	}
	return false
}

func (r *AdminRegistry) Admins() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, len(r.admins))
	copy(out, r.admins)
	return out
}

// Add registers a delegated admin. Idempotent; adding the owner is a no-op
// since owner authority comes from configuration. A persistence failure is
// returned as a warning but the in-memory set keeps the change.
func (r *AdminRegistry) Add(callerID, adminID int64) error {
	if callerID != r.ownerID {
		return models.ErrUnauthorized
	}
	if adminID == r.ownerID {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.admins {
		if id == adminID {
			return nil
		}
	}

	r.admins = append(r.admins, adminID)
	return r.persistLocked()
}

func (r *AdminRegistry) Remove(callerID, adminID int64) error {
	if callerID != r.ownerID {
		return models.ErrUnauthorized
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, id := range r.admins {
		if id == adminID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.ErrNotFound
	}

	r.admins = append(r.admins[:idx], r.admins[idx+1:]...)
	return r.persistLocked()
}

func (r *AdminRegistry) persistLocked() error {
	ids := make([]string, len(r.admins))
	for i, id := range r.admins {
		ids[i] = strconv.FormatInt(id, 10)
	}
	if err := r.repo.Save(ids); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	return nil
}
