// Package memory provides an in-memory implementation of the repository.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/strogmv/chatnotify/internal/domain"
)

type UserRepositoryStub struct {
	mu   sync.RWMutex
	data map[string]*domain.User
}

func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		data: make(map[string]*domain.User),
	}
}

func (r *UserRepositoryStub) Save(ctx context.Context, entity *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity == nil || entity.ID == "" {
		return fmt.Errorf("entity with id is required")
	}
	cp := *entity
	r.data[entity.ID] = &cp
	return nil
}

func (r *UserRepositoryStub) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entity, ok := r.data[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	cp := *entity
	return &cp, nil
}
