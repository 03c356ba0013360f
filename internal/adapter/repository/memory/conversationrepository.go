package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/strogmv/chatnotify/internal/domain"
)

type ConversationRepositoryStub struct {
	mu   sync.RWMutex
	data map[string]*domain.Conversation
}

func NewConversationRepositoryStub() *ConversationRepositoryStub {
	return &ConversationRepositoryStub{
		data: make(map[string]*domain.Conversation),
	}
}

func (r *ConversationRepositoryStub) Save(ctx context.Context, entity *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity == nil || entity.ID == "" {
		return fmt.Errorf("entity with id is required")
	}
	cp := *entity
	cp.ParticipantIDs = append([]string(nil), entity.ParticipantIDs...)
	r.data[entity.ID] = &cp
	return nil
}

func (r *ConversationRepositoryStub) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entity, ok := r.data[id]
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
	}
	cp := *entity
	cp.ParticipantIDs = append([]string(nil), entity.ParticipantIDs...)
	return &cp, nil
}
