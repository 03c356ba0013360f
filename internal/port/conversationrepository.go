package port

import (
	"context"

	"github.com/strogmv/chatnotify/internal/domain"
)

// ConversationRepository reads conversations. Missing records yield domain.ErrNotFound.
type ConversationRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
}
