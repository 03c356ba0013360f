package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/strogmv/chatnotify/internal/domain"
	"github.com/strogmv/chatnotify/internal/port"
)

// ConversationRepository reads conversations(id text, participant_ids text[]).
type ConversationRepository struct {
	DB querier
}

func NewConversationRepository(db querier) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := r.DB.QueryRow(ctx,
		"SELECT id, participant_ids FROM conversations WHERE id = $1", id).
		Scan(&c.ID, &c.ParticipantIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("select conversation %s: %w", id, err)
	}
	return &c, nil
}

var _ port.ConversationRepository = (*ConversationRepository)(nil)
