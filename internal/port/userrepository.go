package port

import (
	"context"

	"github.com/strogmv/chatnotify/internal/domain"
)

// UserRepository reads user profiles. Missing records yield domain.ErrNotFound.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
