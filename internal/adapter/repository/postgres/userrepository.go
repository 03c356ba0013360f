package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/strogmv/chatnotify/internal/domain"
	"github.com/strogmv/chatnotify/internal/port"
)

// UserRepository reads users(id, name, photo_url, fcm_token); nullable columns map to "".
type UserRepository struct {
	DB querier
}

func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var (
		u                     domain.User
		name, photo, fcmToken *string
	)
	err := r.DB.QueryRow(ctx,
		"SELECT id, name, photo_url, fcm_token FROM users WHERE id = $1", id).
		Scan(&u.ID, &name, &photo, &fcmToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("select user %s: %w", id, err)
	}
	u.Name = deref(name)
	u.PhotoURL = deref(photo)
	u.FCMToken = deref(fcmToken)
	return &u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ port.UserRepository = (*UserRepository)(nil)
