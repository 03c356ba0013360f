package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/strogmv/chatnotify/internal/domain"
	"github.com/strogmv/chatnotify/internal/port"
)

type ConversationRepositoryMock struct {
	FindByIDFunc func(ctx context.Context, id string) (*domain.Conversation, error)
}

func (m *ConversationRepositoryMock) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

type UserRepositoryMock struct {
	Users map[string]*domain.User
	Err   error
}

func (m *UserRepositoryMock) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

type PushProviderMock struct {
	mu   sync.Mutex
	Sent []port.PushMessage
	Err  error
}

func (m *PushProviderMock) Send(ctx context.Context, msg port.PushMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return m.Err
}

type PhotoResolverMock struct {
	Calls []string
	Err   error
}

func (m *PhotoResolverMock) ResolvePhotoURL(ctx context.Context, ref string) (string, error) {
	m.Calls = append(m.Calls, ref)
	if m.Err != nil {
		return "", m.Err
	}
	return "https://cdn.example/" + ref, nil
}

func conversations(convs ...*domain.Conversation) *ConversationRepositoryMock {
	byID := map[string]*domain.Conversation{}
	for _, c := range convs {
		byID[c.ID] = c
	}
	return &ConversationRepositoryMock{FindByIDFunc: func(ctx context.Context, id string) (*domain.Conversation, error) {
		c, ok := byID[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return c, nil
	}}
}
