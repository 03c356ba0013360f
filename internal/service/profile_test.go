package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/strogmv/chatnotify/internal/domain"
)

func TestProfileLookup_Defaults(t *testing.T) {
	ctx := context.Background()
	users := &UserRepositoryMock{Users: map[string]*domain.User{
		"A": {ID: "A", Name: "Alice", PhotoURL: "a.png", FCMToken: "tok-a"},
		"N": {ID: "N", Name: "   ", FCMToken: "  "},
	}}
	p := NewProfileLookup(users, nil)

	assert.Equal(t, Profile{UserID: "A", Name: "Alice", PhotoURL: "a.png", Token: "tok-a"}, p.Lookup(ctx, "A"))
	assert.Equal(t, Profile{UserID: "X", Name: DefaultSenderName}, p.Lookup(ctx, "X"))
	assert.Equal(t, Profile{UserID: "N", Name: DefaultSenderName}, p.Lookup(ctx, "N"))

	users.Err = errors.New("firestore unavailable")
	assert.Equal(t, Profile{UserID: "A", Name: DefaultSenderName}, p.Lookup(ctx, "A"))
}

func TestProfileLookup_LookupPairResolvesSenderPhotoOnly(t *testing.T) {
	users := &UserRepositoryMock{Users: map[string]*domain.User{
		"A": {ID: "A", Name: "Alice", PhotoURL: "avatars/a.png"},
		"B": {ID: "B", Name: "Bob", PhotoURL: "avatars/b.png", FCMToken: "tok-b"},
	}}
	photos := &PhotoResolverMock{}
	p := NewProfileLookup(users, photos)

	sender, recipient := p.LookupPair(context.Background(), "A", "B")
	assert.Equal(t, "https://cdn.example/avatars/a.png", sender.PhotoURL)
	assert.Equal(t, "tok-b", recipient.Token)
	assert.Equal(t, []string{"avatars/a.png"}, photos.Calls)

	photos.Err = errors.New("denied")
	sender, _ = p.LookupPair(context.Background(), "A", "B")
	assert.Empty(t, sender.PhotoURL)
}
