package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/strogmv/chatnotify/internal/domain"
	"github.com/strogmv/chatnotify/internal/pkg/logger"
	"github.com/strogmv/chatnotify/internal/port"
)

// Profile is what the pipeline needs to know about a user. Token is empty when the
// user cannot be notified.
type Profile struct {
	UserID   string
	Name     string
	PhotoURL string
	Token    string
}

// ProfileLookup reads user profiles and substitutes defaults when they are missing.
type ProfileLookup struct {
	Users  port.UserRepository
	Photos port.PhotoURLResolver
}

func NewProfileLookup(users port.UserRepository, photos port.PhotoURLResolver) *ProfileLookup {
	return &ProfileLookup{Users: users, Photos: photos}
}

// Lookup never fails: a missing record or a store error yields the default profile.
func (p *ProfileLookup) Lookup(ctx context.Context, userID string) Profile {
	prof := Profile{UserID: userID, Name: DefaultSenderName}

	user, err := p.Users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.From(ctx).Debug("profile lookup failed, using defaults",
				slog.String("user_id", userID), slog.Any("error", err))
		}
		return prof
	}
	if user == nil {
		return prof
	}
	if name := strings.TrimSpace(user.Name); name != "" {
		prof.Name = user.Name
	}
	prof.PhotoURL = user.PhotoURL
	prof.Token = strings.TrimSpace(user.FCMToken)
	return prof
}

// LookupPair fetches sender and recipient concurrently and waits for both.
// The sender's photo reference is resolved to a fetchable URL.
func (p *ProfileLookup) LookupPair(ctx context.Context, senderID, recipientID string) (sender, recipient Profile) {
	var g errgroup.Group
	g.Go(func() error {
		sender = p.Lookup(ctx, senderID)
		sender.PhotoURL = p.resolvePhoto(ctx, sender.PhotoURL)
		return nil
	})
	g.Go(func() error {
		recipient = p.Lookup(ctx, recipientID)
		return nil
	})
	_ = g.Wait()
	return sender, recipient
}

func (p *ProfileLookup) resolvePhoto(ctx context.Context, ref string) string {
	if p.Photos == nil || ref == "" {
		return ref
	}
	url, err := p.Photos.ResolvePhotoURL(ctx, ref)
	if err != nil {
		logger.From(ctx).Debug("photo url resolution failed", slog.String("ref", ref), slog.Any("error", err))
		return ""
	}
	return url
}
