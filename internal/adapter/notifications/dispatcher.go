package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/strogmv/chatnotify/internal/pkg/circuitbreaker"
	"github.com/strogmv/chatnotify/internal/pkg/logger"
	"github.com/strogmv/chatnotify/internal/port"
)

// Gateway sits in front of a push provider. It drops messages for recipients who
// have muted them and stops calling the provider while its breaker is open.
type Gateway struct {
	Provider        port.PushProvider
	Breaker         *circuitbreaker.Breaker
	UserMuteChecker func(ctx context.Context, userID string, msg port.PushMessage) (bool, error)
	// IsRecipientError reports errors caused by the message's token rather than the
	// provider; those do not count against the breaker.
	IsRecipientError func(err error) bool
}

// NewGateway wraps provider. Breaker and mute checker are optional.
func NewGateway(provider port.PushProvider) *Gateway {
	return &Gateway{Provider: provider}
}

// Send implements port.PushProvider.
func (g *Gateway) Send(ctx context.Context, msg port.PushMessage) error {
	if g.UserMuteChecker != nil && strings.TrimSpace(msg.RecipientID) != "" {
		muted, err := g.UserMuteChecker(ctx, msg.RecipientID, msg)
		if err != nil {
			// presence is advisory; notify rather than lose the message
			logger.From(ctx).Debug("mute check failed", slog.String("recipient_id", msg.RecipientID), slog.Any("error", err))
		} else if muted {
			return port.ErrDeliverySuppressed
		}
	}

	if g.Breaker == nil {
		return g.Provider.Send(ctx, msg)
	}
	err := g.Breaker.Do(func() error {
		return g.Provider.Send(ctx, msg)
	}, func(err error) circuitbreaker.Result {
		return g.classify(ctx, err)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return fmt.Errorf("push provider unavailable: %w", err)
	}
	return err
}

// classify decides how a provider error counts against the breaker. Errors from the
// caller's own cancellation or deadline say nothing about the provider.
func (g *Gateway) classify(ctx context.Context, err error) circuitbreaker.Result {
	switch {
	case ctx.Err() != nil:
		return circuitbreaker.Ignored
	case g.IsRecipientError != nil && g.IsRecipientError(err):
		return circuitbreaker.Success
	default:
		return circuitbreaker.Failure
	}
}

// ViewingMuteChecker mutes recipients who currently have the message's conversation open.
func ViewingMuteChecker(isViewing func(ctx context.Context, userID, conversationID string) (bool, error)) func(context.Context, string, port.PushMessage) (bool, error) {
	return func(ctx context.Context, userID string, msg port.PushMessage) (bool, error) {
		if msg.ConversationID == "" {
			return false, nil
		}
		return isViewing(ctx, userID, msg.ConversationID)
	}
}

var _ port.PushProvider = (*Gateway)(nil)
