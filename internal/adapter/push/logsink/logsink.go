// Package logsink is a push provider that only logs, for local runs.
package logsink

import (
	"context"
	"log/slog"

	"github.com/strogmv/chatnotify/internal/pkg/logger"
	"github.com/strogmv/chatnotify/internal/port"
)

type Provider struct{}

func New() *Provider { return &Provider{} }

// Send implements port.PushProvider.
func (p *Provider) Send(ctx context.Context, msg port.PushMessage) error {
	logger.From(ctx).Info("push notification",
		slog.String("component", "logsink"),
		slog.String("recipient_id", msg.RecipientID),
		slog.String("title", msg.Title),
		slog.String("body", msg.Body),
		slog.Any("data", msg.Data),
	)
	return nil
}

var _ port.PushProvider = (*Provider)(nil)
