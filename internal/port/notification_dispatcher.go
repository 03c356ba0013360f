package port

import (
	"context"
	"errors"

	"github.com/strogmv/chatnotify/internal/domain"
)

// AndroidHints are Android-specific delivery options.
type AndroidHints struct {
	Priority  string
	ChannelID string
	Icon      string
	Color     string
}

// APNSHints are iOS-specific delivery options.
type APNSHints struct {
	ContentAvailable bool
	Sound            string
	Badge            int
}

// PushMessage is a transport-agnostic envelope addressed to a single device token.
type PushMessage struct {
	Token          string
	RecipientID    string
	ConversationID string
	Title          string
	Body           string
	Data           map[string]string
	Android        AndroidHints
	APNS           APNSHints
}

// ErrDeliverySuppressed is returned by a provider that deliberately dropped a message.
var ErrDeliverySuppressed = errors.New("delivery suppressed")

// PushProvider delivers a push message. The error text is the provider's failure reason.
type PushProvider interface {
	Send(ctx context.Context, msg PushMessage) error
}

// MessageCreatedHandler reacts to a newly created chat message.
type MessageCreatedHandler interface {
	HandleMessageCreated(ctx context.Context, evt domain.MessageCreated)
}
