package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/strogmv/chatnotify/internal/domain"
	"github.com/strogmv/chatnotify/internal/pkg/logger"
	"github.com/strogmv/chatnotify/internal/pkg/metrics"
	"github.com/strogmv/chatnotify/internal/pkg/tracing"
	"github.com/strogmv/chatnotify/internal/port"
)

// Platform delivery hints. These are part of the client contract, not configuration.
var (
	AndroidHints = port.AndroidHints{
		Priority:  "high",
		ChannelID: "roadlink_chat",
		Icon:      "stock_ticker_update",
		Color:     "#0000FF",
	}
	APNSHints = port.APNSHints{
		ContentAvailable: true,
		Sound:            "default",
		Badge:            1,
	}
)

// Outcome says where a single dispatch ended.
type Outcome string

const (
	OutcomeDelivered             Outcome = "delivered"
	OutcomeFailed                Outcome = "failed"
	OutcomeSuppressed            Outcome = "suppressed"
	OutcomeAbandoned             Outcome = "abandoned"
	OutcomeSkippedNoData         Outcome = "skipped_no_data"
	OutcomeSkippedEmpty          Outcome = "skipped_empty"
	OutcomeSkippedNoConversation Outcome = "skipped_no_conversation"
	OutcomeSkippedStoreError     Outcome = "skipped_store_error"
	OutcomeSkippedNoRecipient    Outcome = "skipped_no_recipient"
	OutcomeSkippedNoToken        Outcome = "skipped_no_token"
)

// Dispatcher turns message-created events into push notifications for the other participant.
// It holds no per-event state and is safe for concurrent use.
type Dispatcher struct {
	Conversations port.ConversationRepository
	Profiles      *ProfileLookup
	Push          port.PushProvider
}

func NewDispatcher(conversations port.ConversationRepository, profiles *ProfileLookup, push port.PushProvider) *Dispatcher {
	return &Dispatcher{Conversations: conversations, Profiles: profiles, Push: push}
}

// HandleMessageCreated implements port.MessageCreatedHandler.
func (d *Dispatcher) HandleMessageCreated(ctx context.Context, evt domain.MessageCreated) {
	d.Dispatch(ctx, evt)
}

// Dispatch runs the pipeline for one event. It never returns an error: absent data ends the
// run silently and delivery failures are logged.
func (d *Dispatcher) Dispatch(ctx context.Context, evt domain.MessageCreated) (outcome Outcome) {
	start := time.Now()
	ctx, span := tracing.Tracer().Start(ctx, "Dispatcher.Dispatch", trace.WithAttributes(
		attribute.String("chat.conversation_id", evt.ConversationID),
		attribute.String("chat.message_id", evt.MessageID),
	))
	l := logger.From(ctx).With(
		slog.String("component", "dispatcher"),
		slog.String("conversation_id", evt.ConversationID),
		slog.String("message_id", evt.MessageID),
	)
	defer func() {
		span.SetAttributes(attribute.String("chat.outcome", string(outcome)))
		span.End()
		metrics.ObserveDispatch(string(outcome), time.Since(start))
		l.Debug("dispatch finished", slog.String("outcome", string(outcome)))
	}()

	if evt.Message == nil {
		return OutcomeSkippedNoData
	}
	senderID := strings.TrimSpace(evt.Message.SenderID)
	text := strings.TrimSpace(evt.Message.Text)
	if senderID == "" || text == "" {
		return OutcomeSkippedEmpty
	}

	conv, err := d.Conversations.FindByID(ctx, evt.ConversationID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeSkippedNoConversation
	case err != nil && ctx.Err() != nil:
		return OutcomeAbandoned
	case err != nil:
		l.Warn("conversation lookup failed", slog.Any("error", err))
		return OutcomeSkippedStoreError
	case conv == nil:
		return OutcomeSkippedNoConversation
	}

	recipientID, err := ResolveRecipient(conv, senderID)
	if err != nil {
		return OutcomeSkippedNoRecipient
	}

	sender, recipient := d.Profiles.LookupPair(ctx, senderID, recipientID)
	if recipient.Token == "" {
		return OutcomeSkippedNoToken
	}

	payload := BuildPayload(PayloadInput{
		ConversationID: evt.ConversationID,
		SenderID:       senderID,
		SenderName:     sender.Name,
		SenderPhotoURL: sender.PhotoURL,
		Text:           text,
		Kind:           Classify(text),
	})

	// Everything above is a re-read; past this point an abandoned run may double-send.
	if ctx.Err() != nil {
		return OutcomeAbandoned
	}

	return d.deliver(ctx, l, port.PushMessage{
		Token:          recipient.Token,
		RecipientID:    recipientID,
		ConversationID: evt.ConversationID,
		Title:          payload.Title,
		Body:           payload.Body,
		Data:           payload.Data,
		Android:        AndroidHints,
		APNS:           APNSHints,
	})
}

// deliver is the single place where delivery errors are absorbed.
func (d *Dispatcher) deliver(ctx context.Context, l *slog.Logger, msg port.PushMessage) Outcome {
	err := d.Push.Send(ctx, msg)
	switch {
	case err == nil:
		return OutcomeDelivered
	case errors.Is(err, port.ErrDeliverySuppressed):
		return OutcomeSuppressed
	default:
		l.Warn("push send failed",
			slog.String("recipient_id", msg.RecipientID),
			slog.String("reason", err.Error()),
		)
		return OutcomeFailed
	}
}

var _ port.MessageCreatedHandler = (*Dispatcher)(nil)
