package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	natspkg "github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/strogmv/chatnotify/internal/domain"
	"github.com/strogmv/chatnotify/internal/pkg/logger"
	"github.com/strogmv/chatnotify/internal/port"
)

// DefaultSubject carries MessageCreated events as JSON.
const DefaultSubject = "chat.messages.created"

type Client struct {
	nc *natspkg.Conn
}

func NewClient(url string) (*Client, error) {
	nc, err := natspkg.Connect(url, natspkg.Name("chatnotify"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Client{nc: nc}, nil
}

func (c *Client) Close() {
	c.nc.Close()
}

// Drain lets in-flight handlers finish before closing the connection.
func (c *Client) Drain() error {
	return c.nc.Drain()
}

func (c *Client) IsConnected() bool {
	return c.nc != nil && c.nc.Status() == natspkg.CONNECTED
}

// SubscribeMessageCreated delivers decoded events on subject to h. With a non-empty
// queue, instances share the subject and each event is handled once per group.
func (c *Client) SubscribeMessageCreated(ctx context.Context, subject, queue string, h port.MessageCreatedHandler) (*natspkg.Subscription, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	cb := messageHandler(ctx, h)
	if queue != "" {
		return c.nc.QueueSubscribe(subject, queue, cb)
	}
	return c.nc.Subscribe(subject, cb)
}

// messageHandler binds h to a context that keeps ctx's values but not its cancellation.
// Drain runs after the shutdown signal cancels ctx and still hands buffered messages to
// the callback; core NATS does not redeliver them.
func messageHandler(ctx context.Context, h port.MessageCreatedHandler) natspkg.MsgHandler {
	base := context.WithoutCancel(ctx)
	return func(msg *natspkg.Msg) {
		HandleMsg(base, msg, h)
	}
}

// HandleMsg decodes one NATS message and hands it to h. Malformed payloads are logged and dropped.
// A received message is always handled to completion, even when ctx is already cancelled.
func HandleMsg(ctx context.Context, msg *natspkg.Msg, h port.MessageCreatedHandler) {
	ctx = context.WithoutCancel(ctx)
	if msg.Header != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(http.Header(msg.Header)))
	}
	msgID := msg.Header.Get(natspkg.MsgIdHdr)
	if msgID == "" {
		msgID = uuid.NewString()
	}

	var evt domain.MessageCreated
	if err := json.Unmarshal(msg.Data, &evt); err != nil {
		logger.From(ctx).Warn("drop malformed message-created event",
			slog.String("component", "nats"),
			slog.String("subject", msg.Subject),
			slog.String("nats_msg_id", msgID),
			slog.Any("error", err),
		)
		return
	}
	h.HandleMessageCreated(ctx, evt)
}

// PublishMessageCreated emits evt on subject. Used by the dispatch CLI and tests.
func (c *Client) PublishMessageCreated(ctx context.Context, subject string, evt domain.MessageCreated) error {
	if subject == "" {
		subject = DefaultSubject
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := natspkg.NewMsg(subject)
	msg.Data = b
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(http.Header(msg.Header)))
	msg.Header.Set(natspkg.MsgIdHdr, evt.MessageID)
	return c.nc.PublishMsg(msg)
}
