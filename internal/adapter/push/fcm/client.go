// Package fcm delivers push messages through Firebase Cloud Messaging.
package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/strogmv/chatnotify/internal/port"
)

// sender is the part of *messaging.Client this adapter uses.
type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type Client struct {
	messaging sender
}

// New builds a client from a project id and an optional service-account file.
// Without a file, application default credentials are used.
func New(ctx context.Context, projectID, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	mc, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return &Client{messaging: mc}, nil
}

// Send implements port.PushProvider.
func (c *Client) Send(ctx context.Context, msg port.PushMessage) error {
	if _, err := c.messaging.Send(ctx, toMessage(msg)); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}

// IsRecipientError reports errors caused by the target token rather than FCM itself.
func IsRecipientError(err error) bool {
	return messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err) || messaging.IsSenderIDMismatch(err)
}

func toMessage(msg port.PushMessage) *messaging.Message {
	badge := msg.APNS.Badge
	return &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: msg.Android.Priority,
			Notification: &messaging.AndroidNotification{
				ChannelID: msg.Android.ChannelID,
				Icon:      msg.Android.Icon,
				Color:     msg.Android.Color,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: msg.APNS.ContentAvailable,
					Sound:            msg.APNS.Sound,
					Badge:            &badge,
				},
			},
		},
	}
}

var _ port.PushProvider = (*Client)(nil)
