package service

import "strings"

const (
	// DefaultSenderName replaces a missing or empty profile name.
	DefaultSenderName = "Someone"

	MaskedTitle = "Someone scanned your car"
	MaskedBody  = "A user would like to get in touch"

	// ClickAction routes a tap on the notification into the chat screen.
	ClickAction = "FLUTTER_NOTIFICATION_CLICK"

	maxBodyRunes = 100
	ellipsis     = "..."
)

// Data keys understood by the mobile client.
const (
	DataConversationID    = "conversationId"
	DataOtherUserID       = "otherUserId"
	DataOtherUserName     = "otherUserName"
	DataOtherUserPhotoURL = "otherUserPhotoUrl"
	DataBody              = "body"
	DataTitle             = "title"
	DataClickAction       = "click_action"
)

// PayloadInput is everything the notification text depends on.
type PayloadInput struct {
	ConversationID string
	SenderID       string
	SenderName     string
	SenderPhotoURL string
	Text           string
	Kind           MessageKind
}

// Payload is the visible notification plus the data the client routes on.
type Payload struct {
	Title string
	Body  string
	Data  map[string]string
}

// BuildPayload renders the notification for a message.
// Masking only changes Title and Body; Data always names the real sender.
func BuildPayload(in PayloadInput) Payload {
	text := strings.TrimSpace(in.Text)

	var title, body string
	switch in.Kind {
	case KindMaskedInquiry:
		title, body = MaskedTitle, MaskedBody
	default:
		title, body = in.SenderName, Truncate(text, maxBodyRunes)
	}

	return Payload{
		Title: title,
		Body:  body,
		Data: map[string]string{
			DataConversationID:    in.ConversationID,
			DataOtherUserID:       in.SenderID,
			DataOtherUserName:     in.SenderName,
			DataOtherUserPhotoURL: in.SenderPhotoURL,
			DataBody:              body,
			DataTitle:             title,
			DataClickAction:       ClickAction,
		},
	}
}

// Truncate cuts s to max runes, replacing the tail with "..." when it is longer.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	keep := max - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	return string(r[:keep]) + ellipsis
}
