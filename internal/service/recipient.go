package service

import (
	"errors"

	"github.com/strogmv/chatnotify/internal/domain"
)

// ErrAmbiguousRecipient means the conversation does not have the sender plus exactly one other member.
var ErrAmbiguousRecipient = errors.New("ambiguous or missing recipient")

// ResolveRecipient returns the participant of a two-party conversation who did not send the message.
func ResolveRecipient(conv *domain.Conversation, senderID string) (string, error) {
	if conv == nil || senderID == "" {
		return "", ErrAmbiguousRecipient
	}

	senderFound := false
	var other string
	others := 0
	seen := make(map[string]struct{}, len(conv.ParticipantIDs))
	for _, id := range conv.ParticipantIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if id == senderID {
			senderFound = true
			continue
		}
		other = id
		others++
	}

	if !senderFound || others != 1 {
		return "", ErrAmbiguousRecipient
	}
	return other, nil
}
