package service

import (
	"errors"
	"testing"

	"github.com/strogmv/chatnotify/internal/domain"
)

func TestResolveRecipient(t *testing.T) {
	tests := []struct {
		name    string
		conv    *domain.Conversation
		sender  string
		want    string
		wantErr bool
	}{
		{"two party", &domain.Conversation{ParticipantIDs: []string{"A", "B"}}, "A", "B", false},
		{"order irrelevant", &domain.Conversation{ParticipantIDs: []string{"B", "A"}}, "A", "B", false},
		{"duplicates collapse", &domain.Conversation{ParticipantIDs: []string{"A", "B", "B", "A"}}, "A", "B", false},
		{"nil conversation", nil, "A", "", true},
		{"empty set", &domain.Conversation{}, "A", "", true},
		{"self chat", &domain.Conversation{ParticipantIDs: []string{"A"}}, "A", "", true},
		{"sender not member", &domain.Conversation{ParticipantIDs: []string{"B", "C"}}, "A", "", true},
		{"sender not member single other", &domain.Conversation{ParticipantIDs: []string{"B"}}, "A", "", true},
		{"three party", &domain.Conversation{ParticipantIDs: []string{"A", "B", "C"}}, "A", "", true},
		{"empty sender", &domain.Conversation{ParticipantIDs: []string{"A", "B"}}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRecipient(tt.conv, tt.sender)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrAmbiguousRecipient) {
				t.Fatalf("err = %v, want ErrAmbiguousRecipient", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// Sender once plus k others resolves only when k == 1.
func TestResolveRecipient_Cardinality(t *testing.T) {
	for k := 0; k <= 5; k++ {
		ids := []string{"sender"}
		for i := 0; i < k; i++ {
			ids = append(ids, string(rune('a'+i)))
		}
		_, err := ResolveRecipient(&domain.Conversation{ParticipantIDs: ids}, "sender")
		if (err == nil) != (k == 1) {
			t.Errorf("k=%d: err = %v", k, err)
		}
	}
}
