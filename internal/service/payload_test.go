package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildPayload_Normal(t *testing.T) {
	p := BuildPayload(PayloadInput{
		ConversationID: "c1",
		SenderID:       "A",
		SenderName:     "Alice",
		SenderPhotoURL: "https://img/a.png",
		Text:           "  Hello  ",
		Kind:           KindNormal,
	})

	assert.Equal(t, "Alice", p.Title)
	assert.Equal(t, "Hello", p.Body)
	assert.Equal(t, map[string]string{
		DataConversationID:    "c1",
		DataOtherUserID:       "A",
		DataOtherUserName:     "Alice",
		DataOtherUserPhotoURL: "https://img/a.png",
		DataBody:              "Hello",
		DataTitle:             "Alice",
		DataClickAction:       ClickAction,
	}, p.Data)
}

func TestBuildPayload_MaskedKeepsRoutingData(t *testing.T) {
	for _, name := range []string{"Alice", "Someone", ""} {
		p := BuildPayload(PayloadInput{
			ConversationID: "c1",
			SenderID:       "A",
			SenderName:     name,
			Text:           "📋 Vehicle Inquiry: " + strings.Repeat("x", 300),
			Kind:           KindMaskedInquiry,
		})
		assert.Equal(t, MaskedTitle, p.Title)
		assert.Equal(t, MaskedBody, p.Body)
		assert.Equal(t, "A", p.Data[DataOtherUserID])
		assert.Equal(t, name, p.Data[DataOtherUserName])
		assert.Equal(t, MaskedTitle, p.Data[DataTitle])
		assert.Equal(t, MaskedBody, p.Data[DataBody])
	}
}

func TestBuildPayload_Truncation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"short", "hi", "hi"},
		{"exactly 100", strings.Repeat("a", 100), strings.Repeat("a", 100)},
		{"101", strings.Repeat("a", 101), strings.Repeat("a", 97) + "..."},
		{"long", strings.Repeat("b", 500), strings.Repeat("b", 97) + "..."},
		{"multibyte 100", strings.Repeat("é", 100), strings.Repeat("é", 100)},
		{"multibyte 120", strings.Repeat("🚗", 120), strings.Repeat("🚗", 97) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPayload(PayloadInput{SenderName: "A", Text: tt.text})
			assert.Equal(t, tt.want, p.Body)
			assert.LessOrEqual(t, utf8.RuneCountInString(p.Body), 100)
		})
	}
}

func TestTruncateTinyMax(t *testing.T) {
	assert.Equal(t, "...", Truncate("abcdef", 2))
}
