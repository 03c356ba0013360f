package domain

// MessageCreated is emitted once a chat message has been stored under
// conversations/{conversationId}/messages/{messageId}.
type MessageCreated struct {
	ConversationID string           `json:"conversationId"`
	MessageID      string           `json:"messageId"`
	Message        *MessageSnapshot `json:"message,omitempty"`
}

// MessageSnapshot carries the stored fields of the created message.
// A nil snapshot means the underlying record was not available.
type MessageSnapshot struct {
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
}
