package domain

import "time"

// Conversation is a locally-indexed thread, distinct from the server-side
// history the gateway keeps.
type Conversation struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	CharacterID   string    `json:"characterId"`
	CharacterName string    `json:"characterName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	MessageCount  int       `json:"messageCount"`
}

const DefaultConversationTitle = "新对话"

// HistoryEntry is one server-side exchange returned by the gateway's
// conversation-history endpoint.
type HistoryEntry struct {
	ID          string    `json:"id"`
	UserMessage string    `json:"userMessage"`
	AIResponse  string    `json:"aiResponse"`
	Timestamp   time.Time `json:"timestamp"`
}
