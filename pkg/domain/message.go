package domain

import (
	"fmt"
	"time"
)

const (
	SenderUser   = "user"
	SenderAI     = "ai"
	SenderSystem = "system"
)

// Message is one entry of the visible timeline. The timeline is
// append-only: nothing is mutated after the append except flags set at
// creation time.
type Message struct {
	ID               string    `json:"id"`
	Content          string    `json:"content"`
	ContentHTML      string    `json:"contentHtml,omitempty"`
	Sender           string    `json:"sender"`
	Timestamp        time.Time `json:"timestamp"`
	Avatar           string    `json:"avatar,omitempty"`
	CharacterName    string    `json:"characterName,omitempty"`
	AudioURL         string    `json:"audioUrl,omitempty"`
	AudioBase64      string    `json:"audioBase64,omitempty"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	ImageBase64      string    `json:"imageBase64,omitempty"`
	ImageDescription string    `json:"imageDescription,omitempty"`
	EnhancedPrompt   string    `json:"enhancedPrompt,omitempty"`
	Emotion          string    `json:"emotion,omitempty"`
	IsError          bool      `json:"isError,omitempty"`
	IsWelcome        bool      `json:"isWelcome,omitempty"`
	IsFallback       bool      `json:"isFallback,omitempty"`
}

// NewMessageID builds a client-side id. Uniqueness only matters within a
// session; the kind prefix keeps concurrent user/ai appends apart.
func NewMessageID(kind string) string {
	return fmt.Sprintf("%s-%d", kind, time.Now().UnixMilli())
}
