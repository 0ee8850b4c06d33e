package domain

import "time"

// FallbackCharacterName is shown when a response carries no character name.
const FallbackCharacterName = "家人"

// CanonicalResponse is the one shape the rest of the client consumes after
// normalization. Optional media fields stay empty when the backend sent
// nothing, so rendering can tell "no image" from a broken one.
type CanonicalResponse struct {
	CharacterID           string    `json:"characterId"`
	CharacterName         string    `json:"characterName"`
	Text                  string    `json:"response"`
	Emotion               string    `json:"emotion"`
	Timestamp             time.Time `json:"timestamp"`
	AudioURL              string    `json:"audioUrl,omitempty"`
	AudioBase64           string    `json:"audioBase64,omitempty"`
	ImageURL              string    `json:"imageUrl,omitempty"`
	ImageBase64           string    `json:"imageBase64,omitempty"`
	ImageDescription      string    `json:"imageDescription,omitempty"`
	EnhancedPrompt        string    `json:"enhancedPrompt,omitempty"`
	WebSearchUsed         bool      `json:"webSearchUsed"`
	WebSearchQuery        string    `json:"webSearchQuery,omitempty"`
	WebSearchResultsCount int       `json:"webSearchResultsCount"`
}
