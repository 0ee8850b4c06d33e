package normalizer

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/familybot/companion/pkg/domain"
	"github.com/familybot/companion/pkg/gateway"
)

// Normalize collapses a raw backend payload into the canonical response
// shape. For every dual-named field the camelCase form wins over the
// snake_case form; a field absent under both names stays empty.
//
// It fails with domain.ErrEmptyResponse when no usable display text
// survives, so a blank bubble can never reach the timeline.
func Normalize(raw *gateway.RawResponse) (*domain.CanonicalResponse, error) {
	text, _ := lo.Coalesce(raw.Response, raw.AIResponseText, raw.ResponseAlt, raw.Message)
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyResponse
	}

	characterName, _ := lo.Coalesce(raw.CharacterName, raw.CharacterNameAlt, domain.FallbackCharacterName)
	characterID, _ := lo.Coalesce(raw.CharacterID, raw.CharacterIDAlt)
	emotion, _ := lo.Coalesce(raw.Emotion, "neutral")

	audioURL, _ := lo.Coalesce(raw.AudioURL, raw.AudioURLAlt, raw.AIAudioURL)
	audioBase64, _ := lo.Coalesce(raw.AudioBase64, raw.AudioBase64Alt)
	imageURL, _ := lo.Coalesce(raw.ImageURL, raw.ImageURLAlt)
	imageBase64, _ := lo.Coalesce(raw.ImageBase64, raw.ImageBase64Alt)
	imageDescription, _ := lo.Coalesce(raw.ImageDescription, raw.ImageDescriptionAlt)
	enhancedPrompt, _ := lo.Coalesce(raw.EnhancedPrompt, raw.EnhancedPromptAlt)
	webSearchQuery, _ := lo.Coalesce(raw.WebSearchQuery, raw.WebSearchQueryAlt)

	return &domain.CanonicalResponse{
		CharacterID:           characterID,
		CharacterName:         characterName,
		Text:                  text,
		Emotion:               emotion,
		Timestamp:             parseTimestamp(raw.Timestamp),
		AudioURL:              audioURL,
		AudioBase64:           audioBase64,
		ImageURL:              imageURL,
		ImageBase64:           imageBase64,
		ImageDescription:      imageDescription,
		EnhancedPrompt:        enhancedPrompt,
		WebSearchUsed:         coalesceBool(raw.WebSearchUsed, raw.WebSearchUsedAlt),
		WebSearchQuery:        webSearchQuery,
		WebSearchResultsCount: coalesceInt(raw.WebSearchResultsCount, raw.WebSearchResultsCountAlt),
	}, nil
}

func parseTimestamp(raw string) time.Time {
	if raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts
		}
	}
	return time.Now()
}

func coalesceBool(values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return false
}

func coalesceInt(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
