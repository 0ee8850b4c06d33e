package converter

import (
	"log/slog"

	"github.com/familybot/companion/pkg/logger"
)

type fallbackTranscriber struct {
	primary   SpeechTranscriber
	secondary SpeechTranscriber
}

// NewFallbackTranscriber tries the primary transcriber first (the gateway's
// ASR endpoint) and falls back to the secondary one when it fails. The
// primary failure is logged, not surfaced.
func NewFallbackTranscriber(primary, secondary SpeechTranscriber) *fallbackTranscriber {
	return &fallbackTranscriber{
		primary:   primary,
		secondary: secondary,
	}
}

func (f *fallbackTranscriber) Transcribe(filePath string) (string, error) {
	text, err := f.primary.Transcribe(filePath)
	if err == nil {
		return text, nil
	}

	if f.secondary == nil {
		return "", err
	}

	slog.Warn("primary transcriber failed, falling back", logger.Err(err))
	return f.secondary.Transcribe(filePath)
}
