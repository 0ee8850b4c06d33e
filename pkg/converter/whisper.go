package converter

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type whisperTranscriber struct {
	api *openai.Client
}

// NewWhisperTranscriber is the second-tier speech recognizer, used when
// the gateway's ASR endpoint is unavailable and an OpenAI token is
// configured.
func NewWhisperTranscriber(token string) (*whisperTranscriber, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	return &whisperTranscriber{api: openai.NewClient(token)}, nil
}

func (w *whisperTranscriber) Transcribe(filePath string) (string, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filePath,
	}

	resp, err := w.api.CreateTranscription(context.Background(), req)
	if err != nil {
		return "", fmt.Errorf("creating transcription: %w", err)
	}

	return resp.Text, nil
}
