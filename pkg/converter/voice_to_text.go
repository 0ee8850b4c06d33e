package converter

import (
	"fmt"
	"os"
	"os/exec"
	"path"
)

type SpeechTranscriber interface {
	Transcribe(filePath string) (string, error)
}

type voiceToText struct {
	transcriber SpeechTranscriber
}

// NewVoiceToText wraps a transcriber with the audio container handling the
// backends cannot do themselves: ogg voice notes are converted to mp3 via
// ffmpeg before transcription.
func NewVoiceToText(transcriber SpeechTranscriber) *voiceToText {
	return &voiceToText{transcriber: transcriber}
}

func (v *voiceToText) Convert(voiceFilePath string) (string, error) {
	if path.Ext(voiceFilePath) == ".ogg" || path.Ext(voiceFilePath) == ".oga" {
		newFilePath, err := convertAudioToMp3(voiceFilePath)
		defer os.Remove(voiceFilePath)
		if err != nil {
			return "", fmt.Errorf("converting file: %w", err)
		}
		voiceFilePath = newFilePath
	}

	text, err := v.transcriber.Transcribe(voiceFilePath)
	if err != nil {
		return "", fmt.Errorf("transcribing audio file: %w", err)
	}

	return text, nil
}

func convertAudioToMp3(filePath string) (string, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return "", fmt.Errorf("looking for `ffmpeg`: %w", err)
	}

	newFilePath := filePath + ".mp3"

	cmd := exec.Command("ffmpeg", "-i", filePath, newFilePath)
	if _, err := cmd.CombinedOutput(); err != nil {
		return newFilePath, fmt.Errorf("running `ffmpeg`: %w", err)
	}

	return newFilePath, nil
}
