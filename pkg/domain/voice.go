package domain

// VoiceConfig carries the TTS parameters sent alongside a chat request.
type VoiceConfig struct {
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

// SpeechResult is the outcome of a TTS synthesis call. Either field may be
// empty depending on what the backend returned.
type SpeechResult struct {
	AudioBase64 string `json:"audioBase64"`
	AudioURL    string `json:"audioUrl"`
}
