package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/familybot/companion/pkg/domain"
	"github.com/familybot/companion/pkg/logger"
)

type client struct {
	baseURL string
	hc      *http.Client
}

// NewClient creates a client for the remote family-bot backend. baseURL is
// the API root, e.g. http://localhost:8080/api/v1.
func NewClient(baseURL string, timeout time.Duration) (*client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is empty")
	}
	return &client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}, nil
}

func (c *client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.getJSON(ctx, "/users", &users); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (c *client) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	var created domain.User
	if err := c.postJSON(ctx, "/users", user, &created); err != nil {
		return domain.User{}, fmt.Errorf("creating user: %w", err)
	}
	return created, nil
}

func (c *client) ListCharacters(ctx context.Context) ([]domain.Character, error) {
	var characters []domain.Character
	if err := c.getJSON(ctx, "/characters", &characters); err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	return characters, nil
}

type chatRequest struct {
	UserID         string             `json:"userId"`
	CharacterID    string             `json:"characterId"`
	Message        string             `json:"message"`
	VoiceConfig    domain.VoiceConfig `json:"voiceConfig"`
	ForceWebSearch bool               `json:"forceWebSearch"`
}

func (c *client) SendText(
	ctx context.Context,
	userID, characterID, text string,
	voice domain.VoiceConfig,
	forceWebSearch bool,
) (*RawResponse, error) {
	req := chatRequest{
		UserID:         userID,
		CharacterID:    characterID,
		Message:        text,
		VoiceConfig:    voice,
		ForceWebSearch: forceWebSearch,
	}

	var raw RawResponse
	if err := c.postJSON(ctx, "/chat", req, &raw); err != nil {
		return nil, fmt.Errorf("sending chat message: %w", err)
	}
	return &raw, nil
}

func (c *client) GetConversationHistory(ctx context.Context, userID, characterID string) ([]domain.HistoryEntry, error) {
	params := url.Values{}
	params.Set("userId", userID)
	params.Set("characterId", characterID)

	var history []domain.HistoryEntry
	if err := c.getJSON(ctx, "/conversations?"+params.Encode(), &history); err != nil {
		return nil, fmt.Errorf("fetching conversation history: %w", err)
	}
	return history, nil
}

// SynthesizeSpeech requests TTS audio for text. It is best-effort: any
// failure is logged and reported as a nil result, never an error.
func (c *client) SynthesizeSpeech(
	ctx context.Context,
	userID, characterID, text string,
	voice domain.VoiceConfig,
) *domain.SpeechResult {
	form := url.Values{}
	form.Set("userId", userID)
	form.Set("characterId", characterID)
	form.Set("text", text)
	form.Set("voice", voice.Voice)
	form.Set("speed", fmt.Sprintf("%g", voice.Speed))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts", bytes.NewBufferString(form.Encode()))
	if err != nil {
		slog.Warn("building tts request", logger.Err(err))
		return nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		slog.Warn("synthesizing speech", logger.Err(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("synthesizing speech", "status", resp.StatusCode)
		return nil
	}

	var result domain.SpeechResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Warn("decoding tts response", logger.Err(err))
		return nil
	}
	return &result
}

type asrResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads an audio file to the backend's ASR endpoint and
// returns the recognized text.
func (c *client) Transcribe(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("audio_file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copying audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/asr", &body)
	if err != nil {
		return "", fmt.Errorf("building asr request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", &domain.GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.GatewayError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var result asrResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding asr response: %w", err)
	}
	return result.Text, nil
}

func (c *client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("building health request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return &domain.GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.GatewayError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	return nil
}

func (c *client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

func (c *client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *client) do(req *http.Request, out any) error {
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		return &domain.GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.GatewayError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func readErrorMessage(r io.Reader) string {
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
