package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familybot/companion/pkg/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/api/v1", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("", time.Second)
	assert.Error(t, err)
}

func TestSendText(t *testing.T) {
	var gotPath, gotRequestID string
	var gotBody chatRequest

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get("X-Request-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"response":      "爷爷好！",
			"characterName": "喜羊羊",
			"emotion":       "happy",
		})
	}))

	raw, err := c.SendText(context.Background(), "u-1", "xiyang", "你好", domain.VoiceConfig{Voice: "male", Speed: 1.0}, true)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/chat", gotPath)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "u-1", gotBody.UserID)
	assert.Equal(t, "xiyang", gotBody.CharacterID)
	assert.Equal(t, "你好", gotBody.Message)
	assert.True(t, gotBody.ForceWebSearch)

	assert.Equal(t, "爷爷好！", raw.Response)
	assert.Equal(t, "喜羊羊", raw.CharacterName)
	assert.Equal(t, "happy", raw.Emotion)
}

func TestSendTextServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "model overloaded"})
	}))

	_, err := c.SendText(context.Background(), "u-1", "xiyang", "你好", domain.VoiceConfig{}, false)

	var gatewayErr *domain.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, http.StatusInternalServerError, gatewayErr.Status)
	assert.Equal(t, "model overloaded", gatewayErr.Message)
}

func TestListCharacters(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/characters", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]string{
			{"characterId": "lanyang", "name": "懒羊羊"},
		})
	}))

	characters, err := c.ListCharacters(context.Background())
	require.NoError(t, err)
	require.Len(t, characters, 1)
	assert.Equal(t, "lanyang", characters[0].CharacterID)
	assert.Equal(t, "懒羊羊", characters[0].Name)
}

func TestGetConversationHistoryPassesIDs(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u-1", r.URL.Query().Get("userId"))
		assert.Equal(t, "meiyang", r.URL.Query().Get("characterId"))
		json.NewEncoder(w).Encode([]map[string]string{
			{"id": "7", "userMessage": "你好", "aiResponse": "妈妈好！"},
		})
	}))

	history, err := c.GetConversationHistory(context.Background(), "u-1", "meiyang")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "妈妈好！", history[0].AIResponse)
}

func TestSynthesizeSpeech(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/api/v1/tts", r.URL.Path)
		assert.Equal(t, "child", r.PostForm.Get("voice"))
		assert.Equal(t, "1.1", r.PostForm.Get("speed"))
		json.NewEncoder(w).Encode(map[string]string{"audioBase64": "YXVkaW8="})
	}))

	speech := c.SynthesizeSpeech(context.Background(), "u-1", "lanyang", "你好", domain.VoiceConfig{Voice: "child", Speed: 1.1})
	require.NotNil(t, speech)
	assert.Equal(t, "YXVkaW8=", speech.AudioBase64)
}

func TestSynthesizeSpeechFailureReturnsNil(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	speech := c.SynthesizeSpeech(context.Background(), "u-1", "lanyang", "你好", domain.VoiceConfig{})
	assert.Nil(t, speech)
}

func TestTranscribe(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "voice.mp3")
	require.NoError(t, os.WriteFile(audioPath, []byte("fake audio"), 0o600))

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/asr", r.URL.Path)

		file, header, err := r.FormFile("audio_file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "voice.mp3", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"text": "你好呀"})
	}))

	text, err := c.Transcribe(audioPath)
	require.NoError(t, err)
	assert.Equal(t, "你好呀", text)
}

func TestHealth(t *testing.T) {
	healthy := true
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))

	assert.NoError(t, c.Health(context.Background()))

	healthy = false
	err := c.Health(context.Background())
	var gatewayErr *domain.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, http.StatusServiceUnavailable, gatewayErr.Status)
}
