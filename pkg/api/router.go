package api

import (
	"net/http"

	"github.com/familybot/companion/pkg/api/handler"
	"github.com/familybot/companion/pkg/api/middleware"
)

// NewRouter wires the local UI surface. Paths mirror what the frontend
// already consumes.
func NewRouter(
	store handler.ChatStore,
	converter handler.VoiceConverter,
	healthReporter handler.HealthReporter,
	authenticator middleware.Authenticator,
) http.Handler {
	chatHandler := handler.NewChat(store)
	charactersHandler := handler.NewCharacters(store)
	conversationsHandler := handler.NewConversations(store)
	voiceHandler := handler.NewVoice(store, converter)
	healthHandler := handler.NewHealth(healthReporter)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/chat", chatHandler.SendMessage)
	mux.HandleFunc("GET /api/v1/messages", chatHandler.GetMessages)
	mux.HandleFunc("GET /api/v1/characters", charactersHandler.List)
	mux.HandleFunc("POST /api/v1/characters/select", charactersHandler.Select)
	mux.HandleFunc("GET /api/v1/conversations", conversationsHandler.List)
	mux.HandleFunc("POST /api/v1/conversations", conversationsHandler.Create)
	mux.HandleFunc("POST /api/v1/conversations/{id}/switch", conversationsHandler.Switch)
	mux.HandleFunc("PATCH /api/v1/conversations/{id}", conversationsHandler.UpdateTitle)
	mux.HandleFunc("DELETE /api/v1/conversations/{id}", conversationsHandler.Delete)
	mux.HandleFunc("POST /api/v1/voice", voiceHandler.SendVoiceMessage)
	mux.HandleFunc("GET /api/v1/health", healthHandler.Check)

	return middleware.RequestID(middleware.Auth(authenticator, mux))
}
