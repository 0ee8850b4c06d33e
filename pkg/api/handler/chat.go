package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/russross/blackfriday"
	"github.com/samber/lo"

	"github.com/familybot/companion/pkg/api/response"
	"github.com/familybot/companion/pkg/domain"
)

type chat struct {
	store  ChatStore
	writer response.JSONResponseWriter
}

func NewChat(store ChatStore) *chat {
	return &chat{
		store:  store,
		writer: response.JSONResponseWriter{},
	}
}

type sendMessageRequest struct {
	Content        string `json:"content"`
	ForceWebSearch bool   `json:"forceWebSearch"`
}

func (c *chat) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "content is missing or empty")
		return
	}

	message, err := c.store.SendMessage(r.Context(), req.Content, req.ForceWebSearch)
	if err != nil {
		c.writer.WriteErrorResponse(w, sendStatusCode(err), err.Error())
		return
	}

	c.writer.WriteSuccessResponse(w, renderMessage(*message))
}

func (c *chat) GetMessages(w http.ResponseWriter, _ *http.Request) {
	messages := lo.Map(c.store.Messages(), func(m domain.Message, _ int) domain.Message {
		return renderMessage(m)
	})
	c.writer.WriteSuccessResponse(w, messages)
}

// renderMessage fills ContentHTML for ai replies so the UI can show rich
// text without shipping a markdown renderer of its own.
func renderMessage(m domain.Message) domain.Message {
	if m.Sender == domain.SenderAI && m.Content != "" {
		m.ContentHTML = string(blackfriday.MarkdownCommon([]byte(m.Content)))
	}
	return m
}

func sendStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoUserSelected),
		errors.Is(err, domain.ErrNoCharacterSelected),
		errors.Is(err, domain.ErrMissingCharacterID):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrEmptyResponse):
		return http.StatusBadGateway
	default:
		var gatewayErr *domain.GatewayError
		if errors.As(err, &gatewayErr) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
}
