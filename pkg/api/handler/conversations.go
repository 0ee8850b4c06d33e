package handler

import (
	"encoding/json"
	"net/http"

	"github.com/familybot/companion/pkg/api/response"
)

type conversations struct {
	store  ChatStore
	writer response.JSONResponseWriter
}

func NewConversations(store ChatStore) *conversations {
	return &conversations{
		store:  store,
		writer: response.JSONResponseWriter{},
	}
}

type conversationListResponse struct {
	Conversations any    `json:"conversations"`
	CurrentID     string `json:"currentId"`
}

func (c *conversations) List(w http.ResponseWriter, _ *http.Request) {
	c.writer.WriteSuccessResponse(w, conversationListResponse{
		Conversations: c.store.Conversations(),
		CurrentID:     c.store.CurrentConversationID(),
	})
}

func (c *conversations) Create(w http.ResponseWriter, _ *http.Request) {
	c.writer.WriteSuccessResponse(w, c.store.CreateNewConversation())
}

func (c *conversations) Switch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "conversation id is missing")
		return
	}

	c.store.SwitchConversation(id)
	c.writer.WriteSuccessResponse(w, c.store.Messages())
}

type updateTitleRequest struct {
	Title string `json:"title"`
}

func (c *conversations) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "title is missing or empty")
		return
	}

	c.store.UpdateConversationTitle(id, req.Title)
	c.writer.WriteSuccessResponse(w, c.store.Conversations())
}

func (c *conversations) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	c.store.DeleteConversation(id)
	c.writer.WriteSuccessResponse(w, conversationListResponse{
		Conversations: c.store.Conversations(),
		CurrentID:     c.store.CurrentConversationID(),
	})
}
