package handler

import (
	"encoding/json"
	"net/http"

	"github.com/familybot/companion/pkg/api/response"
	"github.com/familybot/companion/pkg/domain"
)

type characters struct {
	store  ChatStore
	writer response.JSONResponseWriter
}

func NewCharacters(store ChatStore) *characters {
	return &characters{
		store:  store,
		writer: response.JSONResponseWriter{},
	}
}

func (c *characters) List(w http.ResponseWriter, _ *http.Request) {
	c.writer.WriteSuccessResponse(w, c.store.Characters())
}

type selectCharacterRequest struct {
	CharacterID string `json:"characterId"`
}

func (c *characters) Select(w http.ResponseWriter, r *http.Request) {
	var req selectCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var selected *domain.Character
	for _, character := range c.store.Characters() {
		if character.ResolvedID() == req.CharacterID {
			match := character
			selected = &match
			break
		}
	}
	if selected == nil {
		c.writer.WriteErrorResponse(w, http.StatusNotFound, "character not found")
		return
	}

	c.store.SelectCharacter(r.Context(), *selected)
	c.writer.WriteSuccessResponse(w, c.store.SelectedCharacter())
}
