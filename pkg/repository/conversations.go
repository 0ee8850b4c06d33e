package repository

import (
	"encoding/json"
	"log/slog"

	"github.com/familybot/companion/pkg/domain"
	"github.com/familybot/companion/pkg/logger"
)

const (
	conversationsKey     = "familybot:conversations"
	selectedCharacterKey = "familybot:selected-character"
	messagesKeyPrefix    = "familybot:messages:"
)

// conversationRepository lays the thread index and per-thread message blobs
// over the key-value adapter. Keys are partitioned per thread so writes to
// different threads never collide; no transaction spans the index and a
// message blob.
type conversationRepository struct {
	kv KeyValueStore
}

func NewConversationRepository(kv KeyValueStore) *conversationRepository {
	return &conversationRepository{kv: kv}
}

func (r *conversationRepository) LoadIndex() []domain.Conversation {
	raw, ok := r.kv.Get(conversationsKey)
	if !ok {
		return nil
	}

	var conversations []domain.Conversation
	if err := json.Unmarshal([]byte(raw), &conversations); err != nil {
		slog.Error("parsing persisted conversation index", logger.Err(err))
		return nil
	}
	return conversations
}

// SaveIndex re-serializes the full thread list, not a delta, to keep
// storage and memory consistent under interleaved reloads.
func (r *conversationRepository) SaveIndex(conversations []domain.Conversation) {
	raw, err := json.Marshal(conversations)
	if err != nil {
		slog.Error("serializing conversation index", logger.Err(err))
		return
	}
	r.kv.Set(conversationsKey, string(raw))
}

func (r *conversationRepository) LoadMessages(conversationID string) []domain.Message {
	raw, ok := r.kv.Get(messagesKeyPrefix + conversationID)
	if !ok {
		return []domain.Message{}
	}

	var messages []domain.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		slog.Error("parsing persisted messages", "conversationID", conversationID, logger.Err(err))
		return []domain.Message{}
	}
	return messages
}

func (r *conversationRepository) SaveMessages(conversationID string, messages []domain.Message) {
	raw, err := json.Marshal(messages)
	if err != nil {
		slog.Error("serializing messages", "conversationID", conversationID, logger.Err(err))
		return
	}
	r.kv.Set(messagesKeyPrefix+conversationID, string(raw))
}

func (r *conversationRepository) RemoveMessages(conversationID string) {
	r.kv.Remove(messagesKeyPrefix + conversationID)
}

func (r *conversationRepository) SaveSelectedCharacter(characterID string) {
	r.kv.Set(selectedCharacterKey, characterID)
}

func (r *conversationRepository) LoadSelectedCharacter() (string, bool) {
	return r.kv.Get(selectedCharacterKey)
}
