package chat

import (
	"fmt"
	"time"

	"github.com/familybot/companion/pkg/domain"
)

// LoadConversationsFromLocal rehydrates the thread index from local
// storage. At least one thread exists afterwards: an empty index triggers
// creation of a fresh one.
func (s *store) LoadConversationsFromLocal() {
	index := s.repo.LoadIndex()
	if len(index) == 0 {
		s.CreateNewConversation()
		return
	}

	s.mu.Lock()
	s.conversations = index
	s.currentConversationID = index[0].ID
	s.messages = s.repo.LoadMessages(index[0].ID)
	s.mu.Unlock()
}

// CreateNewConversation opens a fresh thread, makes it current and clears
// the visible timeline. Threads are kept most-recent-first.
func (s *store) CreateNewConversation() domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createConversationLocked()
}

func (s *store) createConversationLocked() domain.Conversation {
	now := time.Now()
	id := fmt.Sprintf("conv-%d", now.UnixMilli())
	// Two threads created within the same millisecond must not share an id.
	for s.hasConversationLocked(id) {
		now = now.Add(time.Millisecond)
		id = fmt.Sprintf("conv-%d", now.UnixMilli())
	}
	conversation := domain.Conversation{
		ID:        id,
		Title:     domain.DefaultConversationTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.selectedCharacter != nil {
		conversation.CharacterID = s.selectedCharacter.ResolvedID()
		conversation.CharacterName = s.selectedCharacter.Name
	}

	s.conversations = append([]domain.Conversation{conversation}, s.conversations...)
	s.currentConversationID = conversation.ID
	s.messages = nil

	s.repo.SaveIndex(s.conversations)
	s.repo.SaveMessages(conversation.ID, []domain.Message{})

	return conversation
}

// SwitchConversation makes the given thread current and loads its
// persisted messages. Unknown ids are a no-op.
func (s *store) SwitchConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasConversationLocked(id) {
		return
	}
	s.currentConversationID = id
	s.messages = s.repo.LoadMessages(id)
}

// UpdateConversationTitle renames a thread. Unknown ids are a no-op.
func (s *store) UpdateConversationTitle(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := false
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			s.conversations[i].Title = title
			s.conversations[i].UpdatedAt = time.Now()
			updated = true
		}
	}
	if updated {
		s.repo.SaveIndex(s.conversations)
	}
}

// DeleteConversation removes a thread. When the current thread goes away
// the store repairs itself: it switches to the next available thread, or
// creates a fresh one so at least one always exists.
func (s *store) DeleteConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasConversationLocked(id) {
		return
	}

	remaining := make([]domain.Conversation, 0, len(s.conversations)-1)
	for _, c := range s.conversations {
		if c.ID != id {
			remaining = append(remaining, c)
		}
	}
	s.conversations = remaining
	s.repo.RemoveMessages(id)

	if s.currentConversationID == id {
		if len(remaining) > 0 {
			s.currentConversationID = remaining[0].ID
			s.messages = s.repo.LoadMessages(remaining[0].ID)
		} else {
			s.createConversationLocked()
			return
		}
	}

	s.repo.SaveIndex(s.conversations)
}

func (s *store) hasConversationLocked(id string) bool {
	for _, c := range s.conversations {
		if c.ID == id {
			return true
		}
	}
	return false
}
