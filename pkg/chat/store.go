package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"github.com/familybot/companion/pkg/domain"
	"github.com/familybot/companion/pkg/gateway"
	"github.com/familybot/companion/pkg/logger"
)

type Gateway interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	ListCharacters(ctx context.Context) ([]domain.Character, error)
	SendText(ctx context.Context, userID, characterID, text string, voice domain.VoiceConfig, forceWebSearch bool) (*gateway.RawResponse, error)
	GetConversationHistory(ctx context.Context, userID, characterID string) ([]domain.HistoryEntry, error)
	SynthesizeSpeech(ctx context.Context, userID, characterID, text string, voice domain.VoiceConfig) *domain.SpeechResult
}

type ConversationRepository interface {
	LoadIndex() []domain.Conversation
	SaveIndex(conversations []domain.Conversation)
	LoadMessages(conversationID string) []domain.Message
	SaveMessages(conversationID string, messages []domain.Message)
	RemoveMessages(conversationID string)
	SaveSelectedCharacter(characterID string)
	LoadSelectedCharacter() (string, bool)
}

type Normalizer func(*gateway.RawResponse) (*domain.CanonicalResponse, error)

// store owns the session state of one chat client: active user, selected
// character, visible timeline, and the locally-persisted thread index.
// All mutation goes through its methods; snapshots are returned by value.
//
// IsLoading tracks the in-flight send. A second overlapping SendMessage is
// not hard-blocked; callers are expected to gate on IsLoading themselves.
type store struct {
	gw        Gateway
	repo      ConversationRepository
	normalize Normalizer

	mu                    sync.Mutex
	currentUser           *domain.User
	selectedCharacter     *domain.Character
	characters            []domain.Character
	messages              []domain.Message
	conversations         []domain.Conversation
	currentConversationID string
	isLoading             bool
	isRecording           bool
}

func NewStore(gw Gateway, repo ConversationRepository, normalize Normalizer) *store {
	return &store{
		gw:        gw,
		repo:      repo,
		normalize: normalize,
	}
}

// Initialize brings the store to a usable state. Every remote failure here
// is recovered with a local default: bootstrap must never block first
// paint, so nothing in this path errors outward.
func (s *store) Initialize(ctx context.Context) {
	user := s.resolveUser(ctx)
	characters := s.resolveCharacters(ctx)

	s.mu.Lock()
	s.currentUser = &user
	s.characters = characters

	if s.selectedCharacter == nil && len(characters) > 0 {
		selected := characters[0]
		if savedID, ok := s.repo.LoadSelectedCharacter(); ok {
			if match, found := lo.Find(characters, func(c domain.Character) bool {
				return c.ResolvedID() == savedID
			}); found {
				selected = match
			}
		}
		s.selectedCharacter = &selected
	}
	selected := s.selectedCharacter
	s.mu.Unlock()

	if selected != nil {
		s.loadConversationHistory(ctx)
	}
}

// resolveUser always produces a user: first existing remote user, else a
// remotely-created default, else the hardcoded local default.
func (s *store) resolveUser(ctx context.Context) domain.User {
	users, listErr := s.gw.ListUsers(ctx)
	if listErr == nil && len(users) > 0 {
		return users[0]
	}

	created, createErr := s.gw.CreateUser(ctx, domain.DefaultUser())
	if createErr == nil {
		return created
	}

	slog.Warn("falling back to local default user",
		logger.Err(multierror.Append(listErr, createErr).ErrorOrNil()))
	return domain.DefaultUser()
}

// resolveCharacters always produces a roster: the remote one when it is
// non-empty, else the hardcoded default trio.
func (s *store) resolveCharacters(ctx context.Context) []domain.Character {
	characters, err := s.gw.ListCharacters(ctx)
	if err != nil || len(characters) == 0 {
		if err != nil {
			slog.Warn("falling back to default character roster", logger.Err(err))
		}
		return domain.DefaultCharacters()
	}

	for i := range characters {
		characters[i].Normalize()
	}
	return characters
}

// loadConversationHistory replaces the timeline with the server-side
// history for (user, character). Failures are logged and swallowed; the
// timeline keeps whatever it held.
func (s *store) loadConversationHistory(ctx context.Context) {
	s.mu.Lock()
	user, character := s.currentUser, s.selectedCharacter
	s.mu.Unlock()
	if user == nil || character == nil {
		return
	}

	history, err := s.gw.GetConversationHistory(ctx, user.ID, character.ResolvedID())
	if err != nil {
		slog.Warn("loading conversation history", logger.Err(err))
		return
	}

	messages := lo.FlatMap(history, func(entry domain.HistoryEntry, _ int) []domain.Message {
		return []domain.Message{
			{
				ID:        entry.ID + "-user",
				Content:   entry.UserMessage,
				Sender:    domain.SenderUser,
				Timestamp: entry.Timestamp,
				Avatar:    user.AvatarURL,
			},
			{
				ID:            entry.ID + "-ai",
				Content:       entry.AIResponse,
				Sender:        domain.SenderAI,
				Timestamp:     entry.Timestamp,
				Avatar:        character.AvatarURL,
				CharacterName: character.Name,
			},
		}
	})

	s.mu.Lock()
	s.messages = messages
	s.mu.Unlock()
}

// SelectCharacter replaces the selection, starts a clean visible timeline
// and lets the persona greet first. History is deliberately not
// auto-reloaded here.
func (s *store) SelectCharacter(ctx context.Context, character domain.Character) {
	character.Normalize()

	s.mu.Lock()
	selected := character
	s.selectedCharacter = &selected
	s.messages = nil
	if s.currentConversationID != "" {
		s.repo.SaveMessages(s.currentConversationID, []domain.Message{})
		for i := range s.conversations {
			if s.conversations[i].ID == s.currentConversationID {
				s.conversations[i].CharacterID = character.ResolvedID()
				s.conversations[i].CharacterName = character.Name
				s.conversations[i].UpdatedAt = time.Now()
			}
		}
		s.repo.SaveIndex(s.conversations)
	}
	s.mu.Unlock()

	s.repo.SaveSelectedCharacter(character.ResolvedID())
	s.sendWelcomeMessage(ctx, character)
}

// sendWelcomeMessage appends the persona's greeting. TTS is best-effort:
// the welcome degrades to text-only when synthesis fails.
func (s *store) sendWelcomeMessage(ctx context.Context, character domain.Character) {
	greeting := domain.GreetingFor(character)

	message := domain.Message{
		ID:            domain.NewMessageID("welcome"),
		Content:       greeting,
		Sender:        domain.SenderAI,
		Timestamp:     time.Now(),
		Avatar:        character.AvatarURL,
		CharacterName: character.Name,
		IsWelcome:     true,
	}

	s.mu.Lock()
	user := s.currentUser
	s.mu.Unlock()

	if user != nil {
		if speech := s.gw.SynthesizeSpeech(ctx, user.ID, character.ResolvedID(), greeting, character.VoiceConfig()); speech != nil {
			message.AudioBase64 = speech.AudioBase64
			message.AudioURL = speech.AudioURL
		}
	}

	s.appendMessage(message)
}

// SendMessage runs the outbound pipeline: optimistic user append, gateway
// call, normalization, ai append. Failures stay visible: one isError system
// bubble lands in the timeline and the error is returned to the caller.
func (s *store) SendMessage(ctx context.Context, content string, forceWebSearch bool) (*domain.Message, error) {
	s.mu.Lock()
	user, character := s.currentUser, s.selectedCharacter
	s.mu.Unlock()

	if user == nil {
		return nil, domain.ErrNoUserSelected
	}
	if character == nil {
		return nil, domain.ErrNoCharacterSelected
	}
	characterID := character.ResolvedID()
	if characterID == "" {
		return nil, domain.ErrMissingCharacterID
	}

	s.appendMessage(domain.Message{
		ID:        domain.NewMessageID("user"),
		Content:   content,
		Sender:    domain.SenderUser,
		Timestamp: time.Now(),
		Avatar:    user.AvatarURL,
	})

	s.setLoading(true)
	defer s.setLoading(false)

	raw, err := s.gw.SendText(ctx, user.ID, characterID, content, character.VoiceConfig(), forceWebSearch)
	if err != nil {
		s.appendErrorMessage(err, *character)
		return nil, err
	}

	canonical, err := s.normalize(raw)
	if err != nil {
		s.appendErrorMessage(err, *character)
		return nil, err
	}

	characterName, _ := lo.Coalesce(canonical.CharacterName, character.Name)
	message := domain.Message{
		ID:               domain.NewMessageID("ai"),
		Content:          canonical.Text,
		Sender:           domain.SenderAI,
		Timestamp:        canonical.Timestamp,
		Avatar:           character.AvatarURL,
		CharacterName:    characterName,
		AudioURL:         canonical.AudioURL,
		AudioBase64:      canonical.AudioBase64,
		ImageURL:         canonical.ImageURL,
		ImageBase64:      canonical.ImageBase64,
		ImageDescription: canonical.ImageDescription,
		EnhancedPrompt:   canonical.EnhancedPrompt,
		Emotion:          canonical.Emotion,
	}
	s.appendMessage(message)

	return &message, nil
}

// appendErrorMessage renders a send failure as a visible system bubble.
// A fabricated-looking success would mislead the user about whether their
// message was answered, so the failure always reaches the timeline.
func (s *store) appendErrorMessage(sendErr error, character domain.Character) {
	content := domain.BusyReplyText
	if !errors.Is(sendErr, domain.ErrEmptyResponse) {
		reason, _ := lo.Coalesce(sendErr.Error(), domain.NetworkErrorText)
		content = fmt.Sprintf("发送失败：%s", reason)
	}

	s.appendMessage(domain.Message{
		ID:            domain.NewMessageID("error"),
		Content:       content,
		Sender:        domain.SenderSystem,
		Timestamp:     time.Now(),
		Avatar:        character.AvatarURL,
		CharacterName: character.Name,
		IsError:       true,
	})
}

// appendMessage appends to the timeline and persists the current thread's
// message blob plus the refreshed index.
func (s *store) appendMessage(message domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, message)

	if s.currentConversationID == "" {
		return
	}
	for i := range s.conversations {
		if s.conversations[i].ID == s.currentConversationID {
			s.conversations[i].MessageCount = len(s.messages)
			s.conversations[i].UpdatedAt = time.Now()
		}
	}
	s.repo.SaveMessages(s.currentConversationID, s.messages)
	s.repo.SaveIndex(s.conversations)
}

func (s *store) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = loading
}

// SetRecording flips the recording flag around a voice capture.
func (s *store) SetRecording(recording bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isRecording = recording
}

// ClearMessages empties the visible timeline without touching the thread
// index.
func (s *store) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	if s.currentConversationID != "" {
		s.repo.SaveMessages(s.currentConversationID, []domain.Message{})
	}
}

func (s *store) CurrentUser() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return nil
	}
	user := *s.currentUser
	return &user
}

func (s *store) SelectedCharacter() *domain.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedCharacter == nil {
		return nil
	}
	character := *s.selectedCharacter
	return &character
}

func (s *store) Characters() []domain.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Character{}, s.characters...)
}

func (s *store) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message{}, s.messages...)
}

func (s *store) Conversations() []domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Conversation{}, s.conversations...)
}

func (s *store) CurrentConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentConversationID
}

func (s *store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

func (s *store) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRecording
}
