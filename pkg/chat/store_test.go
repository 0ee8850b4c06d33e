package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familybot/companion/pkg/domain"
	"github.com/familybot/companion/pkg/gateway"
	"github.com/familybot/companion/pkg/normalizer"
	"github.com/familybot/companion/pkg/repository"
)

type fakeGateway struct {
	listUsersFn      func(ctx context.Context) ([]domain.User, error)
	createUserFn     func(ctx context.Context, user domain.User) (domain.User, error)
	listCharactersFn func(ctx context.Context) ([]domain.Character, error)
	sendTextFn       func(ctx context.Context, userID, characterID, text string, voice domain.VoiceConfig, forceWebSearch bool) (*gateway.RawResponse, error)
	historyFn        func(ctx context.Context, userID, characterID string) ([]domain.HistoryEntry, error)
	speechFn         func(ctx context.Context, userID, characterID, text string, voice domain.VoiceConfig) *domain.SpeechResult
}

func (f *fakeGateway) ListUsers(ctx context.Context) ([]domain.User, error) {
	if f.listUsersFn == nil {
		return nil, &domain.GatewayError{Message: "connection refused"}
	}
	return f.listUsersFn(ctx)
}

func (f *fakeGateway) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	if f.createUserFn == nil {
		return domain.User{}, &domain.GatewayError{Message: "connection refused"}
	}
	return f.createUserFn(ctx, user)
}

func (f *fakeGateway) ListCharacters(ctx context.Context) ([]domain.Character, error) {
	if f.listCharactersFn == nil {
		return nil, &domain.GatewayError{Message: "connection refused"}
	}
	return f.listCharactersFn(ctx)
}

func (f *fakeGateway) SendText(ctx context.Context, userID, characterID, text string, voice domain.VoiceConfig, forceWebSearch bool) (*gateway.RawResponse, error) {
	if f.sendTextFn == nil {
		return nil, &domain.GatewayError{Message: "connection refused"}
	}
	return f.sendTextFn(ctx, userID, characterID, text, voice, forceWebSearch)
}

func (f *fakeGateway) GetConversationHistory(ctx context.Context, userID, characterID string) ([]domain.HistoryEntry, error) {
	if f.historyFn == nil {
		return nil, &domain.GatewayError{Message: "connection refused"}
	}
	return f.historyFn(ctx, userID, characterID)
}

func (f *fakeGateway) SynthesizeSpeech(ctx context.Context, userID, characterID, text string, voice domain.VoiceConfig) *domain.SpeechResult {
	if f.speechFn == nil {
		return nil
	}
	return f.speechFn(ctx, userID, characterID, text, voice)
}

func newTestStore(gw Gateway) *store {
	repo := repository.NewConversationRepository(repository.NewMemoryKV())
	s := NewStore(gw, repo, normalizer.Normalize)
	s.LoadConversationsFromLocal()
	return s
}

func TestInitializeWithUnreachableGateway(t *testing.T) {
	s := newTestStore(&fakeGateway{})

	s.Initialize(context.Background())

	user := s.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, domain.LocalDefaultUserID, user.ID)

	require.NotNil(t, s.SelectedCharacter())
	assert.Len(t, s.Characters(), 3)
}

func TestInitializeAdoptsRemoteState(t *testing.T) {
	gw := &fakeGateway{
		listUsersFn: func(context.Context) ([]domain.User, error) {
			return []domain.User{{ID: "u-1", Username: "grandma"}}, nil
		},
		listCharactersFn: func(context.Context) ([]domain.Character, error) {
			return []domain.Character{{CharacterID: "xiyang", Name: "喜羊羊"}}, nil
		},
		historyFn: func(context.Context, string, string) ([]domain.HistoryEntry, error) {
			return nil, nil
		},
	}
	s := newTestStore(gw)

	s.Initialize(context.Background())

	user := s.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "u-1", user.ID)

	selected := s.SelectedCharacter()
	require.NotNil(t, selected)
	assert.Equal(t, "xiyang", selected.ID, "id should be backfilled from characterId")
	assert.Equal(t, "male", selected.Voice, "voice should come from the fixed table")
}

func TestInitializeEmptyRemoteRosterFallsBack(t *testing.T) {
	gw := &fakeGateway{
		listCharactersFn: func(context.Context) ([]domain.Character, error) {
			return []domain.Character{}, nil
		},
	}
	s := newTestStore(gw)

	s.Initialize(context.Background())

	names := make([]string, 0)
	for _, c := range s.Characters() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "懒羊羊")
}

func TestSelectCharacterAppendsWelcome(t *testing.T) {
	s := newTestStore(&fakeGateway{})
	s.Initialize(context.Background())

	var lanyang domain.Character
	for _, c := range s.Characters() {
		if c.CharacterID == "lanyang" {
			lanyang = c
		}
	}
	require.NotEmpty(t, lanyang.CharacterID)

	s.SelectCharacter(context.Background(), lanyang)

	selected := s.SelectedCharacter()
	require.NotNil(t, selected)
	assert.Equal(t, "懒羊羊", selected.Name)

	messages := s.Messages()
	require.Len(t, messages, 1)
	assert.True(t, messages[0].IsWelcome)
	assert.Equal(t, domain.SenderAI, messages[0].Sender)
	assert.Contains(t, messages[0].Content, "懒羊羊")
}

func TestWelcomeGreetingForUnknownCharacterUsesTemplate(t *testing.T) {
	s := newTestStore(&fakeGateway{})
	s.Initialize(context.Background())

	s.SelectCharacter(context.Background(), domain.Character{ID: "custom-1", Name: "小白"})

	messages := s.Messages()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].Content, "小白")
}

func TestWelcomeAttachesAudioWhenSynthesisSucceeds(t *testing.T) {
	gw := &fakeGateway{
		speechFn: func(context.Context, string, string, string, domain.VoiceConfig) *domain.SpeechResult {
			return &domain.SpeechResult{AudioBase64: "YXVkaW8="}
		},
	}
	s := newTestStore(gw)
	s.Initialize(context.Background())

	s.SelectCharacter(context.Background(), domain.Character{ID: "lanyang", Name: "懒羊羊"})

	messages := s.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "YXVkaW8=", messages[0].AudioBase64)
}

func TestSendMessagePreconditions(t *testing.T) {
	s := newTestStore(&fakeGateway{})

	_, err := s.SendMessage(context.Background(), "你好", false)
	assert.ErrorIs(t, err, domain.ErrNoUserSelected)
	assert.Empty(t, s.Messages())
}

func TestSendMessageSuccess(t *testing.T) {
	gw := &fakeGateway{
		sendTextFn: func(_ context.Context, userID, characterID, text string, voice domain.VoiceConfig, _ bool) (*gateway.RawResponse, error) {
			return &gateway.RawResponse{
				Response:      "爷爷好！",
				CharacterName: "喜羊羊",
				Emotion:       "happy",
			}, nil
		},
	}
	s := newTestStore(gw)
	s.Initialize(context.Background())

	message, err := s.SendMessage(context.Background(), "你好", false)
	require.NoError(t, err)
	assert.Equal(t, "爷爷好！", message.Content)
	assert.Equal(t, "happy", message.Emotion)

	messages := s.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, domain.SenderUser, messages[0].Sender)
	assert.Equal(t, domain.SenderAI, messages[1].Sender)
	assert.False(t, s.IsLoading())
}

func TestSendMessageGatewayFailureStaysVisible(t *testing.T) {
	gw := &fakeGateway{
		sendTextFn: func(context.Context, string, string, string, domain.VoiceConfig, bool) (*gateway.RawResponse, error) {
			return nil, &domain.GatewayError{Status: 500, Message: "internal error"}
		},
	}
	s := newTestStore(gw)
	s.Initialize(context.Background())

	_, err := s.SendMessage(context.Background(), "你好", false)

	var gatewayErr *domain.GatewayError
	require.ErrorAs(t, err, &gatewayErr)
	assert.Equal(t, 500, gatewayErr.Status)

	messages := s.Messages()
	require.Len(t, messages, 2, "optimistic user message plus one error bubble")
	assert.Equal(t, domain.SenderSystem, messages[1].Sender)
	assert.True(t, messages[1].IsError)
	assert.Contains(t, messages[1].Content, "internal error")
	assert.False(t, s.IsLoading())
}

func TestSendMessageEmptyResponseUsesBusyText(t *testing.T) {
	gw := &fakeGateway{
		sendTextFn: func(context.Context, string, string, string, domain.VoiceConfig, bool) (*gateway.RawResponse, error) {
			return &gateway.RawResponse{Response: "   "}, nil
		},
	}
	s := newTestStore(gw)
	s.Initialize(context.Background())

	_, err := s.SendMessage(context.Background(), "你好", false)
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)

	messages := s.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, domain.BusyReplyText, messages[1].Content)
	assert.True(t, messages[1].IsError)
}

func TestSendMessagePersistsTimeline(t *testing.T) {
	kv := repository.NewMemoryKV()
	repo := repository.NewConversationRepository(kv)

	gw := &fakeGateway{
		sendTextFn: func(context.Context, string, string, string, domain.VoiceConfig, bool) (*gateway.RawResponse, error) {
			return &gateway.RawResponse{Response: "好的"}, nil
		},
	}
	s := NewStore(gw, repo, normalizer.Normalize)
	s.LoadConversationsFromLocal()
	s.Initialize(context.Background())

	_, err := s.SendMessage(context.Background(), "你好", false)
	require.NoError(t, err)

	persisted := repo.LoadMessages(s.CurrentConversationID())
	assert.Len(t, persisted, 2)

	index := repo.LoadIndex()
	require.Len(t, index, 1)
	assert.Equal(t, 2, index[0].MessageCount)
}

func TestLoadConversationsFromLocalAlwaysLeavesAThread(t *testing.T) {
	s := newTestStore(&fakeGateway{})

	require.NotEmpty(t, s.Conversations())
	assert.NotEmpty(t, s.CurrentConversationID())
}

func TestSwitchConversationIsIdempotent(t *testing.T) {
	s := newTestStore(&fakeGateway{})
	s.Initialize(context.Background())

	first := s.CurrentConversationID()
	second := s.CreateNewConversation()

	s.SwitchConversation(first)
	a := s.Messages()
	s.SwitchConversation(first)
	b := s.Messages()

	assert.Equal(t, a, b)
	assert.Equal(t, first, s.CurrentConversationID())
	assert.NotEqual(t, first, second.ID)
}

func TestSwitchConversationUnknownIDIsNoOp(t *testing.T) {
	s := newTestStore(&fakeGateway{})

	current := s.CurrentConversationID()
	s.SwitchConversation("conv-missing")
	assert.Equal(t, current, s.CurrentConversationID())
}

func TestDeleteLastConversationCreatesFreshOne(t *testing.T) {
	s := newTestStore(&fakeGateway{})

	only := s.CurrentConversationID()
	s.DeleteConversation(only)

	conversations := s.Conversations()
	require.Len(t, conversations, 1)
	assert.NotEqual(t, only, conversations[0].ID)
	assert.Equal(t, conversations[0].ID, s.CurrentConversationID())
}

func TestDeleteCurrentConversationSwitchesToNext(t *testing.T) {
	s := newTestStore(&fakeGateway{})

	first := s.CurrentConversationID()
	second := s.CreateNewConversation()
	require.Equal(t, second.ID, s.CurrentConversationID())

	s.DeleteConversation(second.ID)
	assert.Equal(t, first, s.CurrentConversationID())
	assert.Len(t, s.Conversations(), 1)
}

func TestUpdateConversationTitle(t *testing.T) {
	s := newTestStore(&fakeGateway{})

	id := s.CurrentConversationID()
	s.UpdateConversationTitle(id, "和懒羊羊聊天")

	conversations := s.Conversations()
	require.Len(t, conversations, 1)
	assert.Equal(t, "和懒羊羊聊天", conversations[0].Title)

	s.UpdateConversationTitle("conv-missing", "ignored")
	assert.Equal(t, "和懒羊羊聊天", s.Conversations()[0].Title)
}

func TestInitializeRestoresPersistedSelection(t *testing.T) {
	kv := repository.NewMemoryKV()
	repo := repository.NewConversationRepository(kv)
	repo.SaveSelectedCharacter("meiyang")

	s := NewStore(&fakeGateway{}, repo, normalizer.Normalize)
	s.LoadConversationsFromLocal()
	s.Initialize(context.Background())

	selected := s.SelectedCharacter()
	require.NotNil(t, selected)
	assert.Equal(t, "美羊羊", selected.Name)
}

func TestInitializeLoadsHistory(t *testing.T) {
	gw := &fakeGateway{
		listUsersFn: func(context.Context) ([]domain.User, error) {
			return []domain.User{{ID: "u-1", AvatarURL: "/u.png"}}, nil
		},
		listCharactersFn: func(context.Context) ([]domain.Character, error) {
			return []domain.Character{{ID: "xiyang", Name: "喜羊羊", AvatarURL: "/x.png"}}, nil
		},
		historyFn: func(context.Context, string, string) ([]domain.HistoryEntry, error) {
			return []domain.HistoryEntry{
				{ID: "42", UserMessage: "你好", AIResponse: "爸爸好！"},
			}, nil
		},
	}
	s := newTestStore(gw)

	s.Initialize(context.Background())

	messages := s.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "42-user", messages[0].ID)
	assert.Equal(t, "42-ai", messages[1].ID)
	assert.Equal(t, "爸爸好！", messages[1].Content)
	assert.True(t, strings.HasPrefix(messages[1].CharacterName, "喜"))
}
