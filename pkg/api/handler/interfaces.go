package handler

import (
	"context"

	"github.com/familybot/companion/pkg/domain"
)

type ChatStore interface {
	SendMessage(ctx context.Context, content string, forceWebSearch bool) (*domain.Message, error)
	SelectCharacter(ctx context.Context, character domain.Character)
	SelectedCharacter() *domain.Character
	CurrentUser() *domain.User
	Characters() []domain.Character
	Messages() []domain.Message
	Conversations() []domain.Conversation
	CurrentConversationID() string
	CreateNewConversation() domain.Conversation
	SwitchConversation(id string)
	UpdateConversationTitle(id, title string)
	DeleteConversation(id string)
	IsLoading() bool
	SetRecording(recording bool)
}

type VoiceConverter interface {
	Convert(voiceFilePath string) (string, error)
}

type HealthReporter interface {
	Healthy() bool
}
