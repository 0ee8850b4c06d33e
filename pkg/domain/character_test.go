package domain

import (
	"strings"
	"testing"
)

func TestCharacterNormalize(t *testing.T) {
	tests := []struct {
		name       string
		in         Character
		wantID     string
		wantCharID string
		wantVoice  string
		wantSpeed  float64
	}{
		{
			name:       "characterId backfills id",
			in:         Character{CharacterID: "xiyang"},
			wantID:     "xiyang",
			wantCharID: "xiyang",
			wantVoice:  "male",
			wantSpeed:  1.0,
		},
		{
			name:       "id backfills characterId",
			in:         Character{ID: "meiyang"},
			wantID:     "meiyang",
			wantCharID: "meiyang",
			wantVoice:  "female",
			wantSpeed:  0.9,
		},
		{
			name:       "explicit voice settings are kept",
			in:         Character{ID: "lanyang", Voice: "custom", VoiceSpeed: 0.5},
			wantID:     "lanyang",
			wantCharID: "lanyang",
			wantVoice:  "custom",
			wantSpeed:  0.5,
		},
		{
			name:       "unknown character keeps empty voice",
			in:         Character{ID: "custom-1"},
			wantID:     "custom-1",
			wantCharID: "custom-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			c.Normalize()

			if c.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", c.ID, tt.wantID)
			}
			if c.CharacterID != tt.wantCharID {
				t.Errorf("CharacterID = %q, want %q", c.CharacterID, tt.wantCharID)
			}
			if c.Voice != tt.wantVoice {
				t.Errorf("Voice = %q, want %q", c.Voice, tt.wantVoice)
			}
			if c.VoiceSpeed != tt.wantSpeed {
				t.Errorf("VoiceSpeed = %v, want %v", c.VoiceSpeed, tt.wantSpeed)
			}
		})
	}
}

func TestCharacterResolvedID(t *testing.T) {
	c := Character{ID: "a", CharacterID: "b"}
	if got := c.ResolvedID(); got != "b" {
		t.Errorf("ResolvedID() = %q, want characterId to win", got)
	}

	c = Character{ID: "a"}
	if got := c.ResolvedID(); got != "a" {
		t.Errorf("ResolvedID() = %q, want %q", got, "a")
	}
}

func TestCharacterVoiceConfig(t *testing.T) {
	c := Character{Voice: "female", VoiceSpeed: 0.9}
	if got := c.VoiceConfig(); got.Voice != "female" || got.Speed != 0.9 {
		t.Errorf("VoiceConfig() = %+v", got)
	}

	c = Character{Voice: "male"}
	if got := c.VoiceConfig(); got.Speed != 1.0 {
		t.Errorf("VoiceConfig().Speed = %v, want default 1.0", got.Speed)
	}
}

func TestGreetingFor(t *testing.T) {
	for _, c := range DefaultCharacters() {
		greeting := GreetingFor(c)
		if greeting == "" {
			t.Fatalf("no greeting for %s", c.CharacterID)
		}
		if !strings.Contains(greeting, c.Name) {
			t.Errorf("greeting for %s does not mention %s", c.CharacterID, c.Name)
		}
	}

	generic := GreetingFor(Character{ID: "custom-1", Name: "小白"})
	if !strings.Contains(generic, "小白") {
		t.Errorf("generic greeting does not mention the character name: %q", generic)
	}
}

func TestDefaultCharactersRoster(t *testing.T) {
	roster := DefaultCharacters()
	if len(roster) != 3 {
		t.Fatalf("len = %d, want 3", len(roster))
	}

	wantRoles := map[string]string{
		"xiyang":  "儿子",
		"meiyang": "女儿",
		"lanyang": "孙子",
	}
	for _, c := range roster {
		if c.ID != c.CharacterID {
			t.Errorf("%s: id %q != characterId %q", c.Name, c.ID, c.CharacterID)
		}
		if want := wantRoles[c.CharacterID]; c.Role != want {
			t.Errorf("%s: role = %q, want %q", c.Name, c.Role, want)
		}
	}
}
