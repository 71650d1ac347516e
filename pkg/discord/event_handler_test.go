package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestGuardRecoversPanics(t *testing.T) {
	calls := 0
	h := guard("message_create", func(s *discordgo.Session, m *discordgo.MessageCreate) {
		calls++
		panic("boom")
	})

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic escaped the listener: %v", r)
			}
		}()
		h(nil, &discordgo.MessageCreate{})
	}()

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestEventHandlerCounts(t *testing.T) {
	session, err := discordgo.New("Bot test")
	if err != nil {
		t.Fatalf("discordgo.New: %v", err)
	}
	eh := NewEventHandler(&ExtendedClient{Session: session})

	eh.OnMessageCreate(func(*discordgo.Session, *discordgo.MessageCreate) {})
	eh.OnMessageCreate(func(*discordgo.Session, *discordgo.MessageCreate) {})
	eh.OnMessageDelete(func(*discordgo.Session, *discordgo.MessageDelete) {})
	eh.OnChannelDelete(func(*discordgo.Session, *discordgo.ChannelDelete) {})
	eh.RegisterEvent(func(*discordgo.Session, *discordgo.Resumed) {})

	tests := []struct {
		name string
		want int
	}{
		{"message_create", 2},
		{"message_delete", 1},
		{"channel_delete", 1},
		{"raw", 1},
		{"ready", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eh.Count(tt.name); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}

	if err := eh.LoadEvents(); err != nil {
		t.Errorf("LoadEvents() error = %v", err)
	}
}
