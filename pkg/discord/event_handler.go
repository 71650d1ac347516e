package discord

import (
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/PancyStudios/CompanionBotGo/pkg/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/metrics"
	"github.com/bwmarrin/discordgo"
)

// EventHandler registers gateway listeners on the session. Listeners added
// through the On* helpers recover from panics and are counted per event.
type EventHandler struct {
	client *ExtendedClient
	mu     sync.RWMutex
	counts map[string]int
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{
		client: client,
		counts: make(map[string]int),
	}
}

// LoadEvents reports the handlers registered before Start
func (eh *EventHandler) LoadEvents() error {
	eh.mu.RLock()
	defer eh.mu.RUnlock()

	names := make([]string, 0, len(eh.counts))
	total := 0
	for name, n := range eh.counts {
		names = append(names, name)
		total += n
	}
	sort.Strings(names)
	logger.System(fmt.Sprintf("Eventos cargados: %d handlers (%v)", total, names), "EventHandler")
	return nil
}

// Count returns how many listeners were registered under name.
func (eh *EventHandler) Count(name string) int {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	return eh.counts[name]
}

// RegisterEvent adds a raw discordgo handler without recovery or metrics.
func (eh *EventHandler) RegisterEvent(handler interface{}) {
	eh.add("raw", handler)
}

func (eh *EventHandler) add(name string, handler interface{}) {
	if eh.client != nil && eh.client.Session != nil {
		eh.client.Session.AddHandler(handler)
	}
	eh.mu.Lock()
	eh.counts[name]++
	eh.mu.Unlock()
	logger.Debug(fmt.Sprintf("Evento '%s' registrado", name), "EventHandler")
}

// guard wraps h so a panic in one listener does not take the gateway loop
// down. The result keeps the concrete func(*Session, *Event) type discordgo
// dispatches on.
func guard[T any](name string, h func(*discordgo.Session, T)) func(*discordgo.Session, T) {
	return func(s *discordgo.Session, e T) {
		defer apperrors.RecoverMiddleware()()
		metrics.EventsTotal.WithLabelValues(name).Inc()
		h(s, e)
	}
}

func on[T any](eh *EventHandler, name string, h func(*discordgo.Session, T)) {
	eh.add(name, guard(name, h))
}

func (eh *EventHandler) OnReady(h func(*discordgo.Session, *discordgo.Ready)) {
	on(eh, "ready", h)
}

func (eh *EventHandler) OnGuildCreate(h func(*discordgo.Session, *discordgo.GuildCreate)) {
	on(eh, "guild_create", h)
}

func (eh *EventHandler) OnGuildDelete(h func(*discordgo.Session, *discordgo.GuildDelete)) {
	on(eh, "guild_delete", h)
}

func (eh *EventHandler) OnMessageCreate(h func(*discordgo.Session, *discordgo.MessageCreate)) {
	on(eh, "message_create", h)
}

// OnMessageDelete fires for single deletions; bulk deletes arrive as a
// separate event and are not forwarded.
func (eh *EventHandler) OnMessageDelete(h func(*discordgo.Session, *discordgo.MessageDelete)) {
	on(eh, "message_delete", h)
}

func (eh *EventHandler) OnGuildMemberAdd(h func(*discordgo.Session, *discordgo.GuildMemberAdd)) {
	on(eh, "member_add", h)
}

func (eh *EventHandler) OnGuildMemberRemove(h func(*discordgo.Session, *discordgo.GuildMemberRemove)) {
	on(eh, "member_remove", h)
}

func (eh *EventHandler) OnVoiceStateUpdate(h func(*discordgo.Session, *discordgo.VoiceStateUpdate)) {
	on(eh, "voice_state", h)
}

func (eh *EventHandler) OnChannelDelete(h func(*discordgo.Session, *discordgo.ChannelDelete)) {
	on(eh, "channel_delete", h)
}
