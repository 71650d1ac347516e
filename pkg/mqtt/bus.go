package mqtt

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// EventsTopic is the root of the bot event feed: companion/events/<guild>/<kind>.
const EventsTopic = "companion/events"

// BotEvent is something that happened in a guild and is worth showing on the dashboard.
type BotEvent struct {
	ID        string      `json:"id"`
	GuildID   string      `json:"guildId"`
	Kind      string      `json:"kind"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Emitter is implemented by anything modules can report events to.
type Emitter interface {
	Emit(guildID, kind string, payload interface{})
}

// EventHandler receives events whose topic matches the subscribed pattern.
type EventHandler func(BotEvent)

type subscription struct {
	id      int
	pattern string
	handler EventHandler
}

// Bus publishes bot events through the broker when it is connected and
// delivers them in-process otherwise. Subscribers always receive events
// through the same path, so they see every event exactly once.
type Bus struct {
	mc     *Client
	mu     sync.RWMutex
	subs   []subscription
	nextID int
}

// NewBus creates a bus. mc may be nil when MQTT is not configured.
func NewBus(mc *Client) *Bus {
	b := &Bus{mc: mc}
	if mc != nil {
		err := mc.Subscribe(EventsTopic+"/#", func(topic string, payload []byte) {
			var ev BotEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				logger.Warn(fmt.Sprintf("Evento MQTT inválido en %s: %v", topic, err), "Bus")
				return
			}
			b.dispatch(topic, ev)
		})
		if err != nil {
			logger.Error(fmt.Sprintf("No se pudo suscribir al feed de eventos: %v", err), "Bus")
		}
	}
	return b
}

// EventTopic builds the topic for a guild event.
func EventTopic(guildID, kind string) string {
	return strings.Join([]string{EventsTopic, guildID, kind}, "/")
}

// Emit implements Emitter
func (b *Bus) Emit(guildID, kind string, payload interface{}) {
	ev := BotEvent{
		ID:        uuid.New().String(),
		GuildID:   guildID,
		Kind:      kind,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
	topic := EventTopic(guildID, kind)

	if b.mc.IsConnected() {
		if err := b.mc.Publish(topic, ev); err == nil {
			return
		}
		logger.Warn("Fallo al publicar en MQTT, entregando evento localmente", "Bus")
	}
	b.dispatch(topic, ev)
}

// Subscribe registers handler for topics matching pattern ("+" and "#" wildcards)
// and returns a function that removes the subscription.
func (b *Bus) Subscribe(pattern string, handler EventHandler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, pattern: pattern, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) dispatch(topic string, ev BotEvent) {
	b.mu.RLock()
	handlers := make([]EventHandler, 0, len(b.subs))
	for _, s := range b.subs {
		if topicMatch(s.pattern, topic) {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}

// GuildPattern returns the subscription pattern for every event of a guild.
func GuildPattern(guildID string) string {
	return EventsTopic + "/" + guildID + "/#"
}
