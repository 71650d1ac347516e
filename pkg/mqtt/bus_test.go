package mqtt

import (
	"testing"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"companion/events/#", "companion/events/1/level_up", true},
		{"companion/events/#", "companion/events", true},
		{"companion/events/+/level_up", "companion/events/1/level_up", true},
		{"companion/events/+/level_up", "companion/events/1/mod_action", false},
		{"companion/events/1/#", "companion/events/2/level_up", false},
		{"a/b", "a/b/c", false},
		{"a/b/c", "a/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, topicMatch(tt.pattern, tt.topic))
		})
	}
}

func TestBusLocalDelivery(t *testing.T) {
	bus := NewBus(nil)

	var guildOne, all []BotEvent
	unsubscribe := bus.Subscribe(GuildPattern("1"), func(ev BotEvent) {
		guildOne = append(guildOne, ev)
	})
	bus.Subscribe(EventsTopic+"/#", func(ev BotEvent) {
		all = append(all, ev)
	})

	bus.Emit("1", "level_up", map[string]int{"level": 2})
	bus.Emit("2", "mod_action", nil)

	require.Len(t, guildOne, 1)
	assert.Equal(t, "level_up", guildOne[0].Kind)
	assert.NotEmpty(t, guildOne[0].ID)
	assert.Len(t, all, 2)

	unsubscribe()
	bus.Emit("1", "counting_reset", nil)
	assert.Len(t, guildOne, 1)
	assert.Len(t, all, 3)
}

func TestEventTopic(t *testing.T) {
	assert.Equal(t, "companion/events/42/ticket_opened", EventTopic("42", "ticket_opened"))
}

func TestAnswer(t *testing.T) {
	echo := func(payload map[string]interface{}) (interface{}, error) {
		if payload["guildId"] == nil {
			return nil, errors.New("falta guildId")
		}
		return payload, nil
	}

	tests := []struct {
		name      string
		raw       string
		wantTopic string
		wantError string
		wantErr   bool
	}{
		{
			name:      "ok",
			raw:       `{"correlationId":"abc","payload":{"guildId":"1"}}`,
			wantTopic: "companion/response/guild.stats/abc",
		},
		{
			name:      "handler error",
			raw:       `{"correlationId":"abc","payload":[1,2]}`,
			wantTopic: "companion/response/guild.stats/abc",
			wantError: "falta guildId",
		},
		{name: "no correlation", raw: `{"payload":{}}`, wantErr: true},
		{name: "not json", raw: `hola`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic, resp, err := answer("companion/request/guild.stats", []byte(tt.raw), echo)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTopic, topic)
			assert.Equal(t, "abc", resp.CorrelationID)
			assert.Equal(t, tt.wantError, resp.Error)
			if tt.wantError == "" {
				data := resp.Data.(map[string]interface{})
				assert.Equal(t, "guild.stats", data["_topic"])
				assert.Equal(t, "1", data["guildId"])
			}
		})
	}
}

func TestBusWithoutBroker(t *testing.T) {
	var c *Client
	assert.False(t, c.IsConnected())

	bus := NewBus(nil)
	got := 0
	bus.Subscribe(EventsTopic+"/+/level_up", func(BotEvent) { got++ })
	bus.Emit("1", "level_up", nil)
	assert.Equal(t, 1, got)
}
