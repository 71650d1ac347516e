package events

import (
	"context"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/modules"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/counting"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/stats"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinedRecently(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		joined time.Time
		want   bool
	}{
		{"just invited", now.Add(-2 * time.Second), true},
		{"reconnect burst", now.Add(-48 * time.Hour), false},
		{"unknown", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinedRecently(tt.joined, now))
		})
	}
}

func TestCountingFailEmbed(t *testing.T) {
	t.Run("wrong number", func(t *testing.T) {
		embed := countingFailEmbed("42", counting.Result{
			Outcome:      counting.WrongNumber,
			Expected:     8,
			Given:        9,
			Reached:      7,
			HighScore:    7,
			NewHighScore: true,
		})
		require.Len(t, embed.Fields, 4)
		assert.Equal(t, "8", embed.Fields[0].Value)
		assert.Equal(t, "9", embed.Fields[1].Value)
		assert.Contains(t, embed.Description, "<@42>")
		require.NotNil(t, embed.Footer)
	})

	t.Run("double count", func(t *testing.T) {
		embed := countingFailEmbed("42", counting.Result{
			Outcome:   counting.DoubleCount,
			Expected:  3,
			Given:     3,
			Reached:   2,
			HighScore: 10,
		})
		assert.Len(t, embed.Fields, 2)
		assert.Contains(t, embed.Description, "dos veces")
		assert.Nil(t, embed.Footer)
	})
}

func TestRoleByName(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "1", Name: "@everyone"},
		{ID: "2", Name: "Rookie"},
	}

	id, ok := roleByName(roles, "rookie")
	assert.True(t, ok)
	assert.Equal(t, "2", id)

	_, ok = roleByName(roles, "Legend")
	assert.False(t, ok)
}

func TestCountMembers(t *testing.T) {
	states := []*discordgo.VoiceState{
		{UserID: "1", ChannelID: "a"},
		{UserID: "2", ChannelID: "a"},
		{UserID: "3", ChannelID: "b"},
	}
	assert.Equal(t, 2, countMembers(states, "a"))
	assert.Equal(t, 0, countMembers(states, "c"))
}

func TestChannelEmptyWithConcurrentState(t *testing.T) {
	s := &discordgo.Session{State: discordgo.NewState()}
	require.NoError(t, s.State.GuildAdd(&discordgo.Guild{
		ID:          "g",
		VoiceStates: []*discordgo.VoiceState{{UserID: "1", ChannelID: "busy"}},
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			_ = s.State.GuildAdd(&discordgo.Guild{ID: "g"})
		}
	}()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 2000; i++ {
			channelEmpty(s, "g", "c")
		}
	}()

	select {
	case <-finished:
	case <-time.After(10 * time.Second):
		t.Fatal("channelEmpty blocked against a concurrent state write")
	}
	<-done

	assert.True(t, channelEmpty(s, "g", "c"))
	assert.False(t, channelEmpty(s, "missing", "c"))
}

func TestLoops(t *testing.T) {
	names := make(map[string]time.Duration)
	for _, l := range Loops() {
		require.NotNil(t, l.Run, l.Name)
		names[l.Name] = l.Interval
	}
	assert.Equal(t, 5*time.Minute, names["leaderboards"])
	assert.Equal(t, 5*time.Minute, names["unlock"])
	assert.Equal(t, 30*time.Minute, names["tiktok"])
	assert.Len(t, names, 5)
}

func TestGuildStatsHandler(t *testing.T) {
	s := &discordgo.Session{State: discordgo.NewState()}
	require.NoError(t, s.State.GuildAdd(&discordgo.Guild{ID: "1", Name: "Test", MemberCount: 12}))

	handler := guildStatsHandler(s)

	_, err := handler(map[string]interface{}{})
	assert.ErrorIs(t, err, errMissingGuild)

	_, err = handler(map[string]interface{}{"guildId": "2"})
	assert.Error(t, err)

	data, err := handler(map[string]interface{}{"guildId": "1"})
	require.NoError(t, err)
	assert.Equal(t, 12, data.(stats.Figures).Members)
}

func TestForgetChannel(t *testing.T) {
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	svc := modules.New(store, randutil.New(), mqtt.NewBus(nil))
	t.Cleanup(func() { svc.Close() })

	prev := services
	services = svc
	t.Cleanup(func() { services = prev })

	ctx := context.Background()
	now := time.Now()
	require.NoError(t, svc.TempVoice.Track(ctx, "1", "10", "5", now))
	require.NoError(t, svc.Counting.Setup(ctx, "1", "20"))
	require.NoError(t, svc.Tickets.Register(ctx, "1", "30", 1, "5", now))

	for _, ch := range []string{"10", "20", "30", "40"} {
		forgetChannel(ctx, "1", ch)
	}

	_, err = svc.TempVoice.Channel(ctx, "10")
	assert.Error(t, err)
	_, err = svc.Counting.Status(ctx, "20")
	assert.True(t, errors.Is(err, counting.ErrNotConfigured))
	_, err = svc.Tickets.Ticket(ctx, "1", "30")
	assert.Error(t, err)
}

func TestForgetMessage(t *testing.T) {
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	svc := modules.New(store, randutil.New(), mqtt.NewBus(nil))
	t.Cleanup(func() { svc.Close() })

	prev := services
	services = svc
	t.Cleanup(func() { services = prev })

	ctx := context.Background()
	roles := []models.PanelRole{{RoleID: "7", Style: "primary", Label: "Gamer"}}
	kept, err := svc.SelfRoles.CreatePanel(ctx, "1", "10", "Juegos", "", roles, false)
	require.NoError(t, err)
	require.NoError(t, svc.SelfRoles.SetMessage(ctx, "1", kept.PanelID, "10", "100"))
	gone, err := svc.SelfRoles.CreatePanel(ctx, "1", "10", "Colores", "", roles, false)
	require.NoError(t, err)
	require.NoError(t, svc.SelfRoles.SetMessage(ctx, "1", gone.PanelID, "10", "200"))

	forgetMessage(ctx, "1", "200")
	forgetMessage(ctx, "1", "300")
	forgetMessage(ctx, "2", "100")

	panels, err := svc.SelfRoles.Panels(ctx, "1")
	require.NoError(t, err)
	require.Len(t, panels, 1)
	assert.Equal(t, kept.PanelID, panels[0].PanelID)
}
