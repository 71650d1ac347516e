package stats

import (
	"context"
	"testing"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	now := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	f := Figures{
		Members:        1234,
		Online:         56,
		CreatedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TopRoleName:    "Miembro",
		TopRoleMembers: 900,
		BoostLevel:     2,
	}

	tests := []struct {
		counter Counter
		want    string
	}{
		{Members, "👥 Miembros: 1,234"},
		{Online, "🟢 En línea: 56"},
		{Age, "📅 Edad: 10 días"},
		{TopRole, "👑 Miembro: 900"},
		{BoostLevel, "⭐ Nivel de boost: 2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.counter, f, now))
	}
	assert.Equal(t, "👑 Rol top: ninguno", Label(TopRole, Figures{}, now))
	assert.Equal(t, "📅 Edad: 0 días", Label(Age, Figures{}, now))
}

func TestChanges(t *testing.T) {
	now := time.Now()
	sc := models.StatsChannels{CategoryID: "cat", MemberCountID: "m", OnlineCountID: "o", RolesCountID: "r"}
	f := Figures{Members: 10, Online: 3, Roles: 4}

	current := map[string]string{
		"m": "👥 Miembros: 10",
		"o": "🟢 En línea: 2",
	}
	changes := Changes(sc, current, f, now)
	assert.Equal(t, []Rename{{ChannelID: "o", Name: "🟢 En línea: 3"}}, changes)

	assert.Equal(t, []string{"m", "o", "r", "cat"}, ChannelIDs(sc))
}

func TestSetupRemove(t *testing.T) {
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	svc := NewService(store)
	ctx := context.Background()

	sc := models.StatsChannels{CategoryID: "cat", MemberCountID: "m"}
	require.NoError(t, svc.Setup(ctx, "g1", sc))
	assert.ErrorIs(t, svc.Setup(ctx, "g1", sc), ErrAlreadySetUp)
	assert.True(t, svc.IsSetUp(ctx, "g1"))

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, sc, all["g1"])

	removed, err := svc.Remove(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "cat", removed.CategoryID)
	_, err = svc.Remove(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotSetUp)
}

func TestFromGuild(t *testing.T) {
	// Snowflake of 2015-01-01T00:00:01Z: (1000 ms since the Discord epoch) << 22.
	g := &discordgo.Guild{
		ID:                       "4194304000",
		MemberCount:              3,
		PremiumSubscriptionCount: 7,
		PremiumTier:              discordgo.PremiumTier2,
		Emojis:                   []*discordgo.Emoji{{ID: "e1"}},
		Roles: []*discordgo.Role{
			{ID: "4194304000", Name: "@everyone", Position: 0},
			{ID: "bot", Name: "Bot", Position: 9, Managed: true},
			{ID: "mod", Name: "Moderador", Position: 5},
			{ID: "member", Name: "Miembro", Position: 1},
		},
		Members: []*discordgo.Member{
			{Roles: []string{"mod", "member"}},
			{Roles: []string{"member"}},
			{Roles: nil},
		},
		Presences: []*discordgo.Presence{
			{Status: discordgo.StatusOnline},
			{Status: discordgo.StatusIdle},
			{Status: discordgo.StatusOffline},
		},
		Channels: []*discordgo.Channel{
			{Type: discordgo.ChannelTypeGuildText},
			{Type: discordgo.ChannelTypeGuildNews},
			{Type: discordgo.ChannelTypeGuildVoice},
			{Type: discordgo.ChannelTypeGuildCategory},
		},
	}

	f := FromGuild(g)
	assert.Equal(t, 3, f.Members)
	assert.Equal(t, 2, f.Online)
	assert.Equal(t, 2, f.TextChannels)
	assert.Equal(t, 1, f.VoiceChannels)
	assert.Equal(t, "Moderador", f.TopRoleName)
	assert.Equal(t, 1, f.TopRoleMembers)
	assert.Equal(t, 7, f.Boosts)
	assert.Equal(t, 2, f.BoostLevel)
	assert.Equal(t, 1, f.Emojis)
	assert.Equal(t, 4, f.Roles)
	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 1, 0, time.UTC), f.CreatedAt)
}
