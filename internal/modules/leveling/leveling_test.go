package leveling

import (
	"context"
	"testing"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guild = "g1"

func newTestService(t *testing.T, rng randutil.Source, events mqtt.Emitter) *Service {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store, rng, events)
}

type recorder struct {
	kinds []string
}

func (r *recorder) Emit(guildID, kind string, payload interface{}) {
	r.kinds = append(r.kinds, kind)
}

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, int64(100), XPForLevel(1))
	assert.Equal(t, int64(400), XPForLevel(2))
	assert.Equal(t, int64(10000), XPForLevel(10))
}

func TestAddMessageXPCooldown(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{Int63s: []int64{5, 5}}, nil)

	res, err := s.AddMessageXP(ctx, guild, "u")
	require.NoError(t, err)
	assert.True(t, res.Awarded)
	assert.Equal(t, int64(20), res.Earned)

	res, err = s.AddMessageXP(ctx, guild, "u")
	require.NoError(t, err)
	assert.False(t, res.Awarded)

	// another member is not affected
	res, err = s.AddMessageXP(ctx, guild, "v")
	require.NoError(t, err)
	assert.True(t, res.Awarded)
}

func TestLevelUpSubtractsRequirement(t *testing.T) {
	ctx := context.Background()
	events := &recorder{}
	s := newTestService(t, &randutil.Scripted{}, events)
	require.NoError(t, s.SetXPRange(ctx, guild, 130, 130))

	res, err := s.AddMessageXP(ctx, guild, "u")
	require.NoError(t, err)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 1, res.Level)
	assert.Equal(t, int64(30), res.XP)
	assert.Equal(t, "ChatRevive", res.RoleName)
	assert.Equal(t, []string{"level_up"}, events.kinds)
}

func TestRoleMilestones(t *testing.T) {
	roles := models.DefaultLevelRoles()

	tests := []struct {
		level    int
		wantRole string
		wantOK   bool
		wantNext int
	}{
		{0, "", false, 1},
		{1, "ChatRevive", true, 5},
		{7, "Rookie", true, 10},
		{12, "Amateur", true, 15},
		{39, "Veteran", true, 40},
		{99, "Legend", true, 0},
	}
	for _, tt := range tests {
		_, name, ok := RoleForLevel(roles, tt.level)
		assert.Equal(t, tt.wantOK, ok, "level %d", tt.level)
		assert.Equal(t, tt.wantRole, name, "level %d", tt.level)

		next, _, _ := NextRole(roles, tt.level)
		assert.Equal(t, tt.wantNext, next, "level %d", tt.level)
	}
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "▱▱▱▱▱▱▱▱▱▱▱▱▱▱▱", ProgressBar(0, 100))
	assert.Equal(t, "▰▰▰▰▰▰▰▱▱▱▱▱▱▱▱", ProgressBar(50, 100))
	assert.Equal(t, "▰▰▰▰▰▰▰▰▰▰▰▰▰▰▰", ProgressBar(500, 100))
}

func TestRankAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{Int63s: []int64{0, 10, 5}}, nil)

	for _, u := range []string{"a", "b", "c"} {
		_, err := s.AddMessageXP(ctx, guild, u)
		require.NoError(t, err)
	}

	top, err := s.Leaderboard(ctx, guild, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].UserID)
	assert.Equal(t, "c", top[1].UserID)

	info, err := s.Rank(ctx, guild, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, info.Position)
	assert.Equal(t, 3, info.Total)
	assert.Equal(t, int64(15), info.XP)
	assert.Equal(t, 1, info.NextRoleLevel)

	info, err = s.Rank(ctx, guild, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, info.Position)
	assert.Equal(t, int64(100), info.Needed)
}

func TestSetXPRangeValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{}, nil)

	assert.True(t, errors.Is(s.SetXPRange(ctx, guild, 0, 10), ErrInvalidXPRange))
	assert.True(t, errors.Is(s.SetXPRange(ctx, guild, 20, 10), ErrInvalidXPRange))
	require.NoError(t, s.SetXPRange(ctx, guild, 5, 10))

	cfg, err := s.Config(ctx, guild)
	require.NoError(t, err)
	assert.Equal(t, models.XPRange{Min: 5, Max: 10}, cfg.XPPerMessage)
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{}, nil)

	assert.True(t, errors.Is(s.SetRole(ctx, guild, 0, "x"), ErrInvalidLevel))
	assert.True(t, errors.Is(s.SetRole(ctx, guild, 3, "  "), ErrEmptyRoleName))
	require.NoError(t, s.SetRole(ctx, guild, 3, "Bronce"))

	cfg, err := s.Config(ctx, guild)
	require.NoError(t, err)
	assert.Equal(t, "Bronce", cfg.Roles["3"])

	require.NoError(t, s.RemoveRole(ctx, guild, 3))
	cfg, err = s.Config(ctx, guild)
	require.NoError(t, err)
	_, ok := cfg.Roles["3"]
	assert.False(t, ok)
}

func TestLeaderboardTargets(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{}, nil)
	require.NoError(t, s.SetLeaderboard(ctx, guild, "chan", "msg"))

	targets, err := s.LeaderboardTargets(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, LeaderboardTarget{guild, "chan", "msg"}, targets[0])
}

func TestMedal(t *testing.T) {
	assert.Equal(t, "🥇", Medal(1))
	assert.Equal(t, "#4", Medal(4))
}

func TestLeaderboardText(t *testing.T) {
	assert.Equal(t, "Nadie ha ganado XP todavía.", LeaderboardText(nil))

	text := LeaderboardText([]Entry{{UserID: "a", Level: 3, XP: 50, Needed: 1600}, {UserID: "b", Level: 1, XP: 0, Needed: 400}})
	assert.Contains(t, text, "🥇 <@a> · Nivel **3** (50/1600 XP)")
	assert.Contains(t, text, "🥈 <@b>")
}
