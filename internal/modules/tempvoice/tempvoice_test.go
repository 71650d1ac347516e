package tempvoice

import (
	"context"
	"testing"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store)
}

func TestChannelName(t *testing.T) {
	tests := []struct {
		hub  string
		want string
	}{
		{"🎮 Tempvoice: Gaming", "🎮 Ana's Gaming"},
		{"🎵 Tempvoice: Música", "🎵 Ana's Música"},
		{"🎲 Tempvoice: General", "🎲 Ana's Canal"},
		{"👥 Tempvoice: Privado", "👥 Ana's Privado"},
		{"Sala de espera", "Ana's Canal"},
	}
	for _, tt := range tests {
		t.Run(tt.hub, func(t *testing.T) {
			assert.Equal(t, tt.want, ChannelName(tt.hub, "Ana"))
		})
	}
}

func TestParseLimit(t *testing.T) {
	n, err := ParseLimit(" 5 ")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = ParseLimit("0")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for _, raw := range []string{"100", "-1", "diez", ""} {
		_, err := ParseLimit(raw)
		assert.ErrorIs(t, err, ErrInvalidLimit, raw)
	}
}

func TestConfigureAndHubs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Settings(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotConfigured)

	require.NoError(t, svc.Configure(ctx, "g1", models.TempVoiceSettings{
		CategoryID:     "cat",
		CreateChannels: []string{"h1", "h2"},
	}))
	assert.True(t, svc.IsHub(ctx, "g1", "h2"))
	assert.False(t, svc.IsHub(ctx, "g1", "other"))
	assert.False(t, svc.IsHub(ctx, "g2", "h1"))

	cfg, err := svc.Settings(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "cat", cfg.CategoryID)
}

func TestTrackLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)

	require.NoError(t, svc.Track(ctx, "g1", "c1", "u1", now))
	tc, err := svc.Channel(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "u1", tc.OwnerID)
	assert.Equal(t, now.Unix(), tc.CreatedAt)

	require.NoError(t, svc.SetOwner(ctx, "c1", "u2"))
	tc, _ = svc.Channel(ctx, "c1")
	assert.Equal(t, "u2", tc.OwnerID)

	assert.ErrorIs(t, svc.SetOwner(ctx, "missing", "u2"), ErrNotTracked)

	require.NoError(t, svc.Untrack(ctx, "c1"))
	require.NoError(t, svc.Untrack(ctx, "c1"))
	_, err = svc.Channel(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotTracked)
}

func TestRemoveReturnsGuildChannels(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, svc.Configure(ctx, "g1", models.TempVoiceSettings{CreateChannels: []string{"h1"}}))
	require.NoError(t, svc.Track(ctx, "g1", "c1", "u1", now))
	require.NoError(t, svc.Track(ctx, "g2", "c2", "u2", now))

	cfg, channels, err := svc.Remove(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"h1"}, cfg.CreateChannels)
	assert.Equal(t, []string{"c1"}, channels)

	tracked, err := svc.Tracked(ctx)
	require.NoError(t, err)
	assert.Len(t, tracked, 1)
	assert.Contains(t, tracked, "c2")

	_, _, err = svc.Remove(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
