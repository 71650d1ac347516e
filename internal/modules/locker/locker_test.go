package locker

import (
	"context"
	"testing"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ kinds []string }

func (r *recorder) Emit(guildID, kind string, payload interface{}) {
	r.kinds = append(r.kinds, kind)
}

func newTestService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	rec := &recorder{}
	return NewService(store, rec), rec
}

func TestParseUnlockDate(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	got, err := ParseUnlockDate("11.05.2024 08:30", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 11, 8, 30, 0, 0, time.UTC), got)

	got, err = ParseUnlockDate("01.06.2024", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseUnlockDate("10.05.2024", now, time.UTC)
	assert.ErrorIs(t, err, ErrDateInPast)

	_, err = ParseUnlockDate("2024-06-01", now, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseUnlockDate("31.02.2025", now, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestLockUnlock(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)

	allowed := true
	entry, err := svc.Lock(ctx, "g1", "c1", Lock{
		Original: map[string]*bool{"r1": &allowed, "r2": nil},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, DefaultReason, entry.Reason)
	assert.Nil(t, entry.UnlockDate)
	assert.True(t, svc.IsLocked(ctx, "g1", "c1"))

	_, err = svc.Lock(ctx, "g1", "c1", Lock{}, now)
	assert.ErrorIs(t, err, ErrAlreadyLocked)

	restored, err := svc.Unlock(ctx, "g1", "c1")
	require.NoError(t, err)
	require.Contains(t, restored.OriginalPermissions, "r2")
	assert.Nil(t, restored.OriginalPermissions["r2"])
	assert.True(t, *restored.OriginalPermissions["r1"])

	_, err = svc.Unlock(ctx, "g1", "c1")
	assert.ErrorIs(t, err, ErrNotLocked)
	assert.Equal(t, []string{"channel_locked", "channel_unlocked"}, rec.kinds)
}

func TestDueAndList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	soon := now.Add(time.Hour)
	later := now.Add(24 * time.Hour)

	_, err := svc.Lock(ctx, "g1", "c1", Lock{Until: &soon, Reason: "mantenimiento"}, now)
	require.NoError(t, err)
	_, err = svc.Lock(ctx, "g1", "c2", Lock{Until: &later}, now.Add(time.Second))
	require.NoError(t, err)
	_, err = svc.Lock(ctx, "g2", "c3", Lock{}, now)
	require.NoError(t, err)

	due, err := svc.Due(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []Due{{GuildID: "g1", ChannelID: "c1"}}, due)

	list, err := svc.Locked(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c1", list[0].ChannelID)
	assert.Equal(t, "mantenimiento", list[0].Reason)
}

func TestSendState(t *testing.T) {
	var send int64 = discordgo.PermissionSendMessages

	assert.Nil(t, SendState(0, 0))
	require.NotNil(t, SendState(send, 0))
	assert.True(t, *SendState(send, 0))
	require.NotNil(t, SendState(0, send|discordgo.PermissionAddReactions))
	assert.False(t, *SendState(0, send))

	yes, no := true, false
	allow, deny := WithSendState(discordgo.PermissionViewChannel, send, &yes)
	assert.Equal(t, discordgo.PermissionViewChannel|send, allow)
	assert.Zero(t, deny)

	allow, deny = WithSendState(send, 0, &no)
	assert.Zero(t, allow)
	assert.Equal(t, send, deny)

	allow, deny = WithSendState(send, discordgo.PermissionAddReactions, nil)
	assert.Zero(t, allow)
	assert.Equal(t, int64(discordgo.PermissionAddReactions), deny)
}
