package captcha

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, ints []int, ttl time.Duration) *Service {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	svc := NewService(store, &randutil.Scripted{Ints: ints}, ttl)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestGenerateCode(t *testing.T) {
	code := GenerateCode(&randutil.Scripted{Ints: []int{0, 1, 2, 23, 24, 31}})
	assert.Equal(t, "ABCZ29", code)

	code = GenerateCode(randutil.New())
	assert.Len(t, code, CodeLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(Alphabet, r), string(r))
	}
}

func TestCheckPasses(t *testing.T) {
	svc := newTestService(t, []int{0, 0, 0, 0, 0, 0}, time.Minute)

	code := svc.Start("g1", "u1")
	assert.Equal(t, "AAAAAA", code)

	res, err := svc.Check("u1", " aaaaaa ")
	require.NoError(t, err)
	assert.Equal(t, Passed, res.Outcome)
	assert.Equal(t, "g1", res.GuildID)

	_, err = svc.Check("u1", "AAAAAA")
	assert.ErrorIs(t, err, ErrNoChallenge)
}

func TestCheckExhaustsAttempts(t *testing.T) {
	svc := newTestService(t, nil, time.Minute)
	svc.Start("g1", "u1")

	res, err := svc.Check("u1", "nope")
	require.NoError(t, err)
	assert.Equal(t, Wrong, res.Outcome)
	assert.Equal(t, 2, res.Remaining)

	res, _ = svc.Check("u1", "nope")
	assert.Equal(t, 1, res.Remaining)

	res, _ = svc.Check("u1", "nope")
	assert.Equal(t, Exhausted, res.Outcome)

	_, ok := svc.Pending("u1")
	assert.False(t, ok)
}

func TestStartReplacesChallenge(t *testing.T) {
	svc := newTestService(t, []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1}, time.Minute)
	svc.Start("g1", "u1")
	svc.Start("g2", "u1")

	ch, ok := svc.Pending("u1")
	require.True(t, ok)
	assert.Equal(t, "g2", ch.GuildID)
	assert.Equal(t, "BBBBBB", ch.Code)
}

func TestExpiryCallback(t *testing.T) {
	svc := newTestService(t, nil, 50*time.Millisecond)

	expired := make(chan Challenge, 1)
	svc.OnExpire(func(ch Challenge) { expired <- ch })
	svc.Start("g1", "u1")

	select {
	case ch := <-expired:
		assert.Equal(t, "u1", ch.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("el captcha no expiró")
	}
	_, err := svc.Check("u1", "AAAAAA")
	assert.ErrorIs(t, err, ErrNoChallenge)
}

func TestConfigure(t *testing.T) {
	svc := newTestService(t, nil, time.Minute)
	ctx := context.Background()

	cfg, err := svc.Settings(ctx, "g1")
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)

	on := true
	cfg, err = svc.Configure(ctx, "g1", &on, "")
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)

	cfg, err = svc.Configure(ctx, "g1", nil, "role")
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "role", cfg.RoleID)
}

func TestImageIsPNG(t *testing.T) {
	svc := newTestService(t, nil, time.Minute)

	img, err := svc.Image("AB23CD")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(img), "\x89PNG\r\n\x1a\n"))
}
