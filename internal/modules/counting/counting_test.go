package counting

import (
	"context"
	"testing"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store, nil)
}

func post(t *testing.T, s *Service, user, content string) Result {
	t.Helper()
	res, err := s.HandleMessage(context.Background(), "c1", user, content)
	require.NoError(t, err)
	return res
}

func TestCountingRun(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	require.NoError(t, s.Setup(ctx, "g1", "c1"))

	assert.Equal(t, Correct, post(t, s, "a", "1").Outcome)
	assert.Equal(t, Correct, post(t, s, "b", " 2 ").Outcome)
	assert.Equal(t, Ignored, post(t, s, "a", "hola").Outcome)
	assert.Equal(t, Correct, post(t, s, "a", "3").Outcome)

	res := post(t, s, "b", "7")
	assert.Equal(t, WrongNumber, res.Outcome)
	assert.Equal(t, int64(4), res.Expected)
	assert.Equal(t, int64(7), res.Given)
	assert.Equal(t, int64(3), res.Reached)
	assert.Equal(t, int64(3), res.HighScore)
	assert.True(t, res.NewHighScore)

	st, err := s.Status(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.CurrentCount)
	assert.Nil(t, st.LastUserID)
	assert.Equal(t, int64(3), st.HighScore)
}

func TestDoubleCountResets(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	require.NoError(t, s.Setup(ctx, "g1", "c1"))

	post(t, s, "a", "1")
	post(t, s, "b", "2")
	post(t, s, "a", "3")
	post(t, s, "b", "4")
	post(t, s, "c", "0") // reset, high score 4

	post(t, s, "a", "1")
	res := post(t, s, "a", "2")
	assert.Equal(t, DoubleCount, res.Outcome)
	assert.Equal(t, int64(1), res.Reached)
	assert.Equal(t, int64(4), res.HighScore)
	assert.False(t, res.NewHighScore)
}

func TestUnconfiguredChannelIgnored(t *testing.T) {
	s := newTestService(t)
	res, err := s.HandleMessage(context.Background(), "other", "a", "1")
	require.NoError(t, err)
	assert.Equal(t, Ignored, res.Outcome)
}

func TestResetAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	require.NoError(t, s.Setup(ctx, "g1", "c1"))
	post(t, s, "a", "1")
	post(t, s, "b", "2")

	st, err := s.Reset(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.CurrentCount)
	assert.Equal(t, int64(2), st.HighScore)

	channels, err := s.Channels(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, channels, 1)

	require.NoError(t, s.Delete(ctx, "c1"))
	_, err = s.Status(ctx, "c1")
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.True(t, errors.Is(s.Delete(ctx, "c1"), ErrNotConfigured))
}
