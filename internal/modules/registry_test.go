package modules

import (
	"context"
	"testing"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildStatus(t *testing.T) {
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	svc := New(store, &randutil.Scripted{}, nil)
	t.Cleanup(func() { _ = svc.Close() })
	ctx := context.Background()

	assert.Equal(t, Status{}, svc.GuildStatus(ctx, "g1"))

	_, err = svc.Welcome.SetChannel(ctx, "g1", "123")
	require.NoError(t, err)
	require.NoError(t, svc.Counting.Setup(ctx, "g1", "c1"))
	require.NoError(t, svc.Assistant.AddChannel(ctx, "g1", "c2"))

	st := svc.GuildStatus(ctx, "g1")
	assert.True(t, st.Welcome)
	assert.True(t, st.Counting)
	assert.True(t, st.Assistant)
	assert.False(t, st.Tickets)
}
