package assistant

import (
	"context"
	"testing"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"abc", "xyz", 0},
		{"abcd", "bcde", 0.75},
		{"niveles", "nivel", 10.0 / 12.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9, tt.a+"|"+tt.b)
	}
}

func TestDefaultFAQs(t *testing.T) {
	faqs, err := DefaultFAQs()
	require.NoError(t, err)
	require.NotEmpty(t, faqs)
	for _, f := range faqs {
		assert.NotEmpty(t, f.Question)
		assert.NotEmpty(t, f.Answer)
		assert.NotEmpty(t, f.Category)
	}
}

var sampleFAQs = []models.FAQ{
	{Question: "¿Cómo funciona el sistema de niveles?", Aliases: []string{"XP"}, Category: "Niveles"},
	{Question: "¿Cómo abro un ticket?", Aliases: []string{"Tickets"}, Category: "Tickets"},
}

func TestMatch(t *testing.T) {
	f, ok := Match(sampleFAQs, "xp")
	assert.False(t, ok, "queries under three characters are ignored")

	f, ok = Match(sampleFAQs, "TICKETS")
	require.True(t, ok)
	assert.Equal(t, "Tickets", f.Category)

	f, ok = Match(sampleFAQs, "como funciona el sistema de niveles")
	require.True(t, ok)
	assert.Equal(t, "Niveles", f.Category)

	_, ok = Match(sampleFAQs, "receta de tortilla")
	assert.False(t, ok)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store, &randutil.Scripted{})
}

func TestAskWithRelated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ans, ok, err := svc.Ask(ctx, "Funciones")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "General", ans.FAQ.Category)
	assert.Len(t, ans.Related, MaxRelated)
	assert.NotContains(t, ans.Related, ans.FAQ.Question)

	_, ok, err = svc.Ask(ctx, "zzzzzzzzzzzz")
	require.NoError(t, err)
	assert.False(t, ok)

	suggestions, err := svc.Suggestions(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, suggestions, 3)
}

func TestAddRemove(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	f := models.FAQ{Question: "¿Hay música?", Answer: "No.", Category: "Extra"}
	require.NoError(t, svc.Add(ctx, f))
	assert.ErrorIs(t, svc.Add(ctx, f), ErrFAQExists)
	assert.Error(t, svc.Add(ctx, models.FAQ{Question: "sin respuesta", Category: "Extra"}))

	extra, err := svc.Category(ctx, "extra")
	require.NoError(t, err)
	assert.Len(t, extra, 1)

	removed, err := svc.Remove(ctx, "¿hay música?")
	require.NoError(t, err)
	assert.Equal(t, "No.", removed.Answer)
	_, err = svc.Category(ctx, "Extra")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	_, err = svc.Remove(ctx, "¿Hay música?")
	assert.ErrorIs(t, err, ErrFAQNotFound)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, cats)
}

func TestChannels(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddChannel(ctx, "g1", "c1"))
	assert.ErrorIs(t, svc.AddChannel(ctx, "g1", "c1"), ErrChannelExists)
	assert.True(t, svc.IsAssistantChannel(ctx, "g1", "c1"))

	require.NoError(t, svc.RemoveChannel(ctx, "g1", "c1"))
	assert.ErrorIs(t, svc.RemoveChannel(ctx, "g1", "c1"), ErrChannelNotFound)
	channels, err := svc.Channels(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, channels)
}
