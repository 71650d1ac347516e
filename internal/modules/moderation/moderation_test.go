package moderation

import (
	"context"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"30s", 30, false},
		{"5m", 300, false},
		{"1h30m", 5400, false},
		{"1.5h", 5400, false},
		{"2D", 172800, false},
		{"1w", 604800, false},
		{"", 0, true},
		{"10", 0, true},
		{"10x", 0, true},
		{"h", 0, true},
		{"1..5h", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	secs := func(v int64) *int64 { return &v }

	assert.Equal(t, "Permanente", FormatDuration(nil))
	assert.Equal(t, "45 segundos", FormatDuration(secs(45)))
	assert.Equal(t, "1 segundo", FormatDuration(secs(1)))
	assert.Equal(t, "1 minuto", FormatDuration(secs(61)))
	assert.Equal(t, "1 día, 2 horas, 3 minutos", FormatDuration(secs(86400+7200+180+5)))
	assert.Equal(t, "", FormatDuration(secs(0)))
}

func TestActionColor(t *testing.T) {
	assert.Equal(t, colorGold, ActionColor(models.ActionWarn))
	assert.Equal(t, colorRed, ActionColor(models.ActionBan))
	assert.Equal(t, colorGreen, ActionColor(models.ActionUnmute))
	assert.Equal(t, colorBlurple, ActionColor("other"))
}

type recorder struct{ n int }

func (r *recorder) Emit(guildID, kind string, payload interface{}) { r.n++ }

func TestRecordAssignsCaseIDs(t *testing.T) {
	ctx := context.Background()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	events := &recorder{}
	s := NewService(store, events)
	s.now = func() time.Time { return time.Unix(1000, 0) }

	a1, err := s.Record(ctx, "g1", models.ActionWarn, "u1", "m", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, a1.CaseID)
	assert.Equal(t, "Sin motivo", a1.Reason)
	assert.Equal(t, int64(1000), a1.Timestamp)

	dur := int64(600)
	a2, err := s.Record(ctx, "g1", models.ActionMute, "u2", "m", "spam", &dur)
	require.NoError(t, err)
	assert.Equal(t, 2, a2.CaseID)

	other, err := s.Record(ctx, "g2", models.ActionBan, "u1", "m", "raid", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, other.CaseID)
	assert.Equal(t, 3, events.n)

	mine, err := s.UserActions(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	cases, err := s.Cases(ctx, "g1", 10)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, 2, cases[0].CaseID)

	removed, err := s.RemoveCase(ctx, "g1", 1)
	require.NoError(t, err)
	assert.Equal(t, "u1", removed.UserID)

	_, err = s.RemoveCase(ctx, "g1", 1)
	assert.True(t, errors.Is(err, ErrCaseNotFound))

	next, err := s.Record(ctx, "g1", models.ActionKick, "u3", "m", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, next.CaseID)
}

func TestDraftThenCommit(t *testing.T) {
	ctx := context.Background()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	events := &recorder{}
	s := NewService(store, events)
	s.now = func() time.Time { return time.Unix(2000, 0) }

	draft := s.Draft("g1", models.ActionKick, "u1", "m", "", nil)
	assert.Zero(t, draft.CaseID)
	assert.Equal(t, "Sin motivo", draft.Reason)
	assert.Equal(t, int64(2000), draft.Timestamp)

	// a drafted action whose Discord call failed leaves no trace
	assert.Zero(t, events.n)
	cases, err := s.Cases(ctx, "g1", 10)
	require.NoError(t, err)
	assert.Empty(t, cases)

	s.now = func() time.Time { return time.Unix(3000, 0) }
	action, err := s.Commit(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, 1, action.CaseID)
	assert.Equal(t, int64(2000), action.Timestamp)
	assert.Equal(t, "g1", action.GuildID)
	assert.Equal(t, 1, events.n)

	next, err := s.Record(ctx, "g1", models.ActionBan, "u2", "m", "raid", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, next.CaseID)
}

func TestLogChannel(t *testing.T) {
	ctx := context.Background()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	s := NewService(store, nil)

	assert.Equal(t, "", s.LogChannel(ctx, "g1"))
	require.NoError(t, s.SetLogChannel(ctx, "g1", "c9"))
	assert.Equal(t, "c9", s.LogChannel(ctx, "g1"))
}
