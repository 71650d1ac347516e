package welcome

import (
	"context"
	"testing"

	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	v := Vars{Username: "ana", UserID: "42", UserTag: "ana#0001", Server: "Pancy", MemberCount: 120}

	tests := []struct {
		in, want string
	}{
		{"Hola {user}", "Hola ana"},
		{"{user_mention} ({user_tag}, {user_id})", "<@42> (ana#0001, 42)"},
		{"Bienvenido a {server}, somos {member_count}", "Bienvenido a Pancy, somos 120"},
		{"Invitado por {inviter} / {inviter_name} / {inviter_tag}", "Invitado por Desconocido / Desconocido / Desconocido"},
		{"{desconocida}", "{desconocida}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Render(tt.in, v))
	}
}

func TestParseColor(t *testing.T) {
	for _, raw := range []string{"0xFF0000", "#ff0000", "FF0000", " 0Xff0000 "} {
		c, err := ParseColor(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 0xFF0000, c)
	}
	for _, raw := range []string{"", "#", "rojo", "1234567"} {
		_, err := ParseColor(raw)
		assert.ErrorIs(t, err, ErrInvalidColor, raw)
	}
	assert.Equal(t, "0x00FF00", FormatColor(0x00FF00))
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store)
}

func TestSettingsLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cfg, err := svc.Settings(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWelcomeSettings(), cfg)
	assert.False(t, svc.IsConfigured(ctx, "g1"))

	cfg, err = svc.SetChannel(ctx, "g1", "123")
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)

	cfg, err = svc.Toggle(ctx, "g1")
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)

	cfg, err = svc.SetColor(ctx, "g1", "#00ff00")
	require.NoError(t, err)
	assert.Equal(t, 0x00FF00, cfg.EmbedColor)

	_, err = svc.SetMessage(ctx, "g1", "  ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.SetChannel(ctx, "g1", "no-numerico")
	assert.Error(t, err)

	cfg, err = svc.Settings(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "123", cfg.ChannelID)
	assert.True(t, svc.IsConfigured(ctx, "g1"))
}
