package selfroles

import (
	"context"
	"testing"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStyle(t *testing.T) {
	tests := map[string]string{
		"blurple": "primary",
		"GREY":    "secondary",
		"gray":    "secondary",
		"green":   "success",
		"red":     "danger",
		"danger":  "danger",
	}
	for in, want := range tests {
		got, ok := NormalizeStyle(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := NormalizeStyle("pink")
	assert.False(t, ok)
}

func TestParseRoleSpecs(t *testing.T) {
	specs, err := ParseRoleSpecs("<@&123456> <@&234567>:green:🔥 345678:pink")
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, RoleSpec{RoleID: "123456", Style: "primary"}, specs[0])
	assert.Equal(t, RoleSpec{RoleID: "234567", Style: "success", Emoji: "🔥"}, specs[1])
	assert.Equal(t, RoleSpec{RoleID: "345678", Style: "primary"}, specs[2])

	_, err = ParseRoleSpecs("   ")
	assert.True(t, errors.Is(err, ErrNoRoles))

	_, err = ParseRoleSpecs("@everyone")
	assert.Error(t, err)
}

func TestPanelLifecycle(t *testing.T) {
	ctx := context.Background()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	s := NewService(store)

	p, err := s.CreatePanel(ctx, "g", "c", "Colores", "Elige", []models.PanelRole{{RoleID: "1", Style: "primary", Label: "Azul"}}, false)
	require.NoError(t, err)
	assert.Len(t, p.PanelID, 8)

	require.NoError(t, s.SetMessage(ctx, "g", p.PanelID, "c", "m1"))

	p, err = s.AddRole(ctx, "g", p.PanelID, models.PanelRole{RoleID: "2", Style: "danger", Label: "Rojo"})
	require.NoError(t, err)
	assert.Len(t, p.Roles, 2)

	_, err = s.AddRole(ctx, "g", p.PanelID, models.PanelRole{RoleID: "2"})
	assert.True(t, errors.Is(err, ErrRoleInPanel))

	p, err = s.Edit(ctx, "g", p.PanelID, "Paleta", "")
	require.NoError(t, err)
	assert.Equal(t, "Paleta", p.Title)
	assert.Equal(t, "Elige", p.Description)

	byMsg, err := s.PanelByMessage(ctx, "g", "m1")
	require.NoError(t, err)
	assert.Equal(t, p.PanelID, byMsg.PanelID)

	p, err = s.RemoveRole(ctx, "g", p.PanelID, "1")
	require.NoError(t, err)
	assert.Len(t, p.Roles, 1)
	_, err = s.RemoveRole(ctx, "g", p.PanelID, "1")
	assert.True(t, errors.Is(err, ErrRoleNotInPanel))

	deleted, err := s.Delete(ctx, "g", p.PanelID)
	require.NoError(t, err)
	assert.Equal(t, "m1", deleted.MessageID)

	panels, err := s.Panels(ctx, "g")
	require.NoError(t, err)
	assert.Empty(t, panels)

	_, err = s.Delete(ctx, "g", p.PanelID)
	assert.True(t, errors.Is(err, ErrPanelNotFound))
}

func TestToggle(t *testing.T) {
	panel := models.RolePanel{Roles: []models.PanelRole{{RoleID: "a"}, {RoleID: "b"}, {RoleID: "c"}}}

	add, remove := Toggle(panel, "a", []string{"x"})
	assert.Equal(t, "a", add)
	assert.Empty(t, remove)

	add, remove = Toggle(panel, "a", []string{"a"})
	assert.Equal(t, "", add)
	assert.Equal(t, []string{"a"}, remove)

	panel.Exclusive = true
	add, remove = Toggle(panel, "b", []string{"a", "c", "x"})
	assert.Equal(t, "b", add)
	assert.ElementsMatch(t, []string{"a", "c"}, remove)
}
