package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler)
	
	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}

	if cmd.Name != "test" {
		t.Errorf("Name = %v, want %v", cmd.Name, "test")
	}

	if cmd.Description != "Test command" {
		t.Errorf("Description = %v, want %v", cmd.Description, "Test command")
	}

	if cmd.Category != "test" {
		t.Errorf("Category = %v, want %v", cmd.Category, "test")
	}

	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

// TestCommandWithOptions verifies the WithOptions builder method
func TestCommandWithOptions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "test-option",
		Description: "Test option",
		Required:    true,
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithOptions(option)

	if cmd.Options == nil {
		t.Fatal("Options is nil")
	}

	if len(cmd.Options) != 1 {
		t.Fatalf("Options length = %v, want %v", len(cmd.Options), 1)
	}

	if cmd.Options[0].Name != "test-option" {
		t.Errorf("Option name = %v, want %v", cmd.Options[0].Name, "test-option")
	}
}

// TestCommandWithPermissions verifies the permission builder methods
func TestCommandWithPermissions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithUserPermissions(discordgo.PermissionAdministrator).
		WithBotPermissions(discordgo.PermissionSendMessages)

	if cmd.UserPermissions != discordgo.PermissionAdministrator {
		t.Errorf("UserPermissions = %v, want %v", cmd.UserPermissions, discordgo.PermissionAdministrator)
	}

	if cmd.BotPermissions != discordgo.PermissionSendMessages {
		t.Errorf("BotPermissions = %v, want %v", cmd.BotPermissions, discordgo.PermissionSendMessages)
	}
}

// TestCommandAsDev verifies the AsDev builder method
func TestCommandAsDev(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler).AsDev()

	if !cmd.IsDev {
		t.Error("IsDev should be true after calling AsDev()")
	}
}

// TestToApplicationCommand verifies conversion to Discord application command
func TestToApplicationCommand(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "test-option",
		Description: "Test option",
		Required:    true,
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithOptions(option)

	appCmd := cmd.ToApplicationCommand()

	if appCmd == nil {
		t.Fatal("ToApplicationCommand returned nil")
	}

	if appCmd.Name != "test" {
		t.Errorf("ApplicationCommand Name = %v, want %v", appCmd.Name, "test")
	}

	if appCmd.Description != "Test command" {
		t.Errorf("ApplicationCommand Description = %v, want %v", appCmd.Description, "Test command")
	}

	if len(appCmd.Options) != 1 {
		t.Fatalf("ApplicationCommand Options length = %v, want %v", len(appCmd.Options), 1)
	}
}

// TestToApplicationCommandPermissions verifies default member permissions and DM flag
func TestToApplicationCommandPermissions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	appCmd := NewCommand("warn", "Warn a member", "mod", handler).
		WithUserPermissions(discordgo.PermissionModerateMembers).
		OnlyGuilds().
		ToApplicationCommand()

	if appCmd.DefaultMemberPermissions == nil || *appCmd.DefaultMemberPermissions != discordgo.PermissionModerateMembers {
		t.Errorf("DefaultMemberPermissions = %v, want %v", appCmd.DefaultMemberPermissions, discordgo.PermissionModerateMembers)
	}
	if appCmd.DMPermission == nil || *appCmd.DMPermission {
		t.Error("DMPermission should be false for guild only commands")
	}

	plain := NewCommand("ping", "Ping", "utils", handler).ToApplicationCommand()
	if plain.DefaultMemberPermissions != nil {
		t.Error("DefaultMemberPermissions should be nil without user permissions")
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		perms    int64
		required int64
		want     bool
	}{
		{"nothing required", 0, 0, true},
		{"admin implies all", discordgo.PermissionAdministrator, discordgo.PermissionBanMembers, true},
		{"exact bit", discordgo.PermissionBanMembers, discordgo.PermissionBanMembers, true},
		{"missing bit", discordgo.PermissionKickMembers, discordgo.PermissionBanMembers, false},
		{"partial", discordgo.PermissionKickMembers, discordgo.PermissionKickMembers | discordgo.PermissionBanMembers, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.perms, tt.required); got != tt.want {
				t.Errorf("HasPermission(%d, %d) = %v, want %v", tt.perms, tt.required, got, tt.want)
			}
		})
	}
}

func TestHighestRolePosition(t *testing.T) {
	guild := &discordgo.Guild{Roles: []*discordgo.Role{
		{ID: "a", Position: 1},
		{ID: "b", Position: 5},
		{ID: "c", Position: 3},
	}}
	member := &discordgo.Member{Roles: []string{"a", "c"}}

	if got := HighestRolePosition(guild, member); got != 3 {
		t.Errorf("HighestRolePosition = %d, want 3", got)
	}
	if got := HighestRolePosition(nil, member); got != 0 {
		t.Errorf("HighestRolePosition(nil) = %d, want 0", got)
	}
}

func TestComponentRouterMatch(t *testing.T) {
	router := NewComponentRouter()
	noop := func(ctx *ComponentContext) error { return nil }
	router.Handle("ticket:create", noop)
	router.Handle("role_button", noop)
	router.Handle("tv", noop)
	router.Handle("tv:rename", noop)

	tests := []struct {
		id        string
		wantRoute string
		wantArgs  string
		wantOK    bool
	}{
		{"ticket:create", "ticket:create", "", true},
		{"role_button:123", "role_button", "123", true},
		{"tv:rename:55", "tv:rename", "55", true},
		{"tv:lock", "tv", "lock", true},
		{"tv:limit:10:extra", "tv", "limit:10:extra", true},
		{"unknown:1", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, route, args, ok := router.Match(tt.id)
			if ok != tt.wantOK || route != tt.wantRoute || args != tt.wantArgs {
				t.Errorf("Match(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.id, route, args, ok, tt.wantRoute, tt.wantArgs, tt.wantOK)
			}
		})
	}
}

func TestCommandName(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "economy",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "daily", Type: discordgo.ApplicationCommandOptionSubCommand},
		},
	}
	if got := commandName(data); got != "economy.daily" {
		t.Errorf("commandName = %q, want economy.daily", got)
	}

	data = discordgo.ApplicationCommandInteractionData{Name: "ping"}
	if got := commandName(data); got != "ping" {
		t.Errorf("commandName = %q, want ping", got)
	}
}
