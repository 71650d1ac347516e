package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

var permissionNames = []struct {
	bit  int64
	name string
}{
	{discordgo.PermissionAdministrator, "Administrador"},
	{discordgo.PermissionManageGuild, "Gestionar servidor"},
	{discordgo.PermissionManageRoles, "Gestionar roles"},
	{discordgo.PermissionManageChannels, "Gestionar canales"},
	{discordgo.PermissionManageMessages, "Gestionar mensajes"},
	{discordgo.PermissionKickMembers, "Expulsar miembros"},
	{discordgo.PermissionBanMembers, "Banear miembros"},
	{discordgo.PermissionModerateMembers, "Aislar miembros"},
	{discordgo.PermissionManageEmojis, "Gestionar emojis"},
}

// HasPermission reports whether perms grants every bit in required. Administrator implies all.
func HasPermission(perms, required int64) bool {
	if required == 0 {
		return true
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&required == required
}

// PermissionNames lists the readable names of the bits in perms.
func PermissionNames(perms int64) string {
	var names []string
	for _, p := range permissionNames {
		if perms&p.bit != 0 {
			names = append(names, p.name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("0x%x", perms)
	}
	return strings.Join(names, ", ")
}

// HighestRolePosition returns the position of the member's highest role (0 for @everyone only).
func HighestRolePosition(guild *discordgo.Guild, member *discordgo.Member) int {
	if guild == nil || member == nil {
		return 0
	}
	highest := 0
	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID == roleID && role.Position > highest {
				highest = role.Position
			}
		}
	}
	return highest
}

func deniedEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🚫 Acceso Denegado",
		Description: description,
		Color:       ColorRed,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// PermissionMiddleware rejects commands the invoking user may not run.
func (c *ExtendedClient) PermissionMiddleware(ctx *CommandContext, cmd *Command) error {
	user := ctx.User()
	if user == nil {
		return fmt.Errorf("interaction without user")
	}

	if (cmd.OwnerOnly || cmd.IsDev) && !config.Get().IsOwner(user.ID) {
		ctx.ReplyEphemeralEmbed(deniedEmbed("Este comando solo está disponible para los desarrolladores del bot."))
		logger.Warn(fmt.Sprintf("Usuario %s intentó usar un comando restringido", user.ID), "PermissionMiddleware")
		return fmt.Errorf("owner only")
	}

	if cmd.GuildOnly && ctx.Interaction.GuildID == "" {
		ctx.ReplyEphemeral("❌ Este comando solo puede usarse en un servidor.")
		return fmt.Errorf("guild only")
	}

	if cmd.UserPermissions != 0 {
		if ctx.Interaction.Member == nil || !HasPermission(ctx.Interaction.Member.Permissions, cmd.UserPermissions) {
			ctx.ReplyEphemeralEmbed(deniedEmbed(fmt.Sprintf(
				"Necesitas los permisos **%s** para usar este comando.",
				PermissionNames(cmd.UserPermissions),
			)))
			return fmt.Errorf("missing permissions")
		}
	}

	if cmd.BotPermissions != 0 && ctx.Interaction.AppPermissions != 0 {
		if !HasPermission(ctx.Interaction.AppPermissions, cmd.BotPermissions) {
			ctx.ReplyEphemeralEmbed(deniedEmbed(fmt.Sprintf(
				"Me faltan los permisos **%s** para ejecutar este comando.",
				PermissionNames(cmd.BotPermissions),
			)))
			return fmt.Errorf("bot missing permissions")
		}
	}

	return nil
}
