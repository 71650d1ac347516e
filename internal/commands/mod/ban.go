// Package mod - /mod ban and /mod unban commands
package mod

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createBanCommand creates the /mod ban subcommand
func createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea a un usuario del servidor",
		"mod",
		banHandler,
	).WithOptions(
		userOption("Usuario a banear"),
		reasonOption("Razón del ban"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "dias",
			Description: "Días de mensajes a eliminar (0-7)",
			Required:    false,
			MinValue:    func() *float64 { v := 0.0; return &v }(),
			MaxValue:    7,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		OnlyGuilds()
}

// banHandler handles the /mod ban command
func banHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	if user.ID == ctx.User().ID {
		return ctx.ReplyEphemeral("❌ No puedes banearte a ti mismo.")
	}
	if ok, why := outranks(ctx, user.ID); !ok {
		return ctx.ReplyEphemeral("❌ " + why)
	}

	days := int(ctx.GetIntOption("dias"))

	pending := draft(ctx, models.ActionBan, user, ctx.GetStringOption("razon"), nil)
	notifyTarget(ctx, pending, user)

	if err := ctx.Session.GuildBanCreateWithReason(ctx.Interaction.GuildID, user.ID, pending.Reason, days); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al banear: %v", err))
	}

	action, err := commit(ctx, pending, user)
	if err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(caseEmbed(action, user))
}

// createUnbanCommand creates the /mod unban subcommand
func createUnbanCommand() *discord.Command {
	return discord.NewCommand(
		"unban",
		"Retira el ban a un usuario",
		"mod",
		unbanHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID del usuario baneado",
			Required:    true,
		},
		reasonOption("Razón del desbaneo"),
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		OnlyGuilds()
}

// unbanHandler handles the /mod unban command
func unbanHandler(ctx *discord.CommandContext) error {
	userID := strings.TrimSpace(ctx.GetStringOption("id"))
	if userID == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar el ID del usuario.")
	}

	ban, err := ctx.Session.GuildBan(ctx.Interaction.GuildID, userID)
	if err != nil || ban == nil || ban.User == nil {
		return ctx.ReplyEphemeral("❌ Ese usuario no está baneado.")
	}

	if err := ctx.Session.GuildBanDelete(ctx.Interaction.GuildID, userID); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al desbanear: %v", err))
	}

	action, err := record(ctx, models.ActionUnban, ban.User, ctx.GetStringOption("razon"), nil)
	if err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(caseEmbed(action, ban.User))
}
