// Package mod - /mod kick command
package mod

import (
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createKickCommand creates the /mod kick subcommand
func createKickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulsa a un usuario del servidor",
		"mod",
		kickHandler,
	).WithOptions(
		userOption("Usuario a expulsar"),
		reasonOption("Razón de la expulsión"),
	).WithUserPermissions(discordgo.PermissionKickMembers).
		WithBotPermissions(discordgo.PermissionKickMembers).
		OnlyGuilds()
}

// kickHandler handles the /mod kick command
func kickHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	if user.ID == ctx.User().ID {
		return ctx.ReplyEphemeral("❌ No puedes expulsarte a ti mismo.")
	}
	if ok, why := outranks(ctx, user.ID); !ok {
		return ctx.ReplyEphemeral("❌ " + why)
	}

	// The DM goes out before the kick, while the bot still shares a server
	// with the user. The case is stored only once the kick went through.
	pending := draft(ctx, models.ActionKick, user, ctx.GetStringOption("razon"), nil)
	notifyTarget(ctx, pending, user)

	if err := ctx.Session.GuildMemberDeleteWithReason(ctx.Interaction.GuildID, user.ID, pending.Reason); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al expulsar: %v", err))
	}

	action, err := commit(ctx, pending, user)
	if err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(caseEmbed(action, user))
}
