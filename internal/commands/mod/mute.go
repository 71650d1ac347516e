// Package mod - /mod mute and /mod unmute commands
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/moderation"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createMuteCommand creates the /mod mute subcommand
func createMuteCommand() *discord.Command {
	return discord.NewCommand(
		"mute",
		"Silencia a un usuario temporalmente",
		"mod",
		muteHandler,
	).WithOptions(
		userOption("Usuario a silenciar"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Duración (por ejemplo 10m, 1h30m, 2d). Máximo 28 días",
			Required:    true,
		},
		reasonOption("Razón del silencio"),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		OnlyGuilds()
}

// muteHandler handles the /mod mute command
func muteHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	if user.ID == ctx.User().ID {
		return ctx.ReplyEphemeral("❌ No puedes silenciarte a ti mismo.")
	}

	seconds, err := moderation.ParseDuration(ctx.GetStringOption("duracion"))
	if err != nil || seconds < 1 {
		return ctx.ReplyEphemeral("❌ Duración inválida. Usa por ejemplo `10m`, `1h30m` o `2d`.")
	}
	if seconds > moderation.MaxTimeout {
		return ctx.ReplyEphemeral("❌ La duración máxima es de 28 días.")
	}
	if ok, why := outranks(ctx, user.ID); !ok {
		return ctx.ReplyEphemeral("❌ " + why)
	}

	timeoutUntil := time.Now().Add(time.Duration(seconds) * time.Second)
	if err := ctx.Session.GuildMemberTimeout(ctx.Interaction.GuildID, user.ID, &timeoutUntil); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al silenciar: %v", err))
	}

	action, err := record(ctx, models.ActionMute, user, ctx.GetStringOption("razon"), &seconds)
	if err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(caseEmbed(action, user))
}

// createUnmuteCommand creates the /mod unmute subcommand
func createUnmuteCommand() *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Quita el silencio a un usuario",
		"mod",
		unmuteHandler,
	).WithOptions(
		userOption("Usuario a dejar de silenciar"),
		reasonOption("Razón"),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		OnlyGuilds()
}

// unmuteHandler handles the /mod unmute command
func unmuteHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	member, err := ctx.Session.GuildMember(ctx.Interaction.GuildID, user.ID)
	if err != nil {
		return ctx.ReplyEphemeral("❌ Ese usuario no está en el servidor.")
	}
	if member.CommunicationDisabledUntil == nil || member.CommunicationDisabledUntil.Before(time.Now()) {
		return ctx.ReplyEphemeral("❌ Ese usuario no está silenciado.")
	}

	if err := ctx.Session.GuildMemberTimeout(ctx.Interaction.GuildID, user.ID, nil); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al quitar el silencio: %v", err))
	}

	action, err := record(ctx, models.ActionUnmute, user, ctx.GetStringOption("razon"), nil)
	if err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(caseEmbed(action, user))
}
