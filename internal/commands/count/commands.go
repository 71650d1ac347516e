package count

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createSetupCommand() *discord.Command {
	return discord.NewCommand(
		"setup",
		"Activa el juego de contar en un canal",
		"counting",
		setupHandler,
	).WithOptions(channelOption("Canal del juego")).
		WithUserPermissions(discordgo.PermissionManageChannels).
		OnlyGuilds()
}

func setupHandler(ctx *discord.CommandContext) error {
	channelID := targetChannel(ctx)
	if err := service.Setup(context.Background(), ctx.GuildID(), channelID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(
		"🔢 Juego de contar activado",
		fmt.Sprintf("Contad en %s empezando por **1**. Nadie puede contar dos veces seguidas.", discord.ChannelMention(channelID)),
	))
}

func createResetCommand() *discord.Command {
	return discord.NewCommand(
		"reset",
		"Reinicia la cuenta a 0",
		"counting",
		resetHandler,
	).WithOptions(channelOption("Canal del juego")).
		WithUserPermissions(discordgo.PermissionManageChannels).
		OnlyGuilds()
}

func resetHandler(ctx *discord.CommandContext) error {
	channelID := targetChannel(ctx)
	state, err := service.Reset(context.Background(), channelID)
	if err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(
		"🔄 Cuenta reiniciada",
		fmt.Sprintf("La cuenta de %s vuelve a empezar por **1**. Récord: **%d**.", discord.ChannelMention(channelID), state.HighScore),
	))
}

func createDeleteCommand() *discord.Command {
	return discord.NewCommand(
		"delete",
		"Desactiva el juego de contar",
		"counting",
		deleteHandler,
	).WithOptions(channelOption("Canal del juego")).
		WithUserPermissions(discordgo.PermissionManageChannels).
		OnlyGuilds()
}

func deleteHandler(ctx *discord.CommandContext) error {
	channelID := targetChannel(ctx)
	if err := service.Delete(context.Background(), channelID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(
		"🗑️ Juego eliminado",
		fmt.Sprintf("%s ya no es un canal de contar.", discord.ChannelMention(channelID)),
	))
}

func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Estado del juego de contar",
		"counting",
		statusHandler,
	).WithOptions(channelOption("Canal del juego")).OnlyGuilds()
}

func statusHandler(ctx *discord.CommandContext) error {
	channelID := targetChannel(ctx)
	state, err := service.Status(context.Background(), channelID)
	if err != nil {
		return ctx.ReplyError(err)
	}

	last := "Nadie"
	if state.LastUserID != nil {
		last = discord.UserMention(*state.LastUserID)
	}

	embed := discord.NewEmbed("🔢 Juego de contar", discord.ChannelMention(channelID), discord.ColorBlue)
	embed.Fields = append(embed.Fields,
		discord.Field("Cuenta actual", fmt.Sprintf("%d", state.CurrentCount), true),
		discord.Field("Siguiente", fmt.Sprintf("%d", state.CurrentCount+1), true),
		discord.Field("Récord", fmt.Sprintf("%d", state.HighScore), true),
		discord.Field("Último usuario", last, false),
	)
	return ctx.ReplyEmbed(embed)
}
