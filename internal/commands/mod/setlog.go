// Package mod - /mod setlog command
package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createSetLogCommand creates the /mod setlog subcommand
func createSetLogCommand() *discord.Command {
	return discord.NewCommand(
		"setlog",
		"Establece el canal de registros de moderación",
		"mod",
		setLogHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "Canal de registros",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	).WithUserPermissions(discordgo.PermissionManageGuild).OnlyGuilds()
}

// setLogHandler handles the /mod setlog command
func setLogHandler(ctx *discord.CommandContext) error {
	channel := ctx.GetChannelOption("canal")
	if channel == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un canal.")
	}

	if err := service.SetLogChannel(context.Background(), ctx.GuildID(), channel.ID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(
		"📋 Canal de registros",
		fmt.Sprintf("Las acciones de moderación se registrarán en %s.", discord.ChannelMention(channel.ID)),
	))
}
