package levels

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createSetLeaderboardCommand() *discord.Command {
	return discord.NewCommand(
		"setleaderboard",
		"Publica una tabla de niveles que se actualiza sola",
		"level",
		setLeaderboardHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "Canal donde publicar la tabla",
			Required:     false,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	).WithUserPermissions(discordgo.PermissionManageGuild).
		WithBotPermissions(discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks).
		OnlyGuilds()
}

func setLeaderboardHandler(ctx *discord.CommandContext) error {
	channelID := ctx.Interaction.ChannelID
	if ch := ctx.GetChannelOption("canal"); ch != nil {
		channelID = ch.ID
	}

	embed, err := LeaderboardEmbed(ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}
	msg, err := ctx.Session.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No pude publicar en %s: %v", discord.ChannelMention(channelID), err))
	}

	if err := service.SetLeaderboard(context.Background(), ctx.GuildID(), channelID, msg.ID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed(
		"✅ Tabla publicada",
		fmt.Sprintf("La tabla de %s se actualizará cada 5 minutos.", discord.ChannelMention(channelID)),
	))
}
