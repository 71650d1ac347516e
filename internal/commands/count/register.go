// Package count holds the /counting command group.
package count

import (
	"github.com/PancyStudios/CompanionBotGo/internal/modules/counting"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

var service *counting.Service

// RegisterCountingCommands registers all /counting subcommands
func RegisterCountingCommands(client *discord.ExtendedClient, svc *counting.Service) {
	service = svc

	group := client.CommandHandler.BuildCommandGroup(
		"counting",
		"Juego de contar",
		createSetupCommand(),
		createResetCommand(),
		createDeleteCommand(),
		createStatusCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)
}

func channelOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "canal",
		Description:  description,
		Required:     false,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
}

// targetChannel is the channel option, or the channel the command was used in.
func targetChannel(ctx *discord.CommandContext) string {
	if ch := ctx.GetChannelOption("canal"); ch != nil {
		return ch.ID
	}
	return ctx.Interaction.ChannelID
}
