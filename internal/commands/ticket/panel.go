package ticket

import (
	"context"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createPanelCommand() *discord.Command {
	return discord.NewCommand(
		"panel",
		"Publica el panel para abrir tickets",
		"ticket",
		panelHandler,
	).WithUserPermissions(discordgo.PermissionAdministrator).
		WithBotPermissions(discordgo.PermissionManageChannels).
		OnlyGuilds()
}

func panelHandler(ctx *discord.CommandContext) error {
	settings, err := service.Settings(context.Background(), ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}

	embed := discord.NewEmbed("🎫 Soporte", settings.TicketMessage, discord.ColorBlurple)
	components := []discordgo.MessageComponent{
		discord.Row(discord.Button("Abrir ticket", createButtonID, discordgo.PrimaryButton, "📩")),
	}
	return ctx.ReplyComponents("", []*discordgo.MessageEmbed{embed}, components, false)
}
