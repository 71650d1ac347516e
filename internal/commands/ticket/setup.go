package ticket

import (
	"context"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func createSetupCommand() *discord.Command {
	return discord.NewCommand(
		"setup",
		"Configura el sistema de tickets",
		"ticket",
		setupHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "categoria",
			Description:  "Categoría donde se crean los tickets",
			Required:     false,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "rol",
			Description: "Rol de soporte",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "logs",
			Description:  "Canal de registros de tickets",
			Required:     false,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	).WithUserPermissions(discordgo.PermissionAdministrator).OnlyGuilds()
}

func setupHandler(ctx *discord.CommandContext) error {
	var categoryID, roleID, logID string
	if c := ctx.GetChannelOption("categoria"); c != nil {
		categoryID = c.ID
	}
	if r := ctx.GetRoleOption("rol"); r != nil {
		roleID = r.ID
	}
	if c := ctx.GetChannelOption("logs"); c != nil {
		logID = c.ID
	}

	settings, err := service.Configure(context.Background(), ctx.GuildID(), categoryID, roleID, logID)
	if err != nil {
		return ctx.ReplyError(err)
	}

	embed := settingsEmbed(settings)
	embed.Title = "🎫 Sistema de tickets configurado"
	embed.Description = "Usa `/ticket panel` para publicar el botón de creación de tickets."
	return ctx.ReplyEphemeralEmbed(embed)
}

func settingsEmbed(s models.TicketSettings) *discordgo.MessageEmbed {
	category := "Ninguna"
	if s.CategoryID != "" {
		category = discord.ChannelMention(s.CategoryID)
	}
	logs := "Ninguno"
	if s.LogChannelID != "" {
		logs = discord.ChannelMention(s.LogChannelID)
	}

	embed := discord.NewEmbed("🎫 Configuración de tickets", "", discord.ColorBlurple)
	embed.Fields = append(embed.Fields,
		discord.Field("Categoría", category, true),
		discord.Field("Registros", logs, true),
		discord.Field("Roles de soporte", roleList(s.SupportRoleIDs), false),
		discord.Field("Mensaje del panel", s.TicketMessage, false),
	)
	return embed
}

func roleList(ids []string) string {
	if len(ids) == 0 {
		return "Ninguno"
	}
	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = discord.RoleMention(id)
	}
	return strings.Join(mentions, ", ")
}
