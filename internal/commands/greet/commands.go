package greet

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/welcome"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// RegisterWelcomeCommands registers all /welcome subcommands
func RegisterWelcomeCommands(client *discord.ExtendedClient, svc *welcome.Service) {
	service = svc

	group := client.CommandHandler.BuildCommandGroup(
		"welcome",
		"Mensajes de bienvenida",
		adminCommand("channel", "Define el canal de bienvenida", channelHandler, &discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "Canal de bienvenida",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		}),
		adminCommand("message", "Cambia el mensaje de bienvenida", messageHandler, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "mensaje",
			Description: "Texto con variables como {user_mention} o {server}",
			Required:    true,
			MaxLength:   1500,
		}),
		adminCommand("toggle", "Activa o desactiva la bienvenida", toggleHandler),
		adminCommand("embed", "Alterna entre embed y texto plano", embedHandler),
		adminCommand("color", "Cambia el color del embed", colorHandler, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "color",
			Description: "Hexadecimal, por ejemplo #5865F2",
			Required:    true,
		}),
		adminCommand("image", "Activa o desactiva la tarjeta de bienvenida", imageHandler),
		adminCommand("test", "Envía una bienvenida de prueba contigo", testHandler),
		discord.NewCommand("variables", "Variables disponibles en el mensaje", "welcome", variablesHandler).OnlyGuilds(),
		adminCommand("settings", "Muestra la configuración actual", settingsHandler),
	)
	client.CommandHandler.AddGlobalCommand(group)
}

func adminCommand(name, description string, run discord.CommandRunFunc, opts ...*discordgo.ApplicationCommandOption) *discord.Command {
	return discord.NewCommand(name, description, "welcome", run).
		WithOptions(opts...).
		WithUserPermissions(discordgo.PermissionManageGuild).
		OnlyGuilds()
}

func onOff(v bool) string {
	if v {
		return "✅ Activado"
	}
	return "❌ Desactivado"
}

func settingsEmbed(cfg models.WelcomeSettings) *discordgo.MessageEmbed {
	channel := "*sin configurar*"
	if cfg.ChannelID != "" {
		channel = discord.ChannelMention(cfg.ChannelID)
	}
	embed := discord.NewEmbed("👋 Configuración de bienvenida", "", cfg.EmbedColor)
	embed.Fields = append(embed.Fields,
		discord.Field("Estado", onOff(cfg.Enabled), true),
		discord.Field("Canal", channel, true),
		discord.Field("Embed", onOff(cfg.EmbedEnabled), true),
		discord.Field("Color", welcome.FormatColor(cfg.EmbedColor), true),
		discord.Field("Tarjeta", onOff(cfg.ImageEnabled), true),
		discord.Field("Mensaje", "```\n"+cfg.Message+"\n```", false),
	)
	return embed
}

func reply(ctx *discord.CommandContext, title string, cfg models.WelcomeSettings, err error) error {
	if err != nil {
		return ctx.ReplyError(err)
	}
	embed := settingsEmbed(cfg)
	embed.Title = title
	return ctx.ReplyEphemeralEmbed(embed)
}

func channelHandler(ctx *discord.CommandContext) error {
	cfg, err := service.SetChannel(context.Background(), ctx.GuildID(), ctx.GetChannelOption("canal").ID)
	return reply(ctx, "✅ Canal de bienvenida actualizado", cfg, err)
}

func messageHandler(ctx *discord.CommandContext) error {
	cfg, err := service.SetMessage(context.Background(), ctx.GuildID(), ctx.GetStringOption("mensaje"))
	return reply(ctx, "✅ Mensaje actualizado", cfg, err)
}

func toggleHandler(ctx *discord.CommandContext) error {
	cfg, err := service.Toggle(context.Background(), ctx.GuildID())
	title := "❌ Bienvenida desactivada"
	if cfg.Enabled {
		title = "✅ Bienvenida activada"
	}
	return reply(ctx, title, cfg, err)
}

func embedHandler(ctx *discord.CommandContext) error {
	cfg, err := service.ToggleEmbed(context.Background(), ctx.GuildID())
	return reply(ctx, "✅ Formato actualizado", cfg, err)
}

func colorHandler(ctx *discord.CommandContext) error {
	cfg, err := service.SetColor(context.Background(), ctx.GuildID(), ctx.GetStringOption("color"))
	return reply(ctx, "✅ Color actualizado", cfg, err)
}

func imageHandler(ctx *discord.CommandContext) error {
	cfg, err := service.ToggleImage(context.Background(), ctx.GuildID())
	return reply(ctx, "✅ Tarjeta actualizada", cfg, err)
}

func testHandler(ctx *discord.CommandContext) error {
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}
	if err := SendWelcome(ctx.Session, ctx.GuildID(), ctx.User(), true); err != nil {
		return ctx.FollowupError(err)
	}
	return ctx.Followup("✅ Mensaje de prueba enviado.", true)
}

func variablesHandler(ctx *discord.CommandContext) error {
	var b strings.Builder
	for _, v := range welcome.Variables {
		fmt.Fprintf(&b, "`%s` %s\n", v.Name, v.Description)
	}
	return ctx.ReplyEphemeralEmbed(discord.NewEmbed("📝 Variables de bienvenida", b.String(), discord.ColorBlue))
}

func settingsHandler(ctx *discord.CommandContext) error {
	cfg, err := service.Settings(context.Background(), ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeralEmbed(settingsEmbed(cfg))
}
