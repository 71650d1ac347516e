package verify

import (
	"context"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createSetupCommand() *discord.Command {
	return discord.NewCommand(
		"setup",
		"Configura la verificación por captcha",
		"captcha",
		setupHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "activado",
			Description: "Activar o desactivar el captcha",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "rol",
			Description: "Rol que se da al verificarse",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionAdministrator).OnlyGuilds()
}

func setupHandler(ctx *discord.CommandContext) error {
	var enabled *bool
	if ctx.HasOption("activado") {
		v := ctx.GetBoolOption("activado")
		enabled = &v
	}
	roleID := ""
	if r := ctx.GetRoleOption("rol"); r != nil {
		roleID = r.ID
	}

	settings, err := service.Settings(context.Background(), ctx.GuildID())
	if enabled != nil || roleID != "" {
		settings, err = service.Configure(context.Background(), ctx.GuildID(), enabled, roleID)
	}
	if err != nil {
		return ctx.ReplyError(err)
	}

	status := "🔴 Desactivado"
	if settings.Enabled {
		status = "🟢 Activado"
	}
	role := "Se creará **" + defaultRoleName + "** al primer uso"
	if settings.RoleID != "" {
		role = discord.RoleMention(settings.RoleID)
	}

	embed := discord.NewEmbed("🔐 Verificación por captcha", "Los nuevos miembros reciben un código por mensaje directo.", discord.ColorBlurple)
	embed.Fields = append(embed.Fields,
		discord.Field("Estado", status, true),
		discord.Field("Rol", role, true),
	)
	return ctx.ReplyEphemeralEmbed(embed)
}

func createTestCommand() *discord.Command {
	return discord.NewCommand(
		"test",
		"Te envía un captcha de prueba",
		"captcha",
		testHandler,
	).WithUserPermissions(discordgo.PermissionAdministrator).OnlyGuilds()
}

func testHandler(ctx *discord.CommandContext) error {
	if err := StartChallenge(ctx.Session, ctx.GuildID(), ctx.User()); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeral("📨 Te envié un captcha por mensaje directo. Si no lo recibes, revisa que tengas los MD abiertos.")
}
