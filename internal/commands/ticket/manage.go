package ticket

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createAddCommand() *discord.Command {
	return discord.NewCommand(
		"add",
		"Añade un usuario al ticket actual",
		"ticket",
		addHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a añadir",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageRoles).
		OnlyGuilds()
}

func addHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	if _, err := service.Ticket(context.Background(), ctx.GuildID(), ctx.Interaction.ChannelID); err != nil {
		return ctx.ReplyError(err)
	}

	err := ctx.Session.ChannelPermissionSet(ctx.Interaction.ChannelID, user.ID, discordgo.PermissionOverwriteTypeMember, memberAccess, 0)
	if err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No pude añadir al usuario: %v", err))
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed("➕ Usuario añadido", fmt.Sprintf("%s ahora tiene acceso a este ticket.", discord.UserMention(user.ID))))
}

func createMessageCommand() *discord.Command {
	return discord.NewCommand(
		"message",
		"Cambia el mensaje del panel de tickets",
		"ticket",
		messageHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "texto",
			Description: "Nuevo mensaje",
			Required:    true,
			MaxLength:   2000,
		},
	).WithUserPermissions(discordgo.PermissionAdministrator).OnlyGuilds()
}

func messageHandler(ctx *discord.CommandContext) error {
	text := strings.TrimSpace(ctx.GetStringOption("texto"))
	if text == "" {
		return ctx.ReplyEphemeral("❌ El mensaje no puede estar vacío.")
	}
	if err := service.SetMessage(context.Background(), ctx.GuildID(), text); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed("✅ Mensaje actualizado", "Vuelve a publicar el panel con `/ticket panel` para ver el cambio."))
}

func createLogChannelCommand() *discord.Command {
	return discord.NewCommand(
		"logchannel",
		"Establece el canal de registros de tickets",
		"ticket",
		logChannelHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "Canal de registros",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	).WithUserPermissions(discordgo.PermissionAdministrator).OnlyGuilds()
}

func logChannelHandler(ctx *discord.CommandContext) error {
	channel := ctx.GetChannelOption("canal")
	if channel == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un canal.")
	}
	if err := service.SetLogChannel(context.Background(), ctx.GuildID(), channel.ID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed("📋 Registros", fmt.Sprintf("Los tickets se registrarán en %s.", discord.ChannelMention(channel.ID))))
}

func roleOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "rol",
		Description: description,
		Required:    true,
	}
}

func createAddRoleCommand() *discord.Command {
	return discord.NewCommand(
		"addrole",
		"Añade un rol de soporte",
		"ticket",
		addRoleHandler,
	).WithOptions(roleOption("Rol de soporte")).
		WithUserPermissions(discordgo.PermissionAdministrator).
		OnlyGuilds()
}

func addRoleHandler(ctx *discord.CommandContext) error {
	role := ctx.GetRoleOption("rol")
	if role == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un rol.")
	}
	if err := service.AddSupportRole(context.Background(), ctx.GuildID(), role.ID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed("✅ Rol añadido", fmt.Sprintf("%s ahora es un rol de soporte.", discord.RoleMention(role.ID))))
}

func createRemoveRoleCommand() *discord.Command {
	return discord.NewCommand(
		"removerole",
		"Quita un rol de soporte",
		"ticket",
		removeRoleHandler,
	).WithOptions(roleOption("Rol de soporte")).
		WithUserPermissions(discordgo.PermissionAdministrator).
		OnlyGuilds()
}

func removeRoleHandler(ctx *discord.CommandContext) error {
	role := ctx.GetRoleOption("rol")
	if role == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un rol.")
	}
	if err := service.RemoveSupportRole(context.Background(), ctx.GuildID(), role.ID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed("🗑️ Rol quitado", fmt.Sprintf("%s ya no es un rol de soporte.", discord.RoleMention(role.ID))))
}

func createRolesCommand() *discord.Command {
	return discord.NewCommand(
		"roles",
		"Muestra la configuración de tickets",
		"ticket",
		rolesHandler,
	).WithUserPermissions(discordgo.PermissionAdministrator).OnlyGuilds()
}

func rolesHandler(ctx *discord.CommandContext) error {
	settings, err := service.Settings(context.Background(), ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeralEmbed(settingsEmbed(settings))
}

func createListCommand() *discord.Command {
	return discord.NewCommand(
		"list",
		"Lista los tickets abiertos",
		"ticket",
		listHandler,
	).WithUserPermissions(discordgo.PermissionManageChannels).OnlyGuilds()
}

func listHandler(ctx *discord.CommandContext) error {
	open, err := service.List(context.Background(), ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}
	if len(open) == 0 {
		return ctx.ReplyEphemeral("📭 No hay tickets abiertos.")
	}

	var sb strings.Builder
	for _, t := range open {
		sb.WriteString(fmt.Sprintf("**#%d** %s · %s · <t:%d:R>\n", t.Number, discord.ChannelMention(t.ChannelID), discord.UserMention(t.UserID), t.CreatedAt))
	}
	return ctx.ReplyEphemeralEmbed(discord.NewEmbed("🎫 Tickets abiertos", sb.String(), discord.ColorBlurple))
}
