package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/selfroles"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func roleOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "rol",
		Description: "Rol",
		Required:    true,
	}
}

func createAddRoleCommand() *discord.Command {
	return discord.NewCommand(
		"addrole",
		"Añade un rol a un panel",
		"selfroles",
		addRoleHandler,
	).WithOptions(
		panelOption(),
		roleOption(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "estilo",
			Description: "Color del botón",
			Required:    false,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Azul", Value: "blurple"},
				{Name: "Gris", Value: "grey"},
				{Name: "Verde", Value: "green"},
				{Name: "Rojo", Value: "red"},
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "emoji",
			Description: "Emoji del botón",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageRoles).
		WithAutoComplete(panelAutoComplete).
		OnlyGuilds()
}

func addRoleHandler(ctx *discord.CommandContext) error {
	role := ctx.GetRoleOption("rol")
	if role == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un rol.")
	}
	style, ok := selfroles.NormalizeStyle(ctx.GetStringOption("estilo"))
	if !ok {
		style = "primary"
	}

	panel, err := service.AddRole(context.Background(), ctx.GuildID(), ctx.GetStringOption("panel"), models.PanelRole{
		RoleID: role.ID,
		Style:  style,
		Emoji:  strings.TrimSpace(ctx.GetStringOption("emoji")),
		Label:  role.Name,
	})
	if err != nil {
		return ctx.ReplyError(err)
	}
	refresh(ctx.Session, panel)
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed("✅ Rol añadido", fmt.Sprintf("%s añadido al panel `%s`.", discord.RoleMention(role.ID), panel.PanelID)))
}

func createRemoveRoleCommand() *discord.Command {
	return discord.NewCommand(
		"removerole",
		"Quita un rol de un panel",
		"selfroles",
		removeRoleHandler,
	).WithOptions(panelOption(), roleOption()).
		WithUserPermissions(discordgo.PermissionManageRoles).
		WithAutoComplete(panelAutoComplete).
		OnlyGuilds()
}

func removeRoleHandler(ctx *discord.CommandContext) error {
	role := ctx.GetRoleOption("rol")
	if role == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un rol.")
	}
	panel, err := service.RemoveRole(context.Background(), ctx.GuildID(), ctx.GetStringOption("panel"), role.ID)
	if err != nil {
		return ctx.ReplyError(err)
	}
	refresh(ctx.Session, panel)
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed("🗑️ Rol quitado", fmt.Sprintf("%s quitado del panel `%s`.", discord.RoleMention(role.ID), panel.PanelID)))
}

func createEditCommand() *discord.Command {
	return discord.NewCommand(
		"edit",
		"Cambia el título y la descripción de un panel",
		"selfroles",
		editHandler,
	).WithOptions(
		panelOption(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "titulo",
			Description: "Nuevo título",
			Required:    true,
			MaxLength:   256,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "descripcion",
			Description: "Nueva descripción",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageRoles).
		WithAutoComplete(panelAutoComplete).
		OnlyGuilds()
}

func editHandler(ctx *discord.CommandContext) error {
	panel, err := service.Edit(context.Background(), ctx.GuildID(), ctx.GetStringOption("panel"), ctx.GetStringOption("titulo"), ctx.GetStringOption("descripcion"))
	if err != nil {
		return ctx.ReplyError(err)
	}
	refresh(ctx.Session, panel)
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed("✏️ Panel editado", fmt.Sprintf("Panel `%s` actualizado.", panel.PanelID)))
}

func createDeleteCommand() *discord.Command {
	return discord.NewCommand(
		"delete",
		"Elimina un panel de roles",
		"selfroles",
		deleteHandler,
	).WithOptions(panelOption()).
		WithUserPermissions(discordgo.PermissionManageRoles).
		WithAutoComplete(panelAutoComplete).
		OnlyGuilds()
}

func deleteHandler(ctx *discord.CommandContext) error {
	panel, err := service.Delete(context.Background(), ctx.GuildID(), ctx.GetStringOption("panel"))
	if err != nil {
		return ctx.ReplyError(err)
	}
	if panel.MessageID != "" {
		if err := ctx.Session.ChannelMessageDelete(panel.ChannelID, panel.MessageID); err != nil {
			logger.Debug(fmt.Sprintf("No se pudo borrar el mensaje del panel %s: %v", panel.PanelID, err), "SelfRoles")
		}
	}
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed("🗑️ Panel eliminado", fmt.Sprintf("El panel **%s** fue eliminado.", panel.Title)))
}

func createListCommand() *discord.Command {
	return discord.NewCommand(
		"list",
		"Lista los paneles de roles",
		"selfroles",
		listHandler,
	).WithUserPermissions(discordgo.PermissionManageRoles).OnlyGuilds()
}

func listHandler(ctx *discord.CommandContext) error {
	panels, err := service.Panels(context.Background(), ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}
	if len(panels) == 0 {
		return ctx.ReplyEphemeral("📭 No hay paneles de roles en este servidor.")
	}

	embed := discord.NewEmbed("🎭 Paneles de roles", "", discord.ColorBlurple)
	for _, p := range panels {
		mentions := make([]string, len(p.Roles))
		for i, r := range p.Roles {
			mentions[i] = discord.RoleMention(r.RoleID)
		}
		embed.Fields = append(embed.Fields, discord.Field(
			fmt.Sprintf("%s (`%s`)", p.Title, p.PanelID),
			fmt.Sprintf("%s\n%s", discord.ChannelMention(p.ChannelID), strings.Join(mentions, " ")),
			false,
		))
	}
	return ctx.ReplyEphemeralEmbed(embed)
}
