package levels

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

var minLevel = 1.0

func levelOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "nivel",
		Description: "Nivel del hito",
		Required:    true,
		MinValue:    &minLevel,
	}
}

func createSetRoleCommand() *discord.Command {
	return discord.NewCommand(
		"setrole",
		"Asigna un rol a un nivel",
		"level",
		setRoleHandler,
	).WithOptions(
		levelOption(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "nombre",
			Description: "Nombre del rol (se crea si no existe)",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageRoles).OnlyGuilds()
}

func setRoleHandler(ctx *discord.CommandContext) error {
	level := int(ctx.GetIntOption("nivel"))
	name := ctx.GetStringOption("nombre")

	if err := service.SetRole(context.Background(), ctx.GuildID(), level, name); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(
		"✅ Rol configurado",
		fmt.Sprintf("Al llegar al nivel **%d** se otorgará el rol **%s**.", level, name),
	))
}

func createRemoveRoleCommand() *discord.Command {
	return discord.NewCommand(
		"removerole",
		"Quita el rol de un nivel",
		"level",
		removeRoleHandler,
	).WithOptions(levelOption()).
		WithUserPermissions(discordgo.PermissionManageRoles).
		OnlyGuilds()
}

func removeRoleHandler(ctx *discord.CommandContext) error {
	level := int(ctx.GetIntOption("nivel"))
	if err := service.RemoveRole(context.Background(), ctx.GuildID(), level); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed("🗑️ Rol eliminado", fmt.Sprintf("El nivel **%d** ya no otorga rol.", level)))
}

func createSetXPRangeCommand() *discord.Command {
	return discord.NewCommand(
		"setxprange",
		"Cambia la XP que se gana por mensaje",
		"level",
		setXPRangeHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "minimo",
			Description: "XP mínima por mensaje",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "maximo",
			Description: "XP máxima por mensaje",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild).OnlyGuilds()
}

func setXPRangeHandler(ctx *discord.CommandContext) error {
	min, max := ctx.GetIntOption("minimo"), ctx.GetIntOption("maximo")
	if err := service.SetXPRange(context.Background(), ctx.GuildID(), min, max); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(
		"✅ XP actualizada",
		fmt.Sprintf("Cada mensaje otorgará entre **%d** y **%d** XP.", min, max),
	))
}
