package roles

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/selfroles"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func createCreateCommand() *discord.Command {
	return discord.NewCommand(
		"create",
		"Crea un panel de roles en este canal",
		"selfroles",
		createHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "titulo",
			Description: "Título del panel",
			Required:    true,
			MaxLength:   256,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "descripcion",
			Description: "Descripción del panel",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "roles",
			Description: "Roles separados por espacios: @rol[:estilo[:emoji]]",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "exclusivo",
			Description: "Permitir solo un rol del panel a la vez",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageRoles).
		WithBotPermissions(discordgo.PermissionManageRoles).
		OnlyGuilds()
}

func createHandler(ctx *discord.CommandContext) error {
	specs, err := selfroles.ParseRoleSpecs(ctx.GetStringOption("roles"))
	if err != nil {
		return ctx.ReplyEphemeral("❌ " + err.Error())
	}

	roles := make([]models.PanelRole, 0, len(specs))
	for _, spec := range specs {
		roles = append(roles, models.PanelRole{
			RoleID: spec.RoleID,
			Style:  spec.Style,
			Emoji:  spec.Emoji,
			Label:  roleLabel(ctx.Session, ctx.GuildID(), spec.RoleID),
		})
	}

	panel, err := service.CreatePanel(
		context.Background(),
		ctx.GuildID(),
		ctx.Interaction.ChannelID,
		ctx.GetStringOption("titulo"),
		ctx.GetStringOption("descripcion"),
		roles,
		ctx.GetBoolOption("exclusivo"),
	)
	if err != nil {
		return ctx.ReplyError(err)
	}

	embed, components := panelMessage(panel)
	msg, err := ctx.Session.ChannelMessageSendComplex(panel.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		_, _ = service.Delete(context.Background(), ctx.GuildID(), panel.PanelID)
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No pude publicar el panel: %v", err))
	}
	if err := service.SetMessage(context.Background(), ctx.GuildID(), panel.PanelID, panel.ChannelID, msg.ID); err != nil {
		return ctx.ReplyError(err)
	}

	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed(
		"✅ Panel creado",
		fmt.Sprintf("Panel `%s` publicado con %d roles.", panel.PanelID, len(panel.Roles)),
	))
}
