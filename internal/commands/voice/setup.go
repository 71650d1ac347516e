package voice

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/tempvoice"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const (
	categoryName       = "🔊 Salas temporales"
	controlChannelName = "🎛️-control-de-voz"
)

func createSetupCommand() *discord.Command {
	return discord.NewCommand(
		"setup",
		"Crea los canales para generar salas de voz temporales",
		"tempvoice",
		setupHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "categoria",
			Description:  "Categoría donde crear las salas",
			Required:     false,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
		},
	).WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageChannels | discordgo.PermissionVoiceMoveMembers).
		OnlyGuilds()
}

func setupHandler(ctx *discord.CommandContext) error {
	guildID := ctx.GuildID()
	if _, err := service.Settings(context.Background(), guildID); err == nil {
		return ctx.ReplyEphemeral("❌ Las salas temporales ya están configuradas. Usa `/tempvoice remove` primero.")
	}

	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	categoryID := ""
	if c := ctx.GetChannelOption("categoria"); c != nil {
		categoryID = c.ID
	} else {
		category, err := ctx.Session.GuildChannelCreate(guildID, categoryName, discordgo.ChannelTypeGuildCategory)
		if err != nil {
			return ctx.Followup(fmt.Sprintf("❌ No pude crear la categoría: %v", err), true)
		}
		categoryID = category.ID
	}

	settings := models.TempVoiceSettings{CategoryID: categoryID}
	for _, hub := range tempvoice.Hubs {
		ch, err := ctx.Session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:     hub.Name,
			Type:     discordgo.ChannelTypeGuildVoice,
			ParentID: categoryID,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("No se pudo crear el canal %s: %v", hub.Name, err), "TempVoice")
			continue
		}
		settings.CreateChannels = append(settings.CreateChannels, ch.ID)
	}
	if len(settings.CreateChannels) == 0 {
		return ctx.Followup("❌ No pude crear ningún canal. Revisa mis permisos.", true)
	}

	control, err := ctx.Session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     controlChannelName,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: categoryID,
		Topic:    "Paneles de control de las salas temporales",
	})
	if err == nil {
		settings.ControlChannelID = control.ID
	} else {
		logger.Warn("No se pudo crear el canal de control: "+err.Error(), "TempVoice")
	}

	if err := service.Configure(context.Background(), guildID, settings); err != nil {
		return ctx.FollowupError(err)
	}

	hubs := make([]string, len(settings.CreateChannels))
	for i, id := range settings.CreateChannels {
		hubs[i] = discord.ChannelMention(id)
	}
	return ctx.Followup("", true, discord.SuccessEmbed(
		"🔊 Salas temporales configuradas",
		fmt.Sprintf("Entra en uno de estos canales para crear tu sala:\n%s", strings.Join(hubs, "\n")),
	))
}

func createRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Elimina los canales de salas temporales",
		"tempvoice",
		removeHandler,
	).WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageChannels).
		OnlyGuilds()
}

func removeHandler(ctx *discord.CommandContext) error {
	settings, channels, err := service.Remove(context.Background(), ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}

	ids := append(append(channels, settings.CreateChannels...), settings.ControlChannelID)
	deleted := 0
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, err := ctx.Session.ChannelDelete(id); err == nil {
			deleted++
		}
	}
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed(
		"🗑️ Salas temporales eliminadas",
		fmt.Sprintf("Se borraron %d canales. La categoría se mantiene.", deleted),
	))
}
