// Package mod - /mod clear and /mod allclear commands
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Discord refuses bulk deletes of messages older than two weeks.
const bulkDeleteWindow = 14 * 24 * time.Hour

// createClearCommand creates the /mod clear subcommand
func createClearCommand() *discord.Command {
	return discord.NewCommand(
		"clear",
		"Borra mensajes recientes del canal",
		"mod",
		clearHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "cantidad",
			Description: "Número de mensajes (1-100)",
			Required:    true,
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    100,
		},
	).WithUserPermissions(discordgo.PermissionManageMessages).
		WithBotPermissions(discordgo.PermissionManageMessages).
		OnlyGuilds()
}

// clearHandler handles the /mod clear command
func clearHandler(ctx *discord.CommandContext) error {
	amount := int(ctx.GetIntOption("cantidad"))
	if amount < 1 || amount > 100 {
		return ctx.ReplyEphemeral("❌ La cantidad debe estar entre 1 y 100.")
	}

	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	messages, err := ctx.Session.ChannelMessages(ctx.Interaction.ChannelID, amount, "", "", "")
	if err != nil {
		return ctx.EditReply(fmt.Sprintf("❌ Error al leer los mensajes: %v", err))
	}

	cutoff := time.Now().Add(-bulkDeleteWindow)
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		if m.Timestamp.After(cutoff) {
			ids = append(ids, m.ID)
		}
	}

	switch len(ids) {
	case 0:
		return ctx.EditReply("❌ No hay mensajes recientes que borrar (solo se pueden borrar los de las últimas 2 semanas).")
	case 1:
		err = ctx.Session.ChannelMessageDelete(ctx.Interaction.ChannelID, ids[0])
	default:
		err = ctx.Session.ChannelMessagesBulkDelete(ctx.Interaction.ChannelID, ids)
	}
	if err != nil {
		return ctx.EditReply(fmt.Sprintf("❌ Error al borrar: %v", err))
	}

	logger.Info(fmt.Sprintf("%s borró %d mensajes en %s", ctx.User().ID, len(ids), ctx.Interaction.ChannelID), "CMD-Mod")
	return ctx.EditReply(fmt.Sprintf("🧹 Se borraron **%d** mensajes.", len(ids)))
}

// createAllClearCommand creates the /mod allclear subcommand
func createAllClearCommand() *discord.Command {
	return discord.NewCommand(
		"allclear",
		"Vacía el canal clonándolo y borrando el original",
		"mod",
		allClearHandler,
	).WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageChannels).
		OnlyGuilds()
}

// allClearHandler handles the /mod allclear command
func allClearHandler(ctx *discord.CommandContext) error {
	old, err := ctx.Session.Channel(ctx.Interaction.ChannelID)
	if err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No pude leer el canal: %v", err))
	}
	if old.Type != discordgo.ChannelTypeGuildText {
		return ctx.ReplyEphemeral("❌ Solo se pueden vaciar canales de texto.")
	}

	clone, err := ctx.Session.GuildChannelCreateComplex(ctx.Interaction.GuildID, discordgo.GuildChannelCreateData{
		Name:                 old.Name,
		Type:                 old.Type,
		Topic:                old.Topic,
		NSFW:                 old.NSFW,
		Position:             old.Position,
		RateLimitPerUser:     old.RateLimitPerUser,
		PermissionOverwrites: old.PermissionOverwrites,
		ParentID:             old.ParentID,
	})
	if err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No pude clonar el canal: %v", err))
	}

	if err := ctx.ReplyEphemeral("🧹 Vaciando el canal..."); err != nil {
		logger.Debug("Respuesta de allclear fallida: "+err.Error(), "CMD-Mod")
	}
	if _, err := ctx.Session.ChannelDelete(old.ID); err != nil {
		return fmt.Errorf("borrar canal %s: %w", old.ID, err)
	}

	_, err = ctx.Session.ChannelMessageSendEmbed(clone.ID, discord.SuccessEmbed(
		"🧹 Canal vaciado",
		fmt.Sprintf("Este canal fue vaciado por %s.", discord.UserMention(ctx.User().ID)),
	))
	return err
}
