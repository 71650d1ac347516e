package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/tickets"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const memberAccess = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionAttachFiles

// createButtonHandler opens a ticket channel for the member who pressed the panel button.
func createButtonHandler(ctx *discord.ComponentContext) error {
	guildID := ctx.GuildID()
	user := ctx.User()
	if guildID == "" || user == nil {
		return nil
	}

	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	settings, err := service.Settings(context.Background(), guildID)
	if err != nil {
		return ctx.FollowupError(err)
	}

	exists := func(channelID string) bool {
		if _, err := ctx.Session.State.Channel(channelID); err == nil {
			return true
		}
		_, err := ctx.Session.Channel(channelID)
		return err == nil
	}
	number, err := service.Reserve(context.Background(), guildID, user.ID, exists)
	if err != nil {
		return ctx.FollowupError(err)
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: user.ID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAccess},
		{ID: ctx.Session.State.User.ID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAccess | discordgo.PermissionManageChannels},
	}
	for _, roleID := range settings.SupportRoleIDs {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID: roleID, Type: discordgo.PermissionOverwriteTypeRole, Allow: memberAccess,
		})
	}

	channel, err := ctx.Session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 tickets.ChannelName(number),
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             settings.CategoryID,
		Topic:                fmt.Sprintf("Ticket #%d de %s", number, user.String()),
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		service.Release(guildID, user.ID)
		logger.Error(fmt.Sprintf("No se pudo crear el ticket #%d en %s: %v", number, guildID, err), "Tickets")
		return ctx.Followup("❌ No pude crear el canal del ticket. Revisa mis permisos.", true)
	}

	if err := service.Register(context.Background(), guildID, channel.ID, number, user.ID, time.Now()); err != nil {
		if _, derr := ctx.Session.ChannelDelete(channel.ID); derr != nil {
			logger.Warn(fmt.Sprintf("No se pudo borrar el canal del ticket #%d: %v", number, derr), "Tickets")
		}
		return ctx.FollowupError(err)
	}

	intro := discord.NewEmbed(
		fmt.Sprintf("🎫 Ticket #%d", number),
		fmt.Sprintf("Hola %s, describe tu problema y el equipo de soporte te atenderá pronto.", discord.UserMention(user.ID)),
		discord.ColorBlurple,
	)
	_, err = ctx.Session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: discord.UserMention(user.ID) + " " + roleList(settings.SupportRoleIDs),
		Embeds:  []*discordgo.MessageEmbed{intro},
		Components: []discordgo.MessageComponent{
			discord.Row(discord.Button("Cerrar ticket", closeButtonID, discordgo.DangerButton, "🔒")),
		},
	})
	if err != nil {
		logger.Warn("No se pudo enviar la bienvenida del ticket: "+err.Error(), "Tickets")
	}

	logTicket(ctx.CommandContext, settings.LogChannelID, discord.NewEmbed(
		"📩 Ticket abierto",
		fmt.Sprintf("%s abrió el ticket **#%d** (%s).", discord.UserMention(user.ID), number, discord.ChannelMention(channel.ID)),
		discord.ColorGreen,
	))

	return ctx.Followup(fmt.Sprintf("✅ Tu ticket ha sido creado: %s", discord.ChannelMention(channel.ID)), true)
}

func logTicket(ctx *discord.CommandContext, channelID string, embed *discordgo.MessageEmbed) {
	if channelID == "" {
		return
	}
	if _, err := ctx.Session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logger.Warn("No se pudo registrar el ticket: "+err.Error(), "Tickets")
	}
}
