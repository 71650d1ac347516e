package events

import (
	"context"
	"fmt"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/counting"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/selfroles"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/tickets"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterChannelEvents drops the records bound to channels and panel
// messages deleted by hand
func RegisterChannelEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnChannelDelete(onChannelDelete)
	client.EventHandler.OnMessageDelete(onMessageDelete)
}

func onChannelDelete(s *discordgo.Session, c *discordgo.ChannelDelete) {
	if c.Channel == nil || c.GuildID == "" {
		return
	}
	forgetChannel(context.Background(), c.GuildID, c.ID)
}

// forgetChannel removes whatever the features kept about a channel.
func forgetChannel(ctx context.Context, guildID, channelID string) {
	if err := services.TempVoice.Untrack(ctx, channelID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo olvidar el canal temporal %s: %v", channelID, err), "Channels")
	}

	if err := services.Counting.Delete(ctx, channelID); err == nil {
		logger.Info(fmt.Sprintf("Canal de conteo %s eliminado", channelID), "Channels")
	} else if !errors.Is(err, counting.ErrNotConfigured) {
		logger.Warn(fmt.Sprintf("No se pudo eliminar el conteo de %s: %v", channelID, err), "Channels")
	}

	if t, err := services.Tickets.Close(ctx, guildID, channelID, ""); err == nil {
		logger.Info(fmt.Sprintf("Ticket #%d cerrado al borrarse su canal", t.Number), "Channels")
	} else if !errors.Is(err, tickets.ErrNotATicket) {
		logger.Warn(fmt.Sprintf("No se pudo cerrar el ticket de %s: %v", channelID, err), "Channels")
	}
}

func onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.Message == nil || m.GuildID == "" {
		return
	}
	forgetMessage(context.Background(), m.GuildID, m.ID)
}

// forgetMessage drops the self-roles panel rendered by a deleted message.
func forgetMessage(ctx context.Context, guildID, messageID string) {
	panel, err := services.SelfRoles.PanelByMessage(ctx, guildID, messageID)
	if err != nil {
		if !errors.Is(err, selfroles.ErrPanelNotFound) {
			logger.Warn(fmt.Sprintf("No se pudo buscar el panel del mensaje %s: %v", messageID, err), "Channels")
		}
		return
	}
	if _, err := services.SelfRoles.Delete(ctx, guildID, panel.PanelID); err != nil && !errors.Is(err, selfroles.ErrPanelNotFound) {
		logger.Warn(fmt.Sprintf("No se pudo eliminar el panel %s: %v", panel.PanelID, err), "Channels")
		return
	}
	logger.Info(fmt.Sprintf("Panel de roles %s eliminado junto a su mensaje", panel.PanelID), "Channels")
}
