package events

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/internal/commands/greet"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/verify"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMemberEvents registers all member-related event handlers
func RegisterMemberEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildMemberAdd(onGuildMemberAdd)
	client.EventHandler.OnGuildMemberRemove(onGuildMemberRemove)
}

// onGuildMemberAdd starts the captcha when verification is enabled and greets the member.
func onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}
	logger.Info(fmt.Sprintf("👋 Nuevo miembro: %s en servidor %s", m.User.Username, m.GuildID), "Member")

	if cfg, err := services.Captcha.Settings(context.Background(), m.GuildID); err == nil && cfg.Enabled {
		if err := verify.StartChallenge(s, m.GuildID, m.User); err != nil {
			logger.Error(fmt.Sprintf("Error iniciando captcha para %s: %v", m.User.ID, err), "Member")
		}
	}

	if err := greet.SendWelcome(s, m.GuildID, m.User, false); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar la bienvenida en %s: %v", m.GuildID, err), "Member")
	}
}

// onGuildMemberRemove drops the pending captcha of a member who left.
func onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil {
		return
	}
	if ch, ok := services.Captcha.Pending(m.User.ID); ok && ch.GuildID == m.GuildID {
		services.Captcha.Cancel(m.User.ID)
		logger.Debug("Captcha cancelado: "+m.User.ID+" salió del servidor", "Member")
	}
	logger.Info(fmt.Sprintf("👋 %s salió del servidor %s", m.User.Username, m.GuildID), "Member")
}
