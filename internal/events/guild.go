package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/metrics"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildCreate(onGuildCreate)
	client.EventHandler.OnGuildDelete(onGuildDelete)
}

// joinedRecently tells a fresh invite apart from the GUILD_CREATE burst sent on connect.
func joinedRecently(joined, now time.Time) bool {
	return !joined.IsZero() && now.Sub(joined) < 10*time.Second
}

func guildCount(s *discordgo.Session) int {
	s.State.RLock()
	defer s.State.RUnlock()
	return len(s.State.Guilds)
}

func thanksEmbed() *discordgo.MessageEmbed {
	embed := discord.NewEmbed(
		"¡Gracias por agregarme! 🎉",
		"Soy un bot de comunidad: economía, niveles, tickets, moderación y mucho más. Usa `/utils setupguide` para configurarme paso a paso.",
		discord.ColorGreen,
	)
	embed.Fields = []*discordgo.MessageEmbedField{
		discord.Field("💰 Economía", "`/economy balance`", true),
		discord.Field("📈 Niveles", "`/level rank`", true),
		discord.Field("🔧 Moderación", "`/mod warn`", true),
		discord.Field("🎫 Tickets", "`/ticket setup`", true),
		discord.Field("❓ Ayuda", "`/utils help`", true),
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Todos los comandos son slash (/)"}
	return embed
}

// onGuildCreate is called when the bot joins a server
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	metrics.GuildsGauge.Set(float64(guildCount(s)))
	if !joinedRecently(g.JoinedAt, time.Now()) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID == "" {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, thanksEmbed()); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	metrics.GuildsGauge.Set(float64(guildCount(s)))
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("Servidor %s no disponible temporalmente", g.ID), "Guild")
		return
	}
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}
