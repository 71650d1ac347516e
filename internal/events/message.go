package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/internal/commands/announce"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/faq"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/verify"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/counting"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/leveling"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	apperrors "github.com/PancyStudios/CompanionBotGo/pkg/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnMessageCreate(onMessageCreate)
}

// onMessageCreate is called when a new message is created
func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	if m.GuildID == "" {
		verify.HandleDirectMessage(s, m)
		return
	}

	// A counting channel only plays the game.
	if handleCounting(s, m) {
		return
	}

	handleXP(s, m)

	if announce.Repost(s, m) {
		return
	}
	if faq.AnswerMessage(s, m) {
		return
	}

	if mentionsBot(s, m) {
		replyToMention(s, m)
	}
}

func handleCounting(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	res, err := services.Counting.HandleMessage(context.Background(), m.ChannelID, m.Author.ID, m.Content)
	if err != nil {
		apperrors.Capture(fmt.Errorf("contar en %s: %w", m.ChannelID, err), "Counting")
		return false
	}

	switch res.Outcome {
	case counting.Ignored:
		return false
	case counting.Correct:
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, "✅"); err != nil {
			logger.Debug(fmt.Sprintf("Error agregando reacción: %v", err), "Counting")
		}
	default:
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, "❌"); err != nil {
			logger.Debug(fmt.Sprintf("Error agregando reacción: %v", err), "Counting")
		}
		if _, err := s.ChannelMessageSendEmbed(m.ChannelID, countingFailEmbed(m.Author.ID, res)); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reinicio del conteo: %v", err), "Counting")
		}
	}
	return true
}

// countingFailEmbed explains why the count went back to zero.
func countingFailEmbed(userID string, res counting.Result) *discordgo.MessageEmbed {
	var description string
	if res.Outcome == counting.DoubleCount {
		description = fmt.Sprintf("%s, no puedes contar dos veces seguidas. El conteo vuelve a empezar desde **1**.", discord.UserMention(userID))
	} else {
		description = fmt.Sprintf("%s escribió un número incorrecto. El conteo vuelve a empezar desde **1**.", discord.UserMention(userID))
	}

	embed := discord.NewEmbed("❌ ¡Conteo reiniciado!", description, discord.ColorRed)
	if res.Outcome == counting.WrongNumber {
		embed.Fields = append(embed.Fields,
			discord.Field("Esperado", fmt.Sprintf("%d", res.Expected), true),
			discord.Field("Escrito", fmt.Sprintf("%d", res.Given), true),
		)
	}
	embed.Fields = append(embed.Fields,
		discord.Field("Llegasteis a", fmt.Sprintf("%d", res.Reached), true),
		discord.Field("Récord", fmt.Sprintf("%d", res.HighScore), true),
	)
	if res.NewHighScore {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "🏆 ¡Nuevo récord del servidor!"}
	}
	return embed
}

func handleXP(s *discordgo.Session, m *discordgo.MessageCreate) {
	res, err := services.Leveling.AddMessageXP(context.Background(), m.GuildID, m.Author.ID)
	if err != nil {
		apperrors.Capture(fmt.Errorf("XP de %s: %w", m.Author.ID, err), "Levels")
		return
	}
	if !res.LeveledUp {
		return
	}

	roleNote := ""
	if res.RoleName != "" {
		roleID, err := ensureRole(s, m.GuildID, res.RoleName)
		if err == nil {
			err = s.GuildMemberRoleAdd(m.GuildID, m.Author.ID, roleID)
		}
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudo dar el rol %s a %s: %v", res.RoleName, m.Author.ID, err), "Levels")
		} else {
			roleNote = fmt.Sprintf("\nNuevo rol: %s", discord.RoleMention(roleID))
		}
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, levelUpEmbed(m.Author.ID, res, roleNote)); err != nil {
		logger.Error(fmt.Sprintf("Error anunciando subida de nivel: %v", err), "Levels")
	}
}

func levelUpEmbed(userID string, res leveling.XPResult, roleNote string) *discordgo.MessageEmbed {
	embed := discord.NewEmbed(
		"🎉 ¡Subida de nivel!",
		fmt.Sprintf("%s ha alcanzado el **nivel %d**.%s", discord.UserMention(userID), res.Level, roleNote),
		discord.ColorGold,
	)
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Siguiente nivel: %d / %d XP", res.XP, leveling.XPForLevel(res.Level+1)),
	}
	return embed
}

// roleByName finds a role case-insensitively.
func roleByName(roles []*discordgo.Role, name string) (string, bool) {
	for _, r := range roles {
		if strings.EqualFold(r.Name, name) {
			return r.ID, true
		}
	}
	return "", false
}

// ensureRole returns the id of the named role, creating it when missing.
func ensureRole(s *discordgo.Session, guildID, name string) (string, error) {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return "", err
	}
	if id, ok := roleByName(roles, name); ok {
		return id, nil
	}

	role, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: name})
	if err != nil {
		return "", err
	}
	logger.Info(fmt.Sprintf("Rol de nivel %q creado en %s", name, guildID), "Levels")
	return role.ID, nil
}

func mentionsBot(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if s.State.User == nil {
		return false
	}
	for _, mention := range m.Mentions {
		if mention.ID == s.State.User.ID {
			return true
		}
	}
	return false
}

func replyToMention(s *discordgo.Session, m *discordgo.MessageCreate) {
	embed := discord.NewEmbed(
		"👋 ¡Hola!",
		"Uso comandos **slash (/)**.\nEscribe `/utils help` para ver todos los comandos disponibles.",
		discord.ColorBlue,
	)
	embed.Fields = []*discordgo.MessageEmbedField{
		discord.Field("💰 Economía", "`/economy`", true),
		discord.Field("📈 Niveles", "`/level`", true),
		discord.Field("❓ Ayuda", "`/utils help`", true),
	}
	if _, err := s.ChannelMessageSendEmbedReply(m.ChannelID, embed, m.Reference()); err != nil {
		logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "Message")
	}
}
