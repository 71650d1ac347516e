// Package faq holds the /faq command group and the assistant channel listener.
package faq

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/assistant"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

var service *assistant.Service

// RegisterFAQCommands registers all /faq subcommands
func RegisterFAQCommands(client *discord.ExtendedClient, svc *assistant.Service) {
	service = svc

	group := client.CommandHandler.BuildCommandGroup(
		"faq",
		"Asistente de preguntas frecuentes",
		createAskCommand(),
		createAllCommand(),
		createCategoryCommand(),
		createAddCommand(),
		createRemoveCommand(),
		createSetupCommand(),
		createRemoveChannelCommand(),
		createChannelsCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)
}

func answerEmbed(a assistant.Answer) *discordgo.MessageEmbed {
	embed := discord.NewEmbed("❓ "+a.FAQ.Question, a.FAQ.Answer, discord.ColorBlurple)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Categoría: " + a.FAQ.Category}
	if len(a.Related) > 0 {
		var b strings.Builder
		for _, q := range a.Related {
			fmt.Fprintf(&b, "• %s\n", q)
		}
		embed.Fields = append(embed.Fields, discord.Field("Preguntas relacionadas", b.String(), false))
	}
	return embed
}

func notFoundEmbed(query string) *discordgo.MessageEmbed {
	embed := discord.NewEmbed(
		"🤷 Sin respuesta",
		fmt.Sprintf("No encontré una respuesta para **%s**.", truncate(query, 200)),
		discord.ColorGrey,
	)
	if suggestions, err := service.Suggestions(context.Background(), 3); err == nil && len(suggestions) > 0 {
		var b strings.Builder
		for _, q := range suggestions {
			fmt.Fprintf(&b, "• %s\n", q)
		}
		embed.Fields = append(embed.Fields, discord.Field("Quizás te interese", b.String(), false))
	}
	return embed
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// AnswerMessage answers a message posted in an assistant channel. It reports
// whether the message was handled.
func AnswerMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return false
	}
	if !service.IsAssistantChannel(context.Background(), m.GuildID, m.ChannelID) {
		return false
	}
	query := strings.TrimSpace(m.Content)
	if len([]rune(query)) < assistant.MinQueryLength {
		return false
	}

	s.MessageReactionAdd(m.ChannelID, m.ID, "🤔")
	answer, found, err := service.Ask(context.Background(), query)
	if err != nil {
		logger.Error("Error del asistente: "+err.Error(), "Assistant")
		return true
	}

	embed := notFoundEmbed(query)
	if found {
		embed = answerEmbed(answer)
	}
	if _, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{embed},
		Reference: m.Reference(),
	}); err != nil {
		logger.Warn("No se pudo responder en el canal del asistente: "+err.Error(), "Assistant")
	}
	s.MessageReactionRemove(m.ChannelID, m.ID, "🤔", "@me")
	s.MessageReactionAdd(m.ChannelID, m.ID, "✅")
	return true
}
