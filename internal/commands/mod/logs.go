// Package mod - /mod logs command
package mod

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/moderation"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// embeds cap their description at 4096 characters; keep a margin
const maxLogLines = 25

// createLogsCommand creates the /mod logs subcommand
func createLogsCommand() *discord.Command {
	return discord.NewCommand(
		"logs",
		"Muestra el historial de moderación de un usuario",
		"mod",
		logsHandler,
	).WithOptions(userOption("Usuario a consultar")).
		WithUserPermissions(discordgo.PermissionModerateMembers).
		OnlyGuilds()
}

// logsHandler handles the /mod logs command
func logsHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	actions, err := service.UserActions(context.Background(), ctx.GuildID(), user.ID)
	if err != nil {
		return ctx.ReplyError(err)
	}
	if len(actions) == 0 {
		return ctx.ReplyEphemeralEmbed(discord.NewEmbed(
			"📋 Historial de moderación",
			fmt.Sprintf("**%s** no tiene casos registrados.", user.String()),
			discord.ColorGreen,
		))
	}

	start := 0
	if len(actions) > maxLogLines {
		start = len(actions) - maxLogLines
	}

	var sb strings.Builder
	for _, a := range actions[start:] {
		sb.WriteString(fmt.Sprintf("**#%d** %s · <t:%d:d> · %s", a.CaseID, moderation.ActionTitle(a.ActionType), a.Timestamp, a.Reason))
		if a.Duration != nil {
			sb.WriteString(" (" + moderation.FormatDuration(a.Duration) + ")")
		}
		sb.WriteString("\n")
	}

	embed := discord.NewEmbed(fmt.Sprintf("📋 Historial de %s", user.String()), sb.String(), discord.ColorBlurple)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d casos en total", len(actions))}
	return ctx.ReplyEphemeralEmbed(embed)
}
