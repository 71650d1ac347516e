package eco

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/leveling"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/dustin/go-humanize"
)

const richlistSize = 10

func createRichlistCommand() *discord.Command {
	return discord.NewCommand(
		"richlist",
		"Los usuarios más ricos del servidor",
		"economy",
		richlistHandler,
	).OnlyGuilds()
}

func richlistHandler(ctx *discord.CommandContext) error {
	entries, err := service.Richlist(context.Background(), ctx.GuildID(), richlistSize)
	if err != nil {
		return ctx.ReplyError(err)
	}
	if len(entries) == 0 {
		return ctx.ReplyEphemeral("📭 Nadie tiene créditos todavía en este servidor.")
	}

	var sb strings.Builder
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%s %s · **%s** créditos\n", leveling.Medal(i+1), discord.UserMention(e.UserID), humanize.Comma(e.Credits)))
	}
	return ctx.ReplyEmbed(discord.NewEmbed("🏆 Ranking de riqueza", sb.String(), discord.ColorGold))
}
