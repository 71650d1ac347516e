package levels

import (
	"context"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/leveling"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// LeaderboardSize is the number of members shown in leaderboards.
const LeaderboardSize = 10

// LeaderboardEmbed builds the embed shared by /level leaderboard and the
// auto-refreshed leaderboard message.
func LeaderboardEmbed(guildID string) (*discordgo.MessageEmbed, error) {
	entries, err := service.Leaderboard(context.Background(), guildID, LeaderboardSize)
	if err != nil {
		return nil, err
	}
	return discord.NewEmbed("🏆 Tabla de niveles", leveling.LeaderboardText(entries), discord.ColorGold), nil
}

func createLeaderboardCommand() *discord.Command {
	return discord.NewCommand(
		"leaderboard",
		"Los usuarios con más nivel del servidor",
		"level",
		leaderboardHandler,
	).OnlyGuilds()
}

func leaderboardHandler(ctx *discord.CommandContext) error {
	embed, err := LeaderboardEmbed(ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(embed)
}
