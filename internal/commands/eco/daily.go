package eco

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/dustin/go-humanize"
)

func createDailyCommand() *discord.Command {
	return discord.NewCommand(
		"daily",
		"Reclama tu recompensa diaria",
		"economy",
		dailyHandler,
	).OnlyGuilds()
}

func dailyHandler(ctx *discord.CommandContext) error {
	res, err := service.Daily(context.Background(), ctx.GuildID(), ctx.User().ID, time.Now())
	if err != nil {
		return ctx.ReplyError(err)
	}

	embed := discord.NewEmbed(
		"📅 Recompensa diaria",
		fmt.Sprintf("Has recibido **%s** créditos.", humanize.Comma(res.Reward)),
		discord.ColorGreen,
	)
	embed.Fields = append(embed.Fields,
		discord.Field("🔥 Racha", fmt.Sprintf("%d días", res.Streak), true),
		discord.Field("💰 Saldo", humanize.Comma(res.Balance), true),
	)
	return ctx.ReplyEmbed(embed)
}
