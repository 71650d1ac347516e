package eco

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/dustin/go-humanize"
)

func createBegCommand() *discord.Command {
	return discord.NewCommand(
		"beg",
		"Pide limosna a desconocidos",
		"economy",
		begHandler,
	).OnlyGuilds()
}

func begHandler(ctx *discord.CommandContext) error {
	res, err := service.Beg(context.Background(), ctx.GuildID(), ctx.User().ID, time.Now())
	if err != nil {
		return ctx.ReplyError(err)
	}

	if res.Success {
		embed := discord.NewEmbed(
			"🙏 Limosna",
			fmt.Sprintf("**%s** te dio **%s** créditos.", res.Helper, humanize.Comma(res.Amount)),
			discord.ColorGreen,
		)
		embed.Fields = append(embed.Fields, discord.Field("💰 Saldo", humanize.Comma(res.Balance), true))
		return ctx.ReplyEmbed(embed)
	}

	desc := fmt.Sprintf("**%s**: \"%s\"", res.Helper, res.Rejection)
	if res.Lost > 0 {
		desc += fmt.Sprintf("\nPerdiste **%s** créditos por el camino.", humanize.Comma(res.Lost))
	}
	embed := discord.NewEmbed("😔 Nadie te ayudó", desc, discord.ColorGrey)
	embed.Fields = append(embed.Fields, discord.Field("💰 Saldo", humanize.Comma(res.Balance), true))
	return ctx.ReplyEmbed(embed)
}
