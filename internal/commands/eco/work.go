package eco

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/dustin/go-humanize"
)

func createWorkCommand() *discord.Command {
	return discord.NewCommand(
		"work",
		"Trabaja para ganar créditos",
		"economy",
		workHandler,
	).OnlyGuilds()
}

func workHandler(ctx *discord.CommandContext) error {
	res, err := service.Work(context.Background(), ctx.GuildID(), ctx.User().ID, time.Now())
	if err != nil {
		return ctx.ReplyError(err)
	}

	embed := discord.NewEmbed(
		"💼 Trabajo",
		fmt.Sprintf("Trabajaste como **%s** y ganaste **%s** créditos.", res.Job, humanize.Comma(res.Earned)),
		discord.ColorBlue,
	)
	embed.Fields = append(embed.Fields, discord.Field("💰 Saldo", humanize.Comma(res.Balance), true))
	return ctx.ReplyEmbed(embed)
}
