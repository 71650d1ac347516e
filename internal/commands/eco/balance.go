package eco

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

func createBalanceCommand() *discord.Command {
	return discord.NewCommand(
		"balance",
		"Muestra los créditos de un usuario",
		"economy",
		balanceHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a consultar",
			Required:    false,
		},
	).OnlyGuilds()
}

func balanceHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		user = ctx.User()
	}

	credits, err := service.Balance(context.Background(), ctx.GuildID(), user.ID)
	if err != nil {
		return ctx.ReplyError(err)
	}

	embed := discord.NewEmbed(
		"💰 Saldo",
		fmt.Sprintf("%s tiene **%s** créditos.", discord.UserMention(user.ID), humanize.Comma(credits)),
		discord.ColorGold,
	)
	return ctx.ReplyEmbed(embed)
}
