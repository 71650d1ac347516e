package eco

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

func createRobCommand() *discord.Command {
	return discord.NewCommand(
		"rob",
		"Intenta robar créditos a otro usuario",
		"economy",
		robHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Víctima del robo",
			Required:    true,
		},
	).OnlyGuilds()
}

func robHandler(ctx *discord.CommandContext) error {
	victim := ctx.GetUserOption("usuario")
	if victim == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	res, err := service.Rob(context.Background(), ctx.GuildID(), ctx.User().ID, victim.ID, victim.Bot, time.Now())
	if err != nil {
		return ctx.ReplyError(err)
	}

	if res.Success {
		embed := discord.NewEmbed(
			"🦹 Robo exitoso",
			fmt.Sprintf("Le robaste **%s** créditos a %s.", humanize.Comma(res.Amount), discord.UserMention(victim.ID)),
			discord.ColorGreen,
		)
		embed.Fields = append(embed.Fields, discord.Field("💰 Tu saldo", humanize.Comma(res.RobberBalance), true))
		return ctx.ReplyEmbed(embed)
	}

	embed := discord.NewEmbed(
		"🚓 Te atraparon",
		fmt.Sprintf("El robo a %s salió mal y pagaste una multa de **%s** créditos.", discord.UserMention(victim.ID), humanize.Comma(res.Amount)),
		discord.ColorRed,
	)
	embed.Fields = append(embed.Fields, discord.Field("💰 Tu saldo", humanize.Comma(res.RobberBalance), true))
	return ctx.ReplyEmbed(embed)
}
