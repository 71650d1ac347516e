package eco

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

func createPayCommand() *discord.Command {
	return discord.NewCommand(
		"pay",
		"Envía créditos a otro usuario",
		"economy",
		payHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario que recibe los créditos",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "cantidad",
			Description: "Cantidad de créditos",
			Required:    true,
		},
	).OnlyGuilds()
}

func payHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	res, err := service.Pay(context.Background(), ctx.GuildID(), ctx.User().ID, user.ID, ctx.GetIntOption("cantidad"))
	if err != nil {
		return ctx.ReplyError(err)
	}

	desc := fmt.Sprintf("Enviaste **%s** créditos a %s.", humanize.Comma(res.Sent), discord.UserMention(user.ID))
	if res.Tax > 0 {
		desc += fmt.Sprintf("\nImpuesto: **%s** · Recibido: **%s**", humanize.Comma(res.Tax), humanize.Comma(res.Received))
	}
	embed := discord.NewEmbed("💸 Transferencia", desc, discord.ColorGreen)
	embed.Fields = append(embed.Fields, discord.Field("💰 Tu saldo", humanize.Comma(res.SenderBalance), true))
	return ctx.ReplyEmbed(embed)
}
