package eco

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/economy"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
)

func adjustOptions(verb string) []*discordgo.ApplicationCommandOption {
	minAmount := 1.0
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario afectado",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "cantidad",
			Description: "Créditos a " + verb,
			Required:    true,
			MinValue:    &minAmount,
		},
	}
}

func createGiveCommand() *discord.Command {
	return discord.NewCommand(
		"give",
		"Añade créditos a un usuario",
		"economy",
		func(ctx *discord.CommandContext) error { return adjustHandler(ctx, 1) },
	).WithOptions(adjustOptions("añadir")...).
		WithUserPermissions(discordgo.PermissionAdministrator).
		OnlyGuilds()
}

func createTakeCommand() *discord.Command {
	return discord.NewCommand(
		"take",
		"Quita créditos a un usuario",
		"economy",
		func(ctx *discord.CommandContext) error { return adjustHandler(ctx, -1) },
	).WithOptions(adjustOptions("quitar")...).
		WithUserPermissions(discordgo.PermissionAdministrator).
		OnlyGuilds()
}

func adjustHandler(ctx *discord.CommandContext, sign int64) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	amount := ctx.GetIntOption("cantidad")
	if amount <= 0 {
		return ctx.ReplyError(economy.ErrInvalidAmount)
	}

	balance, err := service.Adjust(context.Background(), ctx.GuildID(), user.ID, sign*amount)
	if err != nil {
		return ctx.ReplyError(err)
	}

	logger.Info(fmt.Sprintf("%s ajustó %d créditos a %s en %s", ctx.User().ID, sign*amount, user.ID, ctx.GuildID()), "Economy")

	verb := "añadieron"
	if sign < 0 {
		verb = "quitaron"
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(
		"💰 Saldo ajustado",
		fmt.Sprintf("Se %s **%s** créditos a %s. Nuevo saldo: **%s**.", verb, humanize.Comma(amount), discord.UserMention(user.ID), humanize.Comma(balance)),
	))
}
