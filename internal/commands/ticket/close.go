package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/tickets"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// closeDelay is how long the closing notice stays before the channel is deleted.
const closeDelay = 5 * time.Second

func createCloseCommand() *discord.Command {
	return discord.NewCommand(
		"close",
		"Cierra el ticket actual",
		"ticket",
		closeHandler,
	).OnlyGuilds()
}

func closeHandler(ctx *discord.CommandContext) error {
	return closeTicket(ctx)
}

func closeButtonHandler(ctx *discord.ComponentContext) error {
	return closeTicket(ctx.CommandContext)
}

// closeTicket closes the ticket bound to the current channel and deletes the
// channel after a short notice.
func closeTicket(ctx *discord.CommandContext) error {
	guildID, channelID := ctx.GuildID(), ctx.Interaction.ChannelID

	ticket, err := service.Ticket(context.Background(), guildID, channelID)
	if err != nil {
		return ctx.ReplyError(err)
	}
	settings, err := service.Settings(context.Background(), guildID)
	if err != nil {
		return ctx.ReplyError(err)
	}

	member := ctx.Member()
	var roles []string
	if member != nil {
		roles = member.Roles
	}
	isAdmin := discord.HasPermission(ctx.MemberPermissions(), discordgo.PermissionAdministrator)
	if !tickets.CanClose(ticket, ctx.User().ID, isAdmin, roles, settings.SupportRoleIDs) {
		return ctx.ReplyEphemeral("❌ Solo el autor del ticket, el equipo de soporte o un administrador pueden cerrarlo.")
	}

	if _, err := service.Close(context.Background(), guildID, channelID, ctx.User().ID); err != nil {
		return ctx.ReplyError(err)
	}

	if err := ctx.ReplyEmbed(discord.NewEmbed(
		"🔒 Cerrando ticket",
		fmt.Sprintf("Este ticket se eliminará en %d segundos.", int(closeDelay.Seconds())),
		discord.ColorOrange,
	)); err != nil {
		logger.Debug("Aviso de cierre fallido: "+err.Error(), "Tickets")
	}

	logTicket(ctx, settings.LogChannelID, discord.NewEmbed(
		"🔒 Ticket cerrado",
		fmt.Sprintf("El ticket **#%d** de %s fue cerrado por %s.", ticket.Number, discord.UserMention(ticket.UserID), discord.UserMention(ctx.User().ID)),
		discord.ColorRed,
	))

	go func() {
		defer errors.RecoverMiddleware()()
		time.Sleep(closeDelay)
		if _, err := ctx.Session.ChannelDelete(channelID); err != nil {
			logger.Error(fmt.Sprintf("No se pudo borrar el ticket %s: %v", channelID, err), "Tickets")
		}
	}()
	return nil
}
