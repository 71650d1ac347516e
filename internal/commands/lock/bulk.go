package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const confirmTimeout = 60 * time.Second

// bulkRequest is a /lock all or /lock unlockall waiting for its button.
type bulkRequest struct {
	GuildID string
	UserID  string
	Lock    bool
	Reason  string
	Until   *time.Time
}

var pending = cache.New(confirmTimeout, 2*confirmTimeout)

func createAllCommand() *discord.Command {
	return discord.NewCommand(
		"all",
		"Bloquea todos los canales de texto del servidor",
		"lock",
		allHandler,
	).WithOptions(dateOption(false), reasonOption()).
		WithUserPermissions(discordgo.PermissionAdministrator).
		WithBotPermissions(discordgo.PermissionManageChannels | discordgo.PermissionManageRoles).
		OnlyGuilds()
}

func allHandler(ctx *discord.CommandContext) error {
	until, err := parseDate(ctx)
	if err != nil {
		return ctx.ReplyError(err)
	}
	return askConfirmation(ctx, bulkRequest{
		GuildID: ctx.GuildID(),
		UserID:  ctx.User().ID,
		Lock:    true,
		Reason:  ctx.GetStringOption("razon"),
		Until:   until,
	}, "¿Seguro que quieres bloquear **todos** los canales de texto del servidor?")
}

func createUnlockAllCommand() *discord.Command {
	return discord.NewCommand(
		"unlockall",
		"Desbloquea todos los canales bloqueados",
		"lock",
		unlockAllHandler,
	).WithUserPermissions(discordgo.PermissionAdministrator).
		WithBotPermissions(discordgo.PermissionManageChannels | discordgo.PermissionManageRoles).
		OnlyGuilds()
}

func unlockAllHandler(ctx *discord.CommandContext) error {
	return askConfirmation(ctx, bulkRequest{
		GuildID: ctx.GuildID(),
		UserID:  ctx.User().ID,
	}, "¿Seguro que quieres desbloquear **todos** los canales bloqueados?")
}

func askConfirmation(ctx *discord.CommandContext, req bulkRequest, question string) error {
	id := uuid.NewString()
	pending.Set(id, req, cache.DefaultExpiration)

	embed := discord.NewEmbed("⚠️ Confirmación", question, discord.ColorOrange)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Tienes 60 segundos para responder"}
	return ctx.ReplyComponents("", []*discordgo.MessageEmbed{embed}, []discordgo.MessageComponent{
		discord.Row(
			discord.Button("Confirmar", "bulklock:confirm:"+id, discordgo.DangerButton, "✅"),
			discord.Button("Cancelar", "bulklock:cancel:"+id, discordgo.SecondaryButton, "✖️"),
		),
	}, true)
}

// takeRequest removes and returns the pending request. It answers the
// interaction itself when the request expired or belongs to someone else.
func takeRequest(ctx *discord.ComponentContext) (bulkRequest, bool) {
	v, ok := pending.Get(ctx.Args)
	if !ok {
		ctx.UpdateMessage("⌛ La confirmación ha caducado.", nil, nil)
		return bulkRequest{}, false
	}
	req := v.(bulkRequest)
	if req.UserID != ctx.User().ID {
		ctx.ReplyEphemeral("❌ Solo quien ejecutó el comando puede confirmarlo.")
		return bulkRequest{}, false
	}
	pending.Delete(ctx.Args)
	return req, true
}

func bulkCancelHandler(ctx *discord.ComponentContext) error {
	if _, ok := takeRequest(ctx); !ok {
		return nil
	}
	return ctx.UpdateMessage("Operación cancelada.", nil, nil)
}

func bulkConfirmHandler(ctx *discord.ComponentContext) error {
	req, ok := takeRequest(ctx)
	if !ok {
		return nil
	}
	if err := ctx.UpdateMessage("⏳ Procesando canales...", nil, nil); err != nil {
		return err
	}

	var done, failed int
	if req.Lock {
		channels, err := ctx.Session.GuildChannels(req.GuildID)
		if err != nil {
			return ctx.FollowupError(err)
		}
		for _, ch := range channels {
			if ch.Type != discordgo.ChannelTypeGuildText || service.IsLocked(context.Background(), req.GuildID, ch.ID) {
				continue
			}
			if _, err := LockChannel(ctx.Session, req.GuildID, ch.ID, req.Reason, req.Until, req.UserID); err != nil {
				failed++
				continue
			}
			done++
		}
	} else {
		entries, err := service.Locked(context.Background(), req.GuildID)
		if err != nil {
			return ctx.FollowupError(err)
		}
		for _, e := range entries {
			if err := UnlockChannel(ctx.Session, req.GuildID, e.ChannelID); err != nil {
				failed++
				continue
			}
			done++
		}
	}

	verb := "desbloqueados"
	if req.Lock {
		verb = "bloqueados"
	}
	msg := fmt.Sprintf("✅ %d canales %s.", done, verb)
	if failed > 0 {
		msg += fmt.Sprintf(" %d no se pudieron procesar.", failed)
	}
	return ctx.Followup(msg, true)
}
