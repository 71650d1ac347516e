package lock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/locker"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func channelOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "canal",
		Description:  "Canal de texto (por defecto el actual)",
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "razon",
		Description: "Motivo del bloqueo",
		MaxLength:   512,
	}
}

func dateOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "fecha",
		Description: "Fecha de desbloqueo: DD.MM.YYYY o DD.MM.YYYY HH:MM",
		Required:    required,
	}
}

func targetChannel(ctx *discord.CommandContext) string {
	if ch := ctx.GetChannelOption("canal"); ch != nil {
		return ch.ID
	}
	return ctx.Interaction.ChannelID
}

func parseDate(ctx *discord.CommandContext) (*time.Time, error) {
	raw := strings.TrimSpace(ctx.GetStringOption("fecha"))
	if raw == "" {
		return nil, nil
	}
	t, err := locker.ParseUnlockDate(raw, time.Now(), time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func createChannelCommand() *discord.Command {
	return discord.NewCommand(
		"channel",
		"Bloquea un canal para que nadie pueda escribir",
		"lock",
		lockHandler,
	).WithOptions(channelOption(), reasonOption()).
		WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageChannels | discordgo.PermissionManageRoles).
		OnlyGuilds()
}

func lockHandler(ctx *discord.CommandContext) error {
	channelID := targetChannel(ctx)
	if _, err := LockChannel(ctx.Session, ctx.GuildID(), channelID, ctx.GetStringOption("razon"), nil, ctx.User().ID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("🔒 %s ha sido bloqueado.", discord.ChannelMention(channelID)))
}

func createUnlockCommand() *discord.Command {
	return discord.NewCommand(
		"unlock",
		"Desbloquea un canal",
		"lock",
		unlockHandler,
	).WithOptions(channelOption()).
		WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageChannels | discordgo.PermissionManageRoles).
		OnlyGuilds()
}

func unlockHandler(ctx *discord.CommandContext) error {
	channelID := targetChannel(ctx)
	if err := UnlockChannel(ctx.Session, ctx.GuildID(), channelID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("🔓 %s ha sido desbloqueado.", discord.ChannelMention(channelID)))
}

func createUntilCommand() *discord.Command {
	return discord.NewCommand(
		"until",
		"Bloquea un canal hasta una fecha",
		"lock",
		untilHandler,
	).WithOptions(dateOption(true), channelOption(), reasonOption()).
		WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageChannels | discordgo.PermissionManageRoles).
		OnlyGuilds()
}

func untilHandler(ctx *discord.CommandContext) error {
	until, err := parseDate(ctx)
	if err != nil {
		return ctx.ReplyError(err)
	}
	channelID := targetChannel(ctx)
	if _, err := LockChannel(ctx.Session, ctx.GuildID(), channelID, ctx.GetStringOption("razon"), until, ctx.User().ID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeral(fmt.Sprintf(
		"🔒 %s ha sido bloqueado y se desbloqueará <t:%d:f>.",
		discord.ChannelMention(channelID), until.Unix(),
	))
}

func createListCommand() *discord.Command {
	return discord.NewCommand(
		"list",
		"Lista los canales bloqueados",
		"lock",
		listHandler,
	).WithUserPermissions(discordgo.PermissionManageChannels).OnlyGuilds()
}

func listHandler(ctx *discord.CommandContext) error {
	entries, err := service.Locked(context.Background(), ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}
	if len(entries) == 0 {
		return ctx.ReplyEphemeral("No hay canales bloqueados.")
	}

	embed := discord.NewEmbed("🔒 Canales bloqueados", "", discord.ColorBlue)
	for i, e := range entries {
		if i == 25 {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Y %d más", len(entries)-25)}
			break
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n**Motivo:** %s\n", discord.ChannelMention(e.ChannelID), e.Reason)
		if e.UnlockDate != nil {
			fmt.Fprintf(&b, "**Desbloqueo:** <t:%d:f>\n", *e.UnlockDate)
		}
		fmt.Fprintf(&b, "**Bloqueado:** <t:%d:R>", e.LockedAt)
		if e.LockedBy != "" {
			fmt.Fprintf(&b, " por %s", discord.UserMention(e.LockedBy))
		}
		embed.Fields = append(embed.Fields, discord.Field(fmt.Sprintf("#%d", i+1), b.String(), false))
	}
	return ctx.ReplyEphemeralEmbed(embed)
}
