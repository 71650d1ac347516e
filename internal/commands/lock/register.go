// Package lock holds the /lock command group and the permission changes
// behind a channel lock.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/locker"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

var service *locker.Service

// RegisterLockCommands registers all /lock subcommands and the bulk confirmation buttons
func RegisterLockCommands(client *discord.ExtendedClient, svc *locker.Service) {
	service = svc

	group := client.CommandHandler.BuildCommandGroup(
		"lock",
		"Bloqueo de canales de texto",
		createChannelCommand(),
		createUnlockCommand(),
		createUntilCommand(),
		createListCommand(),
		createAllCommand(),
		createUnlockAllCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)

	client.Components.Handle("bulklock:confirm", bulkConfirmHandler)
	client.Components.Handle("bulklock:cancel", bulkCancelHandler)
}

func channel(s *discordgo.Session, channelID string) (*discordgo.Channel, error) {
	if ch, err := s.State.Channel(channelID); err == nil {
		return ch, nil
	}
	return s.Channel(channelID)
}

func overwriteFor(ch *discordgo.Channel, id string) (int64, int64) {
	for _, o := range ch.PermissionOverwrites {
		if o.ID == id && o.Type == discordgo.PermissionOverwriteTypeRole {
			return o.Allow, o.Deny
		}
	}
	return 0, 0
}

// LockChannel denies @everyone the right to write in a channel and records the
// role overwrites that UnlockChannel restores.
func LockChannel(s *discordgo.Session, guildID, channelID, reason string, until *time.Time, by string) (*discordgo.MessageEmbed, error) {
	ch, err := channel(s, channelID)
	if err != nil {
		return nil, err
	}
	if service.IsLocked(context.Background(), guildID, channelID) {
		return nil, locker.ErrAlreadyLocked
	}

	original := make(map[string]*bool)
	for _, o := range ch.PermissionOverwrites {
		if o.Type == discordgo.PermissionOverwriteTypeRole && o.ID != guildID {
			original[o.ID] = locker.SendState(o.Allow, o.Deny)
		}
	}

	no := false
	allow, deny := overwriteFor(ch, guildID)
	allow, deny = locker.WithSendState(allow, deny, &no)
	if err := s.ChannelPermissionSet(channelID, guildID, discordgo.PermissionOverwriteTypeRole, allow, deny); err != nil {
		return nil, err
	}

	rec, err := service.Lock(context.Background(), guildID, channelID, locker.Lock{
		Original: original,
		Reason:   reason,
		Until:    until,
		By:       by,
	}, time.Now())
	if err != nil {
		return nil, err
	}

	embed := discord.NewEmbed("🔒 Canal bloqueado", "Este canal ha sido bloqueado.", discord.ColorRed)
	embed.Fields = append(embed.Fields, discord.Field("Motivo", rec.Reason, false))
	if rec.UnlockDate != nil {
		embed.Fields = append(embed.Fields, discord.Field(
			"Desbloqueo automático",
			fmt.Sprintf("<t:%d:f> (<t:%d:R>)", *rec.UnlockDate, *rec.UnlockDate),
			false,
		))
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo anunciar el bloqueo de %s: %v", channelID, err), "Lock")
	}
	logger.Info(fmt.Sprintf("Canal %s bloqueado en %s", ch.Name, guildID), "Lock")
	return embed, nil
}

// UnlockChannel lifts a lock and puts the recorded role overwrites back.
func UnlockChannel(s *discordgo.Session, guildID, channelID string) error {
	rec, err := service.Unlock(context.Background(), guildID, channelID)
	if err != nil {
		return err
	}

	ch, err := channel(s, channelID)
	if err != nil {
		// The channel is gone, the record is already dropped.
		return nil
	}

	allow, deny := overwriteFor(ch, guildID)
	allow, deny = locker.WithSendState(allow, deny, nil)
	if err := s.ChannelPermissionSet(channelID, guildID, discordgo.PermissionOverwriteTypeRole, allow, deny); err != nil {
		return err
	}

	for roleID, state := range rec.OriginalPermissions {
		a, d := overwriteFor(ch, roleID)
		if state == nil && a == 0 && d == 0 {
			continue
		}
		a, d = locker.WithSendState(a, d, state)
		if err := s.ChannelPermissionSet(channelID, roleID, discordgo.PermissionOverwriteTypeRole, a, d); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo restaurar el rol %s en %s: %v", roleID, channelID, err), "Lock")
		}
	}

	embed := discord.NewEmbed("🔓 Canal desbloqueado", "Este canal ha sido desbloqueado.", discord.ColorGreen)
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo anunciar el desbloqueo de %s: %v", channelID, err), "Lock")
	}
	logger.Info(fmt.Sprintf("Canal %s desbloqueado en %s", ch.Name, guildID), "Lock")
	return nil
}

// UnlockDue lifts every timed lock whose date has passed.
func UnlockDue(s *discordgo.Session) {
	due, err := service.Due(context.Background(), time.Now())
	if err != nil {
		logger.Error("No se pudieron leer los bloqueos vencidos: "+err.Error(), "Lock")
		return
	}
	for _, d := range due {
		if err := UnlockChannel(s, d.GuildID, d.ChannelID); err != nil {
			logger.Warn(fmt.Sprintf("Desbloqueo automático fallido en %s: %v", d.ChannelID, err), "Lock")
		}
	}
}
