// Package serverstats holds the /serverstats command group and the loop that
// keeps the counter channels up to date.
package serverstats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/stats"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

var service *stats.Service

// RegisterServerStatsCommands registers all /serverstats subcommands
func RegisterServerStatsCommands(client *discord.ExtendedClient, svc *stats.Service) {
	service = svc

	group := client.CommandHandler.BuildCommandGroup(
		"serverstats",
		"Canales con estadísticas del servidor",
		createSetupCommand(),
		createRemoveCommand(),
		createShowCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)
}

// Figures reads the live figures of a guild from the session state.
func Figures(s *discordgo.Session, guildID string) (stats.Figures, error) {
	g, err := s.State.Guild(guildID)
	if err != nil {
		return stats.Figures{}, err
	}
	s.State.RLock()
	defer s.State.RUnlock()
	return stats.FromGuild(g), nil
}

// Refresh renames the counter channels of every configured guild whose label changed.
func Refresh(s *discordgo.Session) {
	all, err := service.All(context.Background())
	if err != nil {
		logger.Error("No se pudieron leer las estadísticas: "+err.Error(), "ServerStats")
		return
	}
	now := time.Now()
	for guildID, sc := range all {
		f, err := Figures(s, guildID)
		if err != nil {
			continue
		}
		current := make(map[string]string)
		for _, id := range stats.ChannelIDs(sc) {
			if ch, err := s.State.Channel(id); err == nil {
				current[id] = ch.Name
			}
		}
		for _, r := range stats.Changes(sc, current, f, now) {
			if _, err := s.ChannelEdit(r.ChannelID, &discordgo.ChannelEdit{Name: r.Name}); err != nil {
				logger.Warn(fmt.Sprintf("No se pudo renombrar %s: %v", r.ChannelID, err), "ServerStats")
			}
		}
	}
}

func createSetupCommand() *discord.Command {
	return discord.NewCommand(
		"setup",
		"Crea la categoría de estadísticas",
		"serverstats",
		setupHandler,
	).WithUserPermissions(discordgo.PermissionAdministrator).
		WithBotPermissions(discordgo.PermissionManageChannels).
		OnlyGuilds()
}

func setupHandler(ctx *discord.CommandContext) error {
	guildID := ctx.GuildID()
	if service.IsSetUp(context.Background(), guildID) {
		return ctx.ReplyError(stats.ErrAlreadySetUp)
	}
	f, err := Figures(ctx.Session, guildID)
	if err != nil {
		return ctx.ReplyError(err)
	}
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	// Nobody may join the counters, they are labels only.
	overwrites := []*discordgo.PermissionOverwrite{{
		ID:   guildID,
		Type: discordgo.PermissionOverwriteTypeRole,
		Deny: discordgo.PermissionVoiceConnect,
	}}
	category, err := ctx.Session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 stats.CategoryName,
		Type:                 discordgo.ChannelTypeGuildCategory,
		Position:             0,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return ctx.FollowupError(err)
	}

	sc := models.StatsChannels{CategoryID: category.ID}
	now := time.Now()
	for _, c := range stats.Counters {
		ch, err := ctx.Session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
			Name:                 stats.Label(c, f, now),
			Type:                 discordgo.ChannelTypeGuildVoice,
			ParentID:             category.ID,
			PermissionOverwrites: overwrites,
		})
		if err != nil {
			deleteChannels(ctx.Session, stats.ChannelIDs(sc))
			return ctx.FollowupError(err)
		}
		*stats.Slot(&sc, c) = ch.ID
	}

	if err := service.Setup(context.Background(), guildID, sc); err != nil {
		deleteChannels(ctx.Session, stats.ChannelIDs(sc))
		return ctx.FollowupError(err)
	}
	return ctx.Followup("", true, discord.SuccessEmbed(
		"📊 Estadísticas creadas",
		fmt.Sprintf("Se crearon %d canales. Se actualizan cada %d minutos.", len(stats.Counters), int(stats.UpdateInterval.Minutes())),
	))
}

func deleteChannels(s *discordgo.Session, ids []string) {
	for _, id := range ids {
		if _, err := s.ChannelDelete(id); err != nil {
			logger.Debug(fmt.Sprintf("Canal %s no eliminado: %v", id, err), "ServerStats")
		}
	}
}

func createRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Elimina los canales de estadísticas",
		"serverstats",
		removeHandler,
	).WithUserPermissions(discordgo.PermissionAdministrator).
		WithBotPermissions(discordgo.PermissionManageChannels).
		OnlyGuilds()
}

func removeHandler(ctx *discord.CommandContext) error {
	sc, err := service.Remove(context.Background(), ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}
	deleteChannels(ctx.Session, stats.ChannelIDs(sc))
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed("📊 Estadísticas eliminadas", "Se borraron los canales de estadísticas."))
}

func createShowCommand() *discord.Command {
	return discord.NewCommand(
		"show",
		"Muestra las estadísticas actuales",
		"serverstats",
		showHandler,
	).OnlyGuilds()
}

func showHandler(ctx *discord.CommandContext) error {
	f, err := Figures(ctx.Session, ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}
	now := time.Now()
	lines := make([]string, 0, len(stats.Counters))
	for _, c := range stats.Counters {
		lines = append(lines, stats.Label(c, f, now))
	}
	return ctx.ReplyEmbed(discord.NewEmbed("📊 Estadísticas del servidor", strings.Join(lines, "\n"), discord.ColorTeal))
}
