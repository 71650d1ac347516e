package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/commands/announce"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/levels"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/lock"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/serverstats"
	apperrors "github.com/PancyStudios/CompanionBotGo/pkg/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/metrics"
	"github.com/bwmarrin/discordgo"
)

// Loop intervals
const (
	LeaderboardInterval = 5 * time.Minute
	TempVoiceInterval   = 5 * time.Minute
	UnlockInterval      = 5 * time.Minute
	StatsInterval       = 300 * time.Second
	CreatorsInterval    = 30 * time.Minute
)

// Loop is a periodic job run against the gateway session.
type Loop struct {
	Name     string
	Interval time.Duration
	Run      func(s *discordgo.Session)
}

// Loops lists the background jobs started by StartLoops.
func Loops() []Loop {
	return []Loop{
		{"leaderboards", LeaderboardInterval, refreshLeaderboards},
		{"temp_voice", TempVoiceInterval, cleanupTempChannels},
		{"unlock", UnlockInterval, lock.UnlockDue},
		{"server_stats", StatsInterval, serverstats.Refresh},
		{"tiktok", CreatorsInterval, announce.PollCreators},
	}
}

// StartLoops runs every loop until ctx is cancelled.
func StartLoops(ctx context.Context, s *discordgo.Session) {
	for _, l := range Loops() {
		go runLoop(ctx, s, l)
	}
	logger.System(fmt.Sprintf("Tareas periódicas iniciadas: %d", len(Loops())), "Loops")
}

func runLoop(ctx context.Context, s *discordgo.Session, l Loop) {
	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Tarea detenida: "+l.Name, "Loops")
			return
		case <-ticker.C:
			runOnce(s, l)
		}
	}
}

// runOnce isolates a panicking iteration so the ticker keeps going.
func runOnce(s *discordgo.Session, l Loop) {
	defer apperrors.RecoverMiddleware()()
	metrics.LoopRunsTotal.WithLabelValues(l.Name).Inc()
	l.Run(s)
}

// refreshLeaderboards edits every auto-refreshed leaderboard, reposting it
// when the message was deleted.
func refreshLeaderboards(s *discordgo.Session) {
	ctx := context.Background()
	targets, err := services.Leveling.LeaderboardTargets(ctx)
	if err != nil {
		logger.Error("No se pudieron leer las tablas de niveles: "+err.Error(), "Levels")
		return
	}

	for _, t := range targets {
		embed, err := levels.LeaderboardEmbed(t.GuildID)
		if err != nil {
			apperrors.Capture(fmt.Errorf("tabla de %s: %w", t.GuildID, err), "Levels")
			continue
		}

		if t.MessageID != "" {
			if _, err := s.ChannelMessageEditEmbed(t.ChannelID, t.MessageID, embed); err == nil {
				continue
			}
		}

		msg, err := s.ChannelMessageSendEmbed(t.ChannelID, embed)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudo publicar la tabla en %s: %v", t.ChannelID, err), "Levels")
			continue
		}
		if err := services.Leveling.SetLeaderboard(ctx, t.GuildID, t.ChannelID, msg.ID); err != nil {
			apperrors.Capture(err, "Levels")
		}
	}
}
