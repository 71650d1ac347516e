// Package modules builds the feature services shared by the bot and the dashboard.
package modules

import (
	"context"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/announcer"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/assistant"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/captcha"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/counting"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/economy"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/leveling"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/locker"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/moderation"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/selfroles"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/stats"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/tempvoice"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/tickets"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/welcome"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
)

// Services holds one instance of every feature service.
type Services struct {
	Economy    *economy.Service
	Leveling   *leveling.Service
	Counting   *counting.Service
	Moderation *moderation.Service
	Tickets    *tickets.Service
	SelfRoles  *selfroles.Service
	TempVoice  *tempvoice.Service
	Captcha    *captcha.Service
	Locker     *locker.Service
	Announcer  *announcer.Service
	Stats      *stats.Service
	Assistant  *assistant.Service
	Welcome    *welcome.Service

	Scraper *announcer.Scraper
}

// New wires every service to the same store and event emitter.
func New(store database.Store, rng randutil.Source, events mqtt.Emitter) *Services {
	return &Services{
		Economy:    economy.NewService(store, rng, events),
		Leveling:   leveling.NewService(store, rng, events),
		Counting:   counting.NewService(store, events),
		Moderation: moderation.NewService(store, events),
		Tickets:    tickets.NewService(store, events),
		SelfRoles:  selfroles.NewService(store),
		TempVoice:  tempvoice.NewService(store),
		Captcha:    captcha.NewService(store, rng, captcha.TTL),
		Locker:     locker.NewService(store, events),
		Announcer:  announcer.NewService(store),
		Stats:      stats.NewService(store),
		Assistant:  assistant.NewService(store, rng),
		Welcome:    welcome.NewService(store),
		Scraper:    announcer.NewScraper(),
	}
}

// Close releases background resources.
func (s *Services) Close() error {
	return s.Captcha.Close()
}

// Status tells which features a guild has set up.
type Status struct {
	Economy     bool `json:"economy"`
	Levels      bool `json:"levels"`
	Counting    bool `json:"counting"`
	Moderation  bool `json:"moderation"`
	Tickets     bool `json:"tickets"`
	SelfRoles   bool `json:"self_roles"`
	TempVoice   bool `json:"temp_voice"`
	Captcha     bool `json:"captcha"`
	Locker      bool `json:"channel_locker"`
	Announcer   bool `json:"content_announcer"`
	ServerStats bool `json:"server_stats"`
	Assistant   bool `json:"assistant"`
	Welcome     bool `json:"welcome"`
}

// GuildStatus reports which features are configured in a guild.
func (s *Services) GuildStatus(ctx context.Context, guildID string) Status {
	st := Status{
		Economy:     s.Economy.HasData(ctx, guildID),
		Levels:      s.Leveling.HasData(ctx, guildID),
		Moderation:  s.Moderation.LogChannel(ctx, guildID) != "",
		Announcer:   s.Announcer.Channel(ctx, guildID) != "",
		ServerStats: s.Stats.IsSetUp(ctx, guildID),
	}
	if channels, err := s.Counting.Channels(ctx, guildID); err == nil {
		st.Counting = len(channels) > 0
	}
	if cfg, err := s.Tickets.Settings(ctx, guildID); err == nil {
		st.Tickets = cfg.CategoryID != "" || len(cfg.SupportRoleIDs) > 0
	}
	if panels, err := s.SelfRoles.Panels(ctx, guildID); err == nil {
		st.SelfRoles = len(panels) > 0
	}
	if _, err := s.TempVoice.Settings(ctx, guildID); err == nil {
		st.TempVoice = true
	}
	if cfg, err := s.Captcha.Settings(ctx, guildID); err == nil {
		st.Captcha = cfg.Enabled
	}
	if locked, err := s.Locker.Locked(ctx, guildID); err == nil {
		st.Locker = len(locked) > 0
	}
	if channels, err := s.Assistant.Channels(ctx, guildID); err == nil {
		st.Assistant = len(channels) > 0
	}
	if cfg, err := s.Welcome.Settings(ctx, guildID); err == nil {
		st.Welcome = cfg.Enabled && cfg.ChannelID != ""
	}
	return st
}
