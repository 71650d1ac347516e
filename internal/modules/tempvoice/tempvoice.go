// Package tempvoice tracks on-demand voice channels: joining a hub channel
// creates a personal channel that is deleted once it is empty.
package tempvoice

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
)

const DocumentName = "temp_voice"

var (
	ErrNotConfigured = errors.Sentinel("las salas de voz temporales no están configuradas")
	ErrNotTracked    = errors.Sentinel("este canal no es una sala temporal")
	ErrInvalidLimit  = errors.Sentinel("el límite debe estar entre 0 y 99")
)

// Hub is a join-to-create channel.
type Hub struct {
	Name    string
	Keyword string
	Emoji   string
	Suffix  string
}

// Hubs are created by setup in this order.
var Hubs = []Hub{
	{"🎮 Tempvoice: Gaming", "gaming", "🎮", "Gaming"},
	{"🎵 Tempvoice: Música", "música", "🎵", "Música"},
	{"🎲 Tempvoice: General", "general", "🎲", "Canal"},
	{"👥 Tempvoice: Privado", "privado", "👥", "Privado"},
}

// ChannelName builds the name of the channel created from a hub.
func ChannelName(hubName, displayName string) string {
	lower := strings.ToLower(hubName)
	for _, h := range Hubs {
		if strings.Contains(lower, h.Keyword) {
			return fmt.Sprintf("%s %s's %s", h.Emoji, displayName, h.Suffix)
		}
	}
	return displayName + "'s Canal"
}

// ParseLimit validates a user limit typed in the control panel modal.
func ParseLimit(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 || n > 99 {
		return 0, ErrInvalidLimit
	}
	return n, nil
}

type Service struct {
	doc *database.Document[models.TempVoiceDocument]
}

func NewService(store database.Store) *Service {
	return &Service{doc: database.NewDocument(store, DocumentName, models.NewTempVoiceDocument)}
}

// Configure stores the hubs of a guild.
func (s *Service) Configure(ctx context.Context, guildID string, settings models.TempVoiceSettings) error {
	return s.doc.Update(ctx, func(d *models.TempVoiceDocument) error {
		cp := settings
		cp.CreateChannels = append([]string{}, settings.CreateChannels...)
		d.Settings[guildID] = &cp
		return nil
	})
}

// Settings returns the guild configuration.
func (s *Service) Settings(ctx context.Context, guildID string) (models.TempVoiceSettings, error) {
	var out models.TempVoiceSettings
	err := s.doc.View(ctx, func(d *models.TempVoiceDocument) error {
		cfg, ok := d.Settings[guildID]
		if !ok {
			return ErrNotConfigured
		}
		out = *cfg
		out.CreateChannels = append([]string{}, cfg.CreateChannels...)
		return nil
	})
	return out, err
}

// IsHub reports whether channelID is a join-to-create channel of the guild.
func (s *Service) IsHub(ctx context.Context, guildID, channelID string) bool {
	found := false
	_ = s.doc.View(ctx, func(d *models.TempVoiceDocument) error {
		if cfg, ok := d.Settings[guildID]; ok {
			for _, id := range cfg.CreateChannels {
				if id == channelID {
					found = true
				}
			}
		}
		return nil
	})
	return found
}

// Track records a created channel.
func (s *Service) Track(ctx context.Context, guildID, channelID, ownerID string, now time.Time) error {
	return s.doc.Update(ctx, func(d *models.TempVoiceDocument) error {
		d.TempChannels[channelID] = &models.TempChannel{OwnerID: ownerID, GuildID: guildID, CreatedAt: now.Unix()}
		return nil
	})
}

// Untrack forgets a channel. Forgetting an unknown channel is a no-op.
func (s *Service) Untrack(ctx context.Context, channelID string) error {
	err := s.doc.Update(ctx, func(d *models.TempVoiceDocument) error {
		if _, ok := d.TempChannels[channelID]; !ok {
			return errSkip
		}
		delete(d.TempChannels, channelID)
		return nil
	})
	if errors.Is(err, errSkip) {
		return nil
	}
	return err
}

// errSkip aborts an Update without persisting.
var errSkip = errors.Sentinel("skip")

// Channel returns the tracked entry of a channel.
func (s *Service) Channel(ctx context.Context, channelID string) (models.TempChannel, error) {
	var out models.TempChannel
	err := s.doc.View(ctx, func(d *models.TempVoiceDocument) error {
		tc, ok := d.TempChannels[channelID]
		if !ok {
			return ErrNotTracked
		}
		out = *tc
		return nil
	})
	return out, err
}

// SetOwner hands a channel over to another member.
func (s *Service) SetOwner(ctx context.Context, channelID, ownerID string) error {
	return s.doc.Update(ctx, func(d *models.TempVoiceDocument) error {
		tc, ok := d.TempChannels[channelID]
		if !ok {
			return ErrNotTracked
		}
		tc.OwnerID = ownerID
		return nil
	})
}

// Tracked returns every tracked channel id with its entry.
func (s *Service) Tracked(ctx context.Context) (map[string]models.TempChannel, error) {
	out := make(map[string]models.TempChannel)
	err := s.doc.View(ctx, func(d *models.TempVoiceDocument) error {
		for id, tc := range d.TempChannels {
			out[id] = *tc
		}
		return nil
	})
	return out, err
}

// Remove drops the guild configuration and its tracked channels and returns
// both so the caller can delete them from Discord.
func (s *Service) Remove(ctx context.Context, guildID string) (models.TempVoiceSettings, []string, error) {
	var cfg models.TempVoiceSettings
	var channels []string
	err := s.doc.Update(ctx, func(d *models.TempVoiceDocument) error {
		c, ok := d.Settings[guildID]
		if !ok {
			return ErrNotConfigured
		}
		cfg = *c
		delete(d.Settings, guildID)
		for id, tc := range d.TempChannels {
			if tc.GuildID == guildID {
				channels = append(channels, id)
				delete(d.TempChannels, id)
			}
		}
		return nil
	})
	return cfg, channels, err
}
