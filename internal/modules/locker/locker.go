// Package locker keeps the record of locked text channels and the
// permission state needed to restore them.
package locker

import (
	"context"
	"sort"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

const (
	DocumentName  = "locked_channels"
	DefaultReason = "Sin motivo"
	CheckInterval = 5 * time.Minute
)

var (
	ErrAlreadyLocked = errors.Sentinel("el canal ya está bloqueado")
	ErrNotLocked     = errors.Sentinel("el canal no está bloqueado")
	ErrInvalidDate   = errors.Sentinel("formato de fecha inválido, usa DD.MM.YYYY o DD.MM.YYYY HH:MM")
	ErrDateInPast    = errors.Sentinel("la fecha de desbloqueo debe estar en el futuro")
)

var dateLayouts = []string{"02.01.2006 15:04", "02.01.2006"}

// ParseUnlockDate reads a date typed by a moderator in loc.
func ParseUnlockDate(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.Join(strings.Fields(input), " ")
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, input, loc)
		if err != nil {
			continue
		}
		if !t.After(now) {
			return time.Time{}, ErrDateInPast
		}
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// SendState reads the send-messages bit of an overwrite: true when allowed,
// false when denied and nil when inherited.
func SendState(allow, deny int64) *bool {
	switch {
	case allow&discordgo.PermissionSendMessages != 0:
		v := true
		return &v
	case deny&discordgo.PermissionSendMessages != 0:
		v := false
		return &v
	}
	return nil
}

// WithSendState returns allow and deny with the send-messages bit set to state.
func WithSendState(allow, deny int64, state *bool) (int64, int64) {
	allow &^= discordgo.PermissionSendMessages
	deny &^= discordgo.PermissionSendMessages
	if state != nil {
		if *state {
			allow |= discordgo.PermissionSendMessages
		} else {
			deny |= discordgo.PermissionSendMessages
		}
	}
	return allow, deny
}

// Lock describes a new lock.
type Lock struct {
	Original map[string]*bool
	Reason   string
	Until    *time.Time
	By       string
}

// Entry is one locked channel of a guild.
type Entry struct {
	ChannelID string
	models.LockedChannel
}

// Due is a timed lock whose unlock date has passed.
type Due struct {
	GuildID   string
	ChannelID string
}

type Service struct {
	doc    *database.Document[models.LockedChannelsDocument]
	events mqtt.Emitter
}

func NewService(store database.Store, events mqtt.Emitter) *Service {
	return &Service{
		doc:    database.NewDocument(store, DocumentName, models.NewLockedChannelsDocument),
		events: events,
	}
}

// Lock records a channel as locked.
func (s *Service) Lock(ctx context.Context, guildID, channelID string, l Lock, now time.Time) (models.LockedChannel, error) {
	if strings.TrimSpace(l.Reason) == "" {
		l.Reason = DefaultReason
	}
	var out models.LockedChannel
	err := s.doc.Update(ctx, func(d *models.LockedChannelsDocument) error {
		guild, ok := d.Guilds[guildID]
		if !ok {
			guild = make(map[string]*models.LockedChannel)
			d.Guilds[guildID] = guild
		}
		if _, locked := guild[channelID]; locked {
			return ErrAlreadyLocked
		}
		original := make(map[string]*bool, len(l.Original))
		for id, v := range l.Original {
			original[id] = v
		}
		rec := &models.LockedChannel{
			OriginalPermissions: original,
			Reason:              l.Reason,
			LockedAt:            now.Unix(),
			LockedBy:            l.By,
		}
		if l.Until != nil {
			ts := l.Until.Unix()
			rec.UnlockDate = &ts
		}
		guild[channelID] = rec
		out = *rec
		return nil
	})
	if err == nil && s.events != nil {
		s.events.Emit(guildID, "channel_locked", map[string]interface{}{
			"channel_id": channelID,
			"reason":     out.Reason,
			"until":      out.UnlockDate,
		})
	}
	return out, err
}

// Unlock forgets a lock and returns it so the caller can restore permissions.
func (s *Service) Unlock(ctx context.Context, guildID, channelID string) (models.LockedChannel, error) {
	var out models.LockedChannel
	err := s.doc.Update(ctx, func(d *models.LockedChannelsDocument) error {
		rec, ok := d.Guilds[guildID][channelID]
		if !ok {
			return ErrNotLocked
		}
		out = *rec
		delete(d.Guilds[guildID], channelID)
		if len(d.Guilds[guildID]) == 0 {
			delete(d.Guilds, guildID)
		}
		return nil
	})
	if err == nil && s.events != nil {
		s.events.Emit(guildID, "channel_unlocked", map[string]string{"channel_id": channelID})
	}
	return out, err
}

// IsLocked reports whether the channel has a lock record.
func (s *Service) IsLocked(ctx context.Context, guildID, channelID string) bool {
	locked := false
	_ = s.doc.View(ctx, func(d *models.LockedChannelsDocument) error {
		_, locked = d.Guilds[guildID][channelID]
		return nil
	})
	return locked
}

// Locked lists the locked channels of a guild, oldest lock first.
func (s *Service) Locked(ctx context.Context, guildID string) ([]Entry, error) {
	var out []Entry
	err := s.doc.View(ctx, func(d *models.LockedChannelsDocument) error {
		for id, rec := range d.Guilds[guildID] {
			out = append(out, Entry{ChannelID: id, LockedChannel: *rec})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].LockedAt == out[j].LockedAt {
			return out[i].ChannelID < out[j].ChannelID
		}
		return out[i].LockedAt < out[j].LockedAt
	})
	return out, err
}

// Due lists the timed locks that should be lifted at now.
func (s *Service) Due(ctx context.Context, now time.Time) ([]Due, error) {
	var out []Due
	err := s.doc.View(ctx, func(d *models.LockedChannelsDocument) error {
		for guildID, channels := range d.Guilds {
			for channelID, rec := range channels {
				if rec.UnlockDate != nil && *rec.UnlockDate <= now.Unix() {
					out = append(out, Due{GuildID: guildID, ChannelID: channelID})
				}
			}
		}
		return nil
	})
	return out, err
}
