// Package moderation records moderation cases per guild and provides the
// helpers the mod commands share (durations, colours, titles).
package moderation

import (
	"context"
	"sort"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
)

const DocumentName = "moderation"

var ErrCaseNotFound = errors.Sentinel("caso no encontrado")

// Colors per action type, used by the log embeds.
const (
	colorGold       = 0xF1C40F
	colorOrange     = 0xE67E22
	colorDarkOrange = 0xA84300
	colorRed        = 0xE74C3C
	colorGreen      = 0x2ECC71
	colorBlurple    = 0x5865F2
)

// ActionColor returns the embed colour of an action type.
func ActionColor(action string) int {
	switch action {
	case models.ActionWarn:
		return colorGold
	case models.ActionMute:
		return colorOrange
	case models.ActionKick:
		return colorDarkOrange
	case models.ActionBan:
		return colorRed
	case models.ActionUnban, models.ActionUnmute:
		return colorGreen
	}
	return colorBlurple
}

var titles = map[string]string{
	models.ActionWarn:   "⚠️ Advertencia",
	models.ActionMute:   "🔇 Silencio",
	models.ActionKick:   "👢 Expulsión",
	models.ActionBan:    "🔨 Baneo",
	models.ActionUnban:  "🔓 Desbaneo",
	models.ActionUnmute: "🔊 Fin del silencio",
}

// ActionTitle returns the readable title of an action type.
func ActionTitle(action string) string {
	if t, ok := titles[action]; ok {
		return t
	}
	return action
}

// Service owns the moderation document.
type Service struct {
	doc    *database.Document[models.ModerationDocument]
	events mqtt.Emitter
	now    func() time.Time
}

// NewService creates the moderation service. events may be nil.
func NewService(store database.Store, events mqtt.Emitter) *Service {
	return &Service{
		doc:    database.NewDocument(store, DocumentName, models.NewModerationDocument),
		events: events,
		now:    time.Now,
	}
}

// SetLogChannel sets where case embeds are posted.
func (s *Service) SetLogChannel(ctx context.Context, guildID, channelID string) error {
	return s.doc.Update(ctx, func(d *models.ModerationDocument) error {
		d.LogChannels[guildID] = channelID
		return nil
	})
}

// LogChannel returns the mod log channel, empty when unset.
func (s *Service) LogChannel(ctx context.Context, guildID string) string {
	var id string
	_ = s.doc.View(ctx, func(d *models.ModerationDocument) error {
		id = d.LogChannels[guildID]
		return nil
	})
	return id
}

// Draft builds an action that has not happened yet. It carries no case id and
// nothing is stored or published.
func (s *Service) Draft(guildID, actionType, userID, moderatorID, reason string, duration *int64) models.ModAction {
	if reason == "" {
		reason = "Sin motivo"
	}
	return models.ModAction{
		ActionType:  actionType,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		Timestamp:   s.now().Unix(),
		Duration:    duration,
		GuildID:     guildID,
	}
}

// Commit stores a drafted action under the next case id of its guild and
// publishes it.
func (s *Service) Commit(ctx context.Context, draft models.ModAction) (models.ModAction, error) {
	action := draft
	err := s.doc.Update(ctx, func(d *models.ModerationDocument) error {
		d.CaseCounts[action.GuildID]++
		action.CaseID = d.CaseCounts[action.GuildID]
		d.Actions[action.GuildID] = append(d.Actions[action.GuildID], action)
		return nil
	})
	if err != nil {
		return models.ModAction{}, err
	}
	if s.events != nil {
		s.events.Emit(action.GuildID, "mod_action", action)
	}
	return action, nil
}

// Record stores a new case, assigning the next case id of the guild.
func (s *Service) Record(ctx context.Context, guildID, actionType, userID, moderatorID, reason string, duration *int64) (models.ModAction, error) {
	return s.Commit(ctx, s.Draft(guildID, actionType, userID, moderatorID, reason, duration))
}

// UserActions returns the cases of a member, oldest first.
func (s *Service) UserActions(ctx context.Context, guildID, userID string) ([]models.ModAction, error) {
	var out []models.ModAction
	err := s.doc.View(ctx, func(d *models.ModerationDocument) error {
		for _, a := range d.Actions[guildID] {
			if a.UserID == userID {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}

// Cases returns the most recent cases of a guild, newest first.
func (s *Service) Cases(ctx context.Context, guildID string, limit int) ([]models.ModAction, error) {
	var out []models.ModAction
	err := s.doc.View(ctx, func(d *models.ModerationDocument) error {
		out = append(out, d.Actions[guildID]...)
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CaseID > out[j].CaseID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

// RemoveCase deletes a case. Case ids are never reused.
func (s *Service) RemoveCase(ctx context.Context, guildID string, caseID int) (models.ModAction, error) {
	var removed models.ModAction
	err := s.doc.Update(ctx, func(d *models.ModerationDocument) error {
		actions := d.Actions[guildID]
		for i, a := range actions {
			if a.CaseID == caseID {
				removed = a
				d.Actions[guildID] = append(actions[:i:i], actions[i+1:]...)
				return nil
			}
		}
		return ErrCaseNotFound
	})
	return removed, err
}
