// Package counting runs the counting game: members post consecutive numbers
// in a channel and a mistake resets the run.
package counting

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
)

const DocumentName = "counting"

var ErrNotConfigured = errors.Sentinel("no hay ningún juego de contar en este canal")

// Outcome classifies a message posted in a counting channel.
type Outcome int

const (
	// Ignored covers non counting channels and messages that are not integers.
	Ignored Outcome = iota
	Correct
	DoubleCount
	WrongNumber
)

// Result describes what a message did to the game.
type Result struct {
	Outcome      Outcome
	Expected     int64
	Given        int64
	Reached      int64
	HighScore    int64
	NewHighScore bool
}

type Service struct {
	doc    *database.Document[models.CountingDocument]
	events mqtt.Emitter
}

// NewService creates the counting service. events may be nil.
func NewService(store database.Store, events mqtt.Emitter) *Service {
	return &Service{
		doc:    database.NewDocument(store, DocumentName, models.NewCountingDocument),
		events: events,
	}
}

// HandleMessage applies a message to the game of its channel.
func (s *Service) HandleMessage(ctx context.Context, channelID, userID, content string) (Result, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
	if err != nil {
		return Result{Outcome: Ignored}, nil
	}

	var res Result
	var guildID string
	err = s.doc.Update(ctx, func(d *models.CountingDocument) error {
		ch, ok := d.Channels[channelID]
		if !ok {
			res.Outcome = Ignored
			return errSkip
		}
		guildID = ch.GuildID
		res.Expected = ch.CurrentCount + 1
		res.Given = n

		sameUser := ch.LastUserID != nil && *ch.LastUserID == userID
		if n == res.Expected && !sameUser {
			if n == 1 {
				ch.RunStartHigh = ch.HighScore
			}
			ch.CurrentCount = n
			uid := userID
			ch.LastUserID = &uid
			if n > ch.HighScore {
				ch.HighScore = n
			}
			res.Outcome = Correct
			res.Reached = n
			res.HighScore = ch.HighScore
			return nil
		}

		if n == res.Expected {
			res.Outcome = DoubleCount
		} else {
			res.Outcome = WrongNumber
		}
		res.Reached = ch.CurrentCount
		res.NewHighScore = ch.CurrentCount > ch.RunStartHigh && ch.CurrentCount > 0
		if ch.CurrentCount > ch.HighScore {
			ch.HighScore = ch.CurrentCount
		}
		res.HighScore = ch.HighScore
		ch.CurrentCount = 0
		ch.LastUserID = nil
		ch.RunStartHigh = ch.HighScore
		return nil
	})
	if errors.Is(err, errSkip) {
		return res, nil
	}
	if err != nil {
		return Result{}, err
	}

	if res.Outcome != Correct && s.events != nil {
		s.events.Emit(guildID, "counting_reset", map[string]interface{}{
			"channelId": channelID,
			"userId":    userID,
			"reached":   res.Reached,
			"highScore": res.HighScore,
		})
	}
	return res, nil
}

// errSkip aborts an Update without persisting.
var errSkip = errors.Sentinel("skip")

// Setup starts a fresh game in a channel, replacing any existing one.
func (s *Service) Setup(ctx context.Context, guildID, channelID string) error {
	return s.doc.Update(ctx, func(d *models.CountingDocument) error {
		d.Channels[channelID] = &models.CountingChannel{GuildID: guildID}
		return nil
	})
}

// Reset sets the count back to 0 keeping the best run.
func (s *Service) Reset(ctx context.Context, channelID string) (models.CountingChannel, error) {
	var out models.CountingChannel
	err := s.doc.Update(ctx, func(d *models.CountingDocument) error {
		ch, ok := d.Channels[channelID]
		if !ok {
			return ErrNotConfigured
		}
		if ch.CurrentCount > ch.HighScore {
			ch.HighScore = ch.CurrentCount
		}
		ch.CurrentCount = 0
		ch.LastUserID = nil
		ch.RunStartHigh = ch.HighScore
		out = *ch
		return nil
	})
	return out, err
}

// Delete removes the game from a channel.
func (s *Service) Delete(ctx context.Context, channelID string) error {
	return s.doc.Update(ctx, func(d *models.CountingDocument) error {
		if _, ok := d.Channels[channelID]; !ok {
			return ErrNotConfigured
		}
		delete(d.Channels, channelID)
		return nil
	})
}

// Status returns the game state of a channel.
func (s *Service) Status(ctx context.Context, channelID string) (models.CountingChannel, error) {
	var out models.CountingChannel
	err := s.doc.View(ctx, func(d *models.CountingDocument) error {
		ch, ok := d.Channels[channelID]
		if !ok {
			return ErrNotConfigured
		}
		out = *ch
		return nil
	})
	return out, err
}

// ChannelStatus pairs a channel id with its state.
type ChannelStatus struct {
	ChannelID string                 `json:"channelId"`
	State     models.CountingChannel `json:"state"`
}

// Channels lists the games of a guild.
func (s *Service) Channels(ctx context.Context, guildID string) ([]ChannelStatus, error) {
	var out []ChannelStatus
	err := s.doc.View(ctx, func(d *models.CountingDocument) error {
		for id, ch := range d.Channels {
			if ch.GuildID == guildID {
				out = append(out, ChannelStatus{ChannelID: id, State: *ch})
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out, err
}
