// Package announcer reposts shared YouTube, Twitch and TikTok links to an
// announcement channel and polls TikTok creators for new uploads.
package announcer

import (
	"context"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
)

const (
	DocumentName = "content_announcer"
	PollInterval = 30 * time.Minute
)

var (
	ErrChannelNotSet   = errors.Sentinel("primero configura el canal de anuncios")
	ErrCreatorExists   = errors.Sentinel("ese creador ya está en la lista")
	ErrCreatorNotFound = errors.Sentinel("ese creador no está en la lista")
	ErrInvalidUsername = errors.Sentinel("nombre de usuario de TikTok inválido")
)

// CleanUsername strips the leading @ and validates the characters TikTok allows.
func CleanUsername(raw string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(raw), "@")
	if name == "" || len(name) > 24 {
		return "", ErrInvalidUsername
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '.') {
			return "", ErrInvalidUsername
		}
	}
	return name, nil
}

// Watch is a creator together with the channel its uploads go to.
type Watch struct {
	GuildID   string
	ChannelID string
	Creator   models.TikTokCreator
}

type Service struct {
	doc *database.Document[models.AnnouncerDocument]
}

func NewService(store database.Store) *Service {
	return &Service{doc: database.NewDocument(store, DocumentName, models.NewAnnouncerDocument)}
}

// SetChannel sets the announcement channel of a guild.
func (s *Service) SetChannel(ctx context.Context, guildID, channelID string) error {
	return s.doc.Update(ctx, func(d *models.AnnouncerDocument) error {
		d.Guild(guildID).AnnouncementChannelID = channelID
		return nil
	})
}

// RemoveChannel disables announcements; the creator list is kept.
func (s *Service) RemoveChannel(ctx context.Context, guildID string) error {
	return s.doc.Update(ctx, func(d *models.AnnouncerDocument) error {
		g, ok := d.Guilds[guildID]
		if !ok || g.AnnouncementChannelID == "" {
			return ErrChannelNotSet
		}
		g.AnnouncementChannelID = ""
		return nil
	})
}

// Channel returns the announcement channel, empty when unset.
func (s *Service) Channel(ctx context.Context, guildID string) string {
	var id string
	_ = s.doc.View(ctx, func(d *models.AnnouncerDocument) error {
		if g, ok := d.Guilds[guildID]; ok {
			id = g.AnnouncementChannelID
		}
		return nil
	})
	return id
}

// AddCreator starts watching a TikTok profile. lastVideoID is the newest
// upload at the time it was added, if known.
func (s *Service) AddCreator(ctx context.Context, guildID, username, addedBy, lastVideoID string) error {
	return s.doc.Update(ctx, func(d *models.AnnouncerDocument) error {
		g, ok := d.Guilds[guildID]
		if !ok || g.AnnouncementChannelID == "" {
			return ErrChannelNotSet
		}
		for _, c := range g.TikTokCreators {
			if strings.EqualFold(c.Username, username) {
				return ErrCreatorExists
			}
		}
		g.TikTokCreators = append(g.TikTokCreators, &models.TikTokCreator{
			Username:    username,
			LastVideoID: lastVideoID,
			AddedBy:     addedBy,
		})
		return nil
	})
}

// RemoveCreator stops watching a profile.
func (s *Service) RemoveCreator(ctx context.Context, guildID, username string) error {
	return s.doc.Update(ctx, func(d *models.AnnouncerDocument) error {
		g, ok := d.Guilds[guildID]
		if !ok {
			return ErrCreatorNotFound
		}
		for i, c := range g.TikTokCreators {
			if strings.EqualFold(c.Username, username) {
				g.TikTokCreators = append(g.TikTokCreators[:i], g.TikTokCreators[i+1:]...)
				return nil
			}
		}
		return ErrCreatorNotFound
	})
}

// Creators lists the watched profiles of a guild.
func (s *Service) Creators(ctx context.Context, guildID string) ([]models.TikTokCreator, error) {
	var out []models.TikTokCreator
	err := s.doc.View(ctx, func(d *models.AnnouncerDocument) error {
		if g, ok := d.Guilds[guildID]; ok {
			for _, c := range g.TikTokCreators {
				out = append(out, *c)
			}
		}
		return nil
	})
	return out, err
}

// Watches lists every creator of every guild with an announcement channel.
func (s *Service) Watches(ctx context.Context) ([]Watch, error) {
	var out []Watch
	err := s.doc.View(ctx, func(d *models.AnnouncerDocument) error {
		for guildID, g := range d.Guilds {
			if g.AnnouncementChannelID == "" {
				continue
			}
			for _, c := range g.TikTokCreators {
				out = append(out, Watch{GuildID: guildID, ChannelID: g.AnnouncementChannelID, Creator: *c})
			}
		}
		return nil
	})
	return out, err
}

// SetLastVideo records the newest video seen for a creator.
func (s *Service) SetLastVideo(ctx context.Context, guildID, username, videoID string) error {
	return s.doc.Update(ctx, func(d *models.AnnouncerDocument) error {
		g, ok := d.Guilds[guildID]
		if !ok {
			return ErrCreatorNotFound
		}
		for _, c := range g.TikTokCreators {
			if strings.EqualFold(c.Username, username) {
				c.LastVideoID = videoID
				return nil
			}
		}
		return ErrCreatorNotFound
	})
}

// Check scrapes one creator and returns the uploads to announce, oldest
// first, updating the stored last video id.
func (s *Service) Check(ctx context.Context, scraper *Scraper, w Watch) ([]string, error) {
	ids, err := scraper.Videos(ctx, w.Creator.Username)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	fresh := NewVideos(ids, w.Creator.LastVideoID)
	if ids[0] != w.Creator.LastVideoID {
		if err := s.SetLastVideo(ctx, w.GuildID, w.Creator.Username, ids[0]); err != nil {
			return nil, err
		}
	}
	for i, j := 0, len(fresh)-1; i < j; i, j = i+1, j-1 {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	}
	return fresh, nil
}
