// Package stats keeps voice channels renamed to live server figures.
package stats

import (
	"context"
	"fmt"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/dustin/go-humanize"
)

const (
	DocumentName   = "server_stats"
	CategoryName   = "📊 Estadísticas"
	UpdateInterval = 300 * time.Second
)

var (
	ErrAlreadySetUp = errors.Sentinel("las estadísticas ya están configuradas en este servidor")
	ErrNotSetUp     = errors.Sentinel("las estadísticas no están configuradas en este servidor")
)

// Figures are the live numbers of a guild.
type Figures struct {
	Members        int       `json:"members"`
	Online         int       `json:"online"`
	TextChannels   int       `json:"text_channels"`
	VoiceChannels  int       `json:"voice_channels"`
	CreatedAt      time.Time `json:"created_at"`
	TopRoleName    string    `json:"top_role_name,omitempty"`
	TopRoleMembers int       `json:"top_role_members"`
	Boosts         int       `json:"boosts"`
	BoostLevel     int       `json:"boost_level"`
	Emojis         int       `json:"emojis"`
	Roles          int       `json:"roles"`
}

// Counter identifies one stats channel.
type Counter int

const (
	Members Counter = iota
	Online
	TextChannels
	VoiceChannels
	Age
	TopRole
	BoostCount
	BoostLevel
	EmojiCount
	RolesCount
)

// Counters lists every counter in channel order.
var Counters = []Counter{Members, Online, TextChannels, VoiceChannels, Age, TopRole, BoostCount, BoostLevel, EmojiCount, RolesCount}

// Label renders the channel name of a counter.
func Label(c Counter, f Figures, now time.Time) string {
	switch c {
	case Members:
		return "👥 Miembros: " + humanize.Comma(int64(f.Members))
	case Online:
		return fmt.Sprintf("🟢 En línea: %d", f.Online)
	case TextChannels:
		return fmt.Sprintf("💬 Canales de texto: %d", f.TextChannels)
	case VoiceChannels:
		return fmt.Sprintf("🔊 Canales de voz: %d", f.VoiceChannels)
	case Age:
		days := 0
		if !f.CreatedAt.IsZero() && now.After(f.CreatedAt) {
			days = int(now.Sub(f.CreatedAt).Hours() / 24)
		}
		return fmt.Sprintf("📅 Edad: %d días", days)
	case TopRole:
		if f.TopRoleName == "" {
			return "👑 Rol top: ninguno"
		}
		return fmt.Sprintf("👑 %s: %d", f.TopRoleName, f.TopRoleMembers)
	case BoostCount:
		return fmt.Sprintf("🚀 Boosts: %d", f.Boosts)
	case BoostLevel:
		return fmt.Sprintf("⭐ Nivel de boost: %d", f.BoostLevel)
	case EmojiCount:
		return fmt.Sprintf("😀 Emojis: %d", f.Emojis)
	case RolesCount:
		return fmt.Sprintf("🎭 Roles: %d", f.Roles)
	}
	return ""
}

// Slot returns the stored channel id field of a counter.
func Slot(sc *models.StatsChannels, c Counter) *string {
	switch c {
	case Members:
		return &sc.MemberCountID
	case Online:
		return &sc.OnlineCountID
	case TextChannels:
		return &sc.TextChannelsID
	case VoiceChannels:
		return &sc.VoiceChannelsID
	case Age:
		return &sc.AgeID
	case TopRole:
		return &sc.TopRoleID
	case BoostCount:
		return &sc.BoostCountID
	case BoostLevel:
		return &sc.BoostLevelID
	case EmojiCount:
		return &sc.EmojiCountID
	case RolesCount:
		return &sc.RolesCountID
	}
	return nil
}

// ChannelIDs returns the counter channels followed by the category.
func ChannelIDs(sc models.StatsChannels) []string {
	var ids []string
	for _, c := range Counters {
		if id := *Slot(&sc, c); id != "" {
			ids = append(ids, id)
		}
	}
	if sc.CategoryID != "" {
		ids = append(ids, sc.CategoryID)
	}
	return ids
}

// Rename is a channel whose label changed.
type Rename struct {
	ChannelID string
	Name      string
}

// Changes compares current channel names with fresh labels. Channels missing
// from current are skipped.
func Changes(sc models.StatsChannels, current map[string]string, f Figures, now time.Time) []Rename {
	var out []Rename
	for _, c := range Counters {
		id := *Slot(&sc, c)
		if id == "" {
			continue
		}
		name, ok := current[id]
		if !ok {
			continue
		}
		if label := Label(c, f, now); label != name {
			out = append(out, Rename{ChannelID: id, Name: label})
		}
	}
	return out
}

type Service struct {
	doc *database.Document[models.ServerStatsDocument]
}

func NewService(store database.Store) *Service {
	return &Service{doc: database.NewDocument(store, DocumentName, models.NewServerStatsDocument)}
}

// Setup stores the channels created for a guild.
func (s *Service) Setup(ctx context.Context, guildID string, sc models.StatsChannels) error {
	return s.doc.Update(ctx, func(d *models.ServerStatsDocument) error {
		if _, ok := d.StatsChannels[guildID]; ok {
			return ErrAlreadySetUp
		}
		cp := sc
		d.StatsChannels[guildID] = &cp
		return nil
	})
}

// IsSetUp reports whether the guild has stats channels.
func (s *Service) IsSetUp(ctx context.Context, guildID string) bool {
	found := false
	_ = s.doc.View(ctx, func(d *models.ServerStatsDocument) error {
		_, found = d.StatsChannels[guildID]
		return nil
	})
	return found
}

// Remove forgets the guild and returns its channels.
func (s *Service) Remove(ctx context.Context, guildID string) (models.StatsChannels, error) {
	var out models.StatsChannels
	err := s.doc.Update(ctx, func(d *models.ServerStatsDocument) error {
		sc, ok := d.StatsChannels[guildID]
		if !ok {
			return ErrNotSetUp
		}
		out = *sc
		delete(d.StatsChannels, guildID)
		return nil
	})
	return out, err
}

// All returns the channels of every configured guild.
func (s *Service) All(ctx context.Context) (map[string]models.StatsChannels, error) {
	out := make(map[string]models.StatsChannels)
	err := s.doc.View(ctx, func(d *models.ServerStatsDocument) error {
		for id, sc := range d.StatsChannels {
			out[id] = *sc
		}
		return nil
	})
	return out, err
}
