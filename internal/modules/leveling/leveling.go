// Package leveling awards XP for chat activity and tracks levels, ranks and
// level role milestones per guild.
package leveling

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
)

const (
	DocumentName = "levels"
	// XPCooldown is the minimum time between two XP grants for the same member.
	XPCooldown = 60 * time.Second
	barWidth   = 15
)

var (
	ErrInvalidLevel   = errors.Sentinel("el nivel debe ser mayor que 0")
	ErrInvalidXPRange = errors.Sentinel("rango de XP inválido: el mínimo debe ser al menos 1 y no superar al máximo")
	ErrEmptyRoleName  = errors.Sentinel("el nombre del rol no puede estar vacío")
)

// XPForLevel returns the XP needed to go from level-1 to level.
func XPForLevel(level int) int64 {
	return 100 * int64(level) * int64(level)
}

// Service owns the levels document.
type Service struct {
	doc       *database.Document[models.LevelsDocument]
	rng       randutil.Source
	events    mqtt.Emitter
	cooldowns *cache.Cache
	validate  *validator.Validate
}

// NewService creates the leveling service. events may be nil.
func NewService(store database.Store, rng randutil.Source, events mqtt.Emitter) *Service {
	return &Service{
		doc:       database.NewDocument(store, DocumentName, models.NewLevelsDocument),
		rng:       rng,
		events:    events,
		cooldowns: cache.New(XPCooldown, 2*XPCooldown),
		validate:  validator.New(),
	}
}

// XPResult is the outcome of one message.
type XPResult struct {
	Awarded   bool
	Earned    int64
	LeveledUp bool
	Level     int
	XP        int64
	// RoleName is the highest milestone role reached, set only on level up.
	RoleName string
}

// AddMessageXP grants random XP for a message unless the member is on cooldown.
func (s *Service) AddMessageXP(ctx context.Context, guildID, userID string) (XPResult, error) {
	var res XPResult
	key := guildID + ":" + userID
	if err := s.cooldowns.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
		return res, nil
	}

	err := s.doc.Update(ctx, func(d *models.LevelsDocument) error {
		g := d.Guild(guildID)
		u := g.User(userID)

		res.Awarded = true
		res.Earned = randutil.Between(s.rng, g.XPPerMessage.Min, g.XPPerMessage.Max)
		u.XP += res.Earned

		if needed := XPForLevel(u.Level + 1); u.XP >= needed {
			u.Level++
			u.XP -= needed
			res.LeveledUp = true
			if _, name, ok := RoleForLevel(g.Roles, u.Level); ok {
				res.RoleName = name
			}
		}
		res.Level = u.Level
		res.XP = u.XP
		return nil
	})
	if err != nil {
		s.cooldowns.Delete(key)
		return XPResult{}, err
	}

	if res.LeveledUp && s.events != nil {
		s.events.Emit(guildID, "level_up", map[string]interface{}{"userId": userID, "level": res.Level})
	}
	return res, nil
}

type milestone struct {
	level int
	name  string
}

func milestones(roles map[string]string) []milestone {
	list := make([]milestone, 0, len(roles))
	for k, name := range roles {
		lvl, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		list = append(list, milestone{lvl, name})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].level < list[j].level })
	return list
}

// RoleForLevel returns the highest milestone whose threshold is at most level.
func RoleForLevel(roles map[string]string, level int) (int, string, bool) {
	var best *milestone
	for _, m := range milestones(roles) {
		if m.level <= level {
			m := m
			best = &m
		}
	}
	if best == nil {
		return 0, "", false
	}
	return best.level, best.name, true
}

// NextRole returns the first milestone above level.
func NextRole(roles map[string]string, level int) (int, string, bool) {
	for _, m := range milestones(roles) {
		if m.level > level {
			return m.level, m.name, true
		}
	}
	return 0, "", false
}

// ProgressBar renders xp/needed as a 15 segment bar.
func ProgressBar(xp, needed int64) string {
	filled := 0
	if needed > 0 {
		filled = int(xp * barWidth / needed)
	}
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", barWidth-filled)
}

// Entry is one member in the ranking.
type Entry struct {
	UserID string `json:"userId"`
	Level  int    `json:"level"`
	XP     int64  `json:"xp"`
	Needed int64  `json:"needed"`
}

func ranking(g *models.LevelGuild) []Entry {
	entries := make([]Entry, 0, len(g.Users))
	for id, u := range g.Users {
		entries = append(entries, Entry{UserID: id, Level: u.Level, XP: u.XP, Needed: XPForLevel(u.Level + 1)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Level != entries[j].Level {
			return entries[i].Level > entries[j].Level
		}
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}

// Leaderboard returns the top members by level then XP.
func (s *Service) Leaderboard(ctx context.Context, guildID string, limit int) ([]Entry, error) {
	var entries []Entry
	err := s.doc.View(ctx, func(d *models.LevelsDocument) error {
		if g, ok := d.Guilds[guildID]; ok {
			entries = ranking(g)
		}
		return nil
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, err
}

// RankInfo is what /level rank shows.
type RankInfo struct {
	Entry
	Position      int
	Total         int
	Bar           string
	NextRoleLevel int
	NextRoleName  string
}

// Rank returns a member's standing. Position is 0 when the member has no XP yet.
func (s *Service) Rank(ctx context.Context, guildID, userID string) (RankInfo, error) {
	info := RankInfo{Entry: Entry{UserID: userID, Needed: XPForLevel(1)}}
	err := s.doc.View(ctx, func(d *models.LevelsDocument) error {
		g, ok := d.Guilds[guildID]
		if !ok {
			g = models.NewLevelGuild()
		}
		entries := ranking(g)
		info.Total = len(entries)
		for i, e := range entries {
			if e.UserID == userID {
				info.Entry = e
				info.Position = i + 1
				break
			}
		}
		if lvl, name, ok := NextRole(g.Roles, info.Level); ok {
			info.NextRoleLevel = lvl
			info.NextRoleName = name
		}
		return nil
	})
	info.Bar = ProgressBar(info.XP, info.Needed)
	return info, err
}

// Config is the editable part of a guild's leveling setup.
type Config struct {
	Roles              map[string]string `json:"roles"`
	XPPerMessage       models.XPRange    `json:"xp_per_message"`
	LeaderboardChannel string            `json:"leaderboard_channel,omitempty"`
}

// Config returns the guild configuration, defaults when never configured.
func (s *Service) Config(ctx context.Context, guildID string) (Config, error) {
	var cfg Config
	err := s.doc.View(ctx, func(d *models.LevelsDocument) error {
		g, ok := d.Guilds[guildID]
		if !ok {
			g = models.NewLevelGuild()
		}
		cfg.Roles = make(map[string]string, len(g.Roles))
		for k, v := range g.Roles {
			cfg.Roles[k] = v
		}
		cfg.XPPerMessage = g.XPPerMessage
		cfg.LeaderboardChannel = g.LeaderboardChannel
		return nil
	})
	return cfg, err
}

// SetRole assigns a role name to a level milestone.
func (s *Service) SetRole(ctx context.Context, guildID string, level int, name string) error {
	if level < 1 {
		return ErrInvalidLevel
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyRoleName
	}
	return s.doc.Update(ctx, func(d *models.LevelsDocument) error {
		d.Guild(guildID).Roles[strconv.Itoa(level)] = name
		return nil
	})
}

// RemoveRole drops a milestone. Removing a missing one is not an error.
func (s *Service) RemoveRole(ctx context.Context, guildID string, level int) error {
	return s.doc.Update(ctx, func(d *models.LevelsDocument) error {
		delete(d.Guild(guildID).Roles, strconv.Itoa(level))
		return nil
	})
}

// SetXPRange changes the XP granted per message.
func (s *Service) SetXPRange(ctx context.Context, guildID string, min, max int64) error {
	r := models.XPRange{Min: min, Max: max}
	if err := s.validate.Struct(r); err != nil {
		return errors.WrapIf(ErrInvalidXPRange, err.Error())
	}
	return s.doc.Update(ctx, func(d *models.LevelsDocument) error {
		d.Guild(guildID).XPPerMessage = r
		return nil
	})
}

// UpdateConfig replaces roles and XP range in one write (dashboard).
func (s *Service) UpdateConfig(ctx context.Context, guildID string, cfg Config) error {
	if err := s.validate.Struct(cfg.XPPerMessage); err != nil {
		return errors.WrapIf(ErrInvalidXPRange, err.Error())
	}
	for k, name := range cfg.Roles {
		lvl, err := strconv.Atoi(k)
		if err != nil || lvl < 1 {
			return errors.WithDetails(ErrInvalidLevel, "level", k)
		}
		if strings.TrimSpace(name) == "" {
			return ErrEmptyRoleName
		}
	}
	return s.doc.Update(ctx, func(d *models.LevelsDocument) error {
		g := d.Guild(guildID)
		g.XPPerMessage = cfg.XPPerMessage
		if cfg.Roles != nil {
			g.Roles = cfg.Roles
		}
		return nil
	})
}

// SetLeaderboard stores where the auto-refreshed leaderboard lives. An empty
// channel disables it.
func (s *Service) SetLeaderboard(ctx context.Context, guildID, channelID, messageID string) error {
	return s.doc.Update(ctx, func(d *models.LevelsDocument) error {
		g := d.Guild(guildID)
		g.LeaderboardChannel = channelID
		g.LeaderboardMessage = messageID
		return nil
	})
}

// LeaderboardTarget is a message refreshed by the leaderboard loop.
type LeaderboardTarget struct {
	GuildID   string
	ChannelID string
	MessageID string
}

// LeaderboardTargets lists every guild with an auto-refreshed leaderboard.
func (s *Service) LeaderboardTargets(ctx context.Context) ([]LeaderboardTarget, error) {
	var targets []LeaderboardTarget
	err := s.doc.View(ctx, func(d *models.LevelsDocument) error {
		for id, g := range d.Guilds {
			if g.LeaderboardChannel != "" {
				targets = append(targets, LeaderboardTarget{id, g.LeaderboardChannel, g.LeaderboardMessage})
			}
		}
		return nil
	})
	return targets, err
}

// LeaderboardText renders ranking entries one per line, starting at position 1.
func LeaderboardText(entries []Entry) string {
	if len(entries) == 0 {
		return "Nadie ha ganado XP todavía."
	}
	var sb strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&sb, "%s <@%s> · Nivel **%d** (%d/%d XP)\n", Medal(i+1), e.UserID, e.Level, e.XP, e.Needed)
	}
	return sb.String()
}

// Medal returns the prefix used for a leaderboard position (1-based).
func Medal(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return fmt.Sprintf("#%d", position)
}

// HasData reports whether anyone in the guild earned XP.
func (s *Service) HasData(ctx context.Context, guildID string) bool {
	found := false
	_ = s.doc.View(ctx, func(d *models.LevelsDocument) error {
		g, ok := d.Guilds[guildID]
		found = ok && len(g.Users) > 0
		return nil
	})
	return found
}
