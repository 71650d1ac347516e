package models

// LevelUser is a member's progress.
type LevelUser struct {
	Level int   `bson:"level" json:"level"`
	XP    int64 `bson:"xp" json:"xp"`
}

// XPRange bounds the XP granted per message.
type XPRange struct {
	Min int64 `bson:"min" json:"min" validate:"gte=1,ltefield=Max"`
	Max int64 `bson:"max" json:"max" validate:"gte=1,lte=1000"`
}

// LevelGuild holds the leveling state of one guild.
type LevelGuild struct {
	Users              map[string]*LevelUser `bson:"users" json:"users"`
	Roles              map[string]string     `bson:"roles" json:"roles"`
	XPPerMessage       XPRange               `bson:"xp_per_message" json:"xp_per_message"`
	LeaderboardChannel string                `bson:"leaderboard_channel,omitempty" json:"leaderboard_channel,omitempty"`
	LeaderboardMessage string                `bson:"leaderboard_message,omitempty" json:"leaderboard_message,omitempty"`
}

// DefaultLevelRoles maps level thresholds to role names.
func DefaultLevelRoles() map[string]string {
	return map[string]string{
		"1":  "ChatRevive",
		"5":  "Rookie",
		"10": "Amateur",
		"15": "Regular",
		"25": "Veteran",
		"40": "Master",
		"60": "Legend",
	}
}

// NewLevelGuild returns a guild entry with stock roles and XP range.
func NewLevelGuild() *LevelGuild {
	return &LevelGuild{
		Users:        make(map[string]*LevelUser),
		Roles:        DefaultLevelRoles(),
		XPPerMessage: XPRange{Min: 15, Max: 25},
	}
}

// LevelsDocument is persisted as "levels".
type LevelsDocument struct {
	Guilds map[string]*LevelGuild `bson:"guilds" json:"guilds"`
}

// NewLevelsDocument returns an empty document.
func NewLevelsDocument() *LevelsDocument {
	return &LevelsDocument{Guilds: make(map[string]*LevelGuild)}
}

// Normalize implements database.Normalizer
func (d *LevelsDocument) Normalize() {
	if d.Guilds == nil {
		d.Guilds = make(map[string]*LevelGuild)
	}
	for _, g := range d.Guilds {
		if g.Users == nil {
			g.Users = make(map[string]*LevelUser)
		}
		if g.Roles == nil {
			g.Roles = DefaultLevelRoles()
		}
		if g.XPPerMessage.Min <= 0 || g.XPPerMessage.Max < g.XPPerMessage.Min {
			g.XPPerMessage = XPRange{Min: 15, Max: 25}
		}
	}
}

// Guild returns the guild entry, creating it when missing.
func (d *LevelsDocument) Guild(guildID string) *LevelGuild {
	g, ok := d.Guilds[guildID]
	if !ok {
		g = NewLevelGuild()
		d.Guilds[guildID] = g
	}
	return g
}

// User returns the member entry, creating it when missing.
func (g *LevelGuild) User(userID string) *LevelUser {
	u, ok := g.Users[userID]
	if !ok {
		u = &LevelUser{}
		g.Users[userID] = u
	}
	return u
}
