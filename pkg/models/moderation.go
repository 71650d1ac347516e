package models

// Mod action types
const (
	ActionWarn   = "warn"
	ActionKick   = "kick"
	ActionBan    = "ban"
	ActionUnban  = "unban"
	ActionMute   = "mute"
	ActionUnmute = "unmute"
)

// ModAction is one moderation case.
// Duration is in seconds; nil for permanent or not applicable.
type ModAction struct {
	ActionType  string `bson:"action_type" json:"action_type"`
	UserID      string `bson:"user_id" json:"user_id"`
	ModeratorID string `bson:"moderator_id" json:"moderator_id"`
	Reason      string `bson:"reason" json:"reason"`
	Timestamp   int64  `bson:"timestamp" json:"timestamp"`
	Duration    *int64 `bson:"duration" json:"duration"`
	CaseID      int    `bson:"case_id" json:"case_id"`
	GuildID     string `bson:"guild_id" json:"guild_id"`
}

// ModerationDocument is persisted as "moderation".
type ModerationDocument struct {
	LogChannels map[string]string      `bson:"log_channels" json:"log_channels"`
	CaseCounts  map[string]int         `bson:"case_counts" json:"case_counts"`
	Actions     map[string][]ModAction `bson:"actions" json:"actions"`
}

func NewModerationDocument() *ModerationDocument {
	d := &ModerationDocument{}
	d.Normalize()
	return d
}

// Normalize implements database.Normalizer
func (d *ModerationDocument) Normalize() {
	if d.LogChannels == nil {
		d.LogChannels = make(map[string]string)
	}
	if d.CaseCounts == nil {
		d.CaseCounts = make(map[string]int)
	}
	if d.Actions == nil {
		d.Actions = make(map[string][]ModAction)
	}
}
