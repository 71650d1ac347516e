package models

// StatsChannels are the voice channels used as live counters.
type StatsChannels struct {
	CategoryID      string `bson:"category_id" json:"category_id"`
	MemberCountID   string `bson:"member_count_id,omitempty" json:"member_count_id,omitempty"`
	OnlineCountID   string `bson:"online_count_id,omitempty" json:"online_count_id,omitempty"`
	TextChannelsID  string `bson:"text_channels_id,omitempty" json:"text_channels_id,omitempty"`
	VoiceChannelsID string `bson:"voice_channels_id,omitempty" json:"voice_channels_id,omitempty"`
	AgeID           string `bson:"age_id,omitempty" json:"age_id,omitempty"`
	TopRoleID       string `bson:"top_role_id,omitempty" json:"top_role_id,omitempty"`
	BoostCountID    string `bson:"boost_count_id,omitempty" json:"boost_count_id,omitempty"`
	BoostLevelID    string `bson:"boost_level_id,omitempty" json:"boost_level_id,omitempty"`
	EmojiCountID    string `bson:"emoji_count_id,omitempty" json:"emoji_count_id,omitempty"`
	RolesCountID    string `bson:"roles_count_id,omitempty" json:"roles_count_id,omitempty"`
}

// ServerStatsDocument is persisted as "server_stats".
type ServerStatsDocument struct {
	StatsChannels map[string]*StatsChannels `bson:"stats_channels" json:"stats_channels"`
}

func NewServerStatsDocument() *ServerStatsDocument {
	return &ServerStatsDocument{StatsChannels: make(map[string]*StatsChannels)}
}

// Normalize implements database.Normalizer
func (d *ServerStatsDocument) Normalize() {
	if d.StatsChannels == nil {
		d.StatsChannels = make(map[string]*StatsChannels)
	}
}
