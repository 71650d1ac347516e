package models

// TempVoiceSettings are the hub channels of a guild.
type TempVoiceSettings struct {
	CategoryID       string   `bson:"category_id" json:"category_id"`
	CreateChannels   []string `bson:"create_channels" json:"create_channels"`
	ControlChannelID string   `bson:"control_channel_id,omitempty" json:"control_channel_id,omitempty"`
}

// TempChannel is a voice channel created on demand.
type TempChannel struct {
	OwnerID   string `bson:"owner_id" json:"owner_id"`
	GuildID   string `bson:"guild_id" json:"guild_id"`
	CreatedAt int64  `bson:"created_at" json:"created_at"`
}

// TempVoiceDocument is persisted as "temp_voice".
type TempVoiceDocument struct {
	Settings     map[string]*TempVoiceSettings `bson:"settings" json:"settings"`
	TempChannels map[string]*TempChannel       `bson:"temp_channels" json:"temp_channels"`
}

func NewTempVoiceDocument() *TempVoiceDocument {
	d := &TempVoiceDocument{}
	d.Normalize()
	return d
}

// Normalize implements database.Normalizer
func (d *TempVoiceDocument) Normalize() {
	if d.Settings == nil {
		d.Settings = make(map[string]*TempVoiceSettings)
	}
	if d.TempChannels == nil {
		d.TempChannels = make(map[string]*TempChannel)
	}
}
