package models

// TikTokCreator is a profile polled for new videos.
type TikTokCreator struct {
	Username    string `bson:"username" json:"username"`
	LastVideoID string `bson:"last_video_id,omitempty" json:"last_video_id,omitempty"`
	AddedBy     string `bson:"added_by" json:"added_by"`
}

type AnnouncerGuild struct {
	AnnouncementChannelID string           `bson:"announcement_channel_id,omitempty" json:"announcement_channel_id,omitempty"`
	TikTokCreators        []*TikTokCreator `bson:"tiktok_creators" json:"tiktok_creators"`
}

// AnnouncerDocument is persisted as "content_announcer".
type AnnouncerDocument struct {
	Guilds map[string]*AnnouncerGuild `bson:"guilds" json:"guilds"`
}

func NewAnnouncerDocument() *AnnouncerDocument {
	return &AnnouncerDocument{Guilds: make(map[string]*AnnouncerGuild)}
}

// Normalize implements database.Normalizer
func (d *AnnouncerDocument) Normalize() {
	if d.Guilds == nil {
		d.Guilds = make(map[string]*AnnouncerGuild)
	}
}

// Guild returns the guild entry, creating it when missing.
func (d *AnnouncerDocument) Guild(guildID string) *AnnouncerGuild {
	g, ok := d.Guilds[guildID]
	if !ok {
		g = &AnnouncerGuild{TikTokCreators: []*TikTokCreator{}}
		d.Guilds[guildID] = g
	}
	return g
}
