package models

// CountingChannel is the state of one counting game. RunStartHigh is the
// high score as it stood when the current run began.
type CountingChannel struct {
	CurrentCount int64   `bson:"current_count" json:"current_count"`
	LastUserID   *string `bson:"last_user_id" json:"last_user_id"`
	HighScore    int64   `bson:"high_score" json:"high_score"`
	GuildID      string  `bson:"guild_id" json:"guild_id"`
	RunStartHigh int64   `bson:"run_start_high" json:"run_start_high"`
}

// CountingDocument is persisted as "counting".
type CountingDocument struct {
	Channels map[string]*CountingChannel `bson:"channels" json:"channels"`
}

func NewCountingDocument() *CountingDocument {
	return &CountingDocument{Channels: make(map[string]*CountingChannel)}
}

// Normalize implements database.Normalizer
func (d *CountingDocument) Normalize() {
	if d.Channels == nil {
		d.Channels = make(map[string]*CountingChannel)
	}
}
