package models

// DefaultWelcomeMessage is used until a guild sets its own.
const DefaultWelcomeMessage = "¡Bienvenido/a {user_mention} a **{server}**! Ahora somos {member_count} miembros."

// WelcomeSettings configures the join message of a guild.
type WelcomeSettings struct {
	ChannelID    string `bson:"channel_id,omitempty" json:"channel_id,omitempty" validate:"omitempty,numeric"`
	Message      string `bson:"message" json:"message" validate:"required,max=1500"`
	Enabled      bool   `bson:"enabled" json:"enabled"`
	EmbedEnabled bool   `bson:"embed_enabled" json:"embed_enabled"`
	EmbedColor   int    `bson:"embed_color" json:"embed_color" validate:"gte=0,lte=16777215"`
	ImageEnabled bool   `bson:"image_enabled" json:"image_enabled"`
}

// DefaultWelcomeSettings returns a disabled configuration with the stock message.
func DefaultWelcomeSettings() WelcomeSettings {
	return WelcomeSettings{
		Message:      DefaultWelcomeMessage,
		EmbedEnabled: true,
		EmbedColor:   0x3498DB,
		ImageEnabled: true,
	}
}

// WelcomeDocument is persisted as "welcome_settings".
type WelcomeDocument struct {
	Guilds map[string]*WelcomeSettings `bson:"guilds" json:"guilds"`
}

func NewWelcomeDocument() *WelcomeDocument {
	return &WelcomeDocument{Guilds: make(map[string]*WelcomeSettings)}
}

// Normalize implements database.Normalizer
func (d *WelcomeDocument) Normalize() {
	if d.Guilds == nil {
		d.Guilds = make(map[string]*WelcomeSettings)
	}
}

// Guild returns the guild settings, creating defaults when missing.
func (d *WelcomeDocument) Guild(guildID string) *WelcomeSettings {
	s, ok := d.Guilds[guildID]
	if !ok {
		defaults := DefaultWelcomeSettings()
		s = &defaults
		d.Guilds[guildID] = s
	}
	return s
}
