package models

// CaptchaSettings enables join verification for a guild.
type CaptchaSettings struct {
	Enabled bool   `bson:"enabled" json:"enabled"`
	RoleID  string `bson:"role_id,omitempty" json:"role_id,omitempty"`
}

// CaptchaDocument is persisted as "captcha_settings".
type CaptchaDocument struct {
	Guilds map[string]*CaptchaSettings `bson:"guilds" json:"guilds"`
}

func NewCaptchaDocument() *CaptchaDocument {
	return &CaptchaDocument{Guilds: make(map[string]*CaptchaSettings)}
}

// Normalize implements database.Normalizer
func (d *CaptchaDocument) Normalize() {
	if d.Guilds == nil {
		d.Guilds = make(map[string]*CaptchaSettings)
	}
}
