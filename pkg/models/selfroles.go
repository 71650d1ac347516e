package models

// PanelRole is one button on a self-role panel.
type PanelRole struct {
	RoleID string `bson:"role_id" json:"role_id"`
	Style  string `bson:"style" json:"style"`
	Emoji  string `bson:"emoji,omitempty" json:"emoji,omitempty"`
	Label  string `bson:"label" json:"label"`
}

// RolePanel is a message with role toggle buttons.
type RolePanel struct {
	PanelID     string      `bson:"panel_id" json:"panel_id"`
	ChannelID   string      `bson:"channel_id" json:"channel_id"`
	MessageID   string      `bson:"message_id" json:"message_id"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description" json:"description"`
	Roles       []PanelRole `bson:"roles" json:"roles"`
	// Exclusive panels allow a single role at a time (colour roles).
	Exclusive   bool        `bson:"is_exclusive" json:"is_exclusive"`
}

type SelfRolesGuild struct {
	Panels []*RolePanel `bson:"panels" json:"panels"`
}

// SelfRolesDocument is persisted as "self_roles".
type SelfRolesDocument struct {
	Guilds map[string]*SelfRolesGuild `bson:"guilds" json:"guilds"`
}

func NewSelfRolesDocument() *SelfRolesDocument {
	return &SelfRolesDocument{Guilds: make(map[string]*SelfRolesGuild)}
}

// Normalize implements database.Normalizer
func (d *SelfRolesDocument) Normalize() {
	if d.Guilds == nil {
		d.Guilds = make(map[string]*SelfRolesGuild)
	}
}

// Guild returns the guild entry, creating it when missing.
func (d *SelfRolesDocument) Guild(guildID string) *SelfRolesGuild {
	g, ok := d.Guilds[guildID]
	if !ok {
		g = &SelfRolesGuild{Panels: []*RolePanel{}}
		d.Guilds[guildID] = g
	}
	return g
}

// Panel finds a panel by id.
func (g *SelfRolesGuild) Panel(panelID string) *RolePanel {
	for _, p := range g.Panels {
		if p.PanelID == panelID {
			return p
		}
	}
	return nil
}
