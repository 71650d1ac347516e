package models

// Ticket is an open support channel.
type Ticket struct {
	Number    int    `bson:"number" json:"number"`
	UserID    string `bson:"user_id" json:"user_id"`
	CreatedAt int64  `bson:"created_at" json:"created_at"`
}

// TicketSettings configures the ticket system of a guild.
type TicketSettings struct {
	CategoryID     string   `bson:"category_id,omitempty" json:"category_id,omitempty"`
	SupportRoleIDs []string `bson:"support_role_ids" json:"support_role_ids"`
	LogChannelID   string   `bson:"log_channel_id,omitempty" json:"log_channel_id,omitempty"`
	TicketMessage  string   `bson:"ticket_message,omitempty" json:"ticket_message,omitempty"`
}

// TicketGuild is keyed by ticket channel id.
type TicketGuild struct {
	Counter  int                `bson:"counter" json:"counter"`
	Tickets  map[string]*Ticket `bson:"tickets" json:"tickets"`
	Settings TicketSettings     `bson:"settings" json:"settings"`
}

// TicketsDocument is persisted as "tickets".
type TicketsDocument struct {
	Guilds map[string]*TicketGuild `bson:"guilds" json:"guilds"`
}

func NewTicketsDocument() *TicketsDocument {
	return &TicketsDocument{Guilds: make(map[string]*TicketGuild)}
}

// Normalize implements database.Normalizer
func (d *TicketsDocument) Normalize() {
	if d.Guilds == nil {
		d.Guilds = make(map[string]*TicketGuild)
	}
	for _, g := range d.Guilds {
		if g.Tickets == nil {
			g.Tickets = make(map[string]*Ticket)
		}
		if g.Settings.SupportRoleIDs == nil {
			g.Settings.SupportRoleIDs = []string{}
		}
	}
}

// Guild returns the guild entry, creating it when missing.
func (d *TicketsDocument) Guild(guildID string) *TicketGuild {
	g, ok := d.Guilds[guildID]
	if !ok {
		g = &TicketGuild{
			Tickets:  make(map[string]*Ticket),
			Settings: TicketSettings{SupportRoleIDs: []string{}},
		}
		d.Guilds[guildID] = g
	}
	return g
}
