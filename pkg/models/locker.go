package models

// LockedChannel remembers how a channel looked before it was locked.
// OriginalPermissions maps an overwrite id to its SendMessages state:
// true allowed, false denied, nil inherited.
type LockedChannel struct {
	OriginalPermissions map[string]*bool `bson:"original_permissions" json:"original_permissions"`
	Reason              string           `bson:"reason" json:"reason"`
	UnlockDate          *int64           `bson:"unlock_date" json:"unlock_date"`
	LockedAt            int64            `bson:"locked_at" json:"locked_at"`
	LockedBy            string           `bson:"locked_by,omitempty" json:"locked_by,omitempty"`
}

// LockedChannelsDocument is persisted as "locked_channels".
type LockedChannelsDocument struct {
	Guilds map[string]map[string]*LockedChannel `bson:"guilds" json:"guilds"`
}

func NewLockedChannelsDocument() *LockedChannelsDocument {
	return &LockedChannelsDocument{Guilds: make(map[string]map[string]*LockedChannel)}
}

// Normalize implements database.Normalizer
func (d *LockedChannelsDocument) Normalize() {
	if d.Guilds == nil {
		d.Guilds = make(map[string]map[string]*LockedChannel)
	}
}
