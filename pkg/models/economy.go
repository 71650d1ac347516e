package models

// EconomyAccount is one member's wallet in one guild.
// Timestamps are unix seconds; nil means the action was never used.
type EconomyAccount struct {
	Credits     int64    `bson:"credits" json:"credits"`
	LastDaily   *int64   `bson:"last_daily" json:"last_daily"`
	DailyStreak int      `bson:"daily_streak" json:"daily_streak"`
	LastWork    *int64   `bson:"last_work" json:"last_work"`
	LastBeg     *int64   `bson:"last_beg,omitempty" json:"last_beg,omitempty"`
	LastRob     *int64   `bson:"last_rob,omitempty" json:"last_rob,omitempty"`
	Inventory   []string `bson:"inventory" json:"inventory"`
}

// EconomySettings tunes every economy command. Keys match the names used by
// `/economy settings set`.
type EconomySettings struct {
	BegChance   float64 `bson:"beg_chance" json:"beg_chance" validate:"gte=0,lte=1"`
	BegMin      int64   `bson:"beg_min" json:"beg_min" validate:"gte=0,ltefield=BegMax"`
	BegMax      int64   `bson:"beg_max" json:"beg_max" validate:"gte=0"`
	BegCooldown int64   `bson:"beg_cooldown" json:"beg_cooldown" validate:"gte=0"`
	BegFailLoss int64   `bson:"beg_fail_loss" json:"beg_fail_loss" validate:"gte=0"`

	WorkMin      int64 `bson:"work_min" json:"work_min" validate:"gte=0,ltefield=WorkMax"`
	WorkMax      int64 `bson:"work_max" json:"work_max" validate:"gte=0"`
	WorkCooldown int64 `bson:"work_cooldown" json:"work_cooldown" validate:"gte=0"`

	DailyBase        int64 `bson:"daily_base" json:"daily_base" validate:"gte=0"`
	DailyStreakBonus int64 `bson:"daily_streak_bonus" json:"daily_streak_bonus" validate:"gte=0"`
	DailyMaxStreak   int64 `bson:"daily_max_streak" json:"daily_max_streak" validate:"gte=0"`
	DailyCooldown    int64 `bson:"daily_cooldown" json:"daily_cooldown" validate:"gte=0"`

	RobChance     float64 `bson:"rob_chance" json:"rob_chance" validate:"gte=0,lte=1"`
	RobMinPercent float64 `bson:"rob_min_percent" json:"rob_min_percent" validate:"gte=0,lte=1,ltefield=RobMaxPercent"`
	RobMaxPercent float64 `bson:"rob_max_percent" json:"rob_max_percent" validate:"gte=0,lte=1"`
	RobCooldown   int64   `bson:"rob_cooldown" json:"rob_cooldown" validate:"gte=0"`
	RobFailMin    int64   `bson:"rob_fail_min" json:"rob_fail_min" validate:"gte=0,ltefield=RobFailMax"`
	RobFailMax    int64   `bson:"rob_fail_max" json:"rob_fail_max" validate:"gte=0"`

	PayTax float64 `bson:"pay_tax" json:"pay_tax" validate:"gte=0,lte=1"`
	PayMin int64   `bson:"pay_min" json:"pay_min" validate:"gte=0"`
}

// DefaultEconomySettings returns the stock tuning.
func DefaultEconomySettings() EconomySettings {
	return EconomySettings{
		BegChance:   0.7,
		BegMin:      5,
		BegMax:      25,
		BegCooldown: 300,
		BegFailLoss: 0,

		WorkMin:      10,
		WorkMax:      100,
		WorkCooldown: 3600,

		DailyBase:        100,
		DailyStreakBonus: 20,
		DailyMaxStreak:   7,
		DailyCooldown:    86400,

		RobChance:     0.4,
		RobMinPercent: 0.1,
		RobMaxPercent: 0.3,
		RobCooldown:   7200,
		RobFailMin:    10,
		RobFailMax:    50,

		PayTax: 0.0,
		PayMin: 1,
	}
}

// EconomyDocument is persisted as "economy".
type EconomyDocument struct {
	Users    map[string]map[string]*EconomyAccount `bson:"users" json:"users"`
	Settings map[string]*EconomySettings           `bson:"settings" json:"settings"`
}

// GlobalSettingsKey is the only settings scope in use.
const GlobalSettingsKey = "global"

// NewEconomyDocument returns an empty document with default settings.
func NewEconomyDocument() *EconomyDocument {
	defaults := DefaultEconomySettings()
	return &EconomyDocument{
		Users:    make(map[string]map[string]*EconomyAccount),
		Settings: map[string]*EconomySettings{GlobalSettingsKey: &defaults},
	}
}

// Normalize implements database.Normalizer
func (d *EconomyDocument) Normalize() {
	if d.Users == nil {
		d.Users = make(map[string]map[string]*EconomyAccount)
	}
	if d.Settings == nil {
		d.Settings = make(map[string]*EconomySettings)
	}
	if d.Settings[GlobalSettingsKey] == nil {
		defaults := DefaultEconomySettings()
		d.Settings[GlobalSettingsKey] = &defaults
	}
}

// Account returns the account for a member, creating it when missing.
func (d *EconomyDocument) Account(guildID, userID string) *EconomyAccount {
	guild, ok := d.Users[guildID]
	if !ok {
		guild = make(map[string]*EconomyAccount)
		d.Users[guildID] = guild
	}
	acc, ok := guild[userID]
	if !ok {
		acc = &EconomyAccount{Inventory: []string{}}
		guild[userID] = acc
	}
	return acc
}

// Global returns the global settings.
func (d *EconomyDocument) Global() *EconomySettings {
	return d.Settings[GlobalSettingsKey]
}
