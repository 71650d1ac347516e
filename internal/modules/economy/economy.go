// Package economy implements the guild credit system: daily rewards, work,
// begging, robbing, payments and the admin settings that tune them.
package economy

import (
	"context"
	"sort"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
	"github.com/go-playground/validator/v10"
)

// DocumentName is the store key of the economy document.
const DocumentName = "economy"

// Job is one entry of the work list. Earnings scale work_min/work_max by the factors.
type Job struct {
	Name      string
	MinFactor float64
	MaxFactor float64
}

var Jobs = []Job{
	{"Cajero", 0.5, 0.8},
	{"Camarero", 0.6, 0.9},
	{"Repartidor", 0.7, 1.0},
	{"Soporte IT", 0.8, 1.2},
	{"Diseñador gráfico", 0.9, 1.3},
	{"Programador", 1.0, 1.5},
	{"Community manager", 0.7, 1.1},
	{"Periodista", 0.75, 1.15},
	{"Profesor", 0.85, 1.25},
}

var helpers = []string{
	"un transeúnte amable",
	"una señora mayor",
	"el dueño del servidor",
	"un millonario",
	"un desconocido compasivo",
	"un turista generoso",
	"un streamer famoso",
	"un miembro de la realeza",
}

var rejections = []string{
	"te ignoró por completo",
	"hizo como si no te viera",
	"te enseñó una cartera vacía",
	"te dijo que te pusieras a trabajar",
	"te miró con lástima pero no te dio nada",
	"salió corriendo en dirección contraria",
}

// Service owns the economy document.
type Service struct {
	doc      *database.Document[models.EconomyDocument]
	rng      randutil.Source
	events   mqtt.Emitter
	validate *validator.Validate
}

// NewService creates the economy service. events may be nil.
func NewService(store database.Store, rng randutil.Source, events mqtt.Emitter) *Service {
	return &Service{
		doc:      database.NewDocument(store, DocumentName, models.NewEconomyDocument),
		rng:      rng,
		events:   events,
		validate: validator.New(),
	}
}

func (s *Service) emit(guildID, kind string, payload interface{}) {
	if s.events != nil {
		s.events.Emit(guildID, kind, payload)
	}
}

func unix(t time.Time) *int64 {
	v := t.Unix()
	return &v
}

// remaining returns the time left on a cooldown, 0 when it has elapsed.
func remaining(last *int64, cooldown int64, now time.Time) time.Duration {
	if last == nil {
		return 0
	}
	elapsed := now.Unix() - *last
	if elapsed >= cooldown {
		return 0
	}
	return time.Duration(cooldown-elapsed) * time.Second
}

// Balance returns a member's credits.
func (s *Service) Balance(ctx context.Context, guildID, userID string) (int64, error) {
	var credits int64
	err := s.doc.View(ctx, func(d *models.EconomyDocument) error {
		if guild, ok := d.Users[guildID]; ok {
			if acc, ok := guild[userID]; ok {
				credits = acc.Credits
			}
		}
		return nil
	})
	return credits, err
}

// DailyResult describes a claimed daily reward.
type DailyResult struct {
	Reward  int64
	Streak  int
	Balance int64
}

// Daily pays the daily reward. Missing a full extra cooldown window resets the streak.
func (s *Service) Daily(ctx context.Context, guildID, userID string, now time.Time) (DailyResult, error) {
	var res DailyResult
	err := s.doc.Update(ctx, func(d *models.EconomyDocument) error {
		cfg := d.Global()
		acc := d.Account(guildID, userID)

		if wait := remaining(acc.LastDaily, cfg.DailyCooldown, now); wait > 0 {
			return &CooldownError{Action: "/economy daily", Remaining: wait}
		}

		if acc.LastDaily != nil && now.Unix()-*acc.LastDaily >= 2*cfg.DailyCooldown {
			acc.DailyStreak = 0
		}
		acc.DailyStreak++

		streak := int64(acc.DailyStreak)
		if streak > cfg.DailyMaxStreak {
			streak = cfg.DailyMaxStreak
		}
		res.Reward = cfg.DailyBase + streak*cfg.DailyStreakBonus

		acc.Credits += res.Reward
		acc.LastDaily = unix(now)
		res.Streak = acc.DailyStreak
		res.Balance = acc.Credits
		return nil
	})
	return res, err
}

// WorkResult describes a finished shift.
type WorkResult struct {
	Job     string
	Earned  int64
	Balance int64
}

// JobRange returns the earnings bounds of a job under the given settings.
func JobRange(job Job, cfg *models.EconomySettings) (int64, int64) {
	jobMin := int64(float64(cfg.WorkMin) * job.MinFactor)
	if jobMin < 1 {
		jobMin = 1
	}
	jobMax := int64(float64(cfg.WorkMax) * job.MaxFactor)
	if jobMax < jobMin {
		jobMax = jobMin
	}
	return jobMin, jobMax
}

// Work picks a random job and pays within its range.
func (s *Service) Work(ctx context.Context, guildID, userID string, now time.Time) (WorkResult, error) {
	var res WorkResult
	err := s.doc.Update(ctx, func(d *models.EconomyDocument) error {
		cfg := d.Global()
		acc := d.Account(guildID, userID)

		if wait := remaining(acc.LastWork, cfg.WorkCooldown, now); wait > 0 {
			return &CooldownError{Action: "/economy work", Remaining: wait}
		}

		job := randutil.Pick(s.rng, Jobs)
		jobMin, jobMax := JobRange(job, cfg)
		res.Job = job.Name
		res.Earned = randutil.Between(s.rng, jobMin, jobMax)

		acc.Credits += res.Earned
		acc.LastWork = unix(now)
		res.Balance = acc.Credits
		return nil
	})
	return res, err
}

// PayResult describes a transfer.
type PayResult struct {
	Sent          int64
	Received      int64
	Tax           int64
	SenderBalance int64
}

// Pay transfers credits; the tax is taken from what the receiver gets.
func (s *Service) Pay(ctx context.Context, guildID, fromID, toID string, amount int64) (PayResult, error) {
	var res PayResult
	err := s.doc.Update(ctx, func(d *models.EconomyDocument) error {
		cfg := d.Global()
		if amount <= 0 {
			return ErrInvalidAmount
		}
		if amount < cfg.PayMin {
			return &BelowMinimumError{Minimum: cfg.PayMin}
		}
		if fromID == toID {
			return ErrSelfTarget
		}

		sender := d.Account(guildID, fromID)
		if sender.Credits < amount {
			return ErrInsufficientFunds
		}
		receiver := d.Account(guildID, toID)

		tax := int64(float64(amount) * cfg.PayTax)
		sender.Credits -= amount
		receiver.Credits += amount - tax

		res = PayResult{Sent: amount, Received: amount - tax, Tax: tax, SenderBalance: sender.Credits}
		return nil
	})
	return res, err
}

// RobResult describes a robbery attempt.
type RobResult struct {
	Success       bool
	Amount        int64
	RobberBalance int64
	VictimBalance int64
}

// Rob attempts to steal from another member. Failed attempts cost a penalty
// that is burned. Validation failures do not start the cooldown.
func (s *Service) Rob(ctx context.Context, guildID, robberID, victimID string, victimIsBot bool, now time.Time) (RobResult, error) {
	var res RobResult
	err := s.doc.Update(ctx, func(d *models.EconomyDocument) error {
		cfg := d.Global()
		if robberID == victimID {
			return ErrSelfTarget
		}
		if victimIsBot {
			return ErrBotTarget
		}

		robber := d.Account(guildID, robberID)
		if wait := remaining(robber.LastRob, cfg.RobCooldown, now); wait > 0 {
			return &CooldownError{Action: "/economy rob", Remaining: wait}
		}

		victim := d.Account(guildID, victimID)
		if victim.Credits < 2*cfg.RobFailMin {
			return ErrVictimTooPoor
		}
		if robber.Credits < cfg.RobFailMin {
			return ErrRobberTooPoor
		}

		robber.LastRob = unix(now)

		if s.rng.Float64() < cfg.RobChance {
			pct := randutil.Uniform(s.rng, cfg.RobMinPercent, cfg.RobMaxPercent)
			stolen := int64(float64(victim.Credits) * pct)
			if ceiling := int64(float64(victim.Credits) * cfg.RobMaxPercent); stolen > ceiling {
				stolen = ceiling
			}
			victim.Credits -= stolen
			robber.Credits += stolen
			res.Success = true
			res.Amount = stolen
		} else {
			penalty := cfg.RobFailMin
			if cfg.RobFailMin < cfg.RobFailMax {
				penalty = randutil.Between(s.rng, cfg.RobFailMin, cfg.RobFailMax)
			}
			if penalty > robber.Credits {
				penalty = robber.Credits
			}
			robber.Credits -= penalty
			res.Amount = penalty
		}

		res.RobberBalance = robber.Credits
		res.VictimBalance = victim.Credits
		return nil
	})
	return res, err
}

// BegResult describes a begging attempt.
type BegResult struct {
	Success   bool
	Helper    string
	Rejection string
	Amount    int64
	Lost      int64
	Balance   int64
}

// Beg asks a random stranger for credits.
func (s *Service) Beg(ctx context.Context, guildID, userID string, now time.Time) (BegResult, error) {
	var res BegResult
	err := s.doc.Update(ctx, func(d *models.EconomyDocument) error {
		cfg := d.Global()
		acc := d.Account(guildID, userID)

		if wait := remaining(acc.LastBeg, cfg.BegCooldown, now); wait > 0 {
			return &CooldownError{Action: "/economy beg", Remaining: wait}
		}
		acc.LastBeg = unix(now)

		if s.rng.Float64() < cfg.BegChance {
			res.Success = true
			res.Amount = randutil.Between(s.rng, cfg.BegMin, cfg.BegMax)
			res.Helper = randutil.Pick(s.rng, helpers)
			acc.Credits += res.Amount
		} else {
			res.Helper = randutil.Pick(s.rng, helpers)
			res.Rejection = randutil.Pick(s.rng, rejections)
			if cfg.BegFailLoss > 0 && acc.Credits > 0 {
				res.Lost = cfg.BegFailLoss
				if res.Lost > acc.Credits {
					res.Lost = acc.Credits
				}
				acc.Credits -= res.Lost
			}
		}
		res.Balance = acc.Credits
		return nil
	})
	return res, err
}

// Entry is one line of the rich list.
type Entry struct {
	UserID  string `json:"userId"`
	Credits int64  `json:"credits"`
}

// Richlist returns the richest members of a guild, highest first.
func (s *Service) Richlist(ctx context.Context, guildID string, limit int) ([]Entry, error) {
	var entries []Entry
	err := s.doc.View(ctx, func(d *models.EconomyDocument) error {
		for userID, acc := range d.Users[guildID] {
			entries = append(entries, Entry{UserID: userID, Credits: acc.Credits})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Credits == entries[j].Credits {
			return entries[i].UserID < entries[j].UserID
		}
		return entries[i].Credits > entries[j].Credits
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Adjust adds delta to a member's credits, never going below zero. Used by
// the admin give/take commands.
func (s *Service) Adjust(ctx context.Context, guildID, userID string, delta int64) (int64, error) {
	var balance int64
	err := s.doc.Update(ctx, func(d *models.EconomyDocument) error {
		if delta == 0 {
			return ErrInvalidAmount
		}
		acc := d.Account(guildID, userID)
		acc.Credits += delta
		if acc.Credits < 0 {
			acc.Credits = 0
		}
		balance = acc.Credits
		return nil
	})
	if err == nil {
		s.emit(guildID, "economy_adjust", map[string]interface{}{"userId": userID, "delta": delta, "balance": balance})
	}
	return balance, err
}

// HasData reports whether anyone in the guild has an account.
func (s *Service) HasData(ctx context.Context, guildID string) bool {
	found := false
	_ = s.doc.View(ctx, func(d *models.EconomyDocument) error {
		found = len(d.Users[guildID]) > 0
		return nil
	})
	return found
}
