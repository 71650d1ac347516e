// Package captcha holds join verification challenges and their settings.
package captcha

import (
	"context"
	"strings"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/imaging"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/ReneKroon/ttlcache/v2"
)

const (
	DocumentName = "captcha_settings"

	// Alphabet leaves out characters that look alike (O/0, I/1).
	Alphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength  = 6
	MaxAttempts = 3
	TTL         = 5 * time.Minute
)

var ErrNoChallenge = errors.Sentinel("no hay un captcha activo")

// Outcome of checking a reply against a challenge.
type Outcome int

const (
	Passed Outcome = iota
	Wrong
	Exhausted
)

// Challenge is a pending verification. One per user; a newer join replaces it.
type Challenge struct {
	GuildID  string
	UserID   string
	Code     string
	Attempts int
	done     bool
}

// Result of Check.
type Result struct {
	Outcome   Outcome
	GuildID   string
	Remaining int
}

// GenerateCode draws CodeLength characters from Alphabet.
func GenerateCode(rng randutil.Source) string {
	var b strings.Builder
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(Alphabet[rng.Intn(len(Alphabet))])
	}
	return b.String()
}

type Service struct {
	doc *database.Document[models.CaptchaDocument]
	rng randutil.Source

	mu       sync.Mutex
	pending  *ttlcache.Cache
	onExpire func(Challenge)
}

func NewService(store database.Store, rng randutil.Source, ttl time.Duration) *Service {
	s := &Service{
		doc: database.NewDocument(store, DocumentName, models.NewCaptchaDocument),
		rng: rng,
	}
	s.pending = ttlcache.NewCache()
	s.pending.SkipTTLExtensionOnHit(true)
	_ = s.pending.SetTTL(ttl)
	s.pending.SetExpirationCallback(s.expired)
	return s
}

// OnExpire registers the function told about challenges that ran out of time.
func (s *Service) OnExpire(fn func(Challenge)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = fn
}

func (s *Service) expired(key string, value interface{}) {
	ch, ok := value.(*Challenge)
	if !ok {
		return
	}
	s.mu.Lock()
	fn := s.onExpire
	skip := ch.done
	s.mu.Unlock()
	if skip {
		return
	}
	logger.Info("Captcha expirado para "+key, "Captcha")
	if fn != nil {
		fn(*ch)
	}
}

// Start creates a challenge for a member who just joined and returns the code.
func (s *Service) Start(guildID, userID string) string {
	code := GenerateCode(s.rng)

	s.mu.Lock()
	if old, err := s.pending.Get(userID); err == nil {
		old.(*Challenge).done = true
	}
	s.mu.Unlock()

	_ = s.pending.Set(userID, &Challenge{GuildID: guildID, UserID: userID, Code: code})
	return code
}

// Image renders a code as the PNG sent to the member.
func (s *Service) Image(code string) ([]byte, error) {
	return imaging.Captcha(code, s.rng)
}

// Pending returns the active challenge of a user.
func (s *Service) Pending(userID string) (Challenge, bool) {
	v, err := s.pending.Get(userID)
	if err != nil {
		return Challenge{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return *v.(*Challenge), true
}

// Check compares a DM reply with the user's challenge, case-insensitively.
func (s *Service) Check(userID, input string) (Result, error) {
	v, err := s.pending.Get(userID)
	if err != nil {
		return Result{}, ErrNoChallenge
	}

	s.mu.Lock()
	ch := v.(*Challenge)
	if ch.done {
		s.mu.Unlock()
		return Result{}, ErrNoChallenge
	}
	res := Result{GuildID: ch.GuildID}
	if strings.EqualFold(strings.TrimSpace(input), ch.Code) {
		ch.done = true
		res.Outcome = Passed
	} else {
		ch.Attempts++
		res.Remaining = MaxAttempts - ch.Attempts
		res.Outcome = Wrong
		if res.Remaining <= 0 {
			ch.done = true
			res.Outcome = Exhausted
			res.Remaining = 0
		}
	}
	done := ch.done
	s.mu.Unlock()

	if done {
		_ = s.pending.Remove(userID)
	}
	return res, nil
}

// Cancel drops a challenge, e.g. when the member leaves the guild.
func (s *Service) Cancel(userID string) {
	v, err := s.pending.Get(userID)
	if err != nil {
		return
	}
	s.mu.Lock()
	v.(*Challenge).done = true
	s.mu.Unlock()
	_ = s.pending.Remove(userID)
}

// Close stops the expiry goroutine of the challenge cache.
func (s *Service) Close() error {
	return s.pending.Close()
}

// Settings returns the guild settings; unset guilds are disabled.
func (s *Service) Settings(ctx context.Context, guildID string) (models.CaptchaSettings, error) {
	var out models.CaptchaSettings
	err := s.doc.View(ctx, func(d *models.CaptchaDocument) error {
		if cfg, ok := d.Guilds[guildID]; ok {
			out = *cfg
		}
		return nil
	})
	return out, err
}

// Configure changes whichever of enabled and roleID is given.
func (s *Service) Configure(ctx context.Context, guildID string, enabled *bool, roleID string) (models.CaptchaSettings, error) {
	var out models.CaptchaSettings
	err := s.doc.Update(ctx, func(d *models.CaptchaDocument) error {
		cfg, ok := d.Guilds[guildID]
		if !ok {
			cfg = &models.CaptchaSettings{}
			d.Guilds[guildID] = cfg
		}
		if enabled != nil {
			cfg.Enabled = *enabled
		}
		if roleID != "" {
			cfg.RoleID = roleID
		}
		out = *cfg
		return nil
	})
	return out, err
}
