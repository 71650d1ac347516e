// Package assistant answers questions about the bot from a FAQ list.
package assistant

import (
	"context"
	_ "embed"
	"sort"
	"strings"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DocumentName   = "bot_assistant"
	MinQueryLength = 3
	// MatchThreshold is the similarity a fuzzy match must exceed.
	MatchThreshold = 0.6
	MaxRelated     = 2
)

var (
	ErrFAQNotFound      = errors.Sentinel("no existe esa pregunta")
	ErrFAQExists        = errors.Sentinel("esa pregunta ya existe")
	ErrCategoryNotFound = errors.Sentinel("no existe esa categoría")
	ErrChannelExists    = errors.Sentinel("ese canal ya es un canal del asistente")
	ErrChannelNotFound  = errors.Sentinel("ese canal no es un canal del asistente")
)

//go:embed faq_defaults.yaml
var defaultsYAML []byte

// DefaultFAQs decodes the built-in FAQ list.
func DefaultFAQs() ([]models.FAQ, error) {
	var faqs []models.FAQ
	if err := yaml.Unmarshal(defaultsYAML, &faqs); err != nil {
		return nil, errors.WrapIf(err, "faq_defaults.yaml")
	}
	return faqs, nil
}

func newDocument() *models.AssistantDocument {
	faqs, err := DefaultFAQs()
	if err != nil {
		logger.Error(err.Error(), "Assistant")
	}
	d := &models.AssistantDocument{FAQs: faqs}
	d.Normalize()
	return d
}

// Answer is a matched FAQ with a few questions of the same category.
type Answer struct {
	FAQ     models.FAQ
	Related []string
}

// Category is a FAQ category and its question count.
type Category struct {
	Name  string
	Count int
}

type Service struct {
	doc      *database.Document[models.AssistantDocument]
	rng      randutil.Source
	validate *validator.Validate
}

func NewService(store database.Store, rng randutil.Source) *Service {
	return &Service{
		doc:      database.NewDocument(store, DocumentName, newDocument),
		rng:      rng,
		validate: validator.New(),
	}
}

// Match finds the FAQ for a query: an exact question or alias first,
// otherwise the most similar text above MatchThreshold.
func Match(faqs []models.FAQ, query string) (models.FAQ, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if len([]rune(query)) < MinQueryLength {
		return models.FAQ{}, false
	}

	for _, f := range faqs {
		for _, text := range candidates(f) {
			if strings.ToLower(text) == query {
				return f, true
			}
		}
	}

	best, bestScore := -1, 0.0
	for i, f := range faqs {
		for _, text := range candidates(f) {
			if score := Similarity(query, strings.ToLower(text)); score > bestScore {
				best, bestScore = i, score
			}
		}
	}
	if best >= 0 && bestScore > MatchThreshold {
		return faqs[best], true
	}
	return models.FAQ{}, false
}

func candidates(f models.FAQ) []string {
	return append([]string{f.Question}, f.Aliases...)
}

// Ask answers a query.
func (s *Service) Ask(ctx context.Context, query string) (Answer, bool, error) {
	var out Answer
	found := false
	err := s.doc.View(ctx, func(d *models.AssistantDocument) error {
		f, ok := Match(d.FAQs, query)
		if !ok {
			return nil
		}
		found = true
		out.FAQ = f

		var related []string
		for _, other := range d.FAQs {
			if other.Category == f.Category && other.Question != f.Question {
				related = append(related, other.Question)
			}
		}
		out.Related = s.sample(related, MaxRelated)
		return nil
	})
	return out, found, err
}

// Suggestions returns up to n random questions, shown when nothing matched.
func (s *Service) Suggestions(ctx context.Context, n int) ([]string, error) {
	var questions []string
	err := s.doc.View(ctx, func(d *models.AssistantDocument) error {
		for _, f := range d.FAQs {
			questions = append(questions, f.Question)
		}
		return nil
	})
	return s.sample(questions, n), err
}

func (s *Service) sample(items []string, n int) []string {
	for i := len(items) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// FAQs returns every entry.
func (s *Service) FAQs(ctx context.Context) ([]models.FAQ, error) {
	var out []models.FAQ
	err := s.doc.View(ctx, func(d *models.AssistantDocument) error {
		out = append(out, d.FAQs...)
		return nil
	})
	return out, err
}

// Categories lists the categories by name.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	counts := make(map[string]int)
	err := s.doc.View(ctx, func(d *models.AssistantDocument) error {
		for _, f := range d.FAQs {
			counts[f.Category]++
		}
		return nil
	})
	out := make([]Category, 0, len(counts))
	for name, n := range counts {
		out = append(out, Category{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

// Category returns the entries of a category, matched case-insensitively.
func (s *Service) Category(ctx context.Context, name string) ([]models.FAQ, error) {
	var out []models.FAQ
	err := s.doc.View(ctx, func(d *models.AssistantDocument) error {
		for _, f := range d.FAQs {
			if strings.EqualFold(f.Category, strings.TrimSpace(name)) {
				out = append(out, f)
			}
		}
		if len(out) == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
	return out, err
}

// Add appends a validated entry.
func (s *Service) Add(ctx context.Context, f models.FAQ) error {
	f.Question = strings.TrimSpace(f.Question)
	f.Answer = strings.TrimSpace(f.Answer)
	f.Category = strings.TrimSpace(f.Category)
	if f.Aliases == nil {
		f.Aliases = []string{}
	}
	if err := s.validate.Struct(f); err != nil {
		return errors.WrapIf(err, "faq inválida")
	}
	return s.doc.Update(ctx, func(d *models.AssistantDocument) error {
		for _, existing := range d.FAQs {
			if strings.EqualFold(existing.Question, f.Question) {
				return ErrFAQExists
			}
		}
		d.FAQs = append(d.FAQs, f)
		return nil
	})
}

// Remove deletes the entry with the given question.
func (s *Service) Remove(ctx context.Context, question string) (models.FAQ, error) {
	var removed models.FAQ
	err := s.doc.Update(ctx, func(d *models.AssistantDocument) error {
		for i, f := range d.FAQs {
			if strings.EqualFold(f.Question, strings.TrimSpace(question)) {
				removed = f
				d.FAQs = append(d.FAQs[:i], d.FAQs[i+1:]...)
				return nil
			}
		}
		return ErrFAQNotFound
	})
	return removed, err
}

// AddChannel makes the assistant answer every message in a channel.
func (s *Service) AddChannel(ctx context.Context, guildID, channelID string) error {
	return s.doc.Update(ctx, func(d *models.AssistantDocument) error {
		for _, id := range d.AssistantChannels[guildID] {
			if id == channelID {
				return ErrChannelExists
			}
		}
		d.AssistantChannels[guildID] = append(d.AssistantChannels[guildID], channelID)
		return nil
	})
}

// RemoveChannel stops answering in a channel.
func (s *Service) RemoveChannel(ctx context.Context, guildID, channelID string) error {
	return s.doc.Update(ctx, func(d *models.AssistantDocument) error {
		channels := d.AssistantChannels[guildID]
		for i, id := range channels {
			if id == channelID {
				channels = append(channels[:i], channels[i+1:]...)
				if len(channels) == 0 {
					delete(d.AssistantChannels, guildID)
				} else {
					d.AssistantChannels[guildID] = channels
				}
				return nil
			}
		}
		return ErrChannelNotFound
	})
}

// Channels lists the assistant channels of a guild.
func (s *Service) Channels(ctx context.Context, guildID string) ([]string, error) {
	var out []string
	err := s.doc.View(ctx, func(d *models.AssistantDocument) error {
		out = append(out, d.AssistantChannels[guildID]...)
		return nil
	})
	return out, err
}

// IsAssistantChannel reports whether messages in the channel are answered.
func (s *Service) IsAssistantChannel(ctx context.Context, guildID, channelID string) bool {
	found := false
	_ = s.doc.View(ctx, func(d *models.AssistantDocument) error {
		for _, id := range d.AssistantChannels[guildID] {
			if id == channelID {
				found = true
			}
		}
		return nil
	})
	return found
}
