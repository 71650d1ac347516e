// Package welcome renders and configures the greeting sent when a member joins.
package welcome

import (
	"context"
	"strconv"
	"strings"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/go-playground/validator/v10"
)

const (
	DocumentName = "welcome_settings"
	Unknown      = "Desconocido"
)

var (
	ErrInvalidColor = errors.Sentinel("color inválido, usa un valor hexadecimal como 0xFF0000 o #FF0000")
	ErrEmptyMessage = errors.Sentinel("el mensaje no puede estar vacío")
)

// Vars are the values substituted into a welcome message.
type Vars struct {
	Username    string
	UserID      string
	UserTag     string
	Server      string
	MemberCount int
}

// Variable documents one placeholder.
type Variable struct {
	Name        string
	Description string
}

// Variables lists the placeholders shown by the variables command.
var Variables = []Variable{
	{"{user}", "Nombre del nuevo miembro"},
	{"{user_mention}", "Menciona al nuevo miembro"},
	{"{user_tag}", "Nombre completo del miembro (usuario#0000)"},
	{"{user_id}", "ID del nuevo miembro"},
	{"{server}", "Nombre del servidor"},
	{"{member_count}", "Número actual de miembros"},
	{"{inviter}", "Quién invitó al miembro (no disponible, muestra \"Desconocido\")"},
	{"{inviter_name}", "Nombre de quien invitó (no disponible)"},
	{"{inviter_tag}", "Tag de quien invitó (no disponible)"},
}

// Render fills the placeholders of a message.
func Render(message string, v Vars) string {
	r := strings.NewReplacer(
		"{user_mention}", "<@"+v.UserID+">",
		"{user_tag}", v.UserTag,
		"{user_id}", v.UserID,
		"{user}", v.Username,
		"{server}", v.Server,
		"{member_count}", strconv.Itoa(v.MemberCount),
		"{inviter_name}", Unknown,
		"{inviter_tag}", Unknown,
		"{inviter}", Unknown,
	)
	return r.Replace(message)
}

// ParseColor reads 0xRRGGBB, #RRGGBB or RRGGBB.
func ParseColor(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(raw), "0x"), "#")
	if raw == "" || len(raw) > 6 {
		return 0, ErrInvalidColor
	}
	n, err := strconv.ParseInt(raw, 16, 32)
	if err != nil {
		return 0, ErrInvalidColor
	}
	return int(n), nil
}

// FormatColor renders a colour as 0xRRGGBB.
func FormatColor(c int) string {
	return "0x" + strings.ToUpper(leftPad(strconv.FormatInt(int64(c), 16), 6))
}

func leftPad(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	return s
}

type Service struct {
	doc      *database.Document[models.WelcomeDocument]
	validate *validator.Validate
}

func NewService(store database.Store) *Service {
	return &Service{
		doc:      database.NewDocument(store, DocumentName, models.NewWelcomeDocument),
		validate: validator.New(),
	}
}

// Settings returns the guild settings or the defaults.
func (s *Service) Settings(ctx context.Context, guildID string) (models.WelcomeSettings, error) {
	out := models.DefaultWelcomeSettings()
	err := s.doc.View(ctx, func(d *models.WelcomeDocument) error {
		if cfg, ok := d.Guilds[guildID]; ok {
			out = *cfg
		}
		return nil
	})
	return out, err
}

// IsConfigured reports whether the guild has stored settings.
func (s *Service) IsConfigured(ctx context.Context, guildID string) bool {
	found := false
	_ = s.doc.View(ctx, func(d *models.WelcomeDocument) error {
		_, found = d.Guilds[guildID]
		return nil
	})
	return found
}

func (s *Service) update(ctx context.Context, guildID string, fn func(*models.WelcomeSettings) error) (models.WelcomeSettings, error) {
	var out models.WelcomeSettings
	err := s.doc.Update(ctx, func(d *models.WelcomeDocument) error {
		next := *d.Guild(guildID)
		if err := fn(&next); err != nil {
			return err
		}
		if err := s.validate.Struct(next); err != nil {
			return errors.WrapIf(err, "configuración de bienvenida inválida")
		}
		*d.Guilds[guildID] = next
		out = next
		return nil
	})
	return out, err
}

// SetChannel sets the welcome channel and enables the messages.
func (s *Service) SetChannel(ctx context.Context, guildID, channelID string) (models.WelcomeSettings, error) {
	return s.update(ctx, guildID, func(w *models.WelcomeSettings) error {
		w.ChannelID = channelID
		w.Enabled = true
		return nil
	})
}

// SetMessage replaces the message template.
func (s *Service) SetMessage(ctx context.Context, guildID, message string) (models.WelcomeSettings, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.WelcomeSettings{}, ErrEmptyMessage
	}
	return s.update(ctx, guildID, func(w *models.WelcomeSettings) error {
		w.Message = message
		return nil
	})
}

// Toggle flips whether welcome messages are sent.
func (s *Service) Toggle(ctx context.Context, guildID string) (models.WelcomeSettings, error) {
	return s.update(ctx, guildID, func(w *models.WelcomeSettings) error {
		w.Enabled = !w.Enabled
		return nil
	})
}

// ToggleEmbed flips between embed and plain text messages.
func (s *Service) ToggleEmbed(ctx context.Context, guildID string) (models.WelcomeSettings, error) {
	return s.update(ctx, guildID, func(w *models.WelcomeSettings) error {
		w.EmbedEnabled = !w.EmbedEnabled
		return nil
	})
}

// ToggleImage flips the welcome card.
func (s *Service) ToggleImage(ctx context.Context, guildID string) (models.WelcomeSettings, error) {
	return s.update(ctx, guildID, func(w *models.WelcomeSettings) error {
		w.ImageEnabled = !w.ImageEnabled
		return nil
	})
}

// SetColor sets the embed colour from user input.
func (s *Service) SetColor(ctx context.Context, guildID, raw string) (models.WelcomeSettings, error) {
	color, err := ParseColor(raw)
	if err != nil {
		return models.WelcomeSettings{}, err
	}
	return s.update(ctx, guildID, func(w *models.WelcomeSettings) error {
		w.EmbedColor = color
		return nil
	})
}

// Replace stores a full settings value, as sent by the dashboard.
func (s *Service) Replace(ctx context.Context, guildID string, next models.WelcomeSettings) (models.WelcomeSettings, error) {
	next.Message = strings.TrimSpace(next.Message)
	return s.update(ctx, guildID, func(w *models.WelcomeSettings) error {
		*w = next
		return nil
	})
}
