// Package selfroles manages role panels: messages with buttons that let
// members toggle roles on themselves.
package selfroles

import (
	"context"
	"regexp"
	"strings"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/google/uuid"
)

const (
	DocumentName = "self_roles"
	// MaxRoles is the button limit of a message (5 rows of 5).
	MaxRoles = 25
)

var (
	ErrPanelNotFound  = errors.Sentinel("panel no encontrado")
	ErrRoleInPanel    = errors.Sentinel("el rol ya está en el panel")
	ErrRoleNotInPanel = errors.Sentinel("el rol no está en el panel")
	ErrTooManyRoles   = errors.Sentinel("un panel admite como máximo 25 roles")
	ErrNoRoles        = errors.Sentinel("indica al menos un rol")
)

var styleAliases = map[string]string{
	"blurple":   "primary",
	"primary":   "primary",
	"grey":      "secondary",
	"gray":      "secondary",
	"secondary": "secondary",
	"green":     "success",
	"success":   "success",
	"red":       "danger",
	"danger":    "danger",
}

// NormalizeStyle maps a colour alias to a button style name.
func NormalizeStyle(alias string) (string, bool) {
	s, ok := styleAliases[strings.ToLower(strings.TrimSpace(alias))]
	return s, ok
}

var roleToken = regexp.MustCompile(`^(?:<@&)?(\d{5,25})>?$`)

// RoleSpec is a parsed role argument before the label is resolved.
type RoleSpec struct {
	RoleID string
	Style  string
	Emoji  string
}

// ParseRoleSpecs parses whitespace separated "<@&id>[:style[:emoji]]" tokens.
// Unknown styles fall back to primary.
func ParseRoleSpecs(input string) ([]RoleSpec, error) {
	var specs []RoleSpec
	for _, tok := range strings.Fields(input) {
		parts := strings.SplitN(tok, ":", 3)
		m := roleToken.FindStringSubmatch(parts[0])
		if m == nil {
			return nil, errors.Errorf("rol inválido: %s", tok)
		}
		spec := RoleSpec{RoleID: m[1], Style: "primary"}
		if len(parts) > 1 {
			if style, ok := NormalizeStyle(parts[1]); ok {
				spec.Style = style
			}
		}
		if len(parts) > 2 {
			spec.Emoji = parts[2]
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, ErrNoRoles
	}
	if len(specs) > MaxRoles {
		return nil, ErrTooManyRoles
	}
	return specs, nil
}

type Service struct {
	doc *database.Document[models.SelfRolesDocument]
}

func NewService(store database.Store) *Service {
	return &Service{doc: database.NewDocument(store, DocumentName, models.NewSelfRolesDocument)}
}

func clonePanel(p *models.RolePanel) models.RolePanel {
	out := *p
	out.Roles = append([]models.PanelRole{}, p.Roles...)
	return out
}

// CreatePanel stores a new panel; the message id is attached later with SetMessage.
func (s *Service) CreatePanel(ctx context.Context, guildID, channelID, title, description string, roles []models.PanelRole, exclusive bool) (models.RolePanel, error) {
	if len(roles) == 0 {
		return models.RolePanel{}, ErrNoRoles
	}
	if len(roles) > MaxRoles {
		return models.RolePanel{}, ErrTooManyRoles
	}
	var out models.RolePanel
	err := s.doc.Update(ctx, func(d *models.SelfRolesDocument) error {
		p := &models.RolePanel{
			PanelID:     strings.Split(uuid.New().String(), "-")[0],
			ChannelID:   channelID,
			Title:       title,
			Description: description,
			Roles:       roles,
			Exclusive:   exclusive,
		}
		g := d.Guild(guildID)
		g.Panels = append(g.Panels, p)
		out = clonePanel(p)
		return nil
	})
	return out, err
}

// mutate runs fn on a panel and returns the updated copy.
func (s *Service) mutate(ctx context.Context, guildID, panelID string, fn func(p *models.RolePanel) error) (models.RolePanel, error) {
	var out models.RolePanel
	err := s.doc.Update(ctx, func(d *models.SelfRolesDocument) error {
		p := d.Guild(guildID).Panel(panelID)
		if p == nil {
			return ErrPanelNotFound
		}
		if err := fn(p); err != nil {
			return err
		}
		out = clonePanel(p)
		return nil
	})
	return out, err
}

// SetMessage records the message that renders a panel.
func (s *Service) SetMessage(ctx context.Context, guildID, panelID, channelID, messageID string) error {
	_, err := s.mutate(ctx, guildID, panelID, func(p *models.RolePanel) error {
		p.ChannelID = channelID
		p.MessageID = messageID
		return nil
	})
	return err
}

func (s *Service) AddRole(ctx context.Context, guildID, panelID string, role models.PanelRole) (models.RolePanel, error) {
	return s.mutate(ctx, guildID, panelID, func(p *models.RolePanel) error {
		for _, r := range p.Roles {
			if r.RoleID == role.RoleID {
				return ErrRoleInPanel
			}
		}
		if len(p.Roles) >= MaxRoles {
			return ErrTooManyRoles
		}
		p.Roles = append(p.Roles, role)
		return nil
	})
}

func (s *Service) RemoveRole(ctx context.Context, guildID, panelID, roleID string) (models.RolePanel, error) {
	return s.mutate(ctx, guildID, panelID, func(p *models.RolePanel) error {
		for i, r := range p.Roles {
			if r.RoleID == roleID {
				p.Roles = append(p.Roles[:i], p.Roles[i+1:]...)
				return nil
			}
		}
		return ErrRoleNotInPanel
	})
}

// Edit changes title and description; empty values keep the current text.
func (s *Service) Edit(ctx context.Context, guildID, panelID, title, description string) (models.RolePanel, error) {
	return s.mutate(ctx, guildID, panelID, func(p *models.RolePanel) error {
		if title != "" {
			p.Title = title
		}
		if description != "" {
			p.Description = description
		}
		return nil
	})
}

// Delete removes a panel and returns it so its message can be removed too.
func (s *Service) Delete(ctx context.Context, guildID, panelID string) (models.RolePanel, error) {
	var out models.RolePanel
	err := s.doc.Update(ctx, func(d *models.SelfRolesDocument) error {
		g := d.Guild(guildID)
		for i, p := range g.Panels {
			if p.PanelID == panelID {
				out = clonePanel(p)
				g.Panels = append(g.Panels[:i], g.Panels[i+1:]...)
				return nil
			}
		}
		return ErrPanelNotFound
	})
	return out, err
}

// Panels lists the panels of a guild.
func (s *Service) Panels(ctx context.Context, guildID string) ([]models.RolePanel, error) {
	var out []models.RolePanel
	err := s.doc.View(ctx, func(d *models.SelfRolesDocument) error {
		if g, ok := d.Guilds[guildID]; ok {
			for _, p := range g.Panels {
				out = append(out, clonePanel(p))
			}
		}
		return nil
	})
	return out, err
}

// PanelByMessage finds the panel rendered by a message.
func (s *Service) PanelByMessage(ctx context.Context, guildID, messageID string) (models.RolePanel, error) {
	var out models.RolePanel
	err := s.doc.View(ctx, func(d *models.SelfRolesDocument) error {
		if g, ok := d.Guilds[guildID]; ok {
			for _, p := range g.Panels {
				if p.MessageID == messageID {
					out = clonePanel(p)
					return nil
				}
			}
		}
		return ErrPanelNotFound
	})
	return out, err
}

// Toggle decides which roles change when a member clicks roleID. In an
// exclusive panel adding a role removes the other roles of the panel.
func Toggle(panel models.RolePanel, roleID string, memberRoles []string) (add string, remove []string) {
	has := make(map[string]bool, len(memberRoles))
	for _, r := range memberRoles {
		has[r] = true
	}
	if has[roleID] {
		return "", []string{roleID}
	}
	if panel.Exclusive {
		for _, r := range panel.Roles {
			if r.RoleID != roleID && has[r.RoleID] {
				remove = append(remove, r.RoleID)
			}
		}
	}
	return roleID, remove
}
