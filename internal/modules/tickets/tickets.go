// Package tickets manages support tickets: one private channel per request,
// numbered per guild and visible to the opener and the support roles.
package tickets

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
)

const DocumentName = "tickets"

// DefaultMessage is shown in the panel until a guild sets its own.
const DefaultMessage = "Pulsa el botón de abajo para abrir un ticket. El equipo de soporte te atenderá lo antes posible."

var (
	ErrAlreadyOpen      = errors.Sentinel("ya tienes un ticket abierto, ciérralo antes de abrir otro")
	ErrNotATicket       = errors.Sentinel("este canal no es un ticket")
	ErrRoleAlreadyAdded = errors.Sentinel("el rol ya es un rol de soporte")
	ErrRoleNotFound     = errors.Sentinel("el rol no es un rol de soporte")
)

// ChannelName is the name of the channel for ticket n.
func ChannelName(n int) string {
	return fmt.Sprintf("ticket-%d", n)
}

type Service struct {
	doc    *database.Document[models.TicketsDocument]
	events mqtt.Emitter

	// reserved numbers whose channel is still being created, by guild/user
	mu      sync.Mutex
	pending map[string]int
}

// NewService creates the ticket service. events may be nil.
func NewService(store database.Store, events mqtt.Emitter) *Service {
	return &Service{
		doc:     database.NewDocument(store, DocumentName, models.NewTicketsDocument),
		events:  events,
		pending: make(map[string]int),
	}
}

func pendingKey(guildID, userID string) string {
	return guildID + "/" + userID
}

func (s *Service) emit(guildID, kind string, payload interface{}) {
	if s.events != nil {
		s.events.Emit(guildID, kind, payload)
	}
}

// Settings returns a copy of the guild settings.
func (s *Service) Settings(ctx context.Context, guildID string) (models.TicketSettings, error) {
	var out models.TicketSettings
	err := s.doc.View(ctx, func(d *models.TicketsDocument) error {
		if g, ok := d.Guilds[guildID]; ok {
			out = g.Settings
			out.SupportRoleIDs = append([]string{}, g.Settings.SupportRoleIDs...)
		}
		return nil
	})
	if out.TicketMessage == "" {
		out.TicketMessage = DefaultMessage
	}
	return out, err
}

// Configure sets the category, an extra support role and the log channel.
// Empty arguments leave the current value untouched.
func (s *Service) Configure(ctx context.Context, guildID, categoryID, supportRoleID, logChannelID string) (models.TicketSettings, error) {
	err := s.doc.Update(ctx, func(d *models.TicketsDocument) error {
		g := d.Guild(guildID)
		if categoryID != "" {
			g.Settings.CategoryID = categoryID
		}
		if supportRoleID != "" && !contains(g.Settings.SupportRoleIDs, supportRoleID) {
			g.Settings.SupportRoleIDs = append(g.Settings.SupportRoleIDs, supportRoleID)
		}
		if logChannelID != "" {
			g.Settings.LogChannelID = logChannelID
		}
		return nil
	})
	if err != nil {
		return models.TicketSettings{}, err
	}
	return s.Settings(ctx, guildID)
}

// SetMessage changes the panel text.
func (s *Service) SetMessage(ctx context.Context, guildID, message string) error {
	return s.doc.Update(ctx, func(d *models.TicketsDocument) error {
		d.Guild(guildID).Settings.TicketMessage = message
		return nil
	})
}

// SetLogChannel changes where ticket events are logged.
func (s *Service) SetLogChannel(ctx context.Context, guildID, channelID string) error {
	return s.doc.Update(ctx, func(d *models.TicketsDocument) error {
		d.Guild(guildID).Settings.LogChannelID = channelID
		return nil
	})
}

func (s *Service) AddSupportRole(ctx context.Context, guildID, roleID string) error {
	return s.doc.Update(ctx, func(d *models.TicketsDocument) error {
		g := d.Guild(guildID)
		if contains(g.Settings.SupportRoleIDs, roleID) {
			return ErrRoleAlreadyAdded
		}
		g.Settings.SupportRoleIDs = append(g.Settings.SupportRoleIDs, roleID)
		return nil
	})
}

func (s *Service) RemoveSupportRole(ctx context.Context, guildID, roleID string) error {
	return s.doc.Update(ctx, func(d *models.TicketsDocument) error {
		g := d.Guild(guildID)
		for i, id := range g.Settings.SupportRoleIDs {
			if id == roleID {
				g.Settings.SupportRoleIDs = append(g.Settings.SupportRoleIDs[:i], g.Settings.SupportRoleIDs[i+1:]...)
				return nil
			}
		}
		return ErrRoleNotFound
	})
}

// Reserve checks that the user has no open ticket and takes the next number.
// The reservation counts as an open ticket until Register or Release.
// exists reports whether a ticket channel is still present; tickets whose
// channel vanished do not block a new one. It is called without holding the
// document, so it may hit the network.
func (s *Service) Reserve(ctx context.Context, guildID, userID string, exists func(channelID string) bool) (int, error) {
	var owned []string
	err := s.doc.View(ctx, func(d *models.TicketsDocument) error {
		if g, ok := d.Guilds[guildID]; ok {
			for channelID, t := range g.Tickets {
				if t.UserID == userID {
					owned = append(owned, channelID)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	gone := make(map[string]bool, len(owned))
	for _, channelID := range owned {
		if !exists(channelID) {
			gone[channelID] = true
		}
	}

	key := pendingKey(guildID, userID)
	var number int
	err = s.doc.Update(ctx, func(d *models.TicketsDocument) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.pending[key]; ok {
			return ErrAlreadyOpen
		}

		g := d.Guild(guildID)
		for channelID, t := range g.Tickets {
			// tickets registered after the existence check are never in gone
			if t.UserID == userID && !gone[channelID] {
				return ErrAlreadyOpen
			}
		}
		g.Counter++
		number = g.Counter
		s.pending[key] = number
		return nil
	})
	return number, err
}

// Release drops a reservation whose channel could not be created.
func (s *Service) Release(guildID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, pendingKey(guildID, userID))
}

// Register records the channel created for a reserved ticket and ends the
// reservation.
func (s *Service) Register(ctx context.Context, guildID, channelID string, number int, userID string, now time.Time) error {
	defer s.Release(guildID, userID)

	err := s.doc.Update(ctx, func(d *models.TicketsDocument) error {
		d.Guild(guildID).Tickets[channelID] = &models.Ticket{
			Number:    number,
			UserID:    userID,
			CreatedAt: now.Unix(),
		}
		return nil
	})
	if err == nil {
		s.emit(guildID, "ticket_opened", map[string]interface{}{"number": number, "userId": userID, "channelId": channelID})
	}
	return err
}

// Ticket returns the ticket bound to a channel.
func (s *Service) Ticket(ctx context.Context, guildID, channelID string) (models.Ticket, error) {
	var out models.Ticket
	err := s.doc.View(ctx, func(d *models.TicketsDocument) error {
		g, ok := d.Guilds[guildID]
		if !ok {
			return ErrNotATicket
		}
		t, ok := g.Tickets[channelID]
		if !ok {
			return ErrNotATicket
		}
		out = *t
		return nil
	})
	return out, err
}

// CanClose reports whether a member may close a ticket: its opener, an
// administrator or anyone holding a support role.
func CanClose(t models.Ticket, userID string, isAdmin bool, memberRoles, supportRoles []string) bool {
	if isAdmin || t.UserID == userID {
		return true
	}
	for _, r := range memberRoles {
		if contains(supportRoles, r) {
			return true
		}
	}
	return false
}

// Close forgets a ticket and returns it.
func (s *Service) Close(ctx context.Context, guildID, channelID, closedBy string) (models.Ticket, error) {
	var out models.Ticket
	err := s.doc.Update(ctx, func(d *models.TicketsDocument) error {
		g, ok := d.Guilds[guildID]
		if !ok {
			return ErrNotATicket
		}
		t, ok := g.Tickets[channelID]
		if !ok {
			return ErrNotATicket
		}
		out = *t
		delete(g.Tickets, channelID)
		return nil
	})
	if err == nil {
		s.emit(guildID, "ticket_closed", map[string]interface{}{"number": out.Number, "closedBy": closedBy})
	}
	return out, err
}

// OpenTicket is a ticket with its channel, for listings.
type OpenTicket struct {
	ChannelID string `json:"channelId"`
	models.Ticket
}

// List returns the open tickets of a guild ordered by number.
func (s *Service) List(ctx context.Context, guildID string) ([]OpenTicket, error) {
	var out []OpenTicket
	err := s.doc.View(ctx, func(d *models.TicketsDocument) error {
		if g, ok := d.Guilds[guildID]; ok {
			for id, t := range g.Tickets {
				out = append(out, OpenTicket{ChannelID: id, Ticket: *t})
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, err
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
