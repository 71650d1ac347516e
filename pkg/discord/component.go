package discord

import (
	"strings"
	"sync"

	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// ComponentContext is the context for button, select menu and modal interactions.
// Args holds the part of the custom id after the matched route.
type ComponentContext struct {
	*CommandContext
	Route string
	Args  string
}

// ComponentHandlerFunc handles a routed component interaction
type ComponentHandlerFunc func(ctx *ComponentContext) error

// ComponentRouter routes component interactions by custom id.
// A handler registered for "tv:rename" receives "tv:rename:123" with Args "123".
type ComponentRouter struct {
	routes map[string]ComponentHandlerFunc
	mu     sync.RWMutex
}

// NewComponentRouter creates an empty router
func NewComponentRouter() *ComponentRouter {
	return &ComponentRouter{
		routes: make(map[string]ComponentHandlerFunc),
	}
}

// Handle registers a handler for a custom id route
func (r *ComponentRouter) Handle(route string, fn ComponentHandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[route] = fn
	logger.Debug("Componente registrado: "+route, "ComponentRouter")
}

// Match finds the most specific route for a custom id.
func (r *ComponentRouter) Match(customID string) (ComponentHandlerFunc, string, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route := customID
	args := ""
	for {
		if fn, ok := r.routes[route]; ok {
			return fn, route, args, true
		}
		idx := strings.LastIndex(route, ":")
		if idx < 0 {
			return nil, "", "", false
		}
		if args == "" {
			args = route[idx+1:]
		} else {
			args = route[idx+1:] + ":" + args
		}
		route = route[:idx]
	}
}

func customID(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID
	}
	return ""
}

// Dispatch runs the handler matching the interaction's custom id
func (r *ComponentRouter) Dispatch(ctx *CommandContext) error {
	id := customID(ctx.Interaction)
	fn, route, args, ok := r.Match(id)
	if !ok {
		logger.Debug("Componente sin handler: "+id, "ComponentRouter")
		return nil
	}
	return fn(&ComponentContext{CommandContext: ctx, Route: route, Args: args})
}

// CustomID returns the full custom id of the interaction
func (ctx *ComponentContext) CustomID() string {
	return customID(ctx.Interaction)
}

// Values returns the selected values of a select menu
func (ctx *ComponentContext) Values() []string {
	if ctx.Interaction.Type != discordgo.InteractionMessageComponent {
		return nil
	}
	return ctx.Interaction.MessageComponentData().Values
}

// ModalValue returns the value of a text input in a submitted modal
func (ctx *ComponentContext) ModalValue(inputID string) string {
	if ctx.Interaction.Type != discordgo.InteractionModalSubmit {
		return ""
	}
	for _, row := range ctx.Interaction.ModalSubmitData().Components {
		actions, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range actions.Components {
			if input, ok := c.(*discordgo.TextInput); ok && input.CustomID == inputID {
				return input.Value
			}
		}
	}
	return ""
}

// UpdateMessage replaces the message the component belongs to
func (ctx *ComponentContext) UpdateMessage(content string, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Embeds:     embeds,
			Components: components,
		},
	})
}

// DeferUpdate acknowledges the component without changing the message
func (ctx *ComponentContext) DeferUpdate() error {
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}
