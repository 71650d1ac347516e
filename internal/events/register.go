// Package events connects gateway events to the feature modules.
// Handlers are grouped by category (guild, member, message, voice, etc.)
package events

import (
	"github.com/PancyStudios/CompanionBotGo/internal/modules"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
)

var services *modules.Services

// RegisterAll registers all events with the Discord client. Command groups
// must be registered first: handlers reuse their Discord-side flows.
func RegisterAll(client *discord.ExtendedClient, svc *modules.Services) {
	logger.System("📋 Registrando eventos del bot...", "Events")
	services = svc

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Member events (captcha, welcome)
	RegisterMemberEvents(client)

	// Message events (counting, XP, announcer, assistant, captcha DMs)
	RegisterMessageEvents(client)

	// Voice events (temporary channels)
	RegisterVoiceEvents(client)

	// Channel deletions (temp voice, counting, tickets)
	RegisterChannelEvents(client)

	// Shard connection state
	RegisterShardEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
