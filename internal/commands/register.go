// Package commands wires every slash command group to the Discord client.
// Commands live in subdirectories by feature (eco, levels, mod, ticket, etc.)
package commands

import (
	"github.com/PancyStudios/CompanionBotGo/internal/commands/announce"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/count"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/dev"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/eco"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/faq"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/greet"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/levels"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/lock"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/mod"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/roles"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/serverstats"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/ticket"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/utils"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/verify"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/voice"
	"github.com/PancyStudios/CompanionBotGo/internal/modules"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc *modules.Services, store database.Store) {
	// Community
	eco.RegisterEconomyCommands(client, svc.Economy)
	levels.RegisterLevelCommands(client, svc.Leveling)
	count.RegisterCountingCommands(client, svc.Counting)
	roles.RegisterSelfRoleCommands(client, svc.SelfRoles)
	voice.RegisterTempVoiceCommands(client, svc.TempVoice)
	greet.RegisterWelcomeCommands(client, svc.Welcome)
	faq.RegisterFAQCommands(client, svc.Assistant)
	announce.RegisterAnnouncerCommands(client, svc.Announcer, svc.Scraper)

	// Moderation and server management
	mod.RegisterModCommands(client, svc.Moderation)
	ticket.RegisterTicketCommands(client, svc.Tickets)
	verify.RegisterCaptchaCommands(client, svc.Captcha)
	lock.RegisterLockCommands(client, svc.Locker)
	serverstats.RegisterServerStatsCommands(client, svc.Stats)

	// Utility
	utils.RegisterUtilsCommands(client, store)

	// Developers (dev guild only)
	dev.Register(client, store, svc)
}
