// Package dev holds the owner-only /dev command group, registered in the dev guild only.
package dev

import (
	"github.com/PancyStudios/CompanionBotGo/internal/modules"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

var (
	store    database.Store
	services *modules.Services
)

// Register registers all dev commands as /dev subcommands (only in dev guild)
func Register(client *discord.ExtendedClient, st database.Store, svc *modules.Services) {
	store = st
	services = svc

	group := client.CommandHandler.BuildCommandGroup(
		"dev",
		"Comandos de desarrollo",
		CreateEvalCommand(),
		createReloadCommand(),
	)
	client.CommandHandler.AddDevCommand(group)
}
