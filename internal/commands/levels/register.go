// Package levels holds the /level command group.
package levels

import (
	"github.com/PancyStudios/CompanionBotGo/internal/modules/leveling"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

var service *leveling.Service

// RegisterLevelCommands registers all /level subcommands
func RegisterLevelCommands(client *discord.ExtendedClient, svc *leveling.Service) {
	service = svc

	group := client.CommandHandler.BuildCommandGroup(
		"level",
		"Sistema de niveles",
		createRankCommand(),
		createLeaderboardCommand(),
		createSetupCommand(),
		createSetRoleCommand(),
		createRemoveRoleCommand(),
		createSetXPRangeCommand(),
		createSetLeaderboardCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)
}
