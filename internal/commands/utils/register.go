package utils

import (
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

var store database.Store

// RegisterUtilsCommands registers all utility commands as /utils subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient, st database.Store) {
	store = st

	group := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		createPingCommand(),
		createStatusCommand(),
		createHelpCommand(),
		createBotInfoCommand(),
		createSetupGuideCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)
}
