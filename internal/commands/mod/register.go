// Package mod provides moderation commands organized as subcommands under /mod.
// Each command is in its own file.
package mod

import (
	"github.com/PancyStudios/CompanionBotGo/internal/modules/moderation"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

var service *moderation.Service

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient, svc *moderation.Service) {
	service = svc

	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		createSetLogCommand(),
		createWarnCommand(),
		createKickCommand(),
		createBanCommand(),
		createUnbanCommand(),
		createMuteCommand(),
		createUnmuteCommand(),
		createClearCommand(),
		createAllClearCommand(),
		createLogsCommand(),
		createRemoveCaseCommand(),
	)

	client.CommandHandler.AddGlobalCommand(modGroup)
}
