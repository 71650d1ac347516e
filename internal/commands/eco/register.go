// Package eco holds the /economy command group.
package eco

import (
	"github.com/PancyStudios/CompanionBotGo/internal/modules/economy"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

var service *economy.Service

// RegisterEconomyCommands registers the /economy subcommands and the
// /economy settings subcommand group.
func RegisterEconomyCommands(client *discord.ExtendedClient, svc *economy.Service) {
	service = svc

	group := client.CommandHandler.BuildCommandGroup(
		"economy",
		"Sistema de economía del servidor",
		createBalanceCommand(),
		createDailyCommand(),
		createWorkCommand(),
		createPayCommand(),
		createRobCommand(),
		createBegCommand(),
		createRichlistCommand(),
		createGiveCommand(),
		createTakeCommand(),
	)
	group.Options = append(group.Options, client.CommandHandler.BuildSubcommandGroup(
		"economy",
		"settings",
		"Ajustes globales de la economía",
		createSettingsShowCommand(),
		createSettingsSetCommand(),
	))

	client.CommandHandler.AddGlobalCommand(group)
}
