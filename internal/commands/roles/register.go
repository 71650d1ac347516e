// Package roles holds the /selfroles command group and the role toggle buttons.
package roles

import (
	"github.com/PancyStudios/CompanionBotGo/internal/modules/selfroles"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

// buttonRoute prefixes the custom id of every role button: role_button:<role id>.
const buttonRoute = "role_button"

var service *selfroles.Service

// RegisterSelfRoleCommands registers all /selfroles subcommands
func RegisterSelfRoleCommands(client *discord.ExtendedClient, svc *selfroles.Service) {
	service = svc

	group := client.CommandHandler.BuildCommandGroup(
		"selfroles",
		"Paneles de roles autoasignables",
		createCreateCommand(),
		createAddRoleCommand(),
		createRemoveRoleCommand(),
		createEditCommand(),
		createDeleteCommand(),
		createListCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)

	client.Components.Handle(buttonRoute, roleButtonHandler)
}
