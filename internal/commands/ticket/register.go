// Package ticket holds the /ticket command group and the ticket buttons.
package ticket

import (
	"github.com/PancyStudios/CompanionBotGo/internal/modules/tickets"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

// Button custom ids
const (
	createButtonID = "ticket:create"
	closeButtonID  = "ticket:close"
)

var service *tickets.Service

// RegisterTicketCommands registers the /ticket subcommands and the buttons
// used by ticket panels and ticket channels.
func RegisterTicketCommands(client *discord.ExtendedClient, svc *tickets.Service) {
	service = svc

	group := client.CommandHandler.BuildCommandGroup(
		"ticket",
		"Sistema de tickets de soporte",
		createSetupCommand(),
		createPanelCommand(),
		createCloseCommand(),
		createAddCommand(),
		createMessageCommand(),
		createLogChannelCommand(),
		createAddRoleCommand(),
		createRemoveRoleCommand(),
		createRolesCommand(),
		createListCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)

	client.Components.Handle(createButtonID, createButtonHandler)
	client.Components.Handle(closeButtonID, closeButtonHandler)
}
