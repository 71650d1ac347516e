// Package voice holds the /tempvoice command group and the control panel of
// temporary voice channels.
package voice

import (
	"github.com/PancyStudios/CompanionBotGo/internal/modules/tempvoice"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

var service *tempvoice.Service

// RegisterTempVoiceCommands registers /tempvoice and the tv:* components
func RegisterTempVoiceCommands(client *discord.ExtendedClient, svc *tempvoice.Service) {
	service = svc

	group := client.CommandHandler.BuildCommandGroup(
		"tempvoice",
		"Salas de voz temporales",
		createSetupCommand(),
		createRemoveCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)

	client.Components.Handle(routeRename, renameButtonHandler)
	client.Components.Handle(routeLimit, limitButtonHandler)
	client.Components.Handle(routeLock, lockButtonHandler)
	client.Components.Handle(routeHide, hideButtonHandler)
	client.Components.Handle(routeRenameModal, renameModalHandler)
	client.Components.Handle(routeLimitModal, limitModalHandler)
}
