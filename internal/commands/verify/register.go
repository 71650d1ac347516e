// Package verify holds the /captcha commands and the captcha challenge flow
// run when members join.
package verify

import (
	"github.com/PancyStudios/CompanionBotGo/internal/modules/captcha"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

var service *captcha.Service

// RegisterCaptchaCommands registers /captcha and the expiry notice of challenges
func RegisterCaptchaCommands(client *discord.ExtendedClient, svc *captcha.Service) {
	service = svc
	svc.OnExpire(func(ch captcha.Challenge) {
		notifyExpired(client.Session, ch)
	})

	group := client.CommandHandler.BuildCommandGroup(
		"captcha",
		"Verificación de nuevos miembros",
		createSetupCommand(),
		createTestCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)
}
