package utils

import (
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

// createPingCommand creates the /utils ping subcommand
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Comprueba la latencia del bot",
		"utils",
		pingHandler,
	)
}

func pingHandler(ctx *discord.CommandContext) error {
	start := time.Now()
	if err := ctx.Defer(); err != nil {
		return err
	}
	roundTrip := time.Since(start).Round(time.Millisecond)
	heartbeat := ctx.Session.HeartbeatLatency().Round(time.Millisecond)
	return ctx.EditReply(fmt.Sprintf("🏓 ¡Pong! Gateway: **%v** · Respuesta: **%v**", heartbeat, roundTrip))
}
