package utils

import (
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
)

// createStatusCommand creates the /utils status subcommand
func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		"utils",
		statusHandler,
	)
}

func storageStatus() string {
	if store == nil {
		return "🔴 | Sin almacenamiento"
	}
	if store.Backend() != "mongo" {
		return "🟢 | Archivos JSON"
	}
	db := database.Get()
	if db == nil {
		return "🔴 | Desconectado"
	}
	status, ok := db.GetStatus()
	if !ok && db.QueueLength() > 0 {
		status += fmt.Sprintf(" (%d escrituras en cola)", db.QueueLength())
	}
	return status
}

func statusHandler(ctx *discord.CommandContext) error {
	embed := discord.NewEmbed("📊 Estado del Bot", "", discord.ColorBlurple)
	embed.Fields = append(embed.Fields,
		discord.Field("Bot", "🟢 | En linea", true),
		discord.Field("Almacenamiento", storageStatus(), true),
		discord.Field("Servidores", fmt.Sprintf("%d", ctx.Client.GuildCount()), true),
		discord.Field("Activo desde", fmt.Sprintf("<t:%d:R>", ctx.Client.StartTime.Unix()), true),
		discord.Field("Latencia", ctx.Session.HeartbeatLatency().Round(time.Millisecond).String(), true),
	)
	return ctx.ReplyEmbed(embed)
}
