package utils

import (
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

type guideStep struct {
	title string
	body  string
}

var guideSteps = []guideStep{
	{"1️⃣ Moderación", "`/mod setlog` define el canal de registros. Después `/mod warn`, `/mod mute` y compañía quedan registrados como casos."},
	{"2️⃣ Bienvenida y verificación", "`/welcome channel` activa la bienvenida. `/captcha setup` pide un captcha por MD a los nuevos miembros."},
	{"3️⃣ Tickets", "`/ticket setup` con una categoría y un rol de soporte, luego `/ticket panel` publica el botón para abrir tickets."},
	{"4️⃣ Roles", "`/selfroles create` publica un panel de botones para que cada miembro elija sus roles."},
	{"5️⃣ Niveles y economía", "Los niveles funcionan solos. `/level setleaderboard` publica una tabla que se actualiza cada 5 minutos. `/economy daily` para empezar a ganar monedas."},
	{"6️⃣ Canales especiales", "`/counting setup`, `/tempvoice setup`, `/serverstats setup`, `/faq setup` y `/announcer setchannel`."},
	{"7️⃣ Panel web", "Inicia sesión en el panel con tu cuenta de Discord para ajustar la configuración desde el navegador."},
}

// createSetupGuideCommand creates the /utils setupguide subcommand
func createSetupGuideCommand() *discord.Command {
	return discord.NewCommand(
		"setupguide",
		"Guía rápida para configurar el bot",
		"utils",
		setupGuideHandler,
	)
}

func setupGuideHandler(ctx *discord.CommandContext) error {
	embed := discord.NewEmbed("🧭 Guía de configuración", "Sigue estos pasos para poner en marcha el bot en tu servidor.", discord.ColorTeal)
	for _, s := range guideSteps {
		embed.Fields = append(embed.Fields, discord.Field(s.title, s.body, false))
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "💫 - Companion Bot"}
	return ctx.ReplyEphemeralEmbed(embed)
}
