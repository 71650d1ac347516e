package events

import (
	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/commands/serverstats"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// GuildStatsTopic is answered with the live figures of a guild.
const GuildStatsTopic = "guild.stats"

var errMissingGuild = errors.Sentinel("falta guildId en la petición")

// RegisterRequestHandlers answers the broker requests the dashboard relies on.
func RegisterRequestHandlers(mc *mqtt.Client, s *discordgo.Session) {
	if mc == nil {
		logger.Debug("MQTT no configurado, sin handlers de peticiones", "Events")
		return
	}
	mc.Handle(GuildStatsTopic, guildStatsHandler(s))
}

func guildStatsHandler(s *discordgo.Session) mqtt.RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		guildID, _ := payload["guildId"].(string)
		if guildID == "" {
			return nil, errMissingGuild
		}
		f, err := serverstats.Figures(s, guildID)
		if err != nil {
			return nil, errors.WrapIf(err, "servidor desconocido")
		}
		return f, nil
	}
}
