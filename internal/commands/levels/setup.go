package levels

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createSetupCommand() *discord.Command {
	return discord.NewCommand(
		"setup",
		"Muestra la configuración de niveles",
		"level",
		setupHandler,
	).WithUserPermissions(discordgo.PermissionManageGuild).OnlyGuilds()
}

func setupHandler(ctx *discord.CommandContext) error {
	cfg, err := service.Config(context.Background(), ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}

	levels := make([]int, 0, len(cfg.Roles))
	for k := range cfg.Roles {
		if lvl, err := strconv.Atoi(k); err == nil {
			levels = append(levels, lvl)
		}
	}
	sort.Ints(levels)

	var roles strings.Builder
	for _, lvl := range levels {
		roles.WriteString(fmt.Sprintf("Nivel **%d** → %s\n", lvl, cfg.Roles[strconv.Itoa(lvl)]))
	}

	board := "No configurada"
	if cfg.LeaderboardChannel != "" {
		board = discord.ChannelMention(cfg.LeaderboardChannel)
	}

	embed := discord.NewEmbed(
		"⚙️ Configuración de niveles",
		"Los miembros ganan XP al escribir, como máximo una vez por minuto. Usa `/level setrole`, `/level setxprange` y `/level setleaderboard` para ajustarlo.",
		discord.ColorBlurple,
	)
	embed.Fields = append(embed.Fields,
		discord.Field("XP por mensaje", fmt.Sprintf("%d - %d", cfg.XPPerMessage.Min, cfg.XPPerMessage.Max), true),
		discord.Field("Tabla automática", board, true),
		discord.Field("Roles por nivel", roles.String(), false),
	)
	return ctx.ReplyEphemeralEmbed(embed)
}
