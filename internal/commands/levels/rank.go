package levels

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createRankCommand() *discord.Command {
	return discord.NewCommand(
		"rank",
		"Muestra el nivel de un usuario",
		"level",
		rankHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a consultar",
			Required:    false,
		},
	).OnlyGuilds()
}

func rankHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		user = ctx.User()
	}

	info, err := service.Rank(context.Background(), ctx.GuildID(), user.ID)
	if err != nil {
		return ctx.ReplyError(err)
	}

	position := "Sin clasificar"
	if info.Position > 0 {
		position = fmt.Sprintf("#%d de %d", info.Position, info.Total)
	}

	embed := discord.NewEmbed(fmt.Sprintf("📈 Nivel de %s", user.Username), "", discord.ColorBlurple)
	embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("128")}
	embed.Fields = append(embed.Fields,
		discord.Field("Nivel", fmt.Sprintf("%d", info.Level), true),
		discord.Field("XP", fmt.Sprintf("%d/%d", info.XP, info.Needed), true),
		discord.Field("Posición", position, true),
		discord.Field("Progreso", info.Bar, false),
	)
	if info.NextRoleName != "" {
		embed.Fields = append(embed.Fields, discord.Field(
			"Próximo rol",
			fmt.Sprintf("**%s** al nivel %d", info.NextRoleName, info.NextRoleLevel),
			false,
		))
	}
	return ctx.ReplyEmbed(embed)
}
