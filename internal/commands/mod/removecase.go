// Package mod - /mod removecase command
package mod

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/moderation"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createRemoveCaseCommand creates the /mod removecase subcommand
func createRemoveCaseCommand() *discord.Command {
	return discord.NewCommand(
		"removecase",
		"Elimina un caso de moderación",
		"mod",
		removeCaseHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionInteger,
			Name:         "caso",
			Description:  "Número del caso a eliminar",
			Required:     true,
			Autocomplete: true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithAutoComplete(removeCaseAutoComplete).
		OnlyGuilds()
}

// removeCaseHandler handles the /mod removecase command
func removeCaseHandler(ctx *discord.CommandContext) error {
	caseID := int(ctx.GetIntOption("caso"))

	removed, err := service.RemoveCase(context.Background(), ctx.GuildID(), caseID)
	if err != nil {
		return ctx.ReplyError(err)
	}

	logger.Info(fmt.Sprintf("Caso #%d eliminado en %s por %s", caseID, ctx.GuildID(), ctx.User().ID), "CMD-RemoveCase")

	return ctx.ReplyEmbed(discord.SuccessEmbed(
		"✅ Caso eliminado",
		fmt.Sprintf(
			"El caso **#%d** (%s a %s) ha sido eliminado.\n\n**Razón original:** %s",
			removed.CaseID,
			moderation.ActionTitle(removed.ActionType),
			discord.UserMention(removed.UserID),
			removed.Reason,
		),
	))
}

// removeCaseAutoComplete suggests the latest cases of the guild.
func removeCaseAutoComplete(ctx *discord.CommandContext) {
	cases, err := service.Cases(context.Background(), ctx.GuildID(), 0)
	if err != nil {
		logger.Error(fmt.Sprintf("Error en autocompletado de casos: %v", err), "CMD-RemoveCase")
		return
	}

	typed := ""
	if opt := ctx.GetOption("caso"); opt != nil {
		typed = strings.TrimSpace(fmt.Sprint(opt.Value))
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
	for _, c := range cases {
		if len(choices) == 25 {
			break
		}
		id := strconv.Itoa(c.CaseID)
		if typed != "" && !strings.HasPrefix(id, typed) {
			continue
		}
		name := fmt.Sprintf("#%d %s · %s", c.CaseID, c.ActionType, c.Reason)
		if r := []rune(name); len(r) > 100 {
			name = string(r[:97]) + "..."
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: c.CaseID})
	}

	_ = ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}
