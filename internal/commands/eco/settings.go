package eco

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/economy"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
)

func createSettingsShowCommand() *discord.Command {
	return discord.NewCommand(
		"show",
		"Muestra los ajustes de la economía",
		"economy",
		settingsShowHandler,
	).WithUserPermissions(discordgo.PermissionAdministrator)
}

func createSettingsSetCommand() *discord.Command {
	return discord.NewCommand(
		"set",
		"Cambia un ajuste de la economía",
		"economy",
		settingsSetHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "clave",
			Description:  "Ajuste a cambiar",
			Required:     true,
			Autocomplete: true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "valor",
			Description: "Nuevo valor",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionAdministrator).
		WithAutoComplete(settingKeyAutocomplete)
}

func settingsShowHandler(ctx *discord.CommandContext) error {
	cfg, err := service.Settings(context.Background())
	if err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeralEmbed(settingsEmbed(cfg))
}

func settingsSetHandler(ctx *discord.CommandContext) error {
	key := strings.TrimSpace(ctx.GetStringOption("clave"))
	value := strings.TrimSpace(ctx.GetStringOption("valor"))

	cfg, err := service.SetSetting(context.Background(), key, value)
	if err != nil {
		return ctx.ReplyError(err)
	}

	logger.Info(fmt.Sprintf("Ajuste de economía %s=%s cambiado por %s", key, value, ctx.User().ID), "Economy")
	embed := settingsEmbed(cfg)
	embed.Title = "✅ Ajuste actualizado"
	embed.Description = fmt.Sprintf("`%s` ahora vale `%s`.", key, value)
	return ctx.ReplyEphemeralEmbed(embed)
}

func settingsEmbed(cfg models.EconomySettings) *discordgo.MessageEmbed {
	raw, _ := json.Marshal(cfg)
	values := make(map[string]interface{})
	_ = json.Unmarshal(raw, &values)

	var sb strings.Builder
	for _, key := range economy.SettingKeys() {
		sb.WriteString(fmt.Sprintf("`%s`: %v\n", key, values[key]))
	}
	return discord.NewEmbed("⚙️ Ajustes de la economía", sb.String(), discord.ColorBlurple)
}

// settingKeyAutocomplete suggests the setting keys containing what was typed so far.
func settingKeyAutocomplete(ctx *discord.CommandContext) {
	typed := strings.ToLower(ctx.GetStringOption("clave"))

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
	for _, key := range economy.SettingKeys() {
		if len(choices) == 25 {
			break
		}
		if typed == "" || strings.Contains(key, typed) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: key, Value: key})
		}
	}

	err := ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		logger.Debug("Autocompletado fallido: "+err.Error(), "Economy")
	}
}
