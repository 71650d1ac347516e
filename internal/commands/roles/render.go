package roles

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

var buttonStyles = map[string]discordgo.ButtonStyle{
	"primary":   discordgo.PrimaryButton,
	"secondary": discordgo.SecondaryButton,
	"success":   discordgo.SuccessButton,
	"danger":    discordgo.DangerButton,
}

// panelMessage renders a panel as an embed with up to five rows of five buttons.
func panelMessage(panel models.RolePanel) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := discord.NewEmbed(panel.Title, panel.Description, discord.ColorBlurple)
	footer := "Pulsa un botón para obtener o quitarte un rol"
	if panel.Exclusive {
		footer = "Solo puedes tener uno de estos roles a la vez"
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%s · Panel %s", footer, panel.PanelID)}

	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for _, r := range panel.Roles {
		style, ok := buttonStyles[r.Style]
		if !ok {
			style = discordgo.PrimaryButton
		}
		row = append(row, discord.Button(r.Label, buttonRoute+":"+r.RoleID, style, r.Emoji))
		if len(row) == 5 {
			rows = append(rows, discord.Row(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discord.Row(row...))
	}
	return embed, rows
}

// refresh re-renders the panel message after an edit.
func refresh(s *discordgo.Session, panel models.RolePanel) {
	if panel.MessageID == "" {
		return
	}
	embed, components := panelMessage(panel)
	embeds := []*discordgo.MessageEmbed{embed}
	_, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         panel.MessageID,
		Channel:    panel.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo actualizar el panel %s: %v", panel.PanelID, err), "SelfRoles")
	}
}

// roleLabel is the role name from state, or its id when unknown.
func roleLabel(s *discordgo.Session, guildID, roleID string) string {
	if role, err := s.State.Role(guildID, roleID); err == nil {
		return role.Name
	}
	return roleID
}

func panelOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "panel",
		Description:  "ID del panel",
		Required:     true,
		Autocomplete: true,
	}
}

// panelAutoComplete lists the panels of the guild by title.
func panelAutoComplete(ctx *discord.CommandContext) {
	panels, err := service.Panels(context.Background(), ctx.GuildID())
	if err != nil {
		logger.Error("Error listando paneles: "+err.Error(), "SelfRoles")
		return
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(panels))
	for _, p := range panels {
		if len(choices) == 25 {
			break
		}
		name := fmt.Sprintf("%s (%s)", p.Title, p.PanelID)
		if r := []rune(name); len(r) > 100 {
			name = string(r[:97]) + "..."
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: p.PanelID})
	}
	_ = ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}
