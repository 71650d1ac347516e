package faq

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func stringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func channelOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "canal",
		Description:  "Canal de texto",
		Required:     true,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
}

func createAskCommand() *discord.Command {
	return discord.NewCommand(
		"ask",
		"Haz una pregunta al asistente",
		"faq",
		askHandler,
	).WithOptions(stringOption("pregunta", "Tu pregunta", true))
}

func askHandler(ctx *discord.CommandContext) error {
	query := ctx.GetStringOption("pregunta")
	answer, found, err := service.Ask(context.Background(), query)
	if err != nil {
		return ctx.ReplyError(err)
	}
	if !found {
		return ctx.ReplyEphemeralEmbed(notFoundEmbed(query))
	}
	return ctx.ReplyEmbed(answerEmbed(answer))
}

func createAllCommand() *discord.Command {
	return discord.NewCommand(
		"all",
		"Lista las categorías de preguntas",
		"faq",
		allHandler,
	)
}

func allHandler(ctx *discord.CommandContext) error {
	categories, err := service.Categories(context.Background())
	if err != nil {
		return ctx.ReplyError(err)
	}
	if len(categories) == 0 {
		return ctx.ReplyEphemeral("No hay preguntas registradas.")
	}
	var b strings.Builder
	total := 0
	for _, c := range categories {
		fmt.Fprintf(&b, "• **%s** · %d preguntas\n", c.Name, c.Count)
		total += c.Count
	}
	embed := discord.NewEmbed("📚 Preguntas frecuentes", b.String(), discord.ColorBlurple)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d preguntas · usa /faq category para ver una categoría", total)}
	return ctx.ReplyEmbed(embed)
}

func createCategoryCommand() *discord.Command {
	return discord.NewCommand(
		"category",
		"Muestra las preguntas de una categoría",
		"faq",
		categoryHandler,
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "nombre",
		Description:  "Nombre de la categoría",
		Required:     true,
		Autocomplete: true,
	}).WithAutoComplete(categoryAutoComplete)
}

func categoryHandler(ctx *discord.CommandContext) error {
	name := ctx.GetStringOption("nombre")
	faqs, err := service.Category(context.Background(), name)
	if err != nil {
		return ctx.ReplyError(err)
	}
	embed := discord.NewEmbed("📂 "+faqs[0].Category, "", discord.ColorBlurple)
	for i, f := range faqs {
		if i == 25 {
			break
		}
		embed.Fields = append(embed.Fields, discord.Field(f.Question, truncate(f.Answer, 1024), false))
	}
	return ctx.ReplyEmbed(embed)
}

func categoryAutoComplete(ctx *discord.CommandContext) {
	categories, _ := service.Categories(context.Background())
	typed := strings.ToLower(ctx.GetStringOption("nombre"))
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
	for _, c := range categories {
		if len(choices) == 25 {
			break
		}
		if typed == "" || strings.Contains(strings.ToLower(c.Name), typed) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: truncate(c.Name, 100), Value: c.Name})
		}
	}
	ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

func createAddCommand() *discord.Command {
	return discord.NewCommand(
		"add",
		"Añade una pregunta frecuente",
		"faq",
		addHandler,
	).WithOptions(
		stringOption("pregunta", "La pregunta", true),
		stringOption("respuesta", "La respuesta", true),
		stringOption("categoria", "Categoría", true),
		stringOption("alias", "Formas alternativas separadas por comas", false),
	).OnlyOwners()
}

func addHandler(ctx *discord.CommandContext) error {
	f := models.FAQ{
		Question: ctx.GetStringOption("pregunta"),
		Answer:   ctx.GetStringOption("respuesta"),
		Category: ctx.GetStringOption("categoria"),
	}
	for _, a := range strings.Split(ctx.GetStringOption("alias"), ",") {
		if a = strings.TrimSpace(a); a != "" {
			f.Aliases = append(f.Aliases, a)
		}
	}
	if err := service.Add(context.Background(), f); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed("✅ Pregunta añadida", fmt.Sprintf("**%s** en la categoría **%s**.", f.Question, f.Category)))
}

func createRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Elimina una pregunta frecuente",
		"faq",
		removeHandler,
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "pregunta",
		Description:  "La pregunta a eliminar",
		Required:     true,
		Autocomplete: true,
	}).WithAutoComplete(questionAutoComplete).OnlyOwners()
}

func removeHandler(ctx *discord.CommandContext) error {
	removed, err := service.Remove(context.Background(), ctx.GetStringOption("pregunta"))
	if err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEphemeralEmbed(discord.SuccessEmbed("🗑️ Pregunta eliminada", removed.Question))
}

func questionAutoComplete(ctx *discord.CommandContext) {
	faqs, _ := service.FAQs(context.Background())
	typed := strings.ToLower(ctx.GetStringOption("pregunta"))
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
	for _, f := range faqs {
		if len(choices) == 25 {
			break
		}
		if len(f.Question) > 100 {
			continue
		}
		if typed == "" || strings.Contains(strings.ToLower(f.Question), typed) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: f.Question, Value: f.Question})
		}
	}
	ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

func createSetupCommand() *discord.Command {
	return discord.NewCommand(
		"setup",
		"Responde automáticamente en un canal",
		"faq",
		setupHandler,
	).WithOptions(channelOption()).
		WithUserPermissions(discordgo.PermissionManageChannels).
		OnlyGuilds()
}

func setupHandler(ctx *discord.CommandContext) error {
	ch := ctx.GetChannelOption("canal")
	if err := service.AddChannel(context.Background(), ctx.GuildID(), ch.ID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(
		"🤖 Canal del asistente",
		fmt.Sprintf("Responderé a las preguntas escritas en %s.", discord.ChannelMention(ch.ID)),
	))
}

func createRemoveChannelCommand() *discord.Command {
	return discord.NewCommand(
		"removechannel",
		"Deja de responder en un canal",
		"faq",
		removeChannelHandler,
	).WithOptions(channelOption()).
		WithUserPermissions(discordgo.PermissionManageChannels).
		OnlyGuilds()
}

func removeChannelHandler(ctx *discord.CommandContext) error {
	ch := ctx.GetChannelOption("canal")
	if err := service.RemoveChannel(context.Background(), ctx.GuildID(), ch.ID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(
		"🤖 Canal eliminado",
		fmt.Sprintf("Ya no responderé en %s.", discord.ChannelMention(ch.ID)),
	))
}

func createChannelsCommand() *discord.Command {
	return discord.NewCommand(
		"channels",
		"Lista los canales del asistente",
		"faq",
		channelsHandler,
	).OnlyGuilds()
}

func channelsHandler(ctx *discord.CommandContext) error {
	channels, err := service.Channels(context.Background(), ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}
	if len(channels) == 0 {
		return ctx.ReplyEphemeral("No hay canales del asistente configurados.")
	}
	mentions := make([]string, len(channels))
	for i, id := range channels {
		mentions[i] = "• " + discord.ChannelMention(id)
	}
	return ctx.ReplyEmbed(discord.NewEmbed("🤖 Canales del asistente", strings.Join(mentions, "\n"), discord.ColorBlurple))
}
