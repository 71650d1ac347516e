package announce

import (
	"context"
	"fmt"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/announcer"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func usernameOption(autocomplete bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         "usuario",
		Description:  "Nombre de usuario de TikTok",
		Required:     true,
		Autocomplete: autocomplete,
	}
}

func createSetChannelCommand() *discord.Command {
	return discord.NewCommand(
		"setchannel",
		"Define el canal de anuncios",
		"announcer",
		setChannelHandler,
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "canal",
		Description:  "Canal donde se publican los anuncios",
		Required:     true,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
	}).WithUserPermissions(discordgo.PermissionManageGuild).OnlyGuilds()
}

func setChannelHandler(ctx *discord.CommandContext) error {
	ch := ctx.GetChannelOption("canal")
	if err := service.SetChannel(context.Background(), ctx.GuildID(), ch.ID); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed(
		"📢 Canal de anuncios",
		fmt.Sprintf("Los enlaces de YouTube, Twitch y TikTok se anunciarán en %s.", discord.ChannelMention(ch.ID)),
	))
}

func createRemoveChannelCommand() *discord.Command {
	return discord.NewCommand(
		"removechannel",
		"Desactiva los anuncios",
		"announcer",
		removeChannelHandler,
	).WithUserPermissions(discordgo.PermissionManageGuild).OnlyGuilds()
}

func removeChannelHandler(ctx *discord.CommandContext) error {
	if err := service.RemoveChannel(context.Background(), ctx.GuildID()); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed("📢 Anuncios desactivados", "Ya no se anunciará contenido. La lista de creadores se conserva."))
}

func createAddCreatorCommand() *discord.Command {
	return discord.NewCommand(
		"addcreator",
		"Sigue las subidas de un creador de TikTok",
		"announcer",
		addCreatorHandler,
	).WithOptions(usernameOption(false)).
		WithUserPermissions(discordgo.PermissionManageGuild).
		OnlyGuilds()
}

func addCreatorHandler(ctx *discord.CommandContext) error {
	username, err := announcer.CleanUsername(ctx.GetStringOption("usuario"))
	if err != nil {
		return ctx.ReplyError(err)
	}
	if service.Channel(context.Background(), ctx.GuildID()) == "" {
		return ctx.ReplyError(announcer.ErrChannelNotSet)
	}
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	// Only uploads after this point are announced.
	scrapeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	latest := ""
	ids, err := scraper.Videos(scrapeCtx, username)
	switch {
	case errors.Is(err, announcer.ErrProfileNotFound):
		return ctx.FollowupError(err)
	case err == nil && len(ids) > 0:
		latest = ids[0]
	}

	if err := service.AddCreator(context.Background(), ctx.GuildID(), username, ctx.User().ID, latest); err != nil {
		return ctx.FollowupError(err)
	}
	return ctx.Followup("", true, discord.SuccessEmbed(
		"🎵 Creador añadido",
		fmt.Sprintf("Se anunciarán los nuevos vídeos de [@%s](%s).", username, scraper.ProfileURL(username)),
	))
}

func createRemoveCreatorCommand() *discord.Command {
	return discord.NewCommand(
		"removecreator",
		"Deja de seguir a un creador de TikTok",
		"announcer",
		removeCreatorHandler,
	).WithOptions(usernameOption(true)).
		WithUserPermissions(discordgo.PermissionManageGuild).
		WithAutoComplete(creatorAutoComplete).
		OnlyGuilds()
}

func removeCreatorHandler(ctx *discord.CommandContext) error {
	username := strings.TrimPrefix(strings.TrimSpace(ctx.GetStringOption("usuario")), "@")
	if err := service.RemoveCreator(context.Background(), ctx.GuildID(), username); err != nil {
		return ctx.ReplyError(err)
	}
	return ctx.ReplyEmbed(discord.SuccessEmbed("🗑️ Creador eliminado", fmt.Sprintf("Ya no se siguen las subidas de **@%s**.", username)))
}

func creatorAutoComplete(ctx *discord.CommandContext) {
	creators, _ := service.Creators(context.Background(), ctx.GuildID())
	typed := strings.ToLower(ctx.GetStringOption("usuario"))

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
	for _, c := range creators {
		if len(choices) == 25 {
			break
		}
		if typed != "" && !strings.Contains(strings.ToLower(c.Username), typed) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: "@" + c.Username, Value: c.Username})
	}
	ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

func createCreatorsCommand() *discord.Command {
	return discord.NewCommand(
		"creators",
		"Lista los creadores de TikTok seguidos",
		"announcer",
		creatorsHandler,
	).OnlyGuilds()
}

func creatorsHandler(ctx *discord.CommandContext) error {
	creators, err := service.Creators(context.Background(), ctx.GuildID())
	if err != nil {
		return ctx.ReplyError(err)
	}

	channel := service.Channel(context.Background(), ctx.GuildID())
	desc := "Canal de anuncios: *sin configurar*"
	if channel != "" {
		desc = "Canal de anuncios: " + discord.ChannelMention(channel)
	}
	embed := discord.NewEmbed("🎵 Creadores de TikTok", desc, discord.ColorBlue)
	if len(creators) == 0 {
		embed.Fields = append(embed.Fields, discord.Field("Creadores", "No se sigue a ningún creador.", false))
		return ctx.ReplyEmbed(embed)
	}

	var b strings.Builder
	for _, c := range creators {
		fmt.Fprintf(&b, "• [@%s](%s) · añadido por %s\n", c.Username, scraper.ProfileURL(c.Username), discord.UserMention(c.AddedBy))
	}
	embed.Fields = append(embed.Fields, discord.Field(fmt.Sprintf("Creadores (%d)", len(creators)), b.String(), false))
	return ctx.ReplyEmbed(embed)
}
