// Package announce holds the /announcer command group and the posting side
// of the content announcer.
package announce

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/announcer"
	apperrors "github.com/PancyStudios/CompanionBotGo/pkg/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

var (
	service *announcer.Service
	scraper *announcer.Scraper
)

// RegisterAnnouncerCommands registers all /announcer subcommands
func RegisterAnnouncerCommands(client *discord.ExtendedClient, svc *announcer.Service, sc *announcer.Scraper) {
	service = svc
	scraper = sc

	group := client.CommandHandler.BuildCommandGroup(
		"announcer",
		"Anuncios de YouTube, Twitch y TikTok",
		createSetChannelCommand(),
		createRemoveChannelCommand(),
		createAddCreatorCommand(),
		createRemoveCreatorCommand(),
		createCreatorsCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)
}

func linkEmbed(link announcer.Link, author *discordgo.User) *discordgo.MessageEmbed {
	embed := discord.NewEmbed(
		fmt.Sprintf("📢 Nuevo %s de %s", link.Kind, link.Platform.Name()),
		link.URL,
		link.Platform.Color(),
	)
	embed.URL = link.URL
	if logo := link.Platform.Logo(); logo != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: logo}
	}
	if author != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: author.Username, IconURL: author.AvatarURL("64")}
	}
	return embed
}

// Repost announces the first content link of a guild message. It reports
// whether something was posted.
func Repost(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return false
	}
	target := service.Channel(context.Background(), m.GuildID)
	if target == "" || target == m.ChannelID {
		return false
	}
	link, ok := announcer.Detect(m.Content)
	if !ok {
		return false
	}

	embed := linkEmbed(link, m.Author)
	embed.Fields = append(embed.Fields, discord.Field("Compartido en", discord.ChannelMention(m.ChannelID), true))
	if _, err := s.ChannelMessageSendComplex(target, &discordgo.MessageSend{
		Content: link.URL,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo anunciar el enlace en %s: %v", target, err), "Announcer")
		return false
	}
	return true
}

// PollCreators checks every watched TikTok creator once.
func PollCreators(s *discordgo.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	watches, err := service.Watches(ctx)
	if err != nil {
		logger.Error("No se pudieron leer los creadores: "+err.Error(), "Announcer")
		return
	}
	for _, w := range watches {
		ids, err := service.Check(ctx, scraper, w)
		if err != nil {
			logger.Warn(fmt.Sprintf("TikTok @%s: %v", w.Creator.Username, err), "Announcer")
			continue
		}
		for _, id := range ids {
			url := announcer.VideoURL(w.Creator.Username, id)
			embed := linkEmbed(announcer.Link{Platform: announcer.TikTok, URL: url, Kind: "Vídeo"}, nil)
			embed.Description = fmt.Sprintf("**@%s** ha subido un nuevo vídeo.\n%s", w.Creator.Username, url)
			if _, err := s.ChannelMessageSendComplex(w.ChannelID, &discordgo.MessageSend{
				Content: url,
				Embeds:  []*discordgo.MessageEmbed{embed},
			}); err != nil {
				apperrors.Capture(fmt.Errorf("anuncio de TikTok en %s: %w", w.ChannelID, err), "Announcer")
			}
		}
	}
}
