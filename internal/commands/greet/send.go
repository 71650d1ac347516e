// Package greet holds the /welcome command group and sends the greeting of
// new members.
package greet

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/welcome"
	"github.com/PancyStudios/CompanionBotGo/pkg/imaging"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
	"github.com/hashicorp/go-cleanhttp"
)

var (
	service    *welcome.Service
	httpClient = cleanhttp.DefaultPooledClient()
)

var errNoChannel = errors.Sentinel("no hay canal de bienvenida configurado")

func vars(s *discordgo.Session, guildID string, user *discordgo.User) (welcome.Vars, string) {
	v := welcome.Vars{
		Username: user.Username,
		UserID:   user.ID,
		UserTag:  user.String(),
	}
	if user.GlobalName != "" {
		v.Username = user.GlobalName
	}
	server := ""
	if g, err := s.State.Guild(guildID); err == nil {
		server = g.Name
		v.Server = g.Name
		v.MemberCount = g.MemberCount
	}
	return v, server
}

func avatar(user *discordgo.User) *imaging.Card {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	card := &imaging.Card{}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, user.AvatarURL("256"), nil)
	if err != nil {
		return card
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		logger.Debug("Avatar no disponible: "+err.Error(), "Welcome")
		return card
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		if img, err := imaging.DecodeAvatar(resp.Body); err == nil {
			card.Avatar = img
		}
	}
	return card
}

// Message builds the welcome message for a user with the given settings.
func Message(s *discordgo.Session, guildID string, user *discordgo.User, cfg models.WelcomeSettings) *discordgo.MessageSend {
	v, server := vars(s, guildID, user)
	text := welcome.Render(cfg.Message, v)
	msg := &discordgo.MessageSend{
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: []string{user.ID}},
	}

	if cfg.EmbedEnabled {
		embed := &discordgo.MessageEmbed{
			Title:       "👋 ¡Bienvenido/a!",
			Description: text,
			Color:       cfg.EmbedColor,
			Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("256")},
			Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Miembro #%d", v.MemberCount)},
			Timestamp:   time.Now().Format(time.RFC3339),
		}
		msg.Embeds = []*discordgo.MessageEmbed{embed}
	} else {
		msg.Content = text
	}

	if cfg.ImageEnabled {
		card := avatar(user)
		card.Username = v.Username
		card.Server = server
		card.MemberCount = v.MemberCount
		card.Accent = cfg.EmbedColor
		png, err := imaging.WelcomeCard(*card)
		if err != nil {
			logger.Warn("No se pudo generar la tarjeta de bienvenida: "+err.Error(), "Welcome")
			return msg
		}
		msg.Files = []*discordgo.File{{Name: "welcome.png", ContentType: "image/png", Reader: bytes.NewReader(png)}}
		if len(msg.Embeds) > 0 {
			msg.Embeds[0].Image = &discordgo.MessageEmbedImage{URL: "attachment://welcome.png"}
		}
	}
	return msg
}

// SendWelcome greets a member in the configured channel. Disabled guilds are
// skipped unless force is set.
func SendWelcome(s *discordgo.Session, guildID string, user *discordgo.User, force bool) error {
	cfg, err := service.Settings(context.Background(), guildID)
	if err != nil {
		return err
	}
	if !cfg.Enabled && !force {
		return nil
	}
	if cfg.ChannelID == "" {
		return errNoChannel
	}
	_, err = s.ChannelMessageSendComplex(cfg.ChannelID, Message(s, guildID, user, cfg))
	return errors.WrapIf(err, "welcome message")
}
