package verify

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/captcha"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// defaultRoleName is created when no verified role is configured or it vanished.
const defaultRoleName = "Member"

// StartChallenge sends a captcha to a member by DM. When DMs are closed the
// challenge is dropped and the guild system channel gets a notice.
func StartChallenge(s *discordgo.Session, guildID string, user *discordgo.User) error {
	code := service.Start(guildID, user.ID)
	img, err := service.Image(code)
	if err != nil {
		service.Cancel(user.ID)
		return fmt.Errorf("render captcha: %w", err)
	}

	guildName := guildID
	if g, err := s.State.Guild(guildID); err == nil {
		guildName = g.Name
	}

	embed := discord.NewEmbed(
		"🔐 Verificación",
		fmt.Sprintf(
			"¡Bienvenido/a a **%s**!\nEscribe aquí el código de la imagen para verificarte. Tienes %d intentos y %d minutos.",
			guildName, captcha.MaxAttempts, int(captcha.TTL.Minutes()),
		),
		discord.ColorBlurple,
	)
	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://captcha.png"}

	dm, err := s.UserChannelCreate(user.ID)
	if err == nil {
		_, err = s.ChannelMessageSendComplex(dm.ID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{embed},
			Files:  []*discordgo.File{{Name: "captcha.png", ContentType: "image/png", Reader: bytes.NewReader(img)}},
		})
	}
	if err != nil {
		service.Cancel(user.ID)
		dmClosedNotice(s, guildID, user)
		return nil
	}

	logger.Info(fmt.Sprintf("Captcha enviado a %s en %s", user.ID, guildID), "Captcha")
	return nil
}

func dmClosedNotice(s *discordgo.Session, guildID string, user *discordgo.User) {
	g, err := s.State.Guild(guildID)
	if err != nil || g.SystemChannelID == "" {
		logger.Warn(fmt.Sprintf("No se pudo enviar el captcha a %s y no hay canal del sistema", user.ID), "Captcha")
		return
	}
	_, err = s.ChannelMessageSend(g.SystemChannelID, fmt.Sprintf(
		"⚠️ %s, no pude enviarte el captcha por mensaje directo. Activa los mensajes directos y pide a un administrador que te verifique.",
		discord.UserMention(user.ID),
	))
	if err != nil {
		logger.Warn("Aviso de MD cerrado fallido: "+err.Error(), "Captcha")
	}
}

func notifyExpired(s *discordgo.Session, ch captcha.Challenge) {
	dm, err := s.UserChannelCreate(ch.UserID)
	if err != nil {
		return
	}
	_, _ = s.ChannelMessageSendEmbed(dm.ID, discord.NewEmbed(
		"⌛ Captcha expirado",
		"Se acabó el tiempo para verificarte. Sal y vuelve a entrar al servidor para recibir un nuevo código.",
		discord.ColorOrange,
	))
}

// HandleDirectMessage checks a DM against the author's pending challenge.
// It reports whether the message was a captcha answer.
func HandleDirectMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if _, ok := service.Pending(m.Author.ID); !ok {
		return false
	}

	res, err := service.Check(m.Author.ID, m.Content)
	if err != nil {
		return false
	}

	switch res.Outcome {
	case captcha.Passed:
		role, err := grantRole(s, res.GuildID, m.Author.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("No se pudo verificar a %s: %v", m.Author.ID, err), "Captcha")
			_, _ = s.ChannelMessageSend(m.ChannelID, "✅ Código correcto, pero no pude darte el rol. Avisa a un administrador.")
			return true
		}
		_, _ = s.ChannelMessageSendEmbed(m.ChannelID, discord.SuccessEmbed(
			"✅ Verificado",
			fmt.Sprintf("Código correcto. Ya tienes el rol **%s**.", role),
		))
	case captcha.Wrong:
		_, _ = s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("❌ Código incorrecto. Te quedan **%d** intentos.", res.Remaining))
	case captcha.Exhausted:
		_, _ = s.ChannelMessageSendEmbed(m.ChannelID, discord.NewEmbed(
			"❌ Verificación fallida",
			"Has agotado los intentos. Sal y vuelve a entrar al servidor para intentarlo de nuevo.",
			discord.ColorRed,
		))
	}
	return true
}

// grantRole gives the verified role, creating "Member" when the configured
// role is unset or was deleted. Returns the role name.
func grantRole(s *discordgo.Session, guildID, userID string) (string, error) {
	settings, err := service.Settings(context.Background(), guildID)
	if err != nil {
		return "", err
	}
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return "", err
	}

	var role *discordgo.Role
	for _, r := range guild.Roles {
		if settings.RoleID != "" && r.ID == settings.RoleID {
			role = r
		}
	}
	if role == nil {
		for _, r := range guild.Roles {
			if strings.EqualFold(r.Name, defaultRoleName) {
				role = r
			}
		}
	}
	if role == nil {
		role, err = s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: defaultRoleName})
		if err != nil {
			return "", fmt.Errorf("crear rol: %w", err)
		}
	}
	if role.ID != settings.RoleID {
		if _, err := service.Configure(context.Background(), guildID, nil, role.ID); err != nil {
			return "", err
		}
	}

	if bot, err := s.GuildMember(guildID, s.State.User.ID); err == nil {
		if discord.HighestRolePosition(guild, bot) <= role.Position {
			return "", fmt.Errorf("el rol %s está por encima del rol del bot", role.Name)
		}
	}

	if err := s.GuildMemberRoleAdd(guildID, userID, role.ID); err != nil {
		return "", err
	}
	return role.Name, nil
}
