package voice

import (
	"context"
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/tempvoice"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Component routes. Buttons carry the voice channel id: tv:rename:<channel>.
const (
	routeRename      = "tv:rename"
	routeLimit       = "tv:limit"
	routeLock        = "tv:lock"
	routeHide        = "tv:hide"
	routeRenameModal = "tv:rename_modal"
	routeLimitModal  = "tv:limit_modal"
)

// SendControlPanel posts the control buttons of a new temporary channel.
func SendControlPanel(s *discordgo.Session, controlChannelID, voiceChannelID, ownerID string) {
	if controlChannelID == "" {
		return
	}

	embed := discord.NewEmbed(
		"🎛️ Panel de tu sala",
		fmt.Sprintf("%s, controla %s con estos botones.", discord.UserMention(ownerID), discord.ChannelMention(voiceChannelID)),
		discord.ColorBlurple,
	)
	components := []discordgo.MessageComponent{
		discord.Row(
			discord.Button("Renombrar", routeRename+":"+voiceChannelID, discordgo.SecondaryButton, "✏️"),
			discord.Button("Límite", routeLimit+":"+voiceChannelID, discordgo.SecondaryButton, "👥"),
			discord.Button("Bloquear", routeLock+":"+voiceChannelID, discordgo.SecondaryButton, "🔒"),
			discord.Button("Ocultar", routeHide+":"+voiceChannelID, discordgo.SecondaryButton, "👁️"),
		),
	}

	_, err := s.ChannelMessageSendComplex(controlChannelID, &discordgo.MessageSend{
		Content:    discord.UserMention(ownerID),
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		logger.Warn("No se pudo enviar el panel de control: "+err.Error(), "TempVoice")
	}
}

// ownedChannel checks that the clicking member owns the voice channel in Args.
func ownedChannel(ctx *discord.ComponentContext) (string, bool) {
	channelID := ctx.Args
	tc, err := service.Channel(context.Background(), channelID)
	if err != nil {
		_ = ctx.ReplyEphemeral("❌ Esta sala ya no existe.")
		return "", false
	}
	if tc.OwnerID != ctx.User().ID {
		_ = ctx.ReplyEphemeral("❌ Solo el dueño de la sala puede usar este panel.")
		return "", false
	}
	return channelID, true
}

func renameButtonHandler(ctx *discord.ComponentContext) error {
	channelID, ok := ownedChannel(ctx)
	if !ok {
		return nil
	}
	return ctx.ShowModal(routeRenameModal+":"+channelID, "Renombrar sala", discordgo.TextInput{
		CustomID:  "name",
		Label:     "Nuevo nombre",
		Style:     discordgo.TextInputShort,
		Required:  true,
		MinLength: 1,
		MaxLength: 100,
	})
}

func limitButtonHandler(ctx *discord.ComponentContext) error {
	channelID, ok := ownedChannel(ctx)
	if !ok {
		return nil
	}
	return ctx.ShowModal(routeLimitModal+":"+channelID, "Límite de usuarios", discordgo.TextInput{
		CustomID:    "limit",
		Label:       "Límite (0 = sin límite, máximo 99)",
		Style:       discordgo.TextInputShort,
		Placeholder: "0",
		Required:    true,
		MaxLength:   2,
	})
}

func renameModalHandler(ctx *discord.ComponentContext) error {
	channelID, ok := ownedChannel(ctx)
	if !ok {
		return nil
	}
	name := ctx.ModalValue("name")
	if _, err := ctx.Session.ChannelEdit(channelID, &discordgo.ChannelEdit{Name: name}); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No pude renombrar la sala: %v", err))
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("✏️ Sala renombrada a **%s**.", name))
}

func limitModalHandler(ctx *discord.ComponentContext) error {
	channelID, ok := ownedChannel(ctx)
	if !ok {
		return nil
	}
	limit, err := tempvoice.ParseLimit(ctx.ModalValue("limit"))
	if err != nil {
		return ctx.ReplyError(err)
	}
	// ChannelEdit omits a zero user_limit, which is how a limit is cleared.
	endpoint := discordgo.EndpointChannel(channelID)
	if _, err := ctx.Session.RequestWithBucketID("PATCH", endpoint, map[string]int{"user_limit": limit}, endpoint); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No pude cambiar el límite: %v", err))
	}
	if limit == 0 {
		return ctx.ReplyEphemeral("👥 La sala ya no tiene límite de usuarios.")
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("👥 Límite establecido en **%d** usuarios.", limit))
}

func lockButtonHandler(ctx *discord.ComponentContext) error {
	return toggleEveryone(ctx, discordgo.PermissionVoiceConnect, "🔒 Sala bloqueada.", "🔓 Sala desbloqueada.")
}

func hideButtonHandler(ctx *discord.ComponentContext) error {
	return toggleEveryone(ctx, discordgo.PermissionViewChannel, "🙈 Sala oculta.", "👁️ Sala visible.")
}

// toggleEveryone flips a deny bit of the @everyone overwrite. The owner keeps
// access through a member overwrite.
func toggleEveryone(ctx *discord.ComponentContext, bit int64, denied, allowed string) error {
	channelID, ok := ownedChannel(ctx)
	if !ok {
		return nil
	}
	channel, err := ctx.Session.Channel(channelID)
	if err != nil {
		return ctx.ReplyEphemeral("❌ Esta sala ya no existe.")
	}

	guildID := channel.GuildID
	var allow, deny int64
	for _, o := range channel.PermissionOverwrites {
		if o.ID == guildID && o.Type == discordgo.PermissionOverwriteTypeRole {
			allow, deny = o.Allow, o.Deny
		}
	}

	msg := denied
	if deny&bit != 0 {
		deny &^= bit
		msg = allowed
	} else {
		deny |= bit
		allow &^= bit
	}

	if err := ctx.Session.ChannelPermissionSet(channelID, guildID, discordgo.PermissionOverwriteTypeRole, allow, deny); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No pude cambiar los permisos: %v", err))
	}
	var ownerAccess int64 = discordgo.PermissionViewChannel | discordgo.PermissionVoiceConnect
	if err := ctx.Session.ChannelPermissionSet(channelID, ctx.User().ID, discordgo.PermissionOverwriteTypeMember, ownerAccess, 0); err != nil {
		logger.Warn("No se pudo mantener el acceso del dueño: "+err.Error(), "TempVoice")
	}
	return ctx.ReplyEphemeral(msg)
}
