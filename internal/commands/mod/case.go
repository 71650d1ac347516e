package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/moderation"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const footerText = "💫 - Companion Bot"

// reasonOption is the optional "razon" option shared by most subcommands.
func reasonOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "razon",
		Description: description,
		Required:    false,
	}
}

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "usuario",
		Description: description,
		Required:    true,
	}
}

// caseEmbed renders a recorded action for the mod log and the command reply.
func caseEmbed(action models.ModAction, target *discordgo.User) *discordgo.MessageEmbed {
	embed := discord.NewEmbed(
		fmt.Sprintf("%s | Caso #%d", moderation.ActionTitle(action.ActionType), action.CaseID),
		"",
		moderation.ActionColor(action.ActionType),
	)
	embed.Fields = append(embed.Fields,
		discord.Field("Usuario", fmt.Sprintf("%s (`%s`)", discord.UserMention(action.UserID), action.UserID), true),
		discord.Field("Moderador", discord.UserMention(action.ModeratorID), true),
		discord.Field("Razón", action.Reason, false),
	)
	if action.Duration != nil {
		embed.Fields = append(embed.Fields, discord.Field("Duración", moderation.FormatDuration(action.Duration), true))
	}
	if target != nil {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: target.AvatarURL("128")}
	}
	return embed
}

// draft describes an action before it is carried out.
func draft(ctx *discord.CommandContext, actionType string, target *discordgo.User, reason string, duration *int64) models.ModAction {
	return service.Draft(ctx.GuildID(), actionType, target.ID, ctx.User().ID, reason, duration)
}

// commit stores the case and posts it to the mod log. Only storing can fail;
// the log message is best effort.
func commit(ctx *discord.CommandContext, d models.ModAction, target *discordgo.User) (models.ModAction, error) {
	action, err := service.Commit(context.Background(), d)
	if err != nil {
		return action, err
	}

	if logChannel := service.LogChannel(context.Background(), ctx.GuildID()); logChannel != "" {
		if _, err := ctx.Session.ChannelMessageSendEmbed(logChannel, caseEmbed(action, target)); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo enviar el caso #%d al canal de logs: %v", action.CaseID, err), "CMD-Mod")
		}
	}
	return action, nil
}

// record stores an action that already happened and DMs the target.
func record(ctx *discord.CommandContext, actionType string, target *discordgo.User, reason string, duration *int64) (models.ModAction, error) {
	action, err := commit(ctx, draft(ctx, actionType, target, reason, duration), target)
	if err != nil {
		return action, err
	}
	notifyTarget(ctx, action, target)
	return action, nil
}

// notifyTarget DMs the affected member. When DMs are closed a short notice is
// left in the channel and removed after 5 seconds.
func notifyTarget(ctx *discord.CommandContext, action models.ModAction, target *discordgo.User) {
	if target.Bot {
		return
	}

	guildName := ctx.Interaction.GuildID
	if g := ctx.Guild(); g != nil {
		guildName = g.Name
	}

	desc := fmt.Sprintf(
		"⚒ - **Servidor:** %s\n📝 - **Razón:** %s\n🕒 - **Fecha:** <t:%d:F>",
		guildName, action.Reason, action.Timestamp,
	)
	if action.Duration != nil {
		desc += "\n⏳ - **Duración:** " + moderation.FormatDuration(action.Duration)
	}
	embedDM := &discordgo.MessageEmbed{
		Title:       moderation.ActionTitle(action.ActionType),
		Color:       moderation.ActionColor(action.ActionType),
		Description: desc,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}

	userChannel, err := ctx.Session.UserChannelCreate(target.ID)
	if err == nil {
		_, err = ctx.Session.ChannelMessageSendEmbed(userChannel.ID, embedDM)
	}
	if err == nil {
		return
	}

	msg, err := ctx.Session.ChannelMessageSend(ctx.Interaction.ChannelID, fmt.Sprintf("ℹ️ No se pudo enviar un mensaje directo a **%s**.", target.String()))
	if err != nil {
		return
	}
	go func() {
		defer errors.RecoverMiddleware()()
		time.Sleep(5 * time.Second)
		if err := ctx.Session.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
			logger.Debug("No se pudo borrar el aviso de MD: "+err.Error(), "CMD-Mod")
		}
	}()
}

// outranks reports whether the invoking member and the bot both sit above the
// target in the role hierarchy. The guild owner outranks everyone.
func outranks(ctx *discord.CommandContext, targetID string) (bool, string) {
	guild := ctx.Guild()
	if guild == nil {
		return true, ""
	}
	if targetID == guild.OwnerID {
		return false, "No puedes moderar al propietario del servidor."
	}

	target, err := ctx.Session.GuildMember(guild.ID, targetID)
	if err != nil {
		// not a member anymore, nothing to compare
		return true, ""
	}
	targetPos := discord.HighestRolePosition(guild, target)

	if ctx.User().ID != guild.OwnerID && discord.HighestRolePosition(guild, ctx.Member()) <= targetPos {
		return false, "No puedes moderar a alguien con un rol igual o superior al tuyo."
	}

	botID := ctx.Session.State.User.ID
	if bot, err := ctx.Session.GuildMember(guild.ID, botID); err == nil && discord.HighestRolePosition(guild, bot) <= targetPos {
		return false, "Mi rol más alto no está por encima del de ese usuario."
	}
	return true, ""
}
