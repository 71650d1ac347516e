package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/internal/modules/selfroles"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
)

// roleButtonHandler toggles the role of a panel button on the clicking member.
func roleButtonHandler(ctx *discord.ComponentContext) error {
	member := ctx.Member()
	if member == nil || ctx.Interaction.Message == nil {
		return nil
	}
	roleID := ctx.Args
	guildID := ctx.GuildID()

	panel, err := service.PanelByMessage(context.Background(), guildID, ctx.Interaction.Message.ID)
	if err != nil {
		return ctx.ReplyError(err)
	}

	add, remove := selfroles.Toggle(panel, roleID, member.Roles)

	var changes []string
	for _, r := range remove {
		if err := ctx.Session.GuildMemberRoleRemove(guildID, member.User.ID, r); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo quitar el rol %s: %v", r, err), "SelfRoles")
			return ctx.ReplyEphemeral("❌ No pude quitarte el rol. Mi rol debe estar por encima de los roles del panel.")
		}
		changes = append(changes, "➖ "+discord.RoleMention(r))
	}
	if add != "" {
		if err := ctx.Session.GuildMemberRoleAdd(guildID, member.User.ID, add); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo añadir el rol %s: %v", add, err), "SelfRoles")
			return ctx.ReplyEphemeral("❌ No pude darte el rol. Mi rol debe estar por encima de los roles del panel.")
		}
		changes = append(changes, "➕ "+discord.RoleMention(add))
	}

	return ctx.ReplyEphemeral(strings.Join(changes, "\n"))
}
