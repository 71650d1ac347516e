package dev

import (
	"fmt"

	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
)

func createReloadCommand() *discord.Command {
	return discord.NewCommand(
		"sync",
		"Vuelve a registrar los comandos en Discord",
		"dev",
		syncHandler,
	).AsDev()
}

func syncHandler(ctx *discord.CommandContext) error {
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}
	global, err := ctx.Client.CommandHandler.SyncCommands("")
	if err != nil {
		return ctx.FollowupError(err)
	}
	dev, err := ctx.Client.CommandHandler.SyncCommands(config.Get().DevGuildID)
	if err != nil {
		return ctx.FollowupError(err)
	}
	logger.Info(fmt.Sprintf("Comandos sincronizados por %s: %d globales, %d dev", ctx.User().ID, len(global), len(dev)), "Dev")
	return ctx.Followup(fmt.Sprintf("✅ %d comandos globales y %d de desarrollo sincronizados.", len(global), len(dev)), true)
}
