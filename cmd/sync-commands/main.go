// Package main provides a utility to sync Discord slash commands.
// This removes stale commands from Discord and ensures only currently-defined commands are registered.
//
// Usage:
//
//	go run ./cmd/sync-commands [sync|list|clean] [--guild <id>]
package main

import (
	"fmt"
	"os"

	"github.com/PancyStudios/CompanionBotGo/internal/commands"
	"github.com/PancyStudios/CompanionBotGo/internal/modules"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"
)

const prefix = "SyncCommands"

func main() {
	var guildID string

	root := &cobra.Command{
		Use:   "sync-commands",
		Short: "Sincroniza los comandos de barra con Discord",
		Long:  "Elimina los comandos obsoletos de Discord y registra los definidos actualmente.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(c *discord.ExtendedClient) error { return syncCommands(c, guildID) })
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&guildID, "guild", "", "Servidor objetivo (vacío para comandos globales)")

	root.AddCommand(
		&cobra.Command{
			Use:   "sync",
			Short: "Elimina los comandos obsoletos y registra los actuales",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(func(c *discord.ExtendedClient) error { return syncCommands(c, guildID) })
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Lista los comandos registrados en Discord",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(func(c *discord.ExtendedClient) error { return listCommands(c, guildID) })
			},
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Elimina todos los comandos sin registrar nuevos",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(func(c *discord.ExtendedClient) error { return cleanCommands(c, guildID) })
			},
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// withClient connects to Discord, builds the command set and runs fn.
func withClient(fn func(*discord.ExtendedClient) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando utilidad de sincronización de comandos...", prefix)

	client, err := discord.NewClient(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), prefix)
		return err
	}

	if err := client.Session.Open(); err != nil {
		logger.Critical(fmt.Sprintf("Error connecting to Discord: %v", err), prefix)
		return err
	}
	defer client.Session.Close()

	logger.Success("Conectado a Discord", prefix)

	// Commands only need to be described, so the services run on a throwaway
	// in-memory event bus and the configured data directory.
	store, err := database.NewFileStore(cfg.DataDir)
	if err != nil {
		return err
	}
	services := modules.New(store, randutil.New(), mqtt.NewBus(nil))
	defer services.Close()
	commands.RegisterAll(client, services, store)

	if err := fn(client); err != nil {
		logger.Error(err.Error(), prefix)
		return err
	}
	logger.Success("Operación completada exitosamente", prefix)
	return nil
}

// commandTable renders application commands as a table.
func commandTable(cmds []*discordgo.ApplicationCommand) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Comando", "Descripción", "Subcomandos", "ID"})
	for i, cmd := range cmds {
		subs := 0
		for _, opt := range cmd.Options {
			if opt.Type == discordgo.ApplicationCommandOptionSubCommand || opt.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
				subs++
			}
		}
		t.AppendRow(table.Row{i + 1, "/" + cmd.Name, cmd.Description, subs, cmd.ID})
	}
	return t.Render()
}

// listCommands lists all commands registered with Discord
func listCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("📋 Listando comandos registrados...", prefix)

	var cmds []*discordgo.ApplicationCommand
	var err error
	if guildID != "" {
		logger.Info(fmt.Sprintf("Obteniendo comandos del servidor: %s", guildID), prefix)
		cmds, err = client.CommandHandler.ListGuildCommands(guildID)
	} else {
		logger.Info("Obteniendo comandos globales", prefix)
		cmds, err = client.CommandHandler.ListGlobalCommands()
	}
	if err != nil {
		return fmt.Errorf("error obteniendo comandos: %w", err)
	}

	if len(cmds) == 0 {
		logger.Info("No hay comandos registrados", prefix)
		return nil
	}

	logger.Info(fmt.Sprintf("Comandos encontrados: %d", len(cmds)), prefix)
	fmt.Println(commandTable(cmds))
	return nil
}

// cleanCommands removes all commands from Discord
func cleanCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🧹 Eliminando todos los comandos...", prefix)

	var err error
	if guildID != "" {
		err = client.CommandHandler.UnregisterGuildCommands(guildID)
	} else {
		err = client.CommandHandler.UnregisterCommands()
	}
	if err != nil {
		return fmt.Errorf("error eliminando comandos: %w", err)
	}

	logger.Success("✅ Todos los comandos han sido eliminados", prefix)
	return nil
}

// syncCommands overwrites the remote command set with the local one. A guild
// target receives the development commands.
func syncCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🔄 Sincronizando comandos...", prefix)

	cmds, err := client.CommandHandler.SyncCommands(guildID)
	if err != nil {
		return fmt.Errorf("error sincronizando comandos: %w", err)
	}

	logger.Success(fmt.Sprintf("✅ %d comandos sincronizados correctamente", len(cmds)), prefix)
	fmt.Println(commandTable(cmds))
	return nil
}
