// Package main is the entry point for the CompanionBot Go application.
// It initializes all systems and starts the Discord bot and its dashboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/commands"
	"github.com/PancyStudios/CompanionBotGo/internal/events"
	"github.com/PancyStudios/CompanionBotGo/internal/modules"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
	"github.com/PancyStudios/CompanionBotGo/pkg/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando CompanionBot Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	handler := errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			_ = discordClient.Stop()
		}
	})
	if err := handler.EnableSentry(cfg.SentryDSN, cfg.Environment, config.Version); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo iniciar Sentry: %v", err), "Main")
	}
	defer handler.Stop()

	store, err := openStore(cfg)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error abriendo el almacenamiento: %v", err), "Main")
		os.Exit(1)
	}
	logger.System(fmt.Sprintf("Almacenamiento: %s", store.Backend()), "Main")
	defer func() {
		if db := database.Get(); db != nil {
			_ = db.Disconnect()
		}
	}()

	// Initialize MQTT
	mqttClient := mqtt.Init(mqtt.OptionsFromConfig(cfg))
	defer mqttClient.Close()

	bus := mqtt.NewBus(mqttClient)
	services := modules.New(store, randutil.New(), bus)
	defer func() {
		if err := services.Close(); err != nil {
			logger.Warn(fmt.Sprintf("Error cerrando servicios: %v", err), "Main")
		}
	}()

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	commands.RegisterAll(discordClient, services, store)
	events.RegisterAll(discordClient, services)

	// Initialize web server
	webServer, err := web.Init(cfg, web.Deps{
		Services: services,
		Bus:      bus,
		Store:    store,
		Bot:      discordClient,
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el servidor web: %v", err), "Main")
		os.Exit(1)
	}
	webServer.StartAsync(cfg.Port)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		if err := discordClient.Stop(); err != nil {
			logger.Warn(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events.StartLoops(ctx, discordClient.Session)
	events.RegisterRequestHandlers(mqttClient, discordClient.Session)

	logger.Success("CompanionBot Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando CompanionBot Go...", "Main")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn(fmt.Sprintf("Error apagando el servidor web: %v", err), "Main")
	}
}

// openStore picks the document store. MongoDB keeps working while offline by
// queueing writes, so a failed first connection is not fatal.
func openStore(cfg *config.Config) (database.Store, error) {
	if !cfg.UseMongo() {
		return database.NewFileStore(cfg.DataDir)
	}

	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
	}
	return database.NewMongoStore(db, cfg.DBName), nil
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
