package web

import (
	"net/http"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes sets up the auth, public and dashboard routes
func SetupAPIRoutes(s *Server) {
	s.engine.GET("/login", s.auth.loginHandler)
	s.engine.GET("/callback", s.auth.callbackHandler)
	s.engine.GET("/logout", s.auth.logoutHandler)
	s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.engine.Group("/api")
	{
		api.GET("/status", s.statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", s.botInfoHandler)
	}

	authed := api.Group("", s.auth.RequireSession())
	{
		authed.GET("/me", s.meHandler)
		authed.GET("/guilds", s.guildsHandler)

		authed.GET("/economy/settings", s.economySettingsHandler)
		authed.PATCH("/economy/settings", RequireOwner(), s.patchEconomySettingsHandler)

		authed.GET("/faq", s.faqListHandler)
		authed.POST("/faq", RequireOwner(), s.faqAddHandler)
		authed.DELETE("/faq", RequireOwner(), s.faqRemoveHandler)
	}

	guild := authed.Group("/guilds/:guild", RequireGuildAdmin())
	{
		guild.GET("/modules", s.modulesHandler)
		guild.GET("/economy/richlist", s.richlistHandler)
		guild.GET("/levels/leaderboard", s.leaderboardHandler)
		guild.PUT("/levels/settings", s.levelSettingsHandler)
		guild.GET("/welcome", s.welcomeHandler)
		guild.PUT("/welcome", s.putWelcomeHandler)
		guild.GET("/counting", s.countingHandler)
		guild.GET("/tickets", s.ticketsHandler)
		guild.GET("/moderation/cases", s.casesHandler)
		guild.GET("/feed", s.feedHandler)
	}
}

// storageStatus reports the backend of the document store and whether it is reachable
func (s *Server) storageStatus() gin.H {
	if s.deps.Store == nil {
		return gin.H{"backend": "none", "status": "sin almacenamiento", "isOnline": false}
	}
	backend := s.deps.Store.Backend()
	if db := database.Get(); db != nil && backend != "file" {
		status, online := db.GetStatus()
		return gin.H{"backend": backend, "status": status, "isOnline": online, "queued": db.QueueLength()}
	}
	return gin.H{"backend": backend, "status": "Conectado", "isOnline": true}
}

// statusHandler returns the bot and storage status
func (s *Server) statusHandler(c *gin.Context) {
	botOnline := s.deps.Bot != nil && s.deps.Bot.IsReady()

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  config.Version,
		"database": s.storageStatus(),
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "CompanionBot Go is running",
	})
}

// botInfoHandler returns information about the bot
func (s *Server) botInfoHandler(c *gin.Context) {
	client := s.deps.Bot
	if client == nil || !client.IsReady() || client.Session.State.User == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
			"status":  http.StatusServiceUnavailable,
		})
		return
	}

	user := client.Session.State.User
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"avatar":   user.AvatarURL("256"),
		"guilds":   client.GuildCount(),
		"commands": client.Commands.Size(),
		"uptime":   int64(time.Since(client.StartTime).Seconds()),
		"isReady":  client.IsReady(),
	})
}
