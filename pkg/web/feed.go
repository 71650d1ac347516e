package web

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	feedBuffer     = 32
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = feedPongWait * 9 / 10
)

// checkOrigin accepts same-origin tools without an Origin header, the
// dashboard URL and the allowed hosts.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == s.dashboardURL {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return s.allowedHostRegex.MatchString(u.Host)
}

// feedHandler streams the live events of a guild over a websocket.
func (s *Server) feedHandler(c *gin.Context) {
	if s.deps.Bus == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service Unavailable", "message": "El feed de eventos no está disponible.", "status": http.StatusServiceUnavailable})
		return
	}

	// Subscribe before the handshake completes so no event is missed.
	guildID := c.Param("guild")
	events := make(chan mqtt.BotEvent, feedBuffer)
	unsubscribe := s.deps.Bus.Subscribe(mqtt.GuildPattern(guildID), func(ev mqtt.BotEvent) {
		select {
		case events <- ev:
		default:
			logger.Debug("Feed lleno, evento descartado para "+guildID, "WebFeed")
		}
	})
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("No se pudo abrir el websocket: "+err.Error(), "WebFeed")
		return
	}
	defer conn.Close()

	logger.Debug(fmt.Sprintf("Cliente conectado al feed de %s", guildID), "WebFeed")
	streamEvents(conn, events)
}

// streamEvents writes events and keepalive pings until the client goes away.
func streamEvents(conn *websocket.Conn, events <-chan mqtt.BotEvent) {
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(feedPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(feedPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case ev := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteWait)); err != nil {
				return
			}
		}
	}
}
