// Package web provides the dashboard HTTP server with routing and middleware.
// It uses Gin framework for high-performance web handling.
package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/modules"
	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/PancyStudios/CompanionBotGo/pkg/metrics"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Deps are the bot components the API reads from.
type Deps struct {
	Services *modules.Services
	Bus      *mqtt.Bus
	Store    database.Store
	// Bot may be nil when the dashboard runs without a gateway connection.
	Bot *discord.ExtendedClient
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Every is the time it takes to earn one request back.
	Every time.Duration
	Burst int
}

// DefaultRateLimit allows bursts of 100 requests and refills 100 per minute.
var DefaultRateLimit = RateLimitConfig{Every: 600 * time.Millisecond, Burst: 100}

// Server represents the web server
type Server struct {
	engine           *gin.Engine
	srv              *http.Server
	deps             Deps
	auth             *Auth
	webhookURL       string
	dashboardURL     string
	allowedHostRegex *regexp.Regexp
	rateLimit        RateLimitConfig
	limiters         *cache.Cache
	httpClient       *http.Client
	upgrader         websocket.Upgrader
}

var (
	server *Server
)

// Init initializes the global web server
func Init(cfg *config.Config, deps Deps) (*Server, error) {
	s, err := NewServer(cfg, deps)
	if err != nil {
		return nil, err
	}
	server = s
	return server, nil
}

// Get returns the global web server
func Get() *Server {
	return server
}

// NewServer creates a new web server with every route registered
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	hosts, err := regexp.Compile(cfg.AllowedHosts)
	if err != nil {
		return nil, fmt.Errorf("allowedHosts inválido: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:           engine,
		deps:             deps,
		auth:             NewAuth(cfg),
		webhookURL:       cfg.LogsWebServerHook,
		dashboardURL:     strings.TrimRight(cfg.DashboardURL, "/"),
		allowedHostRegex: hosts,
		rateLimit:        DefaultRateLimit,
		limiters:         cache.New(10*time.Minute, 20*time.Minute),
		httpClient:       cleanhttp.DefaultPooledClient(),
	}
	s.httpClient.Timeout = 5 * time.Second
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	// Apply middlewares
	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())
	s.engine.Use(s.metricsMiddleware())

	// Set up error handlers
	s.setupErrorHandlers()

	SetupAPIRoutes(s)

	return s, nil
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Auth returns the session manager
func (s *Server) Auth() *Auth {
	return s.auth
}

type requestLog struct {
	method     string
	path       string
	ip         string
	query      string
	headers    http.Header
	suspicious bool
}

// logsMiddleware logs all incoming requests and rejects hosts outside the allow-list
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := requestLog{
			method:  c.Request.Method,
			path:    c.Request.URL.Path,
			ip:      c.ClientIP(),
			query:   c.Request.URL.RawQuery,
			headers: c.Request.Header.Clone(),
		}

		if s.allowedHostRegex.MatchString(c.Request.Host) {
			logger.Info(fmt.Sprintf("[LOG] Nueva solicitud: %s %s", entry.method, entry.path), "WebServer")
			go s.sendLogToWebhook(entry)
			c.Next()
			return
		}

		logger.Warn(fmt.Sprintf("[LOG] Solicitud Sospechosa: %s %s | %s", entry.method, entry.path, entry.ip), "WebServer")
		entry.suspicious = true
		go s.sendLogToWebhook(entry)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "Host no permitido.",
			"status":  http.StatusForbidden,
		})
	}
}

// sendLogToWebhook sends a log message to the Discord webhook
func (s *Server) sendLogToWebhook(entry requestLog) {
	if s.webhookURL == "" {
		return
	}

	title := fmt.Sprintf("💫 | Nueva solicitud al servidor web de tipo %s", entry.method)
	color := 0x00AE86

	if entry.suspicious {
		title = fmt.Sprintf("💫 | Solicitud Sospechosa Rechazada: %s %s", entry.method, entry.path)
		color = 0xFFA500
	}

	entry.headers.Del("Cookie")
	entry.headers.Del("Authorization")
	headers, _ := json.Marshal(entry.headers)
	query := entry.query
	if query == "" {
		query = "{}"
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{map[string]interface{}{
			"title": title,
			"description": fmt.Sprintf(
				"> **Ruta:** `%s`\n> **IP:** `%s`\n> **Headers:** ```%s``` \n> **Query:** ```%s```",
				entry.path, entry.ip, string(headers), query,
			),
			"color":     color,
			"timestamp": time.Now().Format(time.RFC3339),
		}},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return
	}
	resp.Body.Close()
}

// limiter returns the token bucket of a client ip.
func (s *Server) limiter(ip string) *rate.Limiter {
	if l, ok := s.limiters.Get(ip); ok {
		return l.(*rate.Limiter)
	}
	l := rate.NewLimiter(rate.Every(s.rateLimit.Every), s.rateLimit.Burst)
	if err := s.limiters.Add(ip, l, cache.DefaultExpiration); err != nil {
		// another request created it first
		if existing, ok := s.limiters.Get(ip); ok {
			return existing.(*rate.Limiter)
		}
	}
	return l
}

// rateLimitMiddleware applies a per-ip token bucket
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too Many Requests",
				"message": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
				"status":  http.StatusTooManyRequests,
			})
			return
		}
		c.Next()
	}
}

// metricsMiddleware records request counts and latencies by route
func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.HandleMethodNotAllowed = true

	// 404 handler
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  http.StatusNotFound,
		})
	})

	// 405 handler
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  http.StatusMethodNotAllowed,
		})
	})
}

func (s *Server) listen(port string) {
	s.srv = &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info(fmt.Sprintf("🚀 Servidor escuchando en http://localhost:%s", port), "WebServer")
}

func (s *Server) serve() error {
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Start starts the web server and blocks until it stops
func (s *Server) Start(port string) error {
	s.listen(port)
	return s.serve()
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	s.listen(port)
	go func() {
		if err := s.serve(); err != nil {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

// Shutdown stops accepting requests and waits for the active ones
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.auth.Close()
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
