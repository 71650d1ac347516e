package web

import (
	"html"
	"net/http"
	"strconv"
	"strings"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/leveling"
	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	apperrors "github.com/PancyStudios/CompanionBotGo/pkg/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

var (
	errUnknownField = errors.Sentinel("campo desconocido")
	errBadValue     = errors.Sentinel("valor con un tipo inválido")

	textPolicy = bluemonday.StrictPolicy()
	validate   = validator.New()
)

// sanitizeText strips any HTML a dashboard user typed and keeps the plain
// characters, so Discord markdown and mentions like <@id> survive.
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// abortError answers with the user facing message of err. Errors not meant
// for users become 500 and are reported.
func abortError(c *gin.Context, err error) {
	msg, public := apperrors.UserMessage(err)
	if !public {
		apperrors.Capture(err, "WebAPI")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": msg, "status": http.StatusInternalServerError})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": msg, "status": http.StatusBadRequest})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": message, "status": http.StatusBadRequest})
}

// limit reads ?limit= clamped to [1, maxListLimit].
func limit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n < 1 {
		return defaultListLimit
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}

type guildEntry struct {
	UserGuild
	BotPresent bool `json:"botPresent"`
}

func (s *Server) meHandler(c *gin.Context) {
	sess := currentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"id":       sess.UserID,
		"username": sess.Username,
		"avatar":   sess.Avatar,
		"isOwner":  config.Get().IsOwner(sess.UserID),
	})
}

func (s *Server) guildsHandler(c *gin.Context) {
	sess := currentSession(c)
	admin := sess.AdminGuilds()
	out := make([]guildEntry, 0, len(admin))
	for _, g := range admin {
		out = append(out, guildEntry{
			UserGuild:  g,
			BotPresent: s.deps.Bot != nil && s.deps.Bot.InGuild(g.ID),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) modulesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Services.GuildStatus(c.Request.Context(), c.Param("guild")))
}

func (s *Server) economySettingsHandler(c *gin.Context) {
	cfg, err := s.deps.Services.Economy.Settings(c.Request.Context())
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// mergeSettings overlays the patch on the current settings. Keys that are not
// settings are rejected.
func mergeSettings(current models.EconomySettings, patch map[string]json.RawMessage) (models.EconomySettings, error) {
	raw, err := json.Marshal(current)
	if err != nil {
		return current, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return current, err
	}
	for k, v := range patch {
		if _, ok := m[k]; !ok {
			return current, errors.WithDetails(errUnknownField, "field", k)
		}
		m[k] = v
	}

	raw, err = json.Marshal(m)
	if err != nil {
		return current, err
	}
	var next models.EconomySettings
	if err := json.Unmarshal(raw, &next); err != nil {
		return current, errors.WrapIf(errBadValue, err.Error())
	}
	return next, nil
}

func (s *Server) patchEconomySettingsHandler(c *gin.Context) {
	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "El cuerpo debe ser un objeto JSON.")
		return
	}

	ctx := c.Request.Context()
	current, err := s.deps.Services.Economy.Settings(ctx)
	if err != nil {
		abortError(c, err)
		return
	}
	next, err := mergeSettings(current, patch)
	if err != nil {
		abortError(c, err)
		return
	}
	if err := s.deps.Services.Economy.ReplaceSettings(ctx, next); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, next)
}

func (s *Server) richlistHandler(c *gin.Context) {
	entries, err := s.deps.Services.Economy.Richlist(c.Request.Context(), c.Param("guild"), limit(c))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) leaderboardHandler(c *gin.Context) {
	entries, err := s.deps.Services.Leveling.Leaderboard(c.Request.Context(), c.Param("guild"), limit(c))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) levelSettingsHandler(c *gin.Context) {
	var cfg leveling.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, "Configuración de niveles inválida.")
		return
	}
	for level, name := range cfg.Roles {
		cfg.Roles[level] = sanitizeText(name)
	}

	ctx := c.Request.Context()
	guildID := c.Param("guild")
	if err := s.deps.Services.Leveling.UpdateConfig(ctx, guildID, cfg); err != nil {
		abortError(c, err)
		return
	}
	updated, err := s.deps.Services.Leveling.Config(ctx, guildID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) welcomeHandler(c *gin.Context) {
	cfg, err := s.deps.Services.Welcome.Settings(c.Request.Context(), c.Param("guild"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) putWelcomeHandler(c *gin.Context) {
	var next models.WelcomeSettings
	if err := c.ShouldBindJSON(&next); err != nil {
		badRequest(c, "Configuración de bienvenida inválida.")
		return
	}
	next.Message = sanitizeText(next.Message)

	updated, err := s.deps.Services.Welcome.Replace(c.Request.Context(), c.Param("guild"), next)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) countingHandler(c *gin.Context) {
	channels, err := s.deps.Services.Counting.Channels(c.Request.Context(), c.Param("guild"))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

func (s *Server) ticketsHandler(c *gin.Context) {
	ctx := c.Request.Context()
	guildID := c.Param("guild")
	settings, err := s.deps.Services.Tickets.Settings(ctx, guildID)
	if err != nil {
		abortError(c, err)
		return
	}
	open, err := s.deps.Services.Tickets.List(ctx, guildID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings, "open": open})
}

func (s *Server) casesHandler(c *gin.Context) {
	cases, err := s.deps.Services.Moderation.Cases(c.Request.Context(), c.Param("guild"), limit(c))
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, cases)
}

func (s *Server) faqListHandler(c *gin.Context) {
	faqs, err := s.deps.Services.Assistant.FAQs(c.Request.Context())
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, faqs)
}

func (s *Server) faqAddHandler(c *gin.Context) {
	var f models.FAQ
	if err := c.ShouldBindJSON(&f); err != nil {
		badRequest(c, "Pregunta frecuente inválida.")
		return
	}
	f.Question = sanitizeText(f.Question)
	f.Answer = sanitizeText(f.Answer)
	f.Category = sanitizeText(f.Category)
	for i, alias := range f.Aliases {
		f.Aliases[i] = sanitizeText(alias)
	}

	if err := s.deps.Services.Assistant.Add(c.Request.Context(), f); err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

type faqRemoveRequest struct {
	Question string `form:"question" validate:"required,max=200"`
}

func (s *Server) faqRemoveHandler(c *gin.Context) {
	var req faqRemoveRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Parámetros inválidos.")
		return
	}
	if err := validate.Struct(req); err != nil {
		abortError(c, err)
		return
	}

	removed, err := s.deps.Services.Assistant.Remove(c.Request.Context(), req.Question)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, removed)
}
