package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/ReneKroon/ttlcache/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"
)

const (
	sessionCookieName = "companion-session"
	sessionKey        = "session"

	stateTTL   = 10 * time.Minute
	sessionTTL = 7 * 24 * time.Hour

	// Permission bits that let a user manage a guild from the dashboard.
	permAdministrator = 0x8
	permManageGuild   = 0x20
)

// DiscordAPI is the base of the REST endpoints called with the user token.
const DiscordAPI = "https://discord.com/api/v10"

var (
	errBadState  = errors.Sentinel("el estado de la sesión no es válido o expiró")
	errNoSession = errors.Sentinel("no has iniciado sesión")
)

// UserGuild is a guild as listed by /users/@me/guilds.
type UserGuild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Owner       bool   `json:"owner"`
	Permissions int64  `json:"permissions,string"`
}

// Session is a logged in dashboard user.
type Session struct {
	ID        string      `json:"-"`
	UserID    string      `json:"id"`
	Username  string      `json:"username"`
	Avatar    string      `json:"avatar"`
	Guilds    []UserGuild `json:"-"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CanManage reports whether a permission bitfield grants ADMINISTRATOR or MANAGE_GUILD.
func CanManage(permissions int64) bool {
	return permissions&permAdministrator != 0 || permissions&permManageGuild != 0
}

// AdminGuild returns the guild when the session user may administer it.
func (s *Session) AdminGuild(guildID string) (UserGuild, bool) {
	for _, g := range s.Guilds {
		if g.ID == guildID && (g.Owner || CanManage(g.Permissions)) {
			return g, true
		}
	}
	return UserGuild{}, false
}

// AdminGuilds lists the guilds the user may administer.
func (s *Session) AdminGuilds() []UserGuild {
	out := make([]UserGuild, 0, len(s.Guilds))
	for _, g := range s.Guilds {
		if g.Owner || CanManage(g.Permissions) {
			out = append(out, g)
		}
	}
	return out
}

// Auth runs the Discord OAuth2 login and keeps the sessions in memory.
type Auth struct {
	oauth      *oauth2.Config
	states     *ttlcache.Cache
	sessions   *ttlcache.Cache
	apiBase    string
	httpClient *http.Client
	secure     bool
	afterLogin string
}

// NewAuth builds the OAuth2 flow from the bot configuration.
func NewAuth(cfg *config.Config) *Auth {
	a := &Auth{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL(),
			Endpoint: oauth2.Endpoint{
				AuthURL:   "https://discord.com/api/oauth2/authorize",
				TokenURL:  "https://discord.com/api/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{"identify", "guilds"},
		},
		states:     ttlcache.NewCache(),
		sessions:   ttlcache.NewCache(),
		apiBase:    DiscordAPI,
		httpClient: cleanhttp.DefaultPooledClient(),
		secure:     cfg.IsProd(),
		afterLogin: cfg.DashboardURL,
	}
	_ = a.states.SetTTL(stateTTL)
	a.states.SkipTTLExtensionOnHit(true)
	_ = a.sessions.SetTTL(sessionTTL)
	return a
}

// Close stops the cache janitors
func (a *Auth) Close() {
	_ = a.states.Close()
	_ = a.sessions.Close()
}

// LoginURL creates a CSRF state and returns the authorize URL carrying it.
func (a *Auth) LoginURL() string {
	state := uuid.New().String()
	_ = a.states.Set(state, struct{}{})
	return a.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline) + "&prompt=none"
}

// consumeState checks a state exactly once.
func (a *Auth) consumeState(state string) bool {
	if state == "" {
		return false
	}
	if _, err := a.states.Get(state); err != nil {
		return false
	}
	_ = a.states.Remove(state)
	return true
}

func (a *Auth) context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

func (a *Auth) getJSON(ctx context.Context, client *http.Client, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.apiBase+path, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("discord %s: estado %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Login exchanges an authorization code and opens a session.
func (a *Auth) Login(ctx context.Context, state, code string) (*Session, error) {
	if !a.consumeState(state) {
		return nil, errBadState
	}

	ctx = a.context(ctx)
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.WrapIf(err, "intercambio de código OAuth2")
	}
	client := a.oauth.Client(ctx, token)

	var user struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
		Avatar     string `json:"avatar"`
	}
	if err := a.getJSON(ctx, client, "/users/@me", &user); err != nil {
		return nil, err
	}
	var guilds []UserGuild
	if err := a.getJSON(ctx, client, "/users/@me/guilds", &guilds); err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		Avatar:    user.Avatar,
		Guilds:    guilds,
		CreatedAt: time.Now().UTC(),
	}
	if user.GlobalName != "" {
		sess.Username = user.GlobalName
	}
	if err := a.sessions.Set(sess.ID, sess); err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("Sesión iniciada en el panel: %s", sess.UserID), "WebAuth")
	return sess, nil
}

// Session looks a session id up.
func (a *Auth) Session(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	v, err := a.sessions.Get(id)
	if err != nil {
		return nil, false
	}
	return v.(*Session), true
}

// Logout forgets a session.
func (a *Auth) Logout(id string) {
	_ = a.sessions.Remove(id)
}

func (a *Auth) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, value, maxAge, "/", "", a.secure, true)
}

func (a *Auth) loginHandler(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, a.LoginURL())
}

func (a *Auth) callbackHandler(c *gin.Context) {
	sess, err := a.Login(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		if errors.Is(err, errBadState) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request", "message": err.Error(), "status": http.StatusBadRequest})
			return
		}
		logger.Error("Error en el login OAuth2: "+err.Error(), "WebAuth")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Bad Gateway", "message": "No se pudo completar el inicio de sesión con Discord.", "status": http.StatusBadGateway})
		return
	}

	a.setCookie(c, sess.ID, int(sessionTTL.Seconds()))
	c.Redirect(http.StatusTemporaryRedirect, a.afterLogin)
}

func (a *Auth) logoutHandler(c *gin.Context) {
	if id, err := c.Cookie(sessionCookieName); err == nil {
		a.Logout(id)
	}
	a.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RequireSession aborts with 401 unless the request carries a live session cookie.
func (a *Auth) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookieName)
		sess, ok := a.Session(id)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "No has iniciado sesión.",
				"status":  http.StatusUnauthorized,
			})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequireGuildAdmin aborts with 403 unless the session user manages the :guild param.
func RequireGuildAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": errNoSession.Error(), "status": http.StatusUnauthorized})
			return
		}
		if _, ok := sess.AdminGuild(c.Param("guild")); !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "No puedes administrar este servidor.", "status": http.StatusForbidden})
			return
		}
		c.Next()
	}
}

// RequireOwner restricts global settings to the bot owners.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess == nil || !config.Get().IsOwner(sess.UserID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": "Solo los desarrolladores del bot pueden cambiar esto.", "status": http.StatusForbidden})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*Session)
	return sess
}
