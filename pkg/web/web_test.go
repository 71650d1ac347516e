package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/modules"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/PancyStudios/CompanionBotGo/pkg/mqtt"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server *Server
	bus    *mqtt.Bus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	bus := mqtt.NewBus(nil)
	svc := modules.New(store, randutil.New(), bus)
	t.Cleanup(func() { svc.Close() })

	cfg := &config.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		DashboardURL: "http://localhost:3000",
		AllowedHosts: `^(localhost|127\.0\.0\.1)(:\d+)?$`,
	}
	s, err := NewServer(cfg, Deps{Services: svc, Bus: bus, Store: store})
	require.NoError(t, err)
	t.Cleanup(s.auth.Close)

	return &testEnv{server: s, bus: bus}
}

func (e *testEnv) do(method, path, body, session string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Host = "localhost"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: session})
	}
	rec := httptest.NewRecorder()
	e.server.engine.ServeHTTP(rec, req)
	return rec
}

// login stores a session with the given guilds and returns its cookie value.
func (e *testEnv) login(guilds ...UserGuild) string {
	sess := &Session{ID: "sess-1", UserID: "99", Username: "tester", Guilds: guilds, CreatedAt: time.Now()}
	_ = e.server.auth.sessions.Set(sess.ID, sess)
	return sess.ID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestPublicRoutes(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/status", http.StatusOK},
		{http.MethodGet, "/api/bot", http.StatusServiceUnavailable},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/does-not-exist", http.StatusNotFound},
		{http.MethodPost, "/api/health", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := env.do(tt.method, tt.path, "", "")
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	var status struct {
		Database struct {
			Backend  string `json:"backend"`
			IsOnline bool   `json:"isOnline"`
		} `json:"database"`
	}
	decode(t, env.do(http.MethodGet, "/api/status", "", ""), &status)
	assert.Equal(t, "file", status.Database.Backend)
	assert.True(t, status.Database.IsOnline)
}

func TestHostAllowList(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Host = "evil.example"
	rec := httptest.NewRecorder()
	env.server.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t)
	env.server.rateLimit = RateLimitConfig{Every: time.Hour, Burst: 2}

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/health", "", "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/health", "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, env.do(http.MethodGet, "/api/health", "", "").Code)
}

func TestCanManage(t *testing.T) {
	tests := []struct {
		perms int64
		want  bool
	}{
		{0, false},
		{0x8, true},
		{0x20, true},
		{0x10, false},
		{0x28 | 0x400, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanManage(tt.perms), "perms %#x", tt.perms)
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<b>Hola</b> {user_mention}", "Hola {user_mention}"},
		{"Bienvenido <@123> & compañía", "Bienvenido <@123> & compañía"},
		{"  **negrita**  ", "**negrita**"},
		{`<img src=x onerror="alert(1)">texto`, "texto"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeText(tt.in))
		})
	}
}

func TestSessionRequired(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/me", "", "unknown").Code)

	session := env.login()
	rec := env.do(http.MethodGet, "/api/me", "", session)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		IsOwner  bool   `json:"isOwner"`
	}
	decode(t, rec, &me)
	assert.Equal(t, "99", me.ID)
	assert.Equal(t, "tester", me.Username)
	assert.False(t, me.IsOwner)
}

func TestGuildAdmin(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(
		UserGuild{ID: "1", Name: "Managed", Permissions: 0x20},
		UserGuild{ID: "2", Name: "Member", Permissions: 0x400},
		UserGuild{ID: "3", Name: "Owned", Owner: true},
	)

	tests := []struct {
		guild string
		want  int
	}{
		{"1", http.StatusOK},
		{"2", http.StatusForbidden},
		{"3", http.StatusOK},
		{"4", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.guild, func(t *testing.T) {
			rec := env.do(http.MethodGet, "/api/guilds/"+tt.guild+"/modules", "", session)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	var guilds []guildEntry
	decode(t, env.do(http.MethodGet, "/api/guilds", "", session), &guilds)
	require.Len(t, guilds, 2)
	assert.Equal(t, "1", guilds[0].ID)
	assert.False(t, guilds[0].BotPresent)
}

func TestWelcomeSettings(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(UserGuild{ID: "1", Permissions: 0x8})

	body := `{"channel_id":"123","message":"<b>Hola</b> {user_mention}","enabled":true,"embed_enabled":true,"embed_color":255}`
	rec := env.do(http.MethodPut, "/api/guilds/1/welcome", body, session)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got models.WelcomeSettings
	decode(t, env.do(http.MethodGet, "/api/guilds/1/welcome", "", session), &got)
	assert.Equal(t, "Hola {user_mention}", got.Message)
	assert.Equal(t, "123", got.ChannelID)
	assert.True(t, got.Enabled)

	bad := `{"message":"hola","embed_color":99999999}`
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPut, "/api/guilds/1/welcome", bad, session).Code)
}

func TestLevelSettings(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(UserGuild{ID: "1", Permissions: 0x8})

	body := `{"roles":{"3":"Novato"},"xp_per_message":{"min":5,"max":10}}`
	rec := env.do(http.MethodPut, "/api/guilds/1/levels/settings", body, session)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cfg struct {
		Roles map[string]string `json:"roles"`
	}
	decode(t, rec, &cfg)
	assert.Equal(t, map[string]string{"3": "Novato"}, cfg.Roles)

	bad := `{"roles":{"0":"Nada"},"xp_per_message":{"min":5,"max":10}}`
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPut, "/api/guilds/1/levels/settings", bad, session).Code)
}

func TestOwnerOnlyRoutes(t *testing.T) {
	env := newTestEnv(t)
	session := env.login()

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/faq", "", session).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/economy/settings", "", session).Code)

	faq := `{"question":"¿Qué es?","answer":"Un bot","category":"General"}`
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/faq", faq, session).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPatch, "/api/economy/settings", `{"beg_chance":0.5}`, session).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodDelete, "/api/faq?question=x", "", session).Code)
}

func TestMergeSettings(t *testing.T) {
	current := models.EconomySettings{BegChance: 0.3, WorkMin: 10, WorkMax: 50}

	next, err := mergeSettings(current, map[string]json.RawMessage{
		"beg_chance": json.RawMessage(`0.5`),
		"work_max":   json.RawMessage(`80`),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, next.BegChance)
	assert.Equal(t, int64(10), next.WorkMin)
	assert.Equal(t, int64(80), next.WorkMax)

	_, err = mergeSettings(current, map[string]json.RawMessage{"jackpot": json.RawMessage(`1`)})
	assert.True(t, errors.Is(err, errUnknownField))

	_, err = mergeSettings(current, map[string]json.RawMessage{"work_max": json.RawMessage(`"mucho"`)})
	assert.True(t, errors.Is(err, errBadValue))
}

func jsonResponder(body string) httpmock.Responder {
	return func(*http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(http.StatusOK, body)
		resp.Header = http.Header{"Content-Type": []string{"application/json"}}
		return resp, nil
	}
}

func TestOAuthLogin(t *testing.T) {
	env := newTestEnv(t)

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodPost, "https://discord.com/api/oauth2/token",
		jsonResponder(`{"access_token":"token","token_type":"Bearer","expires_in":3600}`))
	transport.RegisterResponder(http.MethodGet, DiscordAPI+"/users/@me",
		jsonResponder(`{"id":"42","username":"pancy","global_name":"Pancy","avatar":"abc"}`))
	transport.RegisterResponder(http.MethodGet, DiscordAPI+"/users/@me/guilds",
		jsonResponder(`[{"id":"1","name":"Server","owner":false,"permissions":"32"},{"id":"2","name":"Other","owner":false,"permissions":"0"}]`))
	env.server.auth.httpClient = &http.Client{Transport: transport}

	rec := env.do(http.MethodGet, "/login", "", "")
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	authorize, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := authorize.Query().Get("state")
	require.NotEmpty(t, state)
	assert.Equal(t, "client", authorize.Query().Get("client_id"))

	t.Run("bad state", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/callback?state=forged&code=abc", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	rec = env.do(http.MethodGet, "/callback?state="+state+"&code=abc", "", "")
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code, rec.Body.String())

	var session string
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			session = c.Value
		}
	}
	require.NotEmpty(t, session)

	var guilds []guildEntry
	decode(t, env.do(http.MethodGet, "/api/guilds", "", session), &guilds)
	require.Len(t, guilds, 1)
	assert.Equal(t, "Server", guilds[0].Name)

	// a state works only once
	rec = env.do(http.MethodGet, "/callback?state="+state+"&code=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.do(http.MethodGet, "/logout", "", session)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/me", "", session).Code)
}

func TestFeed(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(UserGuild{ID: "1", Permissions: 0x20})

	ts := httptest.NewServer(env.server.engine)
	defer ts.Close()

	header := http.Header{}
	header.Set("Cookie", sessionCookieName+"="+session)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/guilds/1/feed"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	env.bus.Emit("2", "level_up", nil)
	env.bus.Emit("1", "ticket_opened", map[string]string{"userId": "5"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev mqtt.BotEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "1", ev.GuildID)
	assert.Equal(t, "ticket_opened", ev.Kind)
}
