package announcer

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		platform Platform
		kind     string
		url      string
	}{
		{"watch", "mirad https://www.youtube.com/watch?v=abc123 !", YouTube, "Vídeo", "https://www.youtube.com/watch?v=abc123"},
		{"short", "https://youtube.com/shorts/xyz", YouTube, "Short", "https://youtube.com/shorts/xyz"},
		{"live", "en directo: https://youtube.com/live/qwe", YouTube, "Directo", "https://youtube.com/live/qwe"},
		{"youtu.be", "https://youtu.be/abc", YouTube, "Vídeo", "https://youtu.be/abc"},
		{"uppercase host", "https://WWW.YouTube.COM/watch?v=a1", YouTube, "Vídeo", "https://WWW.YouTube.COM/watch?v=a1"},
		{"twitch", "stream ya (https://twitch.tv/pancy)", Twitch, "Stream", "https://twitch.tv/pancy"},
		{"tiktok", "https://www.tiktok.com/@user/video/123", TikTok, "Vídeo", "https://www.tiktok.com/@user/video/123"},
		{"vm tiktok", "https://vm.tiktok.com/ZM123/", TikTok, "Vídeo", "https://vm.tiktok.com/ZM123/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, ok := Detect(tt.content)
			require.True(t, ok)
			assert.Equal(t, tt.platform, link.Platform)
			assert.Equal(t, tt.kind, link.Kind)
			assert.Equal(t, tt.url, link.URL)
		})
	}
}

func TestDetectIgnores(t *testing.T) {
	for _, content := range []string{
		"sin enlaces",
		"https://youtube.com/",
		"https://www.youtube.com/watch",
		"https://twitch.tv/",
		"https://notyoutube.com/watch?v=abc",
		"https://example.com/youtube.com/watch?v=abc",
	} {
		_, ok := Detect(content)
		assert.False(t, ok, content)
	}
}

func TestNormalizeHost(t *testing.T) {
	assert.Equal(t, "youtube.com", NormalizeHost("WWW.YOUTUBE.COM."))
	assert.Equal(t, "xn--mnchen-3ya.de", NormalizeHost("münchen.de"))
}

func TestExtractVideoIDs(t *testing.T) {
	page := `<html><body>
		<a href="/@user/video/300?lang=es">a</a>
		<div><a href="https://www.tiktok.com/@user/video/200">b</a></div>
		<a href="/@user/video/300">dup</a>
		<a href="/@user/photo/9">photo</a>
		<a href="/@user/video/100/">c</a>
	</body></html>`
	ids, err := ExtractVideoIDs(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, []string{"300", "200", "100"}, ids)
}

func TestNewVideos(t *testing.T) {
	ids := []string{"300", "200", "100"}
	assert.Nil(t, NewVideos(ids, ""))
	assert.Equal(t, []string{"300"}, NewVideos(ids, "200"))
	assert.Empty(t, NewVideos(ids, "300"))
}

func TestCleanUsername(t *testing.T) {
	name, err := CleanUsername(" @pancy.studios ")
	require.NoError(t, err)
	assert.Equal(t, "pancy.studios", name)

	_, err = CleanUsername("@")
	assert.ErrorIs(t, err, ErrInvalidUsername)
	_, err = CleanUsername("con espacio")
	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store)
}

func TestCreators(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.AddCreator(ctx, "g1", "user", "mod", ""), ErrChannelNotSet)

	require.NoError(t, svc.SetChannel(ctx, "g1", "ann"))
	require.NoError(t, svc.AddCreator(ctx, "g1", "user", "mod", "100"))
	assert.ErrorIs(t, svc.AddCreator(ctx, "g1", "USER", "mod", ""), ErrCreatorExists)

	watches, err := svc.Watches(ctx)
	require.NoError(t, err)
	require.Len(t, watches, 1)
	assert.Equal(t, "ann", watches[0].ChannelID)

	require.NoError(t, svc.RemoveChannel(ctx, "g1"))
	watches, _ = svc.Watches(ctx)
	assert.Empty(t, watches)
	creators, _ := svc.Creators(ctx, "g1")
	assert.Len(t, creators, 1)

	require.NoError(t, svc.RemoveCreator(ctx, "g1", "User"))
	assert.ErrorIs(t, svc.RemoveCreator(ctx, "g1", "user"), ErrCreatorNotFound)
}

func TestCheckAnnouncesNewUploads(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.SetChannel(ctx, "g1", "ann"))
	require.NoError(t, svc.AddCreator(ctx, "g1", "user", "mod", "100"))

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet, "https://www.tiktok.com/@user",
		httpmock.NewStringResponder(200, `<a href="/@user/video/300"></a><a href="/@user/video/200"></a><a href="/@user/video/100"></a>`))
	transport.RegisterResponder(http.MethodGet, "https://www.tiktok.com/@gone",
		httpmock.NewStringResponder(404, ""))
	scraper := &Scraper{Client: &http.Client{Transport: transport}, BaseURL: tiktokBase}

	watches, err := svc.Watches(ctx)
	require.NoError(t, err)
	fresh, err := svc.Check(ctx, scraper, watches[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"200", "300"}, fresh)

	creators, _ := svc.Creators(ctx, "g1")
	assert.Equal(t, "300", creators[0].LastVideoID)

	_, err = scraper.Videos(ctx, "gone")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
