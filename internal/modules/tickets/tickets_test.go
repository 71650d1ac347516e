package tickets

import (
	"context"
	"sync"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store, nil)
}

func TestReserveOnePerUser(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	live := map[string]bool{}
	exists := func(id string) bool { return live[id] }

	n, err := s.Reserve(ctx, "g", "u1", exists)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, s.Register(ctx, "g", "c1", n, "u1", time.Unix(10, 0)))
	live["c1"] = true

	_, err = s.Reserve(ctx, "g", "u1", exists)
	assert.True(t, errors.Is(err, ErrAlreadyOpen))

	n, err = s.Reserve(ctx, "g", "u2", exists)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// a ticket whose channel was deleted by hand does not block
	live["c1"] = false
	n, err = s.Reserve(ctx, "g", "u1", exists)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestReserveBlocksUntilRegistered(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	calls := 0
	exists := func(string) bool { calls++; return true }

	n, err := s.Reserve(ctx, "g", "u1", exists)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// a second click before the channel exists
	_, err = s.Reserve(ctx, "g", "u1", exists)
	assert.True(t, errors.Is(err, ErrAlreadyOpen))

	// other guilds are independent
	n, err = s.Reserve(ctx, "other", "u1", exists)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// a failed channel creation frees the user again
	s.Release("g", "u1")
	n, err = s.Reserve(ctx, "g", "u1", exists)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Register(ctx, "g", "c2", n, "u1", time.Unix(10, 0)))
	_, err = s.Reserve(ctx, "g", "u1", exists)
	assert.True(t, errors.Is(err, ErrAlreadyOpen))
	assert.Equal(t, 1, calls)
}

func TestReserveConcurrentClicks(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	exists := func(string) bool { return true }

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Reserve(ctx, "g", "u1", exists); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, granted)
}

func TestCloseTicket(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	require.NoError(t, s.Register(ctx, "g", "c1", 4, "u1", time.Unix(10, 0)))

	tk, err := s.Ticket(ctx, "g", "c1")
	require.NoError(t, err)
	assert.Equal(t, 4, tk.Number)

	list, err := s.List(ctx, "g")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	closed, err := s.Close(ctx, "g", "c1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", closed.UserID)

	_, err = s.Close(ctx, "g", "c1", "u1")
	assert.True(t, errors.Is(err, ErrNotATicket))
}

func TestCanClose(t *testing.T) {
	tk := models.Ticket{UserID: "owner"}
	support := []string{"r1"}

	assert.True(t, CanClose(tk, "owner", false, nil, support))
	assert.True(t, CanClose(tk, "admin", true, nil, support))
	assert.True(t, CanClose(tk, "staff", false, []string{"r0", "r1"}, support))
	assert.False(t, CanClose(tk, "random", false, []string{"r0"}, support))
}

func TestSupportRoles(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	cfg, err := s.Configure(ctx, "g", "cat", "r1", "log")
	require.NoError(t, err)
	assert.Equal(t, "cat", cfg.CategoryID)
	assert.Equal(t, []string{"r1"}, cfg.SupportRoleIDs)
	assert.Equal(t, DefaultMessage, cfg.TicketMessage)

	assert.True(t, errors.Is(s.AddSupportRole(ctx, "g", "r1"), ErrRoleAlreadyAdded))
	require.NoError(t, s.AddSupportRole(ctx, "g", "r2"))
	require.NoError(t, s.RemoveSupportRole(ctx, "g", "r1"))
	assert.True(t, errors.Is(s.RemoveSupportRole(ctx, "g", "r1"), ErrRoleNotFound))

	require.NoError(t, s.SetMessage(ctx, "g", "Hola"))
	cfg, err = s.Settings(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, cfg.SupportRoleIDs)
	assert.Equal(t, "Hola", cfg.TicketMessage)
	assert.Equal(t, "log", cfg.LogChannelID)
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "ticket-12", ChannelName(12))
}
