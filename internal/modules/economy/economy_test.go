package economy

import (
	"context"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/randutil"
	"github.com/PancyStudios/CompanionBotGo/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guild = "100"

func newTestService(t *testing.T, rng randutil.Source) *Service {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(store, rng, nil)
}

func fund(t *testing.T, s *Service, userID string, credits int64) {
	t.Helper()
	_, err := s.Adjust(context.Background(), guild, userID, credits)
	require.NoError(t, err)
}

func TestDailyStreak(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{})
	start := time.Unix(1_700_000_000, 0)

	res, err := s.Daily(ctx, guild, "u1", start)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, int64(120), res.Reward)

	_, err = s.Daily(ctx, guild, "u1", start.Add(time.Hour))
	var cd *CooldownError
	require.True(t, errors.As(err, &cd))
	assert.Equal(t, 23*time.Hour, cd.Remaining)

	res, err = s.Daily(ctx, guild, "u1", start.Add(25*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Streak)
	assert.Equal(t, int64(140), res.Reward)
	assert.Equal(t, int64(260), res.Balance)

	// more than two cooldowns since the last claim resets the streak
	res, err = s.Daily(ctx, guild, "u1", start.Add(25*time.Hour+48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak)
}

func TestDailyStreakCapped(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{})
	now := time.Unix(1_700_000_000, 0)

	var res DailyResult
	var err error
	for i := 0; i < 10; i++ {
		res, err = s.Daily(ctx, guild, "u1", now.Add(time.Duration(i)*24*time.Hour))
		require.NoError(t, err)
	}
	assert.Equal(t, 10, res.Streak)
	assert.Equal(t, int64(100+7*20), res.Reward)
}

func TestJobRange(t *testing.T) {
	cfg := newTestService(t, nil)
	settings, err := cfg.Settings(context.Background())
	require.NoError(t, err)

	tests := []struct {
		job     Job
		wantMin int64
		wantMax int64
	}{
		{Jobs[0], 5, 80},
		{Jobs[5], 10, 150},
		{Job{"Becario", 0.01, 0.001}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.job.Name, func(t *testing.T) {
			min, max := JobRange(tt.job, &settings)
			assert.Equal(t, tt.wantMin, min)
			assert.Equal(t, tt.wantMax, max)
		})
	}
}

func TestWork(t *testing.T) {
	ctx := context.Background()
	// job index 5 (Programador 10..150), earnings offset 40
	s := newTestService(t, &randutil.Scripted{Ints: []int{5}, Int63s: []int64{40}})
	now := time.Unix(1_700_000_000, 0)

	res, err := s.Work(ctx, guild, "u1", now)
	require.NoError(t, err)
	assert.Equal(t, "Programador", res.Job)
	assert.Equal(t, int64(50), res.Earned)

	_, err = s.Work(ctx, guild, "u1", now.Add(30*time.Minute))
	var cd *CooldownError
	assert.True(t, errors.As(err, &cd))
}

func TestPay(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{})
	fund(t, s, "a", 100)

	_, err := s.Pay(ctx, guild, "a", "a", 10)
	assert.True(t, errors.Is(err, ErrSelfTarget))

	_, err = s.Pay(ctx, guild, "a", "b", 0)
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	_, err = s.Pay(ctx, guild, "a", "b", 500)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	_, err = s.SetSetting(ctx, "pay_tax", "0.1")
	require.NoError(t, err)

	res, err := s.Pay(ctx, guild, "a", "b", 55)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Tax)
	assert.Equal(t, int64(50), res.Received)
	assert.Equal(t, int64(45), res.SenderBalance)

	b, err := s.Balance(ctx, guild, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(50), b)
}

func TestPayBelowMinimum(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{})
	fund(t, s, "a", 100)
	_, err := s.SetSetting(ctx, "pay_min", "20")
	require.NoError(t, err)

	_, err = s.Pay(ctx, guild, "a", "b", 10)
	var below *BelowMinimumError
	require.True(t, errors.As(err, &below))
	assert.Equal(t, int64(20), below.Minimum)
}

func TestRobValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{})
	now := time.Unix(1_700_000_000, 0)

	_, err := s.Rob(ctx, guild, "a", "a", false, now)
	assert.True(t, errors.Is(err, ErrSelfTarget))

	_, err = s.Rob(ctx, guild, "a", "bot", true, now)
	assert.True(t, errors.Is(err, ErrBotTarget))

	fund(t, s, "v", 19)
	_, err = s.Rob(ctx, guild, "a", "v", false, now)
	assert.True(t, errors.Is(err, ErrVictimTooPoor))

	fund(t, s, "v", 1000)
	_, err = s.Rob(ctx, guild, "a", "v", false, now)
	assert.True(t, errors.Is(err, ErrRobberTooPoor))

	// failed validation does not start the cooldown
	fund(t, s, "a", 100)
	_, err = s.Rob(ctx, guild, "a", "v", false, now)
	assert.NoError(t, err)
}

func TestRobSuccess(t *testing.T) {
	ctx := context.Background()
	// success roll 0.1 < 0.4, percent roll halfway between min and max
	s := newTestService(t, &randutil.Scripted{Floats: []float64{0.1, 0.5}})
	now := time.Unix(1_700_000_000, 0)
	fund(t, s, "a", 50)
	fund(t, s, "v", 1000)

	lo, hi := 0.1, 0.3
	want := int64(1000 * (lo + (hi-lo)*0.5))

	res, err := s.Rob(ctx, guild, "a", "v", false, now)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, want, res.Amount)
	assert.Equal(t, 50+want, res.RobberBalance)
	assert.Equal(t, 1000-want, res.VictimBalance)

	_, err = s.Rob(ctx, guild, "a", "v", false, now.Add(time.Hour))
	var cd *CooldownError
	assert.True(t, errors.As(err, &cd))
}

func TestRobFailurePenaltyCapped(t *testing.T) {
	ctx := context.Background()
	// failure roll, penalty offset 35 -> 45, capped at robber's 12 credits
	s := newTestService(t, &randutil.Scripted{Floats: []float64{0.9}, Int63s: []int64{35}})
	now := time.Unix(1_700_000_000, 0)
	fund(t, s, "a", 12)
	fund(t, s, "v", 1000)

	res, err := s.Rob(ctx, guild, "a", "v", false, now)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, int64(12), res.Amount)
	assert.Equal(t, int64(0), res.RobberBalance)
	assert.Equal(t, int64(1000), res.VictimBalance)
}

func TestBeg(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	t.Run("success", func(t *testing.T) {
		s := newTestService(t, &randutil.Scripted{Floats: []float64{0.2}, Int63s: []int64{10}, Ints: []int{1}})
		res, err := s.Beg(ctx, guild, "u", now)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, int64(15), res.Amount)
		assert.Equal(t, helpers[1], res.Helper)

		_, err = s.Beg(ctx, guild, "u", now.Add(time.Minute))
		var cd *CooldownError
		assert.True(t, errors.As(err, &cd))
	})

	t.Run("failure with loss", func(t *testing.T) {
		s := newTestService(t, &randutil.Scripted{Floats: []float64{0.95}})
		_, err := s.SetSetting(ctx, "beg_fail_loss", "10")
		require.NoError(t, err)
		fund(t, s, "u", 4)

		res, err := s.Beg(ctx, guild, "u", now)
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.NotEmpty(t, res.Rejection)
		assert.Equal(t, int64(4), res.Lost)
		assert.Equal(t, int64(0), res.Balance)
	})
}

func TestRichlist(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{})
	fund(t, s, "a", 10)
	fund(t, s, "b", 30)
	fund(t, s, "c", 20)

	top, err := s.Richlist(ctx, guild, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].UserID)
	assert.Equal(t, "c", top[1].UserID)

	other, err := s.Richlist(ctx, "other", 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAdjustNeverNegative(t *testing.T) {
	s := newTestService(t, &randutil.Scripted{})
	fund(t, s, "a", 10)
	balance, err := s.Adjust(context.Background(), guild, "a", -50)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestSetSettingValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &randutil.Scripted{})

	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"beg_chance", "0.5", false},
		{"beg_chance", "1.5", true},
		{"rob_cooldown", "-1", true},
		{"pay_tax", "2", true},
		{"rob_min_percent", "0.5", true},
		{"rob_max_percent", "0.05", true},
		{"work_min", "200", true},
		{"work_max", "5", true},
		{"work_max", "500", false},
		{"daily_base", "abc", true},
		{"daily_base", "10.5", true},
		{"nonexistent", "1", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := s.SetSetting(ctx, tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	cfg, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.BegChance)
	assert.Equal(t, int64(500), cfg.WorkMax)
}

func TestSettingErrorNamesCounterpart(t *testing.T) {
	s := newTestService(t, &randutil.Scripted{})
	_, err := s.SetSetting(context.Background(), "rob_fail_min", "100")
	var se *SettingError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "rob_fail_min", se.Key)
	assert.Contains(t, se.Reason, "rob_fail_max")
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "1h 1m 1s", FormatTime(3661))
	assert.Equal(t, "2m 5s", FormatTime(125))
	assert.Equal(t, "9s", FormatTime(9))
	assert.Equal(t, "0s", FormatTime(-3))
}

func TestSettingKeys(t *testing.T) {
	keys := SettingKeys()
	assert.Len(t, keys, 20)
	assert.Contains(t, keys, "daily_streak_bonus")
}
