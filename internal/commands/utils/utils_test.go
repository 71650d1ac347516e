package utils

import (
	"testing"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 segundos"},
		{42 * time.Second, "42 segundos"},
		{time.Hour + 5*time.Second, "1 horas, 5 segundos"},
		{26*time.Hour + 3*time.Minute, "1 días, 2 horas, 3 minutos"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatUptime(tt.in))
		})
	}
}

func TestHelpSections(t *testing.T) {
	cmds := map[string]*discord.Command{
		"economy.daily":        discord.NewCommand("daily", "Recompensa diaria", "economy", nil),
		"economy.balance":      discord.NewCommand("balance", "Saldo", "economy", nil),
		"dev.eval":             discord.NewCommand("eval", "Eval", "dev", nil).AsDev(),
		"economy.settings.set": discord.NewCommand("set", "Cambia un ajuste", "economy", nil),
	}

	sections := helpSections(cmds)
	require.Contains(t, sections, "economy")
	assert.NotContains(t, sections, "dev")
	assert.Equal(t, []string{
		"`/economy balance` Saldo",
		"`/economy daily` Recompensa diaria",
		"`/economy settings set` Cambia un ajuste",
	}, sections["economy"])
}
