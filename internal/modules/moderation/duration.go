package moderation

import (
	"fmt"
	"strconv"
	"strings"

	"emperror.dev/errors"
)

// MaxTimeout is the longest timeout Discord accepts, in seconds.
const MaxTimeout = 28 * 24 * 60 * 60

var ErrEmptyDuration = errors.Sentinel("no se indicó ninguna duración")

var units = map[byte]int64{
	's': 1,
	'm': 60,
	'h': 60 * 60,
	'd': 60 * 60 * 24,
	'w': 60 * 60 * 24 * 7,
}

// ParseDuration converts strings such as "30s", "1h30m" or "1.5d" into seconds.
func ParseDuration(input string) (int64, error) {
	if input == "" {
		return 0, ErrEmptyDuration
	}

	remaining := strings.ToLower(input)
	var total float64
	for remaining != "" {
		i := 0
		for i < len(remaining) && (remaining[i] == '.' || (remaining[i] >= '0' && remaining[i] <= '9')) {
			i++
		}
		if i == 0 {
			return 0, errors.Errorf("formato inválido: %s", input)
		}
		value, err := strconv.ParseFloat(remaining[:i], 64)
		if err != nil {
			return 0, errors.Errorf("valor inválido: %s", remaining[:i])
		}
		remaining = remaining[i:]

		if remaining == "" {
			return 0, errors.Errorf("falta la unidad: %s", input)
		}
		mult, ok := units[remaining[0]]
		if !ok {
			return 0, errors.Errorf("unidad inválida: %c", remaining[0])
		}
		total += value * float64(mult)
		remaining = remaining[1:]
	}
	return int64(total), nil
}

func plural(n int64, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}

// FormatDuration renders seconds as "1 día, 2 horas, 5 minutos". Seconds are
// shown only when there is no larger unit. nil means permanent.
func FormatDuration(seconds *int64) string {
	if seconds == nil {
		return "Permanente"
	}
	s := *seconds
	minutes, s := s/60, s%60
	hours, minutes := minutes/60, minutes%60
	days, hours := hours/24, hours%24

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "día", "días"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hora", "horas"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minuto", "minutos"))
	}
	if s > 0 && len(parts) == 0 {
		parts = append(parts, plural(s, "segundo", "segundos"))
	}
	return strings.Join(parts, ", ")
}
