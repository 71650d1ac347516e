package economy

import (
	"fmt"
	"time"

	"emperror.dev/errors"
)

var (
	ErrInsufficientFunds = errors.Sentinel("no tienes suficientes créditos")
	ErrSelfTarget        = errors.Sentinel("no puedes hacer esto contigo mismo")
	ErrBotTarget         = errors.Sentinel("no puedes hacer esto con un bot")
	ErrInvalidAmount     = errors.Sentinel("la cantidad debe ser mayor que 0")
	ErrVictimTooPoor     = errors.Sentinel("la víctima no tiene suficientes créditos")
	ErrRobberTooPoor     = errors.Sentinel("necesitas créditos para arriesgarte a robar")
	ErrUnknownSetting    = errors.Sentinel("ajuste desconocido")
)

// BelowMinimumError is returned when a payment is under pay_min.
type BelowMinimumError struct {
	Minimum int64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("la cantidad mínima es %d créditos", e.Minimum)
}

func (e *BelowMinimumError) Public() bool { return true }

// CooldownError reports how long a member has to wait before repeating an action.
type CooldownError struct {
	Action    string
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("debes esperar %s para usar %s de nuevo", FormatTime(int64(e.Remaining.Seconds())), e.Action)
}

func (e *CooldownError) Public() bool { return true }

// SettingError explains why a settings change was rejected.
type SettingError struct {
	Key    string
	Reason string
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

func (e *SettingError) Public() bool { return true }

// FormatTime renders seconds as "1h 2m 3s", "2m 3s" or "3s".
func FormatTime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
