package errors

import (
	"fmt"
	"strings"

	emperrors "emperror.dev/errors"
	"github.com/go-playground/validator/v10"
)

// GenericMessage is shown when an error must not reach the user.
const GenericMessage = "Ocurrió un error inesperado. Inténtalo de nuevo más tarde."

// Public is implemented by typed errors whose message is meant for users.
type Public interface {
	error
	Public() bool
}

// UserMessage returns the text to show for err and whether it came from err
// itself. Sentinels, Public errors and validation failures are shown; any
// other error gets GenericMessage.
func UserMessage(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var public Public
	if emperrors.As(err, &public) && public.Public() {
		return capitalize(public.Error()), true
	}

	var sentinel emperrors.Sentinel
	if emperrors.As(err, &sentinel) {
		return capitalize(sentinel.Error()), true
	}

	var verrs validator.ValidationErrors
	if emperrors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return fmt.Sprintf("Datos inválidos: %s", strings.Join(fields, ", ")), true
	}

	return GenericMessage, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
