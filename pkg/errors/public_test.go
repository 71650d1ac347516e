package errors

import (
	"testing"

	emperrors "emperror.dev/errors"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type cooldown struct{}

func (cooldown) Error() string { return "espera un poco" }
func (cooldown) Public() bool  { return true }

func TestUserMessage(t *testing.T) {
	notFound := emperrors.Sentinel("no existe esa pregunta")

	msg, ok := UserMessage(emperrors.WrapIf(notFound, "remove"))
	assert.True(t, ok)
	assert.Equal(t, "No existe esa pregunta", msg)

	msg, ok = UserMessage(emperrors.WithStack(cooldown{}))
	assert.True(t, ok)
	assert.Equal(t, "Espera un poco", msg)

	msg, ok = UserMessage(emperrors.New("mongo: connection refused"))
	assert.False(t, ok)
	assert.Equal(t, GenericMessage, msg)

	type form struct {
		Question string `validate:"required"`
	}
	err := validator.New().Struct(form{})
	msg, ok = UserMessage(emperrors.WrapIf(err, "faq"))
	assert.True(t, ok)
	assert.Equal(t, "Datos inválidos: question", msg)

	_, ok = UserMessage(nil)
	assert.False(t, ok)
}
