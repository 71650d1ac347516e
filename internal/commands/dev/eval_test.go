package dev

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeBlock(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1 + 1", "1 + 1"},
		{"```go\nfmt.Sprint(2)\n```", "fmt.Sprint(2)"},
		{"```\nx := 3\n```", "x := 3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeBlock(tt.in))
	}
}

func TestEvaluate(t *testing.T) {
	answer := 42
	i, err := newInterpreter(map[string]reflect.Value{
		"Answer": reflect.ValueOf(&answer).Elem(),
	})
	require.NoError(t, err)

	assert.Contains(t, evaluate(i, "Answer + 1"), "43")
	assert.Contains(t, evaluate(i, `import "strings"`), "Resultado")
	assert.Contains(t, evaluate(i, `strings.ToUpper("hola")`), "HOLA")
	assert.Contains(t, evaluate(i, "undefinedThing"), "Error de Ejecución")
}
