package dev

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

const (
	evalPackage = "companion/dev"
	maxOutput   = 1900
)

// CreateEvalCommand crea el comando /dev eval
func CreateEvalCommand() *discord.Command {
	return discord.NewCommand(
		"eval",
		"Evalúa código Go con acceso al bot (Peligroso)",
		"dev",
		evalHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "codigo",
			Description: "Código o expresión Go a evaluar",
			Required:    true,
		},
	).AsDev()
}

// stripCodeBlock removes a surrounding markdown code block.
func stripCodeBlock(code string) string {
	code = strings.TrimSpace(code)
	code = strings.TrimPrefix(code, "```go")
	code = strings.TrimPrefix(code, "```")
	code = strings.TrimSuffix(code, "```")
	return strings.TrimSpace(code)
}

// newInterpreter prepares a yaegi interpreter with the stdlib and the given
// values dot-imported.
func newInterpreter(exports map[string]reflect.Value) (*interp.Interpreter, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("stdlib: %w", err)
	}
	if err := i.Use(interp.Exports{evalPackage + "/dev": exports}); err != nil {
		return nil, fmt.Errorf("exports: %w", err)
	}
	if _, err := i.Eval(`import . "` + evalPackage + `"`); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return i, nil
}

// evaluate runs code and formats the result for a Discord message.
func evaluate(i *interp.Interpreter, code string) string {
	res, err := i.Eval(code)
	if err != nil {
		return fmt.Sprintf("❌ **Error de Ejecución:**\n```go\n%v\n```", err)
	}
	out := "nil"
	if res.IsValid() && res.CanInterface() {
		out = fmt.Sprintf("%#v", res.Interface())
	}
	if len(out) > maxOutput {
		out = out[:maxOutput] + "... (truncado)"
	}
	return fmt.Sprintf("✅ **Resultado:**\n```go\n%s\n```", out)
}

func evalHandler(ctx *discord.CommandContext) error {
	if !config.Get().IsOwner(ctx.User().ID) {
		return ctx.ReplyEphemeral("❌ **Acceso Denegado:** Este comando es solo para los desarrolladores.")
	}
	if err := ctx.Defer(); err != nil {
		return err
	}

	go func() {
		defer errors.RecoverMiddleware()()
		start := time.Now()

		i, err := newInterpreter(map[string]reflect.Value{
			"Ctx":      reflect.ValueOf(ctx),
			"Bot":      reflect.ValueOf(ctx.Client),
			"Session":  reflect.ValueOf(ctx.Session),
			"Store":    reflect.ValueOf(&store).Elem(),
			"Services": reflect.ValueOf(services),
			"Config":   reflect.ValueOf(config.Get()),
		})
		if err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error preparando el intérprete: %v", err))
			return
		}

		output := evaluate(i, stripCodeBlock(ctx.GetStringOption("codigo")))
		logger.Debug(fmt.Sprintf("Eval completado en %s", time.Since(start)), "DevEval")
		ctx.EditReply(output)
	}()
	return nil
}
