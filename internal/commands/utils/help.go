package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra los comandos disponibles",
		"utils",
		helpHandler,
	)
}

// helpSections groups the registered commands by their top-level name.
func helpSections(cmds map[string]*discord.Command) map[string][]string {
	sections := make(map[string][]string)
	for key, cmd := range cmds {
		if cmd.IsDev || cmd.OwnerOnly {
			continue
		}
		top := strings.SplitN(key, ".", 2)[0]
		sections[top] = append(sections[top], fmt.Sprintf("`/%s` %s", strings.ReplaceAll(key, ".", " "), cmd.Description))
	}
	for _, lines := range sections {
		sort.Strings(lines)
	}
	return sections
}

func helpHandler(ctx *discord.CommandContext) error {
	sections := helpSections(ctx.Client.Commands.All())
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	embed := discord.NewEmbed("📖 Ayuda de Companion Bot", "Usa `/utils setupguide` para configurar el bot paso a paso.", discord.ColorBlurple)
	for _, name := range names {
		if len(embed.Fields) == 25 {
			break
		}
		value := strings.Join(sections[name], "\n")
		if len(value) > 1024 {
			cut := strings.LastIndex(value[:1020], "\n")
			if cut < 0 {
				cut = 1020
			}
			value = value[:cut] + "\n…"
		}
		embed.Fields = append(embed.Fields, discord.Field("/"+name, value, false))
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "💫 - Companion Bot"}
	return ctx.ReplyEphemeralEmbed(embed)
}
