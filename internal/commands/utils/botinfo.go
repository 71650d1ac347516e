package utils

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/CompanionBotGo/pkg/config"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// createBotInfoCommand creates the /utils botinfo subcommand
func createBotInfoCommand() *discord.Command {
	return discord.NewCommand(
		"botinfo",
		"Muestra estadísticas del bot y del sistema",
		"utils",
		botInfoHandler,
	)
}

// formatUptime renders a duration as days, hours, minutes and seconds.
func formatUptime(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d días", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}
	return strings.Join(parts, ", ")
}

func systemUsage() (string, string) {
	cpuText, memText := "N/D", "N/D"

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfo(); err == nil {
			memText = humanize.Bytes(info.RSS)
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		memText += fmt.Sprintf(" / %s (%.0f%%)", humanize.Bytes(vm.Total), vm.UsedPercent)
	}
	if pct, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(pct) > 0 {
		cpuText = fmt.Sprintf("%.1f%% · %d núcleos", pct[0], runtime.NumCPU())
	}
	return cpuText, memText
}

func botInfoHandler(ctx *discord.CommandContext) error {
	if err := ctx.Defer(); err != nil {
		return err
	}
	go func() {
		defer errors.RecoverMiddleware()()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		cpuText, memText := systemUsage()

		members := 0
		ctx.Session.State.RLock()
		for _, g := range ctx.Session.State.Guilds {
			members += g.MemberCount
		}
		ctx.Session.State.RUnlock()

		embed := discord.NewEmbed("📊 Estadísticas del Bot", "", discord.ColorBlurple)
		embed.Fields = append(embed.Fields,
			discord.Field("🤖 Versión", config.Version, true),
			discord.Field("🐹 Go", strings.TrimPrefix(runtime.Version(), "go"), true),
			discord.Field("📚 DiscordGo", discordgo.VERSION, true),
			discord.Field("🖥 Memoria", memText, true),
			discord.Field("♻️ Heap", fmt.Sprintf("%s / %s", humanize.Bytes(m.Alloc), humanize.Bytes(m.Sys)), true),
			discord.Field("⚙️ CPU", cpuText, true),
			discord.Field("🧵 Goroutines", humanize.Comma(int64(runtime.NumGoroutine())), true),
			discord.Field("⏱ Uptime", formatUptime(time.Since(ctx.Client.StartTime)), true),
			discord.Field("🏠 Servidores", humanize.Comma(int64(ctx.Client.GuildCount())), true),
			discord.Field("👥 Miembros", humanize.Comma(int64(members)), true),
		)
		if u := ctx.Session.State.User; u != nil {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: "💫 - Developed by PancyStudios", IconURL: u.AvatarURL("")}
		}
		ctx.EditReplyEmbed(embed)
	}()
	return nil
}
