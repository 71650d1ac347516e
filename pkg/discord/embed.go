package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Embed colors shared by every module
const (
	ColorBlue       = 0x3498DB
	ColorGreen      = 0x2ECC71
	ColorRed        = 0xE74C3C
	ColorGold       = 0xF1C40F
	ColorOrange     = 0xE67E22
	ColorDarkOrange = 0xA84300
	ColorPurple     = 0x9B59B6
	ColorBlurple    = 0x5865F2
	ColorTeal       = 0x1ABC9C
	ColorGrey       = 0x95A5A6
)

// NewEmbed builds an embed with the current timestamp
func NewEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// Field builds an embed field
func Field(name, value string, inline bool) *discordgo.MessageEmbedField {
	if value == "" {
		value = "​"
	}
	return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline}
}

// ErrorEmbed is the standard red error reply
func ErrorEmbed(description string) *discordgo.MessageEmbed {
	return NewEmbed("❌ Error", description, ColorRed)
}

// SuccessEmbed is the standard green confirmation reply
func SuccessEmbed(title, description string) *discordgo.MessageEmbed {
	return NewEmbed(title, description, ColorGreen)
}

// Mention helpers
func UserMention(id string) string    { return "<@" + id + ">" }
func ChannelMention(id string) string { return "<#" + id + ">" }
func RoleMention(id string) string    { return "<@&" + id + ">" }

// Button builds a button component
func Button(label, customID string, style discordgo.ButtonStyle, emoji string) discordgo.Button {
	b := discordgo.Button{Label: label, CustomID: customID, Style: style}
	if emoji != "" {
		b.Emoji = &discordgo.ComponentEmoji{Name: emoji}
	}
	return b
}

// Row wraps components in an actions row
func Row(components ...discordgo.MessageComponent) discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: components}
}
