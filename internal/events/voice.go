package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/CompanionBotGo/internal/commands/voice"
	"github.com/PancyStudios/CompanionBotGo/internal/modules/tempvoice"
	"github.com/PancyStudios/CompanionBotGo/pkg/discord"
	"github.com/PancyStudios/CompanionBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// newChannelGrace keeps the cleanup loop away from channels whose owner is still being moved in.
const newChannelGrace = time.Minute

// RegisterVoiceEvents registers all voice-related event handlers
func RegisterVoiceEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnVoiceStateUpdate(onVoiceStateUpdate)
}

// onVoiceStateUpdate creates a channel when a member joins a hub and deletes
// the temporary channel they left once it is empty.
func onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	ctx := context.Background()

	before := ""
	if v.BeforeUpdate != nil {
		before = v.BeforeUpdate.ChannelID
	}
	if before == v.ChannelID {
		return
	}

	if before != "" {
		if _, err := services.TempVoice.Channel(ctx, before); err == nil && channelEmpty(s, v.GuildID, before) {
			deleteTempChannel(s, before)
		}
	}

	if v.ChannelID != "" && services.TempVoice.IsHub(ctx, v.GuildID, v.ChannelID) {
		if err := createFromHub(s, v); err != nil {
			logger.Error(fmt.Sprintf("Error creando sala temporal en %s: %v", v.GuildID, err), "TempVoice")
		}
	}
}

func displayName(v *discordgo.VoiceStateUpdate) string {
	if v.Member != nil {
		if v.Member.Nick != "" {
			return v.Member.Nick
		}
		if v.Member.User != nil {
			if v.Member.User.GlobalName != "" {
				return v.Member.User.GlobalName
			}
			return v.Member.User.Username
		}
	}
	return "Usuario"
}

func createFromHub(s *discordgo.Session, v *discordgo.VoiceStateUpdate) error {
	ctx := context.Background()
	settings, err := services.TempVoice.Settings(ctx, v.GuildID)
	if err != nil {
		return err
	}

	hubName := ""
	if hub, err := s.State.Channel(v.ChannelID); err == nil {
		hubName = hub.Name
	}

	ch, err := s.GuildChannelCreateComplex(v.GuildID, discordgo.GuildChannelCreateData{
		Name:     tempvoice.ChannelName(hubName, displayName(v)),
		Type:     discordgo.ChannelTypeGuildVoice,
		ParentID: settings.CategoryID,
	})
	if err != nil {
		return err
	}

	if err := services.TempVoice.Track(ctx, v.GuildID, ch.ID, v.UserID, time.Now()); err != nil {
		if _, derr := s.ChannelDelete(ch.ID); derr != nil {
			logger.Warn(fmt.Sprintf("No se pudo borrar la sala %s: %v", ch.ID, derr), "TempVoice")
		}
		return err
	}

	if err := s.GuildMemberMove(v.GuildID, v.UserID, &ch.ID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo mover a %s a su sala: %v", v.UserID, err), "TempVoice")
		deleteTempChannel(s, ch.ID)
		return nil
	}

	logger.Info(fmt.Sprintf("Sala temporal %s creada para %s", ch.Name, v.UserID), "TempVoice")
	voice.SendControlPanel(s, settings.ControlChannelID, ch.ID, v.UserID)
	return nil
}

// countMembers counts the voice states connected to a channel.
func countMembers(states []*discordgo.VoiceState, channelID string) int {
	n := 0
	for _, vs := range states {
		if vs.ChannelID == channelID {
			n++
		}
	}
	return n
}

// channelEmpty reports whether no member is connected to channelID. State.Guild
// takes the state lock itself, so it must be called before locking.
func channelEmpty(s *discordgo.Session, guildID, channelID string) bool {
	g, err := s.State.Guild(guildID)
	if err != nil {
		return false
	}
	s.State.RLock()
	defer s.State.RUnlock()
	return countMembers(g.VoiceStates, channelID) == 0
}

func deleteTempChannel(s *discordgo.Session, channelID string) {
	if _, err := s.ChannelDelete(channelID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo borrar la sala %s: %v", channelID, err), "TempVoice")
	}
	if err := services.TempVoice.Untrack(context.Background(), channelID); err != nil {
		logger.Error(fmt.Sprintf("Error olvidando la sala %s: %v", channelID, err), "TempVoice")
	}
}

// cleanupTempChannels deletes tracked channels that are empty or no longer exist.
func cleanupTempChannels(s *discordgo.Session) {
	ctx := context.Background()
	tracked, err := services.TempVoice.Tracked(ctx)
	if err != nil {
		logger.Error("No se pudieron leer las salas temporales: "+err.Error(), "TempVoice")
		return
	}

	now := time.Now()
	for channelID, tc := range tracked {
		if now.Sub(time.Unix(tc.CreatedAt, 0)) < newChannelGrace {
			continue
		}
		if _, err := s.State.Channel(channelID); err != nil {
			if _, err := s.Channel(channelID); err != nil {
				if err := services.TempVoice.Untrack(ctx, channelID); err != nil {
					logger.Error(fmt.Sprintf("Error olvidando la sala %s: %v", channelID, err), "TempVoice")
					continue
				}
				logger.Debug("Sala desaparecida olvidada: "+channelID, "TempVoice")
				continue
			}
		}
		if channelEmpty(s, tc.GuildID, channelID) {
			deleteTempChannel(s, channelID)
		}
	}
}
