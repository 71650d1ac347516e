package stats

import "github.com/bwmarrin/discordgo"

// FromGuild reads the figures of a guild from the gateway state. Online
// counts presences that are not offline; the top role is the highest
// unmanaged role other than @everyone.
func FromGuild(g *discordgo.Guild) Figures {
	f := Figures{
		Members:    g.MemberCount,
		Boosts:     g.PremiumSubscriptionCount,
		BoostLevel: int(g.PremiumTier),
		Emojis:     len(g.Emojis),
		Roles:      len(g.Roles),
	}
	if f.Members == 0 {
		f.Members = len(g.Members)
	}
	if ts, err := discordgo.SnowflakeTimestamp(g.ID); err == nil {
		f.CreatedAt = ts.UTC()
	}

	for _, p := range g.Presences {
		if p.Status != "" && p.Status != discordgo.StatusOffline {
			f.Online++
		}
	}

	for _, ch := range g.Channels {
		switch ch.Type {
		case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
			f.TextChannels++
		case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
			f.VoiceChannels++
		}
	}

	var top *discordgo.Role
	for _, r := range g.Roles {
		if r.ID == g.ID || r.Managed {
			continue
		}
		if top == nil || r.Position > top.Position {
			top = r
		}
	}
	if top != nil {
		f.TopRoleName = top.Name
		for _, m := range g.Members {
			for _, id := range m.Roles {
				if id == top.ID {
					f.TopRoleMembers++
					break
				}
			}
		}
	}
	return f
}
