package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/horizonrelax/community-bot/internal/domain"
)

const messageTimeout = 5 * time.Second

// handleMessageCreate aplica la protección de menciones.
func (r *Router) handleMessageCreate(m *discordgo.MessageCreate) {
	if m.GuildID != r.guildID || m.Author == nil || m.Author.Bot {
		return
	}
	if len(m.Mentions) == 0 && len(m.MentionRoles) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
	defer cancel()

	info := messageInfo(m)
	if m.Member != nil {
		info.AuthorIsAdmin = r.memberIsAdmin(ctx, m.GuildID, m.Author.ID, m.Member.Roles)
	}
	if _, err := r.protection.Enforce(ctx, info); err != nil {
		r.log.Warn("mention protection", zap.String("message_id", m.ID), zap.Error(err))
	}
}

func messageInfo(m *discordgo.MessageCreate) domain.MessageInfo {
	info := domain.MessageInfo{
		GuildID:          m.GuildID,
		ChannelID:        m.ChannelID,
		MessageID:        m.ID,
		AuthorID:         m.Author.ID,
		AuthorIsBot:      m.Author.Bot,
		MentionedRoleIDs: m.MentionRoles,
	}
	if m.Member != nil {
		info.AuthorRoleIDs = m.Member.Roles
	}
	for _, u := range m.Mentions {
		if u != nil {
			info.MentionedUserIDs = append(info.MentionedUserIDs, u.ID)
		}
	}
	return info
}
