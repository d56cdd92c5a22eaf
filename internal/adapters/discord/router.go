package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/horizonrelax/community-bot/internal/app/service"
)

// Services agrupa lo que el router despacha.
type Services struct {
	Tickets     *service.TicketService
	Suggestions *service.SuggestionService
	Protection  *service.ProtectionService
	Status      *service.StatusService
}

type Router struct {
	s            *discordgo.Session
	guildID      string
	adminRoleIDs []string

	tickets     *service.TicketService
	suggestions *service.SuggestionService
	protection  *service.ProtectionService
	status      *service.StatusService

	clickLimiter ClickLimiter
	log          *zap.Logger
}

func NewRouter(s *discordgo.Session, guildID string, svc Services, limiter ClickLimiter, adminRoleIDs []string, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewMemoryLimiter(defaultClickWindow)
	}
	return &Router{
		s:            s,
		guildID:      guildID,
		adminRoleIDs: adminRoleIDs,
		tickets:      svc.Tickets,
		suggestions:  svc.Suggestions,
		protection:   svc.Protection,
		status:       svc.Status,
		clickLimiter: limiter,
		log:          log.Named("discord"),
	}
}

// Register reemplaza los comandos del guild por los actuales.
func (r *Router) Register() error {
	_, err := r.s.ApplicationCommandBulkOverwrite(r.s.State.User.ID, r.guildID, Commands)
	return err
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.GuildID != r.guildID || ic.Member == nil || ic.Member.User == nil {
			return
		}
		switch ic.Type {
		case discordgo.InteractionApplicationCommand:
			r.handleSlashCommand(ic)
		case discordgo.InteractionMessageComponent:
			r.handleMessageComponent(ic)
		case discordgo.InteractionModalSubmit:
			r.handleModalSubmit(ic)
		}
	})
	r.s.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		r.handleMessageCreate(m)
	})
	r.s.AddHandler(func(s *discordgo.Session, c *discordgo.ChannelDelete) {
		if c.Channel == nil || c.GuildID != r.guildID {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
		defer cancel()
		if err := r.tickets.ChannelRemoved(ctx, c.ID); err != nil {
			r.log.Warn("ticket channel removed", zap.String("channel_id", c.ID), zap.Error(err))
		}
	})
}

// recoverInteraction responde con un aviso genérico si el handler entra en pánico.
func (r *Router) recoverInteraction(ic *discordgo.InteractionCreate, what string) {
	if rec := recover(); rec != nil {
		r.log.Error("panic in handler",
			zap.String("handler", what),
			zap.String("user_id", ic.Member.User.ID),
			zap.Any("panic", rec))
		r.replyEphemeral(ic, noticeUnexpected)
	}
}
