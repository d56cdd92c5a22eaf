package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/horizonrelax/community-bot/internal/app/service"
)

const (
	componentTimeout = 8 * time.Second
	// el modal tiene que salir antes de los 3s de Discord
	closureCheckTimeout = 2 * time.Second
)

func (r *Router) handleMessageComponent(ic *discordgo.InteractionCreate) {
	data := ic.MessageComponentData()
	r.log.Info("component",
		zap.String("custom_id", data.CustomID),
		zap.String("user_id", ic.Member.User.ID),
		zap.String("channel_id", ic.ChannelID))
	defer r.recoverInteraction(ic, data.CustomID)
	defer step(r.log, "component."+data.CustomID)()

	if !r.clickLimiter.Allow(context.Background(), ic.Member.User.ID+":"+data.CustomID) {
		r.respondEphemeral(ic, "⏳ Patientez une seconde…")
		return
	}

	switch data.CustomID {
	case service.ControlCreateTicket:
		_ = r.deferEphemeral(ic)
		ctx, cancel := context.WithTimeout(context.Background(), componentTimeout)
		defer cancel()

		t, err := r.tickets.RequestTicket(ctx, service.TicketRequest{
			RequesterID:   ic.Member.User.ID,
			RequesterName: ic.Member.User.Username,
		})
		if err != nil {
			r.log.Info("ticket not created", zap.String("user_id", ic.Member.User.ID), zap.Error(err))
			r.replyEphemeral(ic, notice(err))
			return
		}
		r.replyEphemeral(ic, "Votre ticket a été créé: <#"+t.ChannelID+">")

	case service.ControlCloseTicket:
		ctx, cancel := context.WithTimeout(context.Background(), closureCheckTimeout)
		defer cancel()

		if _, err := r.tickets.RequestClosure(ctx, r.actorOf(ic), ic.ChannelID); err != nil {
			r.log.Info("closure refused", zap.String("user_id", ic.Member.User.ID), zap.String("channel_id", ic.ChannelID), zap.Error(err))
			r.respondEphemeral(ic, notice(err))
			return
		}
		_ = r.showModal(ic, ratingModal())

	case service.ControlSuggest:
		_ = r.showModal(ic, suggestionModal())
	}
}
