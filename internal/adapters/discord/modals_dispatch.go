package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/horizonrelax/community-bot/internal/app/service"
)

func (r *Router) handleModalSubmit(ic *discordgo.InteractionCreate) {
	data := ic.ModalSubmitData()
	r.log.Info("modal submit",
		zap.String("custom_id", data.CustomID),
		zap.String("user_id", ic.Member.User.ID),
		zap.String("channel_id", ic.ChannelID))
	defer r.recoverInteraction(ic, data.CustomID)
	defer step(r.log, "modal."+data.CustomID)()

	_ = r.deferEphemeral(ic)
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	values := modalValues(data)
	switch data.CustomID {
	case modalRating:
		err := r.tickets.SubmitRating(ctx, service.RatingSubmission{
			Actor:     r.actorOf(ic),
			ChannelID: ic.ChannelID,
			Score:     values[fieldRating],
			Comment:   values[fieldComment],
		}, interactionResponder{r: r, ic: ic})
		if err != nil {
			r.log.Info("rating not accepted", zap.String("user_id", ic.Member.User.ID), zap.Error(err))
			r.replyEphemeral(ic, notice(err))
		}

	case modalSuggestion:
		r.submitSuggestion(ctx, ic, values[fieldSuggestion])
	}
}
