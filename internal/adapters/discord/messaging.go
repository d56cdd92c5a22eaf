package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Unknown Webhook: todavía no hay respuesta inicial para la interacción.
const codeUnknownWebhook = 10015

// deferEphemeral responde "pensando…" para trabajos de más de 3s.
func (r *Router) deferEphemeral(ic *discordgo.InteractionCreate) error {
	err := r.s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		r.log.Warn("defer ephemeral", zap.String("interaction_id", ic.ID), zap.Error(err))
	}
	return err
}

// replyEphemeral manda un followup; si la interacción no fue diferida responde directo.
func (r *Router) replyEphemeral(ic *discordgo.InteractionCreate, content string, embeds ...*discordgo.MessageEmbed) {
	_, err := r.s.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Embeds:  embeds,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err == nil {
		return
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == codeUnknownWebhook {
		err = r.s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				Flags:   discordgo.MessageFlagsEphemeral,
				Embeds:  embeds,
			},
		})
		if err == nil {
			return
		}
	}
	r.log.Warn("reply ephemeral", zap.String("interaction_id", ic.ID), zap.Error(err))
}

// showModal tiene que ser la respuesta inicial: no se puede diferir antes.
func (r *Router) showModal(ic *discordgo.InteractionCreate, m modalForm) error {
	err := r.s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   m.customID,
			Title:      m.title,
			Components: m.rows(),
		},
	})
	if err != nil {
		r.log.Warn("show modal", zap.String("modal", m.customID), zap.Error(err))
	}
	return err
}

// interactionResponder adapta una interacción ya diferida a service.Responder.
type interactionResponder struct {
	r  *Router
	ic *discordgo.InteractionCreate
}

func (a interactionResponder) Reply(_ context.Context, content string) error {
	a.r.replyEphemeral(a.ic, content)
	return nil
}

// respondEphemeral es la respuesta inicial directa, sin defer previo.
func (r *Router) respondEphemeral(ic *discordgo.InteractionCreate, content string) {
	err := r.s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		r.log.Warn("respond ephemeral", zap.String("interaction_id", ic.ID), zap.Error(err))
	}
}
