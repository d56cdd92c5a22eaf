// despacho de slash commands: sólo lee la interacción y llama al servicio
package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/horizonrelax/community-bot/internal/app/service"
)

const commandTimeout = 12 * time.Second

func (r *Router) handleSlashCommand(ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	r.log.Info("slash command",
		zap.String("command", cmd.Name),
		zap.String("user_id", ic.Member.User.ID),
		zap.String("guild_id", ic.GuildID))
	defer r.recoverInteraction(ic, "/"+cmd.Name)
	defer step(r.log, "cmd."+cmd.Name)()

	// /suggestion sin texto abre el modal, que tiene que ser la respuesta inicial
	if cmd.Name == "suggestion" {
		if text, ok := optStr(cmd.Options, "texte"); !ok || text == "" {
			_ = r.showModal(ic, suggestionModal())
			return
		}
	}

	_ = r.deferEphemeral(ic)
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch cmd.Name {
	case "status":
		r.replyEphemeral(ic, service.StatusText(r.status.Current(ctx)))

	case "suggestion":
		text, _ := optStr(cmd.Options, "texte")
		r.submitSuggestion(ctx, ic, text)

	case "ticketpanel":
		if !r.requireAdmin(ic) {
			return
		}
		if _, err := r.tickets.PublishPanel(ctx, ic.ChannelID); err != nil {
			r.log.Error("publish ticket panel", zap.String("channel_id", ic.ChannelID), zap.Error(err))
			r.replyEphemeral(ic, "⚠️ Impossible de publier le panneau.")
			return
		}
		r.replyEphemeral(ic, "✅ Panneau de tickets publié.")

	case "suggestionpanel":
		if !r.requireAdmin(ic) {
			return
		}
		if _, err := r.suggestions.PublishPanel(ctx, ic.ChannelID); err != nil {
			r.log.Error("publish suggestion panel", zap.String("channel_id", ic.ChannelID), zap.Error(err))
			r.replyEphemeral(ic, "⚠️ Impossible de publier le panneau.")
			return
		}
		r.replyEphemeral(ic, "✅ Panneau de suggestions publié.")

	case "protect":
		if !r.requireAdmin(ic) {
			return
		}
		r.handleProtect(ctx, ic, cmd)
	}
}

func (r *Router) handleProtect(ctx context.Context, ic *discordgo.InteractionCreate, cmd discordgo.ApplicationCommandInteractionData) {
	sub, opts, ok := subcommand(cmd.Options)
	if !ok || sub == "show" {
		msg, err := r.protection.Show(ctx, ic.GuildID)
		if err != nil {
			r.log.Error("show protection", zap.String("guild_id", ic.GuildID), zap.Error(err))
			r.replyEphemeral(ic, noticeUnexpected)
			return
		}
		r.replyEphemeral(ic, msg)
		return
	}

	action, _ := optStr(opts, "action")
	patch, ok := protectionPatch(sub, action, optID(opts, "user"), optID(opts, "role"))
	if !ok {
		r.replyEphemeral(ic, "⚠️ Option invalide.")
		return
	}
	msg, err := r.protection.Update(ctx, ic.GuildID, patch)
	if err != nil {
		r.log.Error("update protection", zap.String("guild_id", ic.GuildID), zap.Error(err))
		r.replyEphemeral(ic, noticeUnexpected)
		return
	}
	r.replyEphemeral(ic, "✅ Protection mise à jour.\n"+msg)
}

// protectionPatch traduce subcomando + acción a un patch de una sola entrada.
func protectionPatch(sub, action, userID, roleID string) (service.ProtectionPatch, bool) {
	var p service.ProtectionPatch
	add := action == "add"
	if !add && action != "remove" {
		return p, false
	}
	switch {
	case sub == "member" && userID != "":
		if add {
			p.AddProtected = userID
		} else {
			p.RemoveProtected = userID
		}
	case sub == "role" && roleID != "":
		if add {
			p.AddRestricted = roleID
		} else {
			p.RemoveRestricted = roleID
		}
	case sub == "whitelist" && roleID != "":
		if add {
			p.AddWhitelisted = roleID
		} else {
			p.RemoveWhitelisted = roleID
		}
	default:
		return p, false
	}
	return p, true
}

func (r *Router) submitSuggestion(ctx context.Context, ic *discordgo.InteractionCreate, text string) {
	sg, err := r.suggestions.Submit(ctx, authorOf(ic), text)
	if err != nil {
		r.log.Info("suggestion rejected", zap.String("user_id", ic.Member.User.ID), zap.Error(err))
		r.replyEphemeral(ic, notice(err))
		return
	}
	r.replyEphemeral(ic, "✅ Votre suggestion a été publiée dans <#"+sg.ChannelID+">.")
}
