package service

import (
	"fmt"
	"strings"

	"github.com/horizonrelax/community-bot/internal/domain"
)

func ticketWelcome() domain.Message {
	return domain.Message{
		Embed: &domain.Embed{
			Title:       "Ticket de Support",
			Description: "🏠| Envoyer sa candidature Staff / developer \n 📞| Poser une question sur le serveur ou sur d'autres sujets ou demande pour faire un don",
			Color:       domain.ColorBlue,
		},
		Controls: []domain.Control{{
			ID:    ControlCloseTicket,
			Label: "Fermer le ticket",
			Style: domain.ControlDanger,
		}},
	}
}

// TicketPanel es el mensaje fijo con el botón de creación.
func TicketPanel() domain.Message {
	return domain.Message{
		Embed: &domain.Embed{
			Title:       "Système de Tickets",
			Description: "Cliquez sur le bouton ci-dessous pour créer un ticket de support.",
			Color:       domain.ColorBlue,
		},
		Controls: []domain.Control{{
			ID:    ControlCreateTicket,
			Label: "Créer un ticket",
			Style: domain.ControlSuccess,
		}},
	}
}

func ratingSummary(r domain.Rating) domain.Message {
	e := &domain.Embed{
		Title: "Nouvelle évaluation de ticket",
		Color: domain.ColorGold,
		Fields: []domain.EmbedField{
			{Name: "Note", Value: fmt.Sprintf("%s (%d/5)", strings.Repeat("⭐", r.Score), r.Score)},
		},
		Footer: "Évalué par " + r.RaterName,
	}
	if r.Comment != "" {
		e.Fields = append(e.Fields, domain.EmbedField{Name: "Commentaire", Value: r.Comment})
	}
	e.Fields = append(e.Fields, domain.EmbedField{Name: "Ticket", Value: "#" + r.Channel})
	return domain.Message{Embed: e}
}

func suggestionAnnouncement(roleID string, s domain.Suggestion, closes string) domain.Message {
	msg := domain.Message{
		Embed: &domain.Embed{
			Title:       "💡 Nouvelle suggestion",
			Description: s.Body,
			Color:       domain.ColorBlue,
			Author:      s.AuthorName,
			Footer:      "Votez avec " + domain.VoteApprove + " ou " + domain.VoteReject + " · fin du vote " + closes,
			Timestamp:   s.CreatedAt,
		},
	}
	if roleID != "" {
		msg.Content = "<@&" + roleID + ">"
	}
	return msg
}

func decisionLabel(st domain.SuggestionStatus) (label, word string, color int) {
	switch st {
	case domain.StatusAccepted:
		return "✅ Acceptée", "acceptée", domain.ColorGreen
	case domain.StatusRejected:
		return "❌ Refusée", "refusée", domain.ColorRed
	default:
		return "⚖️ Indécise", "indécise", domain.ColorGrey
	}
}

func votesLine(d domain.Decision) string {
	return fmt.Sprintf("%s %d · %s %d", domain.VoteApprove, d.Upvotes, domain.VoteReject, d.Downvotes)
}

func decidedAnnouncement(d domain.Decision) domain.Message {
	label, _, color := decisionLabel(d.Status)
	return domain.Message{
		Embed: &domain.Embed{
			Title:       "💡 Suggestion",
			Description: d.Suggestion.Body,
			Color:       color,
			Author:      d.Suggestion.AuthorName,
			Fields: []domain.EmbedField{
				{Name: "Décision", Value: label, Inline: true},
				{Name: "Votes", Value: votesLine(d), Inline: true},
			},
			Timestamp: d.DecidedAt,
		},
		StripControls: true,
	}
}

func decisionNotice(reviewRoleID string, d domain.Decision, link string) domain.Message {
	label, word, color := decisionLabel(d.Status)
	mentions := "<@" + d.Suggestion.AuthorID + ">"
	if reviewRoleID != "" {
		mentions = "<@&" + reviewRoleID + "> " + mentions
	}
	return domain.Message{
		Content: mentions,
		Embed: &domain.Embed{
			Title:       "Suggestion " + word,
			Description: d.Suggestion.Body,
			Color:       color,
			Fields: []domain.EmbedField{
				{Name: "Décision", Value: label, Inline: true},
				{Name: "Votes", Value: votesLine(d), Inline: true},
				{Name: "Lien", Value: link},
			},
			Timestamp: d.DecidedAt,
		},
	}
}

func statusEmbed(st domain.ServerStatus) domain.Message {
	if !st.Online {
		return domain.Message{Embed: &domain.Embed{
			Title: "État du serveur Minecraft",
			Color: domain.ColorRed,
			Fields: []domain.EmbedField{
				{Name: "Statut & IP", Value: fmt.Sprintf("🔴 Hors ligne  |  `%s`", st.Address)},
			},
		}}
	}
	return domain.Message{Embed: &domain.Embed{
		Title: "État du serveur Minecraft",
		Color: domain.ColorGreen,
		Fields: []domain.EmbedField{
			{Name: "Statut & IP", Value: fmt.Sprintf("🟢 En ligne  |  `%s`", st.Address)},
			{Name: "Nombre de joueurs", Value: fmt.Sprintf("**%d** / %d", st.PlayerCount, st.MaxPlayers)},
			{Name: "📋 Liste des joueurs connectés", Value: playersBlock(st)},
		},
	}}
}

func playersBlock(st domain.ServerStatus) string {
	switch {
	case len(st.Players) > 0:
		lines := make([]string, 0, len(st.Players))
		for _, p := range st.Players {
			lines = append(lines, "👤 "+p)
		}
		return strings.Join(lines, "\n")
	case st.PlayerCount > 0:
		return "*Impossible d'obtenir la liste des joueurs*"
	default:
		return "*Aucun joueur connecté*"
	}
}

// StatusText es la variante en texto plano para /status.
func StatusText(st domain.ServerStatus) string {
	if !st.Online {
		return fmt.Sprintf("🔴 Hors ligne  |  `%s`", st.Address)
	}
	out := fmt.Sprintf("🟢 En ligne  |  `%s`\n**%d**/%d joueurs\n", st.Address, st.PlayerCount, st.MaxPlayers)
	switch {
	case len(st.Players) > 0:
		out += "\n📋 **Joueurs connectés:**\n" + playersBlock(st)
	default:
		out += "\n" + playersBlock(st)
	}
	return out
}

// SuggestionPanel invita a proponer con el modal.
func SuggestionPanel() domain.Message {
	return domain.Message{
		Embed: &domain.Embed{
			Title:       "💡 Boîte à suggestions",
			Description: "Une idée pour le serveur ? Cliquez sur le bouton ci-dessous. La communauté vote ensuite avec ✅ et ❌.",
			Color:       domain.ColorBlue,
		},
		Controls: []domain.Control{{
			ID:    ControlSuggest,
			Label: "Proposer une suggestion",
			Emoji: "💡",
			Style: domain.ControlPrimary,
		}},
	}
}
