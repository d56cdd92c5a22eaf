package discord

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/horizonrelax/community-bot/internal/app/service"
	"github.com/horizonrelax/community-bot/internal/domain"
)

const noticeUnexpected = "⚠️ Une erreur est survenue. Réessayez plus tard ou contactez un administrateur."

// notice traduce los errores de los servicios al aviso que ve el usuario.
func notice(err error) string {
	var (
		already *domain.AlreadyOpenError
		denied  *domain.NotAuthorizedError
		rating  *domain.InvalidRatingError
	)
	switch {
	case errors.As(err, &already):
		if already.ChannelID != "" {
			return "Vous avez déjà un ticket ouvert! <#" + already.ChannelID + ">"
		}
		return "Vous avez déjà un ticket ouvert!"
	case errors.As(err, &denied):
		return "Seul le créateur du ticket ou un administrateur peut le fermer."
	case errors.As(err, &rating):
		if !isDigits(strings.TrimSpace(rating.Input)) {
			return "Veuillez entrer un nombre valide entre 1 et 5."
		}
		return "La note doit être comprise entre 1 et 5."
	case errors.Is(err, domain.ErrNotTicket):
		return "Ce salon n'est pas un ticket."
	case errors.Is(err, domain.ErrAlreadyClosed):
		return "Ce ticket est déjà en cours de fermeture."
	case errors.Is(err, domain.ErrEmptySuggestion):
		return "Votre suggestion est vide."
	case errors.Is(err, domain.ErrTooManyPending):
		return "Vous avez déjà trop de suggestions en cours de vote. Attendez la fin d'un vote."
	default:
		return noticeUnexpected
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// displayName: apodo del servidor, si no el global, si no el username.
func displayName(m *discordgo.Member) string {
	if m == nil || m.User == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

// El nombre del ticket sale del username, que es estable y único.
func (r *Router) actorOf(ic *discordgo.InteractionCreate) domain.Actor {
	return domain.Actor{
		ID:      ic.Member.User.ID,
		Name:    ic.Member.User.Username,
		IsAdmin: r.isAdmin(ic),
	}
}

func authorOf(ic *discordgo.InteractionCreate) service.Author {
	return service.Author{ID: ic.Member.User.ID, Name: displayName(ic.Member)}
}

func optStr(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) (string, bool) {
	for _, o := range opts {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return strings.TrimSpace(o.StringValue()), true
		}
	}
	return "", false
}

// optID devuelve el id de una opción user/role/channel.
func optID(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range opts {
		if o.Name != name {
			continue
		}
		switch o.Type {
		case discordgo.ApplicationCommandOptionUser,
			discordgo.ApplicationCommandOptionRole,
			discordgo.ApplicationCommandOptionChannel,
			discordgo.ApplicationCommandOptionMentionable:
			if v, ok := o.Value.(string); ok {
				return v
			}
		}
	}
	return ""
}

func subcommand(opts []*discordgo.ApplicationCommandInteractionDataOption) (string, []*discordgo.ApplicationCommandInteractionDataOption, bool) {
	for _, o := range opts {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o.Name, o.Options, true
		}
	}
	return "", nil, false
}
