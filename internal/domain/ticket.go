package domain

import (
	"strings"
	"time"
	"unicode"
)

// TicketChannelPrefix es el prefijo de todos los canales de ticket.
const TicketChannelPrefix = "ticket-"

type Ticket struct {
	ID         string
	GuildID    string
	CategoryID string
	ChannelID  string
	OwnerID    string
	OwnerName  string
	CreatedAt  time.Time
	ClosedAt   *time.Time
}

func (t Ticket) Open() bool { return t.ClosedAt == nil }

// Actor es quien disparó la interacción.
type Actor struct {
	ID      string
	Name    string
	IsAdmin bool
}

// Rating sólo vive hasta que se publica.
type Rating struct {
	ID        string
	Score     int
	Comment   string
	RaterID   string
	RaterName string
	TicketID  string
	Channel   string
}

// TicketChannelName deriva el nombre del canal a partir del nombre del usuario,
// normalizado como lo hace Discord con los canales de texto.
func TicketChannelName(userName string) string {
	return TicketChannelPrefix + NormalizeChannelName(userName)
}

// NormalizeChannelName pasa a minúsculas, cambia espacios por guiones y quita
// lo que Discord no acepta en nombres de canales de texto.
func NormalizeChannelName(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastDash = false
		case r == '-' || unicode.IsSpace(r):
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// OwnerNameFromChannel devuelve el nombre normalizado codificado en el canal.
func OwnerNameFromChannel(channelName string) (string, bool) {
	if !strings.HasPrefix(channelName, TicketChannelPrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(channelName, TicketChannelPrefix)
	return rest, rest != ""
}
