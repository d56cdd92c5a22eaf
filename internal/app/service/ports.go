package service

import (
	"context"
	"time"

	"github.com/horizonrelax/community-bot/internal/domain"
)

// Gateway lo implementa internal/adapters/discord.Gateway
type Gateway interface {
	SendMessage(ctx context.Context, channelID string, msg domain.Message) (domain.MessageRef, error)
	EditMessage(ctx context.Context, ref domain.MessageRef, msg domain.Message) error
	DeleteMessage(ctx context.Context, ref domain.MessageRef) error
	AddReaction(ctx context.Context, ref domain.MessageRef, emoji string) error
	ReactionCount(ctx context.Context, ref domain.MessageRef, emoji string) (int, error)
	ClearReactions(ctx context.Context, ref domain.MessageRef) error

	// FindContainer busca un canal por nombre dentro de una categoría.
	FindContainer(ctx context.Context, guildID, categoryID, name string) (string, bool, error)
	CreateRestrictedContainer(ctx context.Context, spec domain.ContainerSpec) (string, error)
	DestroyContainer(ctx context.Context, channelID string) error
	ChannelName(ctx context.Context, channelID string) (string, error)

	BotUserID() string
	Permalink(ref domain.MessageRef) string
}

// Responder le contesta al actor de la interacción en curso.
type Responder interface {
	Reply(ctx context.Context, content string) error
}

type Clock interface {
	Now() time.Time
}

// Lo implementa internal/infra/storage.TicketRepo (y MemoryTickets en tests)
type TicketRegistry interface {
	Claim(ctx context.Context, t domain.Ticket) error
	AttachChannel(ctx context.Context, ticketID, channelID string) error
	ByChannel(ctx context.Context, channelID string) (domain.Ticket, error)
	Release(ctx context.Context, ticketID string) error
	// Close marca el ticket cerrado; sólo el caller que hace la transición recibe true.
	Close(ctx context.Context, ticketID string, at time.Time) (bool, error)
}

// Lo implementa internal/infra/storage.SuggestionRepo (y MemorySuggestions en tests)
type SuggestionRegistry interface {
	Add(ctx context.Context, s domain.Suggestion) error
	Due(ctx context.Context, cutoff time.Time) ([]domain.Suggestion, error)
	// Take saca la sugerencia del set activo; sólo un caller recibe true.
	Take(ctx context.Context, messageID string) (bool, error)
	Record(ctx context.Context, d domain.Decision) error
	CountPending(ctx context.Context, guildID, authorID string) (int, error)
}

type ProtectionStore interface {
	Load(ctx context.Context, guildID string) (domain.GuildProtection, error)
	Save(ctx context.Context, p domain.GuildProtection) error
}

type PanelStore interface {
	Get(ctx context.Context, guildID, kind string) (domain.MessageRef, error)
	Upsert(ctx context.Context, kind string, ref domain.MessageRef) error
}

// Lo implementa internal/adapters/mcstatus.Client
type StatusQuerier interface {
	Status(ctx context.Context, address string) (domain.ServerStatus, error)
}
