package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/horizonrelax/community-bot/internal/domain"
)

// Implementaciones en memoria: se usan en tests y cuando no hay DATABASE_URL.
// Se pierden al reiniciar.

type MemoryTickets struct {
	mu   sync.Mutex
	byID map[string]domain.Ticket
}

func NewMemoryTickets() *MemoryTickets {
	return &MemoryTickets{byID: map[string]domain.Ticket{}}
}

func (m *MemoryTickets) Claim(_ context.Context, t domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.byID {
		if cur.Open() && cur.GuildID == t.GuildID && cur.OwnerID == t.OwnerID {
			return &domain.AlreadyOpenError{RequesterID: t.OwnerID, ChannelID: cur.ChannelID}
		}
	}
	t.ClosedAt = nil
	m.byID[t.ID] = t
	return nil
}

func (m *MemoryTickets) AttachChannel(_ context.Context, ticketID, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[ticketID]
	if !ok {
		return domain.ErrNotFound
	}
	t.ChannelID = channelID
	m.byID[ticketID] = t
	return nil
}

// ByChannel devuelve también tickets cerrados: el canal puede seguir vivo
// mientras se destruye.
func (m *MemoryTickets) ByChannel(_ context.Context, channelID string) (domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.byID {
		if t.ChannelID != "" && t.ChannelID == channelID {
			return t, nil
		}
	}
	return domain.Ticket{}, domain.ErrNotFound
}

func (m *MemoryTickets) Release(_ context.Context, ticketID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.byID[ticketID]; ok && t.ChannelID == "" {
		delete(m.byID, ticketID)
	}
	return nil
}

func (m *MemoryTickets) Close(_ context.Context, ticketID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[ticketID]
	if !ok || !t.Open() {
		return false, nil
	}
	t.ClosedAt = &at
	m.byID[ticketID] = t
	return true, nil
}

// OpenCount es útil en tests.
func (m *MemoryTickets) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.byID {
		if t.Open() {
			n++
		}
	}
	return n
}

type MemorySuggestions struct {
	mu        sync.Mutex
	active    map[string]domain.Suggestion
	decisions map[string]domain.Decision
}

func NewMemorySuggestions() *MemorySuggestions {
	return &MemorySuggestions{
		active:    map[string]domain.Suggestion{},
		decisions: map[string]domain.Decision{},
	}
}

func (m *MemorySuggestions) Add(_ context.Context, s domain.Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.active[s.MessageID]; !ok {
		m.active[s.MessageID] = s
	}
	return nil
}

func (m *MemorySuggestions) Due(_ context.Context, cutoff time.Time) ([]domain.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Suggestion
	for _, s := range m.active {
		if !s.CreatedAt.After(cutoff) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemorySuggestions) Take(_ context.Context, messageID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.active[messageID]; !ok {
		return false, nil
	}
	delete(m.active, messageID)
	return true, nil
}

func (m *MemorySuggestions) Record(_ context.Context, d domain.Decision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.decisions[d.Suggestion.MessageID]; !ok {
		m.decisions[d.Suggestion.MessageID] = d
	}
	return nil
}

func (m *MemorySuggestions) CountPending(_ context.Context, guildID, authorID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.active {
		if s.GuildID == guildID && s.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (m *MemorySuggestions) Active(messageID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[messageID]
	return ok
}

func (m *MemorySuggestions) Decision(messageID string) (domain.Decision, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.decisions[messageID]
	return d, ok
}

type MemoryProtection struct {
	mu      sync.Mutex
	byGuild map[string]domain.GuildProtection
}

func NewMemoryProtection() *MemoryProtection {
	return &MemoryProtection{byGuild: map[string]domain.GuildProtection{}}
}

func (m *MemoryProtection) Load(_ context.Context, guildID string) (domain.GuildProtection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byGuild[guildID]
	if !ok {
		return domain.GuildProtection{GuildID: guildID}, nil
	}
	return clone(p), nil
}

func (m *MemoryProtection) Save(_ context.Context, p domain.GuildProtection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byGuild[p.GuildID] = clone(p)
	return nil
}

func clone(p domain.GuildProtection) domain.GuildProtection {
	p.ProtectedMemberIDs = append([]string(nil), p.ProtectedMemberIDs...)
	p.RestrictedRoleIDs = append([]string(nil), p.RestrictedRoleIDs...)
	p.WhitelistRoleIDs = append([]string(nil), p.WhitelistRoleIDs...)
	return p
}

type MemoryPanels struct {
	mu   sync.Mutex
	refs map[string]domain.MessageRef
}

func NewMemoryPanels() *MemoryPanels {
	return &MemoryPanels{refs: map[string]domain.MessageRef{}}
}

func (m *MemoryPanels) Get(_ context.Context, guildID, kind string) (domain.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref, ok := m.refs[guildID+"/"+kind]
	if !ok {
		return domain.MessageRef{}, domain.ErrNotFound
	}
	return ref, nil
}

func (m *MemoryPanels) Upsert(_ context.Context, kind string, ref domain.MessageRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refs[ref.GuildID+"/"+kind] = ref
	return nil
}
