package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horizonrelax/community-bot/internal/domain"
)

func TestMemoryTicketsClaim(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryTickets()

	require.NoError(t, m.Claim(ctx, domain.Ticket{ID: "t1", GuildID: "g", OwnerID: "u1"}))
	require.NoError(t, m.AttachChannel(ctx, "t1", "c1"))

	err := m.Claim(ctx, domain.Ticket{ID: "t2", GuildID: "g", OwnerID: "u1"})
	var open *domain.AlreadyOpenError
	require.ErrorAs(t, err, &open)
	assert.Equal(t, "c1", open.ChannelID)

	// otro guild no choca
	require.NoError(t, m.Claim(ctx, domain.Ticket{ID: "t3", GuildID: "other", OwnerID: "u1"}))

	got, err := m.ByChannel(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)

	closed, err := m.Close(ctx, "t1", time.Now())
	require.NoError(t, err)
	assert.True(t, closed)
	closed, err = m.Close(ctx, "t1", time.Now())
	require.NoError(t, err)
	assert.False(t, closed)

	// el registro cerrado sigue visible por canal
	got, err = m.ByChannel(ctx, "c1")
	require.NoError(t, err)
	assert.NotNil(t, got.ClosedAt)
	_, err = m.ByChannel(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, m.Claim(ctx, domain.Ticket{ID: "t4", GuildID: "g", OwnerID: "u1"}))
}

func TestMemoryTicketsRelease(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryTickets()
	require.NoError(t, m.Claim(ctx, domain.Ticket{ID: "t1", GuildID: "g", OwnerID: "u1"}))
	require.NoError(t, m.Claim(ctx, domain.Ticket{ID: "t2", GuildID: "g", OwnerID: "u2"}))
	require.NoError(t, m.AttachChannel(ctx, "t2", "c2"))

	require.NoError(t, m.Release(ctx, "t1"))
	require.NoError(t, m.Release(ctx, "t2"))
	assert.Equal(t, 1, m.OpenCount())
}

func TestMemorySuggestionsDueAndTake(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySuggestions()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, m.Add(ctx, domain.Suggestion{MessageID: "b", GuildID: "g", AuthorID: "u", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, m.Add(ctx, domain.Suggestion{MessageID: "a", GuildID: "g", AuthorID: "u", CreatedAt: base}))
	require.NoError(t, m.Add(ctx, domain.Suggestion{MessageID: "c", GuildID: "g", AuthorID: "v", CreatedAt: base.Add(2 * time.Hour)}))

	n, err := m.CountPending(ctx, "g", "u")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	due, err := m.Due(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "a", due[0].MessageID)
	assert.Equal(t, "b", due[1].MessageID)

	ok, err := m.Take(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = m.Take(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, m.Active("a"))
	assert.True(t, m.Active("b"))
}

func TestMemoryProtectionIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryProtection()
	p := domain.GuildProtection{GuildID: "g", ProtectedMemberIDs: []string{"owner"}}
	require.NoError(t, m.Save(ctx, p))

	p.ProtectedMemberIDs[0] = "changed"
	got, err := m.Load(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, []string{"owner"}, got.ProtectedMemberIDs)

	empty, err := m.Load(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, "unknown", empty.GuildID)
}

func TestMemoryPanels(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryPanels()
	_, err := m.Get(ctx, "g", "status")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, m.Upsert(ctx, "status", domain.MessageRef{GuildID: "g", ChannelID: "c", MessageID: "m1"}))
	require.NoError(t, m.Upsert(ctx, "status", domain.MessageRef{GuildID: "g", ChannelID: "c", MessageID: "m2"}))
	ref, err := m.Get(ctx, "g", "status")
	require.NoError(t, err)
	assert.Equal(t, "m2", ref.MessageID)
}
