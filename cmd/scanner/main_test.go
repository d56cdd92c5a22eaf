package main

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/horizonrelax/community-bot/internal/app/service"
	"github.com/horizonrelax/community-bot/internal/domain"
	"github.com/horizonrelax/community-bot/internal/infra/storage"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// tallyGateway sólo responde lo que usa Evaluate.
type tallyGateway struct {
	service.Gateway
	up, down int
	sent     int
}

func (g *tallyGateway) ReactionCount(_ context.Context, _ domain.MessageRef, emoji string) (int, error) {
	if emoji == domain.VoteApprove {
		return g.up, nil
	}
	return g.down, nil
}
func (g *tallyGateway) EditMessage(context.Context, domain.MessageRef, domain.Message) error { return nil }
func (g *tallyGateway) ClearReactions(context.Context, domain.MessageRef) error             { return nil }
func (g *tallyGateway) SendMessage(context.Context, string, domain.Message) (domain.MessageRef, error) {
	g.sent++
	return domain.MessageRef{MessageID: "notice"}, nil
}
func (g *tallyGateway) Permalink(domain.MessageRef) string { return "link" }

func TestScannerHandle(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	reg := storage.NewMemorySuggestions()
	require.NoError(t, reg.Add(context.Background(), domain.Suggestion{
		MessageID: "s1", GuildID: "g", ChannelID: "c", AuthorID: "u",
		CreatedAt: now.Add(-73 * time.Hour), Status: domain.StatusPending,
	}))
	require.NoError(t, reg.Add(context.Background(), domain.Suggestion{
		MessageID: "s2", GuildID: "g", ChannelID: "c", AuthorID: "u",
		CreatedAt: now.Add(-time.Hour), Status: domain.StatusPending,
	}))

	gw := &tallyGateway{up: 11, down: 1}
	clock := fixedClock{now}
	svc := service.NewSuggestionService(gw, reg, clock, service.SuggestionConfig{GuildID: "g", ChannelID: "c", ReviewChannelID: "r"}, zap.NewNop())
	sc := &scanner{svc: svc, clock: clock, log: zap.NewNop()}

	res, err := sc.handle(context.Background(), events.CloudWatchEvent{ID: "ev1", Time: now})
	require.NoError(t, err)
	assert.Equal(t, scanResult{Due: 1, Evaluated: 1}, res)
	assert.Equal(t, 1, gw.sent)

	d, ok := reg.Decision("s1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusAccepted, d.Status)
	assert.True(t, reg.Active("s2"))
}
