package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/horizonrelax/community-bot/internal/domain"
)

const botID = "bot"

type sentMessage struct {
	ChannelID string
	Ref       domain.MessageRef
	Msg       domain.Message
}

type editedMessage struct {
	Ref domain.MessageRef
	Msg domain.Message
}

// fakeGateway guarda todo lo que los servicios le piden a Discord.
type fakeGateway struct {
	mu     sync.Mutex
	nextID int

	sent      []sentMessage
	edits     []editedMessage
	deleted   []domain.MessageRef
	reactions map[string][]string
	tallies   map[string]int
	cleared   []string
	tallyCall int

	channels  map[string]string // id -> name
	created   []domain.ContainerSpec
	destroyed []string

	failSend   map[string]error
	failEdit   error
	failClear  error
	failTally  error
	failCreate error
	findHook   func()
	// sendHook corre fuera del lock, después de registrar el envío.
	sendHook func(channelID string)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		reactions: map[string][]string{},
		tallies:   map[string]int{},
		channels:  map[string]string{},
		failSend:  map[string]error{},
	}
}

func (g *fakeGateway) id(prefix string) string {
	g.nextID++
	return fmt.Sprintf("%s-%d", prefix, g.nextID)
}

func (g *fakeGateway) SendMessage(_ context.Context, channelID string, msg domain.Message) (domain.MessageRef, error) {
	g.mu.Lock()
	if err := g.failSend[channelID]; err != nil {
		g.mu.Unlock()
		return domain.MessageRef{}, err
	}
	ref := domain.MessageRef{ChannelID: channelID, MessageID: g.id("msg")}
	g.sent = append(g.sent, sentMessage{ChannelID: channelID, Ref: ref, Msg: msg})
	hook := g.sendHook
	g.mu.Unlock()

	if hook != nil {
		hook(channelID)
	}
	return ref, nil
}

func (g *fakeGateway) EditMessage(_ context.Context, ref domain.MessageRef, msg domain.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failEdit != nil {
		return g.failEdit
	}
	g.edits = append(g.edits, editedMessage{Ref: ref, Msg: msg})
	return nil
}

func (g *fakeGateway) DeleteMessage(_ context.Context, ref domain.MessageRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, ref)
	return nil
}

func (g *fakeGateway) AddReaction(_ context.Context, ref domain.MessageRef, emoji string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reactions[ref.MessageID] = append(g.reactions[ref.MessageID], emoji)
	g.tallies[ref.MessageID+emoji]++
	return nil
}

func (g *fakeGateway) ReactionCount(_ context.Context, ref domain.MessageRef, emoji string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tallyCall++
	if g.failTally != nil {
		return 0, g.failTally
	}
	return g.tallies[ref.MessageID+emoji], nil
}

func (g *fakeGateway) ClearReactions(_ context.Context, ref domain.MessageRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failClear != nil {
		return g.failClear
	}
	g.cleared = append(g.cleared, ref.MessageID)
	return nil
}

func (g *fakeGateway) FindContainer(_ context.Context, _, _, name string) (string, bool, error) {
	if g.findHook != nil {
		g.findHook()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, n := range g.channels {
		if n == name {
			return id, true, nil
		}
	}
	return "", false, nil
}

func (g *fakeGateway) CreateRestrictedContainer(_ context.Context, spec domain.ContainerSpec) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCreate != nil {
		return "", g.failCreate
	}
	id := g.id("chan")
	g.channels[id] = spec.Name
	g.created = append(g.created, spec)
	return id, nil
}

func (g *fakeGateway) DestroyContainer(_ context.Context, channelID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.channels, channelID)
	g.destroyed = append(g.destroyed, channelID)
	return nil
}

func (g *fakeGateway) ChannelName(_ context.Context, channelID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.channels[channelID]
	if !ok {
		return "", errors.New("unknown channel")
	}
	return n, nil
}

func (g *fakeGateway) BotUserID() string { return botID }

func (g *fakeGateway) Permalink(ref domain.MessageRef) string {
	return "https://discord.test/" + ref.ChannelID + "/" + ref.MessageID
}

// sentTo devuelve los mensajes enviados a un canal.
func (g *fakeGateway) sentTo(channelID string) []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []sentMessage
	for _, m := range g.sent {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fakeResponder struct {
	replies []string
}

func (r *fakeResponder) Reply(_ context.Context, content string) error {
	r.replies = append(r.replies, content)
	return nil
}

type fakeQuerier struct {
	st  domain.ServerStatus
	err error
}

func (q fakeQuerier) Status(context.Context, string) (domain.ServerStatus, error) {
	return q.st, q.err
}
