package discord

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horizonrelax/community-bot/internal/app/service"
	"github.com/horizonrelax/community-bot/internal/domain"
)

func TestNotice(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"already open", &domain.AlreadyOpenError{RequesterID: "u", ChannelID: "c1"}, "Vous avez déjà un ticket ouvert! <#c1>"},
		{"already open legacy", &domain.AlreadyOpenError{RequesterID: "u"}, "Vous avez déjà un ticket ouvert!"},
		{"not authorized", &domain.NotAuthorizedError{ActorID: "u"}, "Seul le créateur du ticket ou un administrateur peut le fermer."},
		{"not a number", &domain.InvalidRatingError{Input: "x"}, "Veuillez entrer un nombre valide entre 1 et 5."},
		{"out of range", &domain.InvalidRatingError{Input: "7"}, "La note doit être comprise entre 1 et 5."},
		{"wrapped not ticket", fmt.Errorf("close: %w", domain.ErrNotTicket), "Ce salon n'est pas un ticket."},
		{"already open with lookup failure", errors.Join(&domain.AlreadyOpenError{RequesterID: "u"}, errors.New("conn reset")), "Vous avez déjà un ticket ouvert!"},
		{"already closed", domain.ErrAlreadyClosed, "Ce ticket est déjà en cours de fermeture."},
		{"empty suggestion", domain.ErrEmptySuggestion, "Votre suggestion est vide."},
		{"unknown", errors.New("boom"), noticeUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notice(tt.err))
		})
	}
}

func TestProtectionPatch(t *testing.T) {
	p, ok := protectionPatch("member", "add", "u1", "")
	require.True(t, ok)
	assert.Equal(t, service.ProtectionPatch{AddProtected: "u1"}, p)

	p, ok = protectionPatch("role", "remove", "", "r1")
	require.True(t, ok)
	assert.Equal(t, service.ProtectionPatch{RemoveRestricted: "r1"}, p)

	p, ok = protectionPatch("whitelist", "add", "", "r2")
	require.True(t, ok)
	assert.Equal(t, service.ProtectionPatch{AddWhitelisted: "r2"}, p)

	_, ok = protectionPatch("member", "toggle", "u1", "")
	assert.False(t, ok)
	_, ok = protectionPatch("member", "add", "", "r1")
	assert.False(t, ok)
}

func TestModalValues(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: modalRating,
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: fieldRating, Value: "4"},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: fieldComment, Value: "super"},
			}},
		},
	}
	v := modalValues(data)
	assert.Equal(t, "4", v[fieldRating])
	assert.Equal(t, "super", v[fieldComment])
}

func TestRatingModalRows(t *testing.T) {
	rows := ratingModal().rows()
	require.Len(t, rows, 2)
	in := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.TextInput)
	assert.Equal(t, fieldRating, in.CustomID)
	assert.True(t, in.Required)
	assert.Equal(t, 1, in.MaxLength)

	comment := rows[1].(discordgo.ActionsRow).Components[0].(discordgo.TextInput)
	assert.Equal(t, discordgo.TextInputParagraph, comment.Style)
	assert.False(t, comment.Required)
}

func TestOptionHelpers(t *testing.T) {
	opts := []*discordgo.ApplicationCommandInteractionDataOption{
		{
			Name: "member",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "u1"},
				{Name: "action", Type: discordgo.ApplicationCommandOptionString, Value: " add "},
			},
		},
	}
	sub, inner, ok := subcommand(opts)
	require.True(t, ok)
	assert.Equal(t, "member", sub)
	assert.Equal(t, "u1", optID(inner, "user"))
	assert.Empty(t, optID(inner, "role"))

	action, ok := optStr(inner, "action")
	assert.True(t, ok)
	assert.Equal(t, "add", action)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Nick", displayName(&discordgo.Member{Nick: "Nick", User: &discordgo.User{Username: "u"}}))
	assert.Equal(t, "Global", displayName(&discordgo.Member{User: &discordgo.User{Username: "u", GlobalName: "Global"}}))
	assert.Equal(t, "u", displayName(&discordgo.Member{User: &discordgo.User{Username: "u"}}))
	assert.Empty(t, displayName(nil))
}

func TestAdminRoleChecks(t *testing.T) {
	assert.True(t, hasAnyRole([]string{"a", "b"}, []string{"b"}))
	assert.False(t, hasAnyRole([]string{"a"}, nil))

	roles := []*discordgo.Role{
		{ID: "mod", Permissions: discordgo.PermissionManageMessages},
		{ID: "admin", Permissions: discordgo.PermissionAdministrator},
	}
	assert.True(t, rolesGrantAdmin(roles, []string{"mod", "admin"}))
	assert.False(t, rolesGrantAdmin(roles, []string{"mod"}))
}

func TestIsAdminFromInteraction(t *testing.T) {
	r := &Router{adminRoleIDs: []string{"staff"}}
	ic := func(perms int64, roles ...string) *discordgo.InteractionCreate {
		return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Member: &discordgo.Member{User: &discordgo.User{ID: "u"}, Permissions: perms, Roles: roles},
		}}
	}
	assert.True(t, r.isAdmin(ic(discordgo.PermissionAdministrator)))
	assert.True(t, r.isAdmin(ic(0, "staff")))
	assert.False(t, r.isAdmin(ic(0, "member")))
}

func TestMessageInfo(t *testing.T) {
	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:           "m1",
		GuildID:      "g",
		ChannelID:    "c",
		Author:       &discordgo.User{ID: "u1"},
		Member:       &discordgo.Member{Roles: []string{"vip"}},
		Mentions:     []*discordgo.User{{ID: "owner"}},
		MentionRoles: []string{"staff"},
	}}
	info := messageInfo(m)
	assert.Equal(t, "u1", info.AuthorID)
	assert.Equal(t, []string{"vip"}, info.AuthorRoleIDs)
	assert.Equal(t, []string{"owner"}, info.MentionedUserIDs)
	assert.Equal(t, []string{"staff"}, info.MentionedRoleIDs)
}

func TestMemoryLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(time.Second).(*memoryLimiter)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "u1:create_ticket"))
	assert.False(t, l.Allow(ctx, "u1:create_ticket"))
	assert.True(t, l.Allow(ctx, "u2:create_ticket"))

	now = now.Add(time.Second)
	assert.True(t, l.Allow(ctx, "u1:create_ticket"))
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	l := NewRedisLimiter(rdb, time.Second, nil)
	assert.True(t, l.Allow(context.Background(), "u1:create_ticket"))
}
