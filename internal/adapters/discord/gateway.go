package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/horizonrelax/community-bot/internal/domain"
)

// Gateway implementa service.Gateway sobre una sesión de discordgo. Sirve
// tanto para la sesión con websocket del bot como para la REST-only del scanner.
type Gateway struct {
	s *discordgo.Session
}

func NewGateway(s *discordgo.Session) *Gateway {
	return &Gateway{s: s}
}

func (g *Gateway) SendMessage(ctx context.Context, channelID string, msg domain.Message) (domain.MessageRef, error) {
	m, err := g.s.ChannelMessageSendComplex(channelID, toMessageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return domain.MessageRef{}, err
	}
	return domain.MessageRef{GuildID: m.GuildID, ChannelID: m.ChannelID, MessageID: m.ID}, nil
}

func (g *Gateway) EditMessage(ctx context.Context, ref domain.MessageRef, msg domain.Message) error {
	_, err := g.s.ChannelMessageEditComplex(toMessageEdit(ref, msg), discordgo.WithContext(ctx))
	return err
}

func (g *Gateway) DeleteMessage(ctx context.Context, ref domain.MessageRef) error {
	return g.s.ChannelMessageDelete(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx))
}

func (g *Gateway) AddReaction(ctx context.Context, ref domain.MessageRef, emoji string) error {
	return g.s.MessageReactionAdd(ref.ChannelID, ref.MessageID, emoji, discordgo.WithContext(ctx))
}

// ReactionCount devuelve el conteo crudo, incluida la reacción semilla del bot.
func (g *Gateway) ReactionCount(ctx context.Context, ref domain.MessageRef, emoji string) (int, error) {
	m, err := g.s.ChannelMessage(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx))
	if err != nil {
		return 0, err
	}
	return reactionCount(m, emoji), nil
}

func (g *Gateway) ClearReactions(ctx context.Context, ref domain.MessageRef) error {
	return g.s.MessageReactionsRemoveAll(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx))
}

func (g *Gateway) FindContainer(ctx context.Context, guildID, categoryID, name string) (string, bool, error) {
	chans, err := g.s.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", false, err
	}
	if ch := findChannel(chans, categoryID, name); ch != nil {
		return ch.ID, true, nil
	}
	return "", false, nil
}

func (g *Gateway) CreateRestrictedContainer(ctx context.Context, spec domain.ContainerSpec) (string, error) {
	ch, err := g.s.GuildChannelCreateComplex(spec.GuildID, discordgo.GuildChannelCreateData{
		Name:                 spec.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             spec.CategoryID,
		PermissionOverwrites: restrictedOverwrites(spec.GuildID, spec.Members),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return ch.ID, nil
}

func (g *Gateway) DestroyContainer(ctx context.Context, channelID string) error {
	_, err := g.s.ChannelDelete(channelID, discordgo.WithContext(ctx))
	return err
}

func (g *Gateway) ChannelName(ctx context.Context, channelID string) (string, error) {
	if g.s.State != nil {
		if ch, err := g.s.State.Channel(channelID); err == nil && ch != nil {
			return ch.Name, nil
		}
	}
	ch, err := g.s.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return ch.Name, nil
}

func (g *Gateway) BotUserID() string {
	if g.s.State == nil || g.s.State.User == nil {
		return ""
	}
	return g.s.State.User.ID
}

func (g *Gateway) Permalink(ref domain.MessageRef) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", ref.GuildID, ref.ChannelID, ref.MessageID)
}

// ---------- conversiones ----------

func reactionCount(m *discordgo.Message, emoji string) int {
	for _, r := range m.Reactions {
		if r != nil && r.Emoji != nil && r.Emoji.Name == emoji {
			return r.Count
		}
	}
	return 0
}

func findChannel(chans []*discordgo.Channel, categoryID, name string) *discordgo.Channel {
	for _, ch := range chans {
		if ch.Name != name {
			continue
		}
		if categoryID == "" || ch.ParentID == categoryID {
			return ch
		}
	}
	return nil
}

// @everyone (id == guild) sin acceso; cada miembro ve, escribe y lee historial.
func restrictedOverwrites(guildID string, members []string) []*discordgo.PermissionOverwrite {
	allow := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory)
	out := []*discordgo.PermissionOverwrite{{
		ID:   guildID,
		Type: discordgo.PermissionOverwriteTypeRole,
		Deny: discordgo.PermissionViewChannel,
	}}
	for _, id := range members {
		if id == "" {
			continue
		}
		out = append(out, &discordgo.PermissionOverwrite{
			ID:    id,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: allow,
		})
	}
	return out
}

func toMessageSend(msg domain.Message) *discordgo.MessageSend {
	out := &discordgo.MessageSend{Content: msg.Content}
	if msg.Embed != nil {
		out.Embeds = []*discordgo.MessageEmbed{toEmbed(msg.Embed)}
	}
	if len(msg.Controls) > 0 {
		out.Components = toComponents(msg.Controls)
	}
	return out
}

func toMessageEdit(ref domain.MessageRef, msg domain.Message) *discordgo.MessageEdit {
	out := discordgo.NewMessageEdit(ref.ChannelID, ref.MessageID)
	if msg.Content != "" {
		out.SetContent(msg.Content)
	}
	if msg.Embed != nil {
		out.SetEmbed(toEmbed(msg.Embed))
	}
	switch {
	case msg.StripControls:
		empty := []discordgo.MessageComponent{}
		out.Components = &empty
	case len(msg.Controls) > 0:
		comps := toComponents(msg.Controls)
		out.Components = &comps
	}
	return out
}

func toEmbed(e *domain.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if e.Author != "" {
		out.Author = &discordgo.MessageEmbedAuthor{Name: e.Author, IconURL: e.AuthorIcon}
	}
	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if !e.Timestamp.IsZero() {
		out.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return out
}

// Hasta 5 botones por fila.
func toComponents(controls []domain.Control) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for i := 0; i < len(controls); i += 5 {
		end := i + 5
		if end > len(controls) {
			end = len(controls)
		}
		row := discordgo.ActionsRow{}
		for _, c := range controls[i:end] {
			b := discordgo.Button{CustomID: c.ID, Label: c.Label, Style: buttonStyle(c.Style)}
			if c.Emoji != "" {
				b.Emoji = &discordgo.ComponentEmoji{Name: c.Emoji}
			}
			row.Components = append(row.Components, b)
		}
		rows = append(rows, row)
	}
	return rows
}

func buttonStyle(s domain.ControlStyle) discordgo.ButtonStyle {
	switch s {
	case domain.ControlSuccess:
		return discordgo.SuccessButton
	case domain.ControlDanger:
		return discordgo.DangerButton
	case domain.ControlSecondary:
		return discordgo.SecondaryButton
	default:
		return discordgo.PrimaryButton
	}
}
