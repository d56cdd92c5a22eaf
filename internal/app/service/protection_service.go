package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/horizonrelax/community-bot/internal/domain"
)

type ProtectionService struct {
	store ProtectionStore
	gw    Gateway
	clock Clock
	log   *zap.Logger
}

func NewProtectionService(store ProtectionStore, gw Gateway, clock Clock, log *zap.Logger) *ProtectionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProtectionService{store: store, gw: gw, clock: clock, log: log.Named("protection")}
}

// ProtectionPatch: cada lista se aplica como alta o baja de un solo id.
type ProtectionPatch struct {
	AddProtected      string
	RemoveProtected   string
	AddRestricted     string
	RemoveRestricted  string
	AddWhitelisted    string
	RemoveWhitelisted string
}

func (s *ProtectionService) Get(ctx context.Context, guildID string) (domain.GuildProtection, error) {
	return s.store.Load(ctx, guildID)
}

func (s *ProtectionService) Show(ctx context.Context, guildID string) (string, error) {
	p, err := s.store.Load(ctx, guildID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"**Protection des mentions**\n• membres protégés: %s\n• rôles restreints: %s\n• rôles autorisés: %s",
		mentionList(p.ProtectedMemberIDs, "<@%s>"),
		mentionList(p.RestrictedRoleIDs, "<@&%s>"),
		mentionList(p.WhitelistRoleIDs, "<@&%s>"),
	), nil
}

// Update hace read-modify-write del registro del guild.
func (s *ProtectionService) Update(ctx context.Context, guildID string, patch ProtectionPatch) (string, error) {
	cur, err := s.store.Load(ctx, guildID)
	if err != nil {
		return "", err
	}
	cur.GuildID = guildID

	cur.ProtectedMemberIDs = apply(cur.ProtectedMemberIDs, patch.AddProtected, patch.RemoveProtected)
	cur.RestrictedRoleIDs = apply(cur.RestrictedRoleIDs, patch.AddRestricted, patch.RemoveRestricted)
	cur.WhitelistRoleIDs = apply(cur.WhitelistRoleIDs, patch.AddWhitelisted, patch.RemoveWhitelisted)
	cur.UpdatedAt = s.clock.Now()

	if err := s.store.Save(ctx, cur); err != nil {
		return "", err
	}
	return s.Show(ctx, guildID)
}

// Enforce borra el mensaje si viola la protección y avisa al autor.
func (s *ProtectionService) Enforce(ctx context.Context, m domain.MessageInfo) (domain.Verdict, error) {
	if m.AuthorIsBot {
		return domain.Verdict{}, nil
	}
	p, err := s.store.Load(ctx, m.GuildID)
	if err != nil {
		return domain.Verdict{}, err
	}
	v := p.Evaluate(m)
	if !v.Violation {
		return v, nil
	}

	ref := domain.MessageRef{GuildID: m.GuildID, ChannelID: m.ChannelID, MessageID: m.MessageID}
	if err := s.gw.DeleteMessage(ctx, ref); err != nil {
		return v, fmt.Errorf("delete protected mention: %w", err)
	}
	warn := "<@" + m.AuthorID + "> ⚠️ Ce membre ne peut pas être mentionné."
	if v.RestrictedRole != "" {
		warn = "<@" + m.AuthorID + "> ⚠️ Ce rôle ne peut pas être mentionné."
	}
	if _, err := s.gw.SendMessage(ctx, m.ChannelID, domain.Message{Content: warn}); err != nil {
		s.log.Warn("mention warning", zap.String("channel_id", m.ChannelID), zap.Error(err))
	}
	s.log.Info("protected mention removed",
		zap.String("guild_id", m.GuildID),
		zap.String("user_id", m.AuthorID),
		zap.String("protected_user", v.ProtectedUserID),
		zap.String("restricted_role", v.RestrictedRole))
	return v, nil
}

func apply(list []string, add, remove string) []string {
	out := make([]string, 0, len(list)+1)
	seen := map[string]bool{}
	for _, id := range list {
		if id == remove || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if add != "" && !seen[add] {
		out = append(out, add)
	}
	return out
}

func mentionList(ids []string, format string) string {
	if len(ids) == 0 {
		return "*aucun*"
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf(format, id))
	}
	return strings.Join(parts, ", ")
}
