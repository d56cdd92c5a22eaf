package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/horizonrelax/community-bot/internal/domain"
)

// Tipos de panel persistidos por PanelStore.
const (
	PanelStatus  = "status"
	PanelTickets = "tickets"
)

type StatusConfig struct {
	GuildID   string
	Address   string
	ChannelID string
}

type StatusService struct {
	q      StatusQuerier
	gw     Gateway
	panels PanelStore
	cfg    StatusConfig
	log    *zap.Logger
}

func NewStatusService(q StatusQuerier, gw Gateway, panels PanelStore, cfg StatusConfig, log *zap.Logger) *StatusService {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatusService{q: q, gw: gw, panels: panels, cfg: cfg, log: log.Named("status")}
}

// Current nunca falla: cualquier error del querier cuenta como offline.
func (s *StatusService) Current(ctx context.Context) domain.ServerStatus {
	st, err := s.q.Status(ctx, s.cfg.Address)
	if err != nil {
		s.log.Debug("server query failed", zap.String("address", s.cfg.Address), zap.Error(err))
		return domain.OfflineStatus(s.cfg.Address)
	}
	st.Address = s.cfg.Address
	return st
}

// Refresh edita el panel publicado o publica uno nuevo si no existe.
func (s *StatusService) Refresh(ctx context.Context) error {
	if s.cfg.ChannelID == "" {
		return nil
	}
	msg := statusEmbed(s.Current(ctx))

	ref, err := s.panels.Get(ctx, s.cfg.GuildID, PanelStatus)
	switch {
	case err == nil && ref.ChannelID == s.cfg.ChannelID && ref.MessageID != "":
		editErr := s.gw.EditMessage(ctx, ref, msg)
		if editErr == nil {
			return nil
		}
		s.log.Info("status panel gone, reposting", zap.String("message_id", ref.MessageID), zap.Error(editErr))
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("load status panel: %w", err)
	}

	ref, err = s.gw.SendMessage(ctx, s.cfg.ChannelID, msg)
	if err != nil {
		return fmt.Errorf("post status panel: %w", err)
	}
	ref.GuildID = s.cfg.GuildID
	return s.panels.Upsert(ctx, PanelStatus, ref)
}
