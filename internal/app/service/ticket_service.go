package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/horizonrelax/community-bot/internal/domain"
)

// Custom IDs de los controles del flujo de tickets.
const (
	ControlCreateTicket = "create_ticket"
	ControlCloseTicket  = "close_ticket"
)

type TicketConfig struct {
	GuildID         string
	CategoryID      string
	RatingChannelID string
	StaffRoleID     string
}

type TicketService struct {
	gw     Gateway
	reg    TicketRegistry
	panels PanelStore
	clock  Clock
	cfg    TicketConfig
	log    *zap.Logger
}

func NewTicketService(gw Gateway, reg TicketRegistry, panels PanelStore, clock Clock, cfg TicketConfig, log *zap.Logger) *TicketService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TicketService{gw: gw, reg: reg, panels: panels, clock: clock, cfg: cfg, log: log.Named("tickets")}
}

// PublishPanel publica el panel de tickets en el canal y borra el anterior.
func (s *TicketService) PublishPanel(ctx context.Context, channelID string) (domain.MessageRef, error) {
	old, err := s.panels.Get(ctx, s.cfg.GuildID, PanelTickets)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.MessageRef{}, fmt.Errorf("load ticket panel: %w", err)
	}
	ref, err := s.gw.SendMessage(ctx, channelID, TicketPanel())
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("post ticket panel: %w", err)
	}
	ref.GuildID = s.cfg.GuildID
	if err := s.panels.Upsert(ctx, PanelTickets, ref); err != nil {
		return ref, err
	}
	if old.MessageID != "" && old.MessageID != ref.MessageID {
		if err := s.gw.DeleteMessage(ctx, old); err != nil {
			s.log.Debug("old ticket panel", zap.String("message_id", old.MessageID), zap.Error(err))
		}
	}
	return ref, nil
}

type TicketRequest struct {
	RequesterID   string
	RequesterName string
}

type RatingSubmission struct {
	Actor     domain.Actor
	ChannelID string
	Score     string
	Comment   string
}

// RequestTicket crea el canal privado del ticket. Devuelve *domain.AlreadyOpenError
// si el usuario ya tiene uno abierto.
func (s *TicketService) RequestTicket(ctx context.Context, req TicketRequest) (domain.Ticket, error) {
	name := domain.TicketChannelName(req.RequesterName)

	// canales creados antes del registro (o a mano) también cuentan
	if chID, found, err := s.gw.FindContainer(ctx, s.cfg.GuildID, s.cfg.CategoryID, name); err != nil {
		return domain.Ticket{}, fmt.Errorf("list ticket category: %w", err)
	} else if found {
		return domain.Ticket{}, &domain.AlreadyOpenError{RequesterID: req.RequesterID, ChannelID: chID}
	}

	t := domain.Ticket{
		ID:         uuid.NewString(),
		GuildID:    s.cfg.GuildID,
		CategoryID: s.cfg.CategoryID,
		OwnerID:    req.RequesterID,
		OwnerName:  req.RequesterName,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.reg.Claim(ctx, t); err != nil {
		return domain.Ticket{}, err
	}

	chID, err := s.gw.CreateRestrictedContainer(ctx, domain.ContainerSpec{
		GuildID:    s.cfg.GuildID,
		CategoryID: s.cfg.CategoryID,
		Name:       name,
		Members:    []string{req.RequesterID, s.gw.BotUserID()},
	})
	if err != nil {
		if rerr := s.reg.Release(ctx, t.ID); rerr != nil {
			s.log.Error("release ticket claim", zap.String("ticket_id", t.ID), zap.Error(rerr))
		}
		return domain.Ticket{}, fmt.Errorf("create ticket channel: %w", err)
	}
	t.ChannelID = chID
	if err := s.reg.AttachChannel(ctx, t.ID, chID); err != nil {
		s.log.Error("attach ticket channel", zap.String("ticket_id", t.ID), zap.Error(err))
	}

	if s.cfg.StaffRoleID != "" {
		if _, err := s.gw.SendMessage(ctx, chID, domain.Message{Content: "<@&" + s.cfg.StaffRoleID + ">"}); err != nil {
			s.log.Warn("staff mention", zap.String("channel_id", chID), zap.Error(err))
		}
	}
	if _, err := s.gw.SendMessage(ctx, chID, ticketWelcome()); err != nil {
		s.log.Warn("ticket welcome", zap.String("channel_id", chID), zap.Error(err))
	}

	s.log.Info("ticket opened",
		zap.String("ticket_id", t.ID),
		zap.String("channel_id", chID),
		zap.String("user_id", req.RequesterID))
	return t, nil
}

// RequestClosure decide si el actor puede cerrar el ticket del canal.
func (s *TicketService) RequestClosure(ctx context.Context, actor domain.Actor, channelID string) (domain.Ticket, error) {
	t, err := s.resolve(ctx, channelID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if t.ClosedAt != nil {
		return domain.Ticket{}, domain.ErrAlreadyClosed
	}
	if actor.IsAdmin || owns(actor, t) {
		return t, nil
	}
	return domain.Ticket{}, &domain.NotAuthorizedError{ActorID: actor.ID, ChannelID: channelID}
}

// SubmitRating publica la nota y destruye el ticket. Una nota inválida no
// produce ningún efecto. El cierre del registro va primero: de dos envíos
// simultáneos sólo uno publica y destruye, el otro recibe ErrAlreadyClosed.
func (s *TicketService) SubmitRating(ctx context.Context, sub RatingSubmission, ack Responder) error {
	score, err := ParseScore(sub.Score)
	if err != nil {
		return err
	}
	t, err := s.RequestClosure(ctx, sub.Actor, sub.ChannelID)
	if err != nil {
		return err
	}
	// los canales sin registro no tienen transición que reclamar
	if t.ID != "" {
		closed, err := s.reg.Close(ctx, t.ID, s.clock.Now())
		if err != nil {
			return fmt.Errorf("close ticket record: %w", err)
		}
		if !closed {
			return domain.ErrAlreadyClosed
		}
	}

	channelName := domain.TicketChannelName(t.OwnerName)
	if n, err := s.gw.ChannelName(ctx, sub.ChannelID); err == nil && n != "" {
		channelName = n
	}
	r := domain.Rating{
		ID:        uuid.NewString(),
		Score:     score,
		Comment:   strings.TrimSpace(sub.Comment),
		RaterID:   sub.Actor.ID,
		RaterName: sub.Actor.Name,
		TicketID:  t.ID,
		Channel:   channelName,
	}
	if _, err := s.gw.SendMessage(ctx, s.cfg.RatingChannelID, ratingSummary(r)); err != nil {
		return fmt.Errorf("post rating: %w", err)
	}
	if ack != nil {
		if err := ack.Reply(ctx, "Merci pour votre évaluation!"); err != nil {
			s.log.Warn("rating ack", zap.String("user_id", sub.Actor.ID), zap.Error(err))
		}
	}

	if err := s.gw.DestroyContainer(ctx, sub.ChannelID); err != nil {
		return fmt.Errorf("delete ticket channel: %w", err)
	}

	s.log.Info("ticket closed",
		zap.String("ticket_id", t.ID),
		zap.String("rating_id", r.ID),
		zap.Int("score", score),
		zap.String("user_id", sub.Actor.ID))
	return nil
}

// ChannelRemoved cierra el registro de un ticket cuyo canal se borró a mano,
// para que el dueño pueda abrir otro.
func (s *TicketService) ChannelRemoved(ctx context.Context, channelID string) error {
	t, err := s.reg.ByChannel(ctx, channelID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	closed, err := s.reg.Close(ctx, t.ID, s.clock.Now())
	if err != nil {
		return err
	}
	if !closed {
		// cerrado por SubmitRating, que es quien borró el canal
		return nil
	}
	s.log.Info("ticket channel removed", zap.String("ticket_id", t.ID), zap.String("channel_id", channelID))
	return nil
}

// resolve busca el ticket por canal; los canales sin registro se reconocen
// por el prefijo del nombre.
func (s *TicketService) resolve(ctx context.Context, channelID string) (domain.Ticket, error) {
	t, err := s.reg.ByChannel(ctx, channelID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Ticket{}, err
	}
	name, err := s.gw.ChannelName(ctx, channelID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("read channel: %w", err)
	}
	owner, ok := domain.OwnerNameFromChannel(name)
	if !ok {
		return domain.Ticket{}, domain.ErrNotTicket
	}
	return domain.Ticket{GuildID: s.cfg.GuildID, ChannelID: channelID, OwnerName: owner}, nil
}

func owns(actor domain.Actor, t domain.Ticket) bool {
	if t.OwnerID != "" {
		return actor.ID == t.OwnerID
	}
	return domain.NormalizeChannelName(actor.Name) == domain.NormalizeChannelName(t.OwnerName)
}

// ParseScore acepta sólo dígitos entre 1 y 5.
func ParseScore(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	if len(v) != 1 || v[0] < '1' || v[0] > '5' {
		return 0, &domain.InvalidRatingError{Input: raw}
	}
	return int(v[0] - '0'), nil
}
