package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/horizonrelax/community-bot/internal/domain"
)

const ControlSuggest = "suggestion_submit"

// MaxSuggestionLength coincide con el límite del campo del modal.
const MaxSuggestionLength = 1000

type SuggestionConfig struct {
	GuildID         string
	ChannelID       string
	NotifyRoleID    string
	ReviewChannelID string
	ReviewRoleID    string
	Window          time.Duration
	Thresholds      domain.Thresholds
	// MaxPendingPerAuthor = 0 deja las sugerencias sin límite.
	MaxPendingPerAuthor int
}

type SuggestionService struct {
	gw    Gateway
	reg   SuggestionRegistry
	clock Clock
	cfg   SuggestionConfig
	log   *zap.Logger
}

func NewSuggestionService(gw Gateway, reg SuggestionRegistry, clock Clock, cfg SuggestionConfig, log *zap.Logger) *SuggestionService {
	if cfg.Window <= 0 {
		cfg.Window = domain.DefaultVotingWindow
	}
	if cfg.Thresholds == (domain.Thresholds{}) {
		cfg.Thresholds = domain.DefaultThresholds()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SuggestionService{gw: gw, reg: reg, clock: clock, cfg: cfg, log: log.Named("suggestions")}
}

type Author struct {
	ID   string
	Name string
}

type ScanReport struct {
	Due       int
	Evaluated int
	Failed    int
	Skipped   int
	Decisions []domain.Decision
}

// Submit publica la sugerencia con sus dos votos y la registra como pendiente.
func (s *SuggestionService) Submit(ctx context.Context, author Author, text string) (domain.Suggestion, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return domain.Suggestion{}, domain.ErrEmptySuggestion
	}
	if len([]rune(body)) > MaxSuggestionLength {
		body = string([]rune(body)[:MaxSuggestionLength])
	}

	if s.cfg.MaxPendingPerAuthor > 0 {
		n, err := s.reg.CountPending(ctx, s.cfg.GuildID, author.ID)
		if err != nil {
			return domain.Suggestion{}, fmt.Errorf("count pending: %w", err)
		}
		if n >= s.cfg.MaxPendingPerAuthor {
			return domain.Suggestion{}, domain.ErrTooManyPending
		}
	}

	sg := domain.Suggestion{
		ChannelID:  s.cfg.ChannelID,
		GuildID:    s.cfg.GuildID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Body:       body,
		CreatedAt:  s.clock.Now(),
		Status:     domain.StatusPending,
	}
	closes := fmt.Sprintf("<t:%d:R>", sg.ClosesAt(s.cfg.Window).Unix())

	ref, err := s.gw.SendMessage(ctx, s.cfg.ChannelID, suggestionAnnouncement(s.cfg.NotifyRoleID, sg, closes))
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("post suggestion: %w", err)
	}
	sg.MessageID = ref.MessageID

	for _, emoji := range []string{domain.VoteApprove, domain.VoteReject} {
		if err := s.gw.AddReaction(ctx, ref, emoji); err != nil {
			s.log.Warn("seed vote", zap.String("suggestion_id", sg.MessageID), zap.String("emoji", emoji), zap.Error(err))
		}
	}

	if err := s.reg.Add(ctx, sg); err != nil {
		// sin registro nunca se evaluaría: se retira el anuncio
		if derr := s.gw.DeleteMessage(ctx, ref); derr != nil {
			s.log.Error("withdraw unregistered suggestion", zap.String("suggestion_id", sg.MessageID), zap.Error(derr))
		}
		return domain.Suggestion{}, fmt.Errorf("register suggestion: %w", err)
	}
	s.log.Info("suggestion submitted",
		zap.String("suggestion_id", sg.MessageID),
		zap.String("user_id", author.ID),
		zap.Time("closes_at", sg.ClosesAt(s.cfg.Window)))
	return sg, nil
}

// ScanExpired evalúa una sola vez cada sugerencia cuya ventana terminó. La
// sugerencia sale del set activo antes de evaluarse, falle o no.
func (s *SuggestionService) ScanExpired(ctx context.Context, now time.Time) (ScanReport, error) {
	due, err := s.reg.Due(ctx, now.Add(-s.cfg.Window))
	if err != nil {
		return ScanReport{}, fmt.Errorf("list due suggestions: %w", err)
	}
	rep := ScanReport{Due: len(due)}

	for _, sg := range due {
		taken, err := s.reg.Take(ctx, sg.MessageID)
		if err != nil {
			s.log.Error("take suggestion", zap.String("suggestion_id", sg.MessageID), zap.Error(err))
			rep.Skipped++
			continue
		}
		if !taken {
			// otro scanner ya la tomó
			rep.Skipped++
			continue
		}

		d, err := s.Evaluate(ctx, sg)
		if err != nil {
			var ef *domain.EvaluationFailure
			if errors.As(err, &ef) {
				s.log.Warn("suggestion dropped without decision",
					zap.String("suggestion_id", ef.SuggestionID),
					zap.String("stage", ef.Stage),
					zap.Error(ef.Err))
			} else {
				s.log.Error("evaluate suggestion", zap.String("suggestion_id", sg.MessageID), zap.Error(err))
			}
			rep.Failed++
			continue
		}
		rep.Evaluated++
		rep.Decisions = append(rep.Decisions, d)
	}

	if rep.Due > 0 {
		s.log.Info("suggestion scan",
			zap.Int("due", rep.Due),
			zap.Int("evaluated", rep.Evaluated),
			zap.Int("failed", rep.Failed),
			zap.Int("skipped", rep.Skipped))
	}
	return rep, nil
}

// Evaluate cuenta los votos, decide y publica el resultado. Cualquier error
// se devuelve como *domain.EvaluationFailure.
func (s *SuggestionService) Evaluate(ctx context.Context, sg domain.Suggestion) (domain.Decision, error) {
	ref := domain.MessageRef{GuildID: sg.GuildID, ChannelID: sg.ChannelID, MessageID: sg.MessageID}
	fail := func(stage string, err error) (domain.Decision, error) {
		return domain.Decision{}, &domain.EvaluationFailure{SuggestionID: sg.MessageID, Stage: stage, Err: err}
	}

	rawUp, err := s.gw.ReactionCount(ctx, ref, domain.VoteApprove)
	if err != nil {
		return fail("tally", err)
	}
	rawDown, err := s.gw.ReactionCount(ctx, ref, domain.VoteReject)
	if err != nil {
		return fail("tally", err)
	}

	d := domain.Decision{
		Suggestion: sg,
		Upvotes:    domain.VotesFromTally(rawUp),
		Downvotes:  domain.VotesFromTally(rawDown),
		DecidedAt:  s.clock.Now(),
	}
	d.Status = domain.Classify(d.Upvotes, d.Downvotes, s.cfg.Thresholds)
	d.Suggestion.Status = d.Status

	if err := s.gw.EditMessage(ctx, ref, decidedAnnouncement(d)); err != nil {
		return fail("edit", err)
	}
	if err := s.gw.ClearReactions(ctx, ref); err != nil {
		return fail("clear_votes", err)
	}
	if _, err := s.gw.SendMessage(ctx, s.cfg.ReviewChannelID, decisionNotice(s.cfg.ReviewRoleID, d, s.gw.Permalink(ref))); err != nil {
		return fail("notify", err)
	}
	if err := s.reg.Record(ctx, d); err != nil {
		// la decisión ya es pública; sólo se pierde el historial
		s.log.Error("record decision", zap.String("suggestion_id", sg.MessageID), zap.Error(err))
	}

	s.log.Info("suggestion decided",
		zap.String("suggestion_id", sg.MessageID),
		zap.String("status", string(d.Status)),
		zap.Int("upvotes", d.Upvotes),
		zap.Int("downvotes", d.Downvotes))
	return d, nil
}

// PublishPanel publica el panel con el botón de sugerencias.
func (s *SuggestionService) PublishPanel(ctx context.Context, channelID string) (domain.MessageRef, error) {
	ref, err := s.gw.SendMessage(ctx, channelID, SuggestionPanel())
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("post suggestion panel: %w", err)
	}
	return ref, nil
}

// Window expone la ventana configurada (para los mensajes del adapter).
func (s *SuggestionService) Window() time.Duration { return s.cfg.Window }
