package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/horizonrelax/community-bot/internal/domain"
)

// SuggestionRepo persiste el set activo (pending_suggestions) para que las
// votaciones sobrevivan a un reinicio.
type SuggestionRepo struct{ db *sql.DB }

func NewSuggestionRepo(db *sql.DB) *SuggestionRepo { return &SuggestionRepo{db: db} }

func (r *SuggestionRepo) Add(ctx context.Context, s domain.Suggestion) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO pending_suggestions (message_id, channel_id, guild_id, author_id, author_name, body, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (message_id) DO NOTHING
`, s.MessageID, s.ChannelID, s.GuildID, s.AuthorID, s.AuthorName, s.Body, s.CreatedAt)
	return err
}

func (r *SuggestionRepo) Due(ctx context.Context, cutoff time.Time) ([]domain.Suggestion, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT message_id, channel_id, guild_id, author_id, author_name, body, created_at
  FROM pending_suggestions
 WHERE created_at <= $1
 ORDER BY created_at ASC
`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Suggestion
	for rows.Next() {
		s := domain.Suggestion{Status: domain.StatusPending}
		if err := rows.Scan(&s.MessageID, &s.ChannelID, &s.GuildID, &s.AuthorID, &s.AuthorName, &s.Body, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Take: el DELETE es el punto atómico; sólo un caller ve la fila borrada.
func (r *SuggestionRepo) Take(ctx context.Context, messageID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_suggestions WHERE message_id = $1`, messageID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("take suggestion rows: %w", err)
	}
	return n > 0, nil
}

func (r *SuggestionRepo) Record(ctx context.Context, d domain.Decision) error {
	s := d.Suggestion
	_, err := r.db.ExecContext(ctx, `
INSERT INTO suggestion_decisions
  (message_id, channel_id, guild_id, author_id, body, status, upvotes, downvotes, created_at, decided_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (message_id) DO NOTHING
`, s.MessageID, s.ChannelID, s.GuildID, s.AuthorID, s.Body, string(d.Status), d.Upvotes, d.Downvotes, s.CreatedAt, d.DecidedAt)
	return err
}

func (r *SuggestionRepo) CountPending(ctx context.Context, guildID, authorID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT count(*) FROM pending_suggestions WHERE guild_id = $1 AND author_id = $2
`, guildID, authorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending suggestions: %w", err)
	}
	return n, nil
}
