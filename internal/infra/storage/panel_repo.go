package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/horizonrelax/community-bot/internal/domain"
)

// PanelRepo guarda dónde quedó publicado cada panel fijo (status, tickets).
type PanelRepo struct{ db *sql.DB }

func NewPanelRepo(db *sql.DB) *PanelRepo { return &PanelRepo{db: db} }

func (r *PanelRepo) Get(ctx context.Context, guildID, kind string) (domain.MessageRef, error) {
	ref := domain.MessageRef{GuildID: guildID}
	err := r.db.QueryRowContext(ctx, `
SELECT channel_id, message_id
  FROM guild_panels
 WHERE guild_id = $1 AND kind = $2
`, guildID, kind).Scan(&ref.ChannelID, &ref.MessageID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MessageRef{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("scan panel: %w", err)
	}
	return ref, nil
}

func (r *PanelRepo) Upsert(ctx context.Context, kind string, ref domain.MessageRef) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO guild_panels (guild_id, kind, channel_id, message_id)
VALUES ($1,$2,$3,$4)
ON CONFLICT (guild_id, kind) DO UPDATE SET
  channel_id = EXCLUDED.channel_id,
  message_id = EXCLUDED.message_id,
  updated_at = now()
`, ref.GuildID, kind, ref.ChannelID, ref.MessageID)
	return err
}
