package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/horizonrelax/community-bot/internal/domain"
)

type TicketRepo struct{ db *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// Claim inserta el ticket salvo que el usuario ya tenga uno abierto; el índice
// parcial tickets_one_open_per_owner decide.
func (r *TicketRepo) Claim(ctx context.Context, t domain.Ticket) error {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO tickets (id, guild_id, category_id, owner_id, owner_name, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (guild_id, owner_id) WHERE closed_at IS NULL DO NOTHING
`, t.ID, t.GuildID, t.CategoryID, t.OwnerID, t.OwnerName, t.CreatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim ticket rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	e := &domain.AlreadyOpenError{RequesterID: t.OwnerID}
	var ch sql.NullString
	err = r.db.QueryRowContext(ctx, `
SELECT channel_id FROM tickets
 WHERE guild_id = $1 AND owner_id = $2 AND closed_at IS NULL
`, t.GuildID, t.OwnerID).Scan(&ch)
	switch {
	case err == nil:
		e.ChannelID = ch.String
	case errors.Is(err, sql.ErrNoRows):
		// se cerró entre el INSERT y el SELECT; el conflicto igual ocurrió
	default:
		// el conflicto es lo que importa; el canal es sólo para el aviso
		return errors.Join(e, fmt.Errorf("lookup open ticket: %w", err))
	}
	return e
}

func (r *TicketRepo) AttachChannel(ctx context.Context, ticketID, channelID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tickets SET channel_id = $2 WHERE id = $1`, ticketID, channelID)
	return err
}

func (r *TicketRepo) ByChannel(ctx context.Context, channelID string) (domain.Ticket, error) {
	var (
		t  domain.Ticket
		ch sql.NullString
	)
	// tickets_channel es único: a lo sumo una fila, abierta o cerrada
	err := r.db.QueryRowContext(ctx, `
SELECT id::text, guild_id, category_id, channel_id, owner_id, owner_name, created_at, closed_at
  FROM tickets
 WHERE channel_id = $1
`, channelID).Scan(&t.ID, &t.GuildID, &t.CategoryID, &ch, &t.OwnerID, &t.OwnerName, &t.CreatedAt, &t.ClosedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Ticket{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("scan ticket: %w", err)
	}
	t.ChannelID = ch.String
	return t, nil
}

// Release borra un claim cuyo canal nunca llegó a crearse.
func (r *TicketRepo) Release(ctx context.Context, ticketID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1 AND channel_id IS NULL`, ticketID)
	return err
}

// Close: el UPDATE condicionado es el punto atómico, como Take en sugerencias.
func (r *TicketRepo) Close(ctx context.Context, ticketID string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE tickets SET closed_at = $2 WHERE id = $1 AND closed_at IS NULL
`, ticketID, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("close ticket rows: %w", err)
	}
	return n > 0, nil
}
