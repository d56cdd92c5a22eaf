package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/horizonrelax/community-bot/internal/domain"
)

type ProtectionRepo struct{ db *sql.DB }

func NewProtectionRepo(db *sql.DB) *ProtectionRepo { return &ProtectionRepo{db: db} }

// Load devuelve un registro vacío si el guild todavía no tiene uno.
func (r *ProtectionRepo) Load(ctx context.Context, guildID string) (domain.GuildProtection, error) {
	p := domain.GuildProtection{GuildID: guildID}
	err := r.db.QueryRowContext(ctx, `
SELECT protected_member_ids, restricted_role_ids, whitelist_role_ids, updated_at
  FROM guild_protection
 WHERE guild_id = $1
`, guildID).Scan(
		pq.Array(&p.ProtectedMemberIDs), pq.Array(&p.RestrictedRoleIDs), pq.Array(&p.WhitelistRoleIDs), &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return domain.GuildProtection{}, fmt.Errorf("scan protection: %w", err)
	}
	return p, nil
}

func (r *ProtectionRepo) Save(ctx context.Context, p domain.GuildProtection) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO guild_protection
  (guild_id, protected_member_ids, restricted_role_ids, whitelist_role_ids, updated_at)
VALUES
  ($1, $2, $3, $4, $5)
ON CONFLICT (guild_id) DO UPDATE SET
  protected_member_ids = EXCLUDED.protected_member_ids,
  restricted_role_ids  = EXCLUDED.restricted_role_ids,
  whitelist_role_ids   = EXCLUDED.whitelist_role_ids,
  updated_at           = EXCLUDED.updated_at
`, p.GuildID, pq.Array(nonNil(p.ProtectedMemberIDs)), pq.Array(nonNil(p.RestrictedRoleIDs)), pq.Array(nonNil(p.WhitelistRoleIDs)), p.UpdatedAt)
	return err
}

// pq.Array(nil) se escribe como NULL y las columnas son NOT NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
