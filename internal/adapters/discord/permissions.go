package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// requireAdmin avisa al usuario si no es admin. La interacción ya debe estar diferida.
func (r *Router) requireAdmin(ic *discordgo.InteractionCreate) bool {
	if r.isAdmin(ic) {
		return true
	}
	r.replyEphemeral(ic, "🔒 Vous n'avez pas la permission pour cette action.")
	return false
}

// isAdmin: bit Administrator resuelto por Discord en la interacción, o un rol de ADMIN_ROLE_IDS.
func (r *Router) isAdmin(ic *discordgo.InteractionCreate) bool {
	if ic.Member == nil {
		return false
	}
	if ic.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return hasAnyRole(ic.Member.Roles, r.adminRoleIDs)
}

// memberIsAdmin es la variante para mensajes, donde Discord no manda permisos.
func (r *Router) memberIsAdmin(ctx context.Context, guildID, userID string, roleIDs []string) bool {
	if hasAnyRole(roleIDs, r.adminRoleIDs) {
		return true
	}
	if g, err := r.s.State.Guild(guildID); err == nil && g != nil && g.OwnerID == userID {
		return true
	}
	roles, err := r.guildRoles(ctx, guildID)
	if err != nil {
		r.log.Debug("guild roles", zap.String("guild_id", guildID), zap.Error(err))
		return false
	}
	return rolesGrantAdmin(roles, roleIDs)
}

func (r *Router) guildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	if g, err := r.s.State.Guild(guildID); err == nil && g != nil && len(g.Roles) > 0 {
		return g.Roles, nil
	}
	return r.s.GuildRoles(guildID, discordgo.WithContext(ctx))
}

func rolesGrantAdmin(roles []*discordgo.Role, memberRoles []string) bool {
	has := make(map[string]struct{}, len(memberRoles))
	for _, id := range memberRoles {
		has[id] = struct{}{}
	}
	for _, ro := range roles {
		if _, ok := has[ro.ID]; ok && ro.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}
	return false
}

func hasAnyRole(have, want []string) bool {
	if len(want) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(have))
	for _, id := range have {
		set[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
