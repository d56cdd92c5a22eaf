package domain

import "time"

// GuildProtection es el registro del filtro de menciones de cada guild.
type GuildProtection struct {
	GuildID            string
	ProtectedMemberIDs []string
	RestrictedRoleIDs  []string
	WhitelistRoleIDs   []string
	UpdatedAt          time.Time
}

// MessageInfo es lo que el filtro necesita de un mensaje publicado.
type MessageInfo struct {
	GuildID          string
	ChannelID        string
	MessageID        string
	AuthorID         string
	AuthorIsBot      bool
	AuthorIsAdmin    bool
	AuthorRoleIDs    []string
	MentionedUserIDs []string
	MentionedRoleIDs []string
}

type Verdict struct {
	Violation       bool
	ProtectedUserID string
	RestrictedRole  string
}

func (p GuildProtection) Evaluate(m MessageInfo) Verdict {
	if m.AuthorIsBot || m.AuthorIsAdmin {
		return Verdict{}
	}
	if containsAny(p.WhitelistRoleIDs, m.AuthorRoleIDs) {
		return Verdict{}
	}
	for _, uid := range m.MentionedUserIDs {
		if uid != m.AuthorID && contains(p.ProtectedMemberIDs, uid) {
			return Verdict{Violation: true, ProtectedUserID: uid}
		}
	}
	for _, rid := range m.MentionedRoleIDs {
		if contains(p.RestrictedRoleIDs, rid) {
			return Verdict{Violation: true, RestrictedRole: rid}
		}
	}
	return Verdict{}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsAny(list, vs []string) bool {
	for _, v := range vs {
		if contains(list, v) {
			return true
		}
	}
	return false
}
