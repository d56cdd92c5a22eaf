package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func base() map[string]string {
	return map[string]string{
		"DISCORD_BOT_TOKEN": "abc",
		"DISCORD_GUILD_ID":  "g1",
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(base()))
	require.NoError(t, err)

	assert.Equal(t, "Bot abc", cfg.DiscordToken)
	assert.Equal(t, "g1", cfg.DiscordGuild)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 72*time.Hour, cfg.SuggestionWindow)
	assert.Equal(t, "@every 1h", cfg.SuggestionScanSchedule)
	assert.Equal(t, 10, cfg.AcceptThreshold)
	assert.Equal(t, 5, cfg.RejectThreshold)
	assert.Zero(t, cfg.MaxPendingPerAuthor)
	assert.Equal(t, "play.horizon-relax.org:25567", cfg.GameServerAddress)
	assert.Equal(t, "@every 1m", cfg.StatusSchedule)
	assert.Equal(t, 5*time.Second, cfg.StatusQueryTimeout)
	assert.Nil(t, cfg.AdminRoleIDs)
}

func TestFromEnvOverrides(t *testing.T) {
	m := base()
	m["DISCORD_BOT_TOKEN"] = "Bot already-prefixed"
	m["ADMIN_ROLE_IDS"] = " r1, ,r2 "
	m["SUGGESTION_WINDOW"] = "90m"
	m["SUGGESTION_ACCEPT_THRESHOLD"] = "3"
	m["SUGGESTION_REJECT_THRESHOLD"] = "2"
	m["SUGGESTION_MAX_PENDING_PER_AUTHOR"] = "4"
	m["REDIS_DB"] = "2"
	m["STATUS_QUERY_TIMEOUT"] = "2s"

	cfg, err := FromEnv(env(m))
	require.NoError(t, err)
	assert.Equal(t, "Bot already-prefixed", cfg.DiscordToken)
	assert.Equal(t, []string{"r1", "r2"}, cfg.AdminRoleIDs)
	assert.Equal(t, 90*time.Minute, cfg.SuggestionWindow)
	assert.Equal(t, 3, cfg.Thresholds().Accept)
	assert.Equal(t, 2, cfg.Thresholds().Reject)
	assert.Equal(t, 4, cfg.MaxPendingPerAuthor)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 2*time.Second, cfg.StatusQueryTimeout)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing token", "DISCORD_BOT_TOKEN", ""},
		{"missing guild", "DISCORD_GUILD_ID", ""},
		{"bad window", "SUGGESTION_WINDOW", "three days"},
		{"negative window", "SUGGESTION_WINDOW", "-1h"},
		{"bad threshold", "SUGGESTION_ACCEPT_THRESHOLD", "ten"},
		{"zero threshold", "SUGGESTION_REJECT_THRESHOLD", "0"},
		{"negative cap", "SUGGESTION_MAX_PENDING_PER_AUTHOR", "-1"},
		{"zero status timeout", "STATUS_QUERY_TIMEOUT", "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			m[tt.key] = tt.val
			_, err := FromEnv(env(m))
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsProcessEnv(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "xyz")
	t.Setenv("DISCORD_GUILD_ID", "g2")
	t.Setenv("STATUS_CHANNEL_ID", "c9")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "g2", cfg.DiscordGuild)
	assert.Equal(t, "c9", cfg.StatusChannelID)
}
