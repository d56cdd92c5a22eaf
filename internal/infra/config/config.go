package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/horizonrelax/community-bot/internal/domain"
)

type Config struct {
	DiscordToken string
	DiscordGuild string
	AdminRoleIDs []string

	DatabaseURL string // vacío = registros en memoria

	RedisAddr     string // vacío = limiter en memoria
	RedisPassword string
	RedisDB       int

	LogLevel string

	// Tickets
	TicketCategoryID     string
	TicketPanelChannelID string
	RatingChannelID      string
	StaffRoleID          string

	// Sugerencias
	SuggestionChannelID    string
	SuggestionRoleID       string
	ReviewChannelID        string
	ReviewRoleID           string
	SuggestionWindow       time.Duration
	SuggestionScanSchedule string
	AcceptThreshold        int
	RejectThreshold        int
	MaxPendingPerAuthor    int

	// Estado del servidor de juego
	GameServerAddress  string
	StatusChannelID    string
	StatusSchedule     string
	StatusQueryTimeout time.Duration
}

// Load lee el .env (si existe) y luego el entorno.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv arma la config desde una función de lookup; los tests pasan la suya.
func FromEnv(getenv func(string) string) (Config, error) {
	p := parser{get: getenv}

	cfg := Config{
		DiscordToken: p.required("DISCORD_BOT_TOKEN"),
		DiscordGuild: p.required("DISCORD_GUILD_ID"),
		AdminRoleIDs: p.list("ADMIN_ROLE_IDS"),

		DatabaseURL: p.str("DATABASE_URL", ""),

		RedisAddr:     p.str("REDIS_ADDR", ""),
		RedisPassword: p.str("REDIS_PASSWORD", ""),
		RedisDB:       p.int("REDIS_DB", 0),

		LogLevel: p.str("LOG_LEVEL", "info"),

		TicketCategoryID:     p.str("TICKET_CATEGORY_ID", ""),
		TicketPanelChannelID: p.str("TICKET_PANEL_CHANNEL_ID", ""),
		RatingChannelID:      p.str("RATING_CHANNEL_ID", ""),
		StaffRoleID:          p.str("STAFF_ROLE_ID", ""),

		SuggestionChannelID:    p.str("SUGGESTION_CHANNEL_ID", ""),
		SuggestionRoleID:       p.str("SUGGESTION_ROLE_ID", ""),
		ReviewChannelID:        p.str("REVIEW_CHANNEL_ID", ""),
		ReviewRoleID:           p.str("REVIEW_ROLE_ID", ""),
		SuggestionWindow:       p.duration("SUGGESTION_WINDOW", domain.DefaultVotingWindow),
		SuggestionScanSchedule: p.str("SUGGESTION_SCAN_SCHEDULE", "@every 1h"),
		AcceptThreshold:        p.int("SUGGESTION_ACCEPT_THRESHOLD", domain.DefaultAcceptThreshold),
		RejectThreshold:        p.int("SUGGESTION_REJECT_THRESHOLD", domain.DefaultRejectThreshold),
		MaxPendingPerAuthor:    p.int("SUGGESTION_MAX_PENDING_PER_AUTHOR", 0),

		GameServerAddress:  p.str("GAME_SERVER_ADDRESS", "play.horizon-relax.org:25567"),
		StatusChannelID:    p.str("STATUS_CHANNEL_ID", ""),
		StatusSchedule:     p.str("STATUS_SCHEDULE", "@every 1m"),
		StatusQueryTimeout: p.duration("STATUS_QUERY_TIMEOUT", 5*time.Second),
	}
	if p.err != nil {
		return Config{}, p.err
	}

	if cfg.SuggestionWindow <= 0 {
		return Config{}, fmt.Errorf("SUGGESTION_WINDOW must be positive, got %s", cfg.SuggestionWindow)
	}
	if cfg.AcceptThreshold < 1 || cfg.RejectThreshold < 1 {
		return Config{}, fmt.Errorf("suggestion thresholds must be >= 1")
	}
	if cfg.StatusQueryTimeout <= 0 {
		return Config{}, fmt.Errorf("STATUS_QUERY_TIMEOUT must be positive, got %s", cfg.StatusQueryTimeout)
	}
	if cfg.MaxPendingPerAuthor < 0 {
		return Config{}, fmt.Errorf("SUGGESTION_MAX_PENDING_PER_AUTHOR must be >= 0")
	}
	if !strings.HasPrefix(strings.ToLower(cfg.DiscordToken), "bot ") {
		cfg.DiscordToken = "Bot " + cfg.DiscordToken
	}
	return cfg, nil
}

// Thresholds de votación configurados.
func (c Config) Thresholds() domain.Thresholds {
	return domain.Thresholds{Accept: c.AcceptThreshold, Reject: c.RejectThreshold}
}

// parser guarda sólo el primer error.
type parser struct {
	get func(string) string
	err error
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.get(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) required(key string) string {
	v := strings.TrimSpace(p.get(key))
	if v == "" {
		p.fail(fmt.Errorf("missing env %s", key))
	}
	return v
}

func (p *parser) int(key string, def int) int {
	raw := strings.TrimSpace(p.get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(fmt.Errorf("env %s: %q is not an integer", key, raw))
		return def
	}
	return n
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(p.get(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(fmt.Errorf("env %s: %q is not a duration", key, raw))
		return def
	}
	return d
}

func (p *parser) list(key string) []string {
	var out []string
	for _, part := range strings.Split(p.get(key), ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
