package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	discordrouter "github.com/horizonrelax/community-bot/internal/adapters/discord"
	"github.com/horizonrelax/community-bot/internal/adapters/mcstatus"
	"github.com/horizonrelax/community-bot/internal/app/service"
	"github.com/horizonrelax/community-bot/internal/infra/config"
	"github.com/horizonrelax/community-bot/internal/infra/logging"
	"github.com/horizonrelax/community-bot/internal/infra/scheduler"
	"github.com/horizonrelax/community-bot/internal/infra/storage"
)

const clickWindow = time.Second

// stores agrupa los puertos de persistencia (Postgres o memoria).
type stores struct {
	tickets     service.TicketRegistry
	suggestions service.SuggestionRegistry
	protection  service.ProtectionStore
	panels      service.PanelStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// todavía no hay logger configurado
		zap.NewExample().Fatal("config", zap.Error(err))
	}
	log, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	st, db := openStores(cfg, log)
	if db != nil {
		defer db.Close()
	}

	// Discord
	s, err := discordgo.New(cfg.DiscordToken)
	if err != nil {
		log.Fatal("discord session", zap.Error(err))
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	if err := s.Open(); err != nil {
		log.Fatal("discord open", zap.Error(err))
	}
	defer s.Close()
	log.Info("connected", zap.String("user", s.State.User.Username), zap.String("user_id", s.State.User.ID))

	gw := discordrouter.NewGateway(s)
	clock := scheduler.SystemClock{}

	// Services
	ticketSvc := service.NewTicketService(gw, st.tickets, st.panels, clock, service.TicketConfig{
		GuildID:         cfg.DiscordGuild,
		CategoryID:      cfg.TicketCategoryID,
		RatingChannelID: cfg.RatingChannelID,
		StaffRoleID:     cfg.StaffRoleID,
	}, log)
	suggestionSvc := service.NewSuggestionService(gw, st.suggestions, clock, service.SuggestionConfig{
		GuildID:             cfg.DiscordGuild,
		ChannelID:           cfg.SuggestionChannelID,
		NotifyRoleID:        cfg.SuggestionRoleID,
		ReviewChannelID:     cfg.ReviewChannelID,
		ReviewRoleID:        cfg.ReviewRoleID,
		Window:              cfg.SuggestionWindow,
		Thresholds:          cfg.Thresholds(),
		MaxPendingPerAuthor: cfg.MaxPendingPerAuthor,
	}, log)
	protectionSvc := service.NewProtectionService(st.protection, gw, clock, log)
	statusSvc := service.NewStatusService(mcstatus.New(mcstatus.WithTimeout(cfg.StatusQueryTimeout)), gw, st.panels, service.StatusConfig{
		GuildID:   cfg.DiscordGuild,
		Address:   cfg.GameServerAddress,
		ChannelID: cfg.StatusChannelID,
	}, log)

	// Router
	r := discordrouter.NewRouter(s, cfg.DiscordGuild, discordrouter.Services{
		Tickets:     ticketSvc,
		Suggestions: suggestionSvc,
		Protection:  protectionSvc,
		Status:      statusSvc,
	}, newLimiter(cfg, log), cfg.AdminRoleIDs, log)
	if err := r.Register(); err != nil {
		log.Fatal("register commands", zap.Error(err))
	}
	r.Handlers()
	log.Info("commands registered", zap.String("guild_id", cfg.DiscordGuild))

	if cfg.TicketPanelChannelID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := ticketSvc.PublishPanel(ctx, cfg.TicketPanelChannelID); err != nil {
			log.Warn("ticket panel", zap.String("channel_id", cfg.TicketPanelChannelID), zap.Error(err))
		}
		cancel()
	}

	// Jobs
	sched := scheduler.New(log)
	if err := sched.Every(cfg.SuggestionScanSchedule, "suggestion_scan", 5*time.Minute, func(ctx context.Context) {
		if _, err := suggestionSvc.ScanExpired(ctx, clock.Now()); err != nil {
			log.Error("suggestion scan", zap.Error(err))
		}
	}); err != nil {
		log.Fatal("schedule", zap.Error(err))
	}
	if cfg.StatusChannelID != "" {
		if err := sched.Every(cfg.StatusSchedule, "status_refresh", 30*time.Second, func(ctx context.Context) {
			if err := statusSvc.Refresh(ctx); err != nil {
				log.Warn("status refresh", zap.Error(err))
			}
		}); err != nil {
			log.Fatal("schedule", zap.Error(err))
		}
	}
	sched.Start()

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sched.Stop(ctx)
}

// openStores usa Postgres si hay DATABASE_URL; si no, todo vive en memoria.
func openStores(cfg config.Config, log *zap.Logger) (stores, *sql.DB) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL empty; tickets and suggestions are kept in memory")
		return stores{
			tickets:     storage.NewMemoryTickets(),
			suggestions: storage.NewMemorySuggestions(),
			protection:  storage.NewMemoryProtection(),
			panels:      storage.NewMemoryPanels(),
		}, nil
	}

	db, err := storage.Open(context.Background(), cfg.DatabaseURL, storage.BotPool)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	applied, err := storage.Migrate(context.Background(), db)
	if err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}
	log.Info("db ready", zap.Int64s("migrations_applied", applied))
	return stores{
		tickets:     storage.NewTicketRepo(db),
		suggestions: storage.NewSuggestionRepo(db),
		protection:  storage.NewProtectionRepo(db),
		panels:      storage.NewPanelRepo(db),
	}, db
}

func newLimiter(cfg config.Config, log *zap.Logger) discordrouter.ClickLimiter {
	if cfg.RedisAddr == "" {
		return discordrouter.NewMemoryLimiter(clickWindow)
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("unable to reach redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	} else {
		log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}
	return discordrouter.NewRedisLimiter(rdb, clickWindow, log)
}
