// Lambda programada (EventBridge) que corre una pasada del scan de sugerencias.
// Comparte el registro Postgres con el bot: el Take atómico evita evaluar dos veces.
package main

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	discordrouter "github.com/horizonrelax/community-bot/internal/adapters/discord"
	"github.com/horizonrelax/community-bot/internal/app/service"
	"github.com/horizonrelax/community-bot/internal/infra/config"
	"github.com/horizonrelax/community-bot/internal/infra/logging"
	"github.com/horizonrelax/community-bot/internal/infra/scheduler"
	"github.com/horizonrelax/community-bot/internal/infra/storage"
)

type scanResult struct {
	Due       int `json:"due"`
	Evaluated int `json:"evaluated"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

type scanner struct {
	svc   *service.SuggestionService
	clock service.Clock
	log   *zap.Logger
}

func (sc *scanner) handle(ctx context.Context, ev events.CloudWatchEvent) (scanResult, error) {
	sc.log.Info("scan triggered", zap.String("event_id", ev.ID), zap.Time("event_time", ev.Time))
	rep, err := sc.svc.ScanExpired(ctx, sc.clock.Now())
	if err != nil {
		return scanResult{}, err
	}
	return scanResult{Due: rep.Due, Evaluated: rep.Evaluated, Failed: rep.Failed, Skipped: rep.Skipped}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config", zap.Error(err))
	}
	log, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("scanner needs DATABASE_URL", zap.Error(errors.New("no shared suggestion registry")))
	}

	// el esquema lo migra el bot; cada cold start no repite goose
	db, err := storage.Open(context.Background(), cfg.DatabaseURL, storage.LambdaPool)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}

	// sesión sólo REST: no abrimos el websocket
	s, err := discordgo.New(cfg.DiscordToken)
	if err != nil {
		log.Fatal("discord session", zap.Error(err))
	}

	clock := scheduler.SystemClock{}
	svc := service.NewSuggestionService(discordrouter.NewGateway(s), storage.NewSuggestionRepo(db), clock, service.SuggestionConfig{
		GuildID:         cfg.DiscordGuild,
		ChannelID:       cfg.SuggestionChannelID,
		NotifyRoleID:    cfg.SuggestionRoleID,
		ReviewChannelID: cfg.ReviewChannelID,
		ReviewRoleID:    cfg.ReviewRoleID,
		Window:          cfg.SuggestionWindow,
		Thresholds:      cfg.Thresholds(),
	}, log)

	sc := &scanner{svc: svc, clock: clock, log: log.Named("scanner")}
	lambda.Start(sc.handle)
}
