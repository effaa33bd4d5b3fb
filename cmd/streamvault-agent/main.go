package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"streamvault_agent/db"
	dbRepository "streamvault_agent/db/repository"
	"streamvault_agent/internal/config"
	"streamvault_agent/internal/middleware"

	streamvaultClient "streamvault_agent/internal/client/streamvault-client"
	telegramClient "streamvault_agent/internal/client/telegram-client"
	wsClient "streamvault_agent/internal/client/ws-client"

	dashboardHandler "streamvault_agent/internal/handlers/dashboard"

	chaptersService "streamvault_agent/internal/service/chapters"
	cleanupService "streamvault_agent/internal/service/cleanup"
	"streamvault_agent/internal/service/eventbus"
	mirrorService "streamvault_agent/internal/service/mirror"
	notificationService "streamvault_agent/internal/service/notification"
	"streamvault_agent/internal/service/reconcile"
	recordingService "streamvault_agent/internal/service/recording"
	streamerService "streamvault_agent/internal/service/streamer"
	telegramUpdatesCheck "streamvault_agent/internal/service/telegram_updates_check"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("cannot load config: %v", err)
	}
	cfg.ConfigureLogger(cfg.LogLevel)

	conn, err := sqlx.Connect(cfg.DBDriver, cfg.DBConn)
	if err != nil {
		logrus.Fatalf("cannot connect to db: %v", err)
	}
	defer conn.Close()

	if cfg.DBDriver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	err = db.RunMigrations(conn.DB, cfg.DBDriver, false)
	if err != nil {
		logrus.Fatalf("cannot migrate db: %v", err)
	}

	dbRepo := dbRepository.NewDBRepository(conn)

	var (
		svClient = streamvaultClient.NewStreamVaultClient(cfg.APIURL, cfg.APIToken)
		bus      = eventbus.NewBus(0)
		opts     = reconcile.Options{
			MissPolicy:        reconcile.ParseMissPolicy(cfg.MissPolicy),
			RefetchAfterApply: cfg.RefetchAfterApply,
		}
	)

	streamers := reconcile.NewStreamerStore(svClient, opts)
	if err := streamers.Sync(ctx); err != nil {
		logrus.Warnf("initial streamer sync failed, continuing with an empty list: %v", err)
	}
	streams := reconcile.NewStreamStore(svClient, opts)

	var (
		relay notificationService.Relay
		bot   *tgbotapi.BotAPI
	)
	if cfg.TelegramEnabled() {
		bot, err = tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			logrus.Errorf("telegram relay disabled: %v", err)
		} else {
			logrus.Infof("Authorized on account %s", bot.Self.UserName)
			relay = telegramClient.NewTelegramClient(bot, cfg.TelegramChatID)
		}
	}

	notifications := notificationService.NewNotificationService(
		notificationService.NewQueue(cfg.NotificationMax, cfg.NotificationTTL),
		dbRepo,
		cfg.NotificationHistoryMax,
		streamers,
		relay,
	)

	streamers.Subscribe(bus)
	streams.Subscribe(bus)
	notifications.Subscribe(bus)

	var mirror *mirrorService.Mirror
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logrus.Errorf("redis mirror disabled: %v", err)
		} else {
			mirror = mirrorService.NewMirror(rdb)
			mirror.Subscribe(bus)
		}
	}

	ws := wsClient.NewWSClient(cfg.WSURL, cfg.APIToken, bus)
	ws.OnConnect(func(ctx context.Context) {
		if err := streamers.Sync(ctx); err != nil {
			logrus.Infof("resync after connect: %v", err)
		}
		if err := streams.Sync(ctx); err != nil {
			logrus.Infof("resync after connect: %v", err)
		}
	})

	if bot != nil {
		commands := telegramUpdatesCheck.NewTelegramUpdatesCheckService(bot, cfg.TelegramChatID, streamers, notifications)
		if err := commands.RegisterCommands(); err != nil {
			logrus.Infof("could not register telegram commands: %v", err)
		}
		go commands.Run(ctx)
	}

	go bus.Run(ctx)
	go ws.Run(ctx)
	go streamers.SyncBg(ctx, cfg.ResyncInterval)
	go streams.SyncBg(ctx, cfg.ResyncInterval)

	handler := dashboardHandler.NewDashboardHandler(dashboardHandler.Services{
		Streamers:     streamers,
		Streams:       streams,
		Streamer:      streamerService.NewStreamerService(svClient, streamers),
		Recording:     recordingService.NewRecordingService(svClient, streamers),
		Library:       recordingService.NewStreamLibrary(svClient, streams),
		Chapters:      chaptersService.NewChapterService(svClient, streams),
		Notifications: notifications,
		Cleanup:       cleanupService.NewCleanupService(svClient, dbRepo),
		Admin:         svClient,
		Mirror:        mirror,
		Connection:    ws,
	})

	srv := &http.Server{
		Handler:      middleware.LogRequests(middleware.ConfigureCORS(handler.Router(), cfg.CORSOrigins)),
		Addr:         cfg.AgentAddr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		bus.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("server shutdown: %v", err)
		}
	}()

	logrus.Infof("server start on %s...", cfg.AgentAddr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.Fatal(err)
	}

	logrus.Info("server stopped")
}
