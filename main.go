package main

import (
	"StorePing/bot"
	"StorePing/impl/relay"
	"StorePing/internal/config"
	"StorePing/internal/database"
	"StorePing/internal/http-server/api"
	"StorePing/internal/lib/logger"
	"StorePing/internal/lib/sl"
	"StorePing/internal/service/auth"
	"StorePing/internal/service/chat"
	"StorePing/internal/service/notify"
	"flag"
	"log/slog"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// Initialize Telegram bot if enabled
	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", slog.String("error", err.Error()))
		} else {
			// Set up Telegram handler for the logger
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting storeping", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := relay.New(lg)

	authService := auth.NewAuthService(lg)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		authService.SetRepository(db)
		handler.SetRepository(db)
		handler.SetAuthService(authService)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	dispatcher := notify.NewDispatcher(conf, lg)
	handler.SetDispatcher(dispatcher)

	engine := chat.NewEngine(lg)
	engine.SetNotifier(dispatcher)
	if db != nil {
		engine.SetStore(db)
		engine.SetTenantSource(db)
	}
	handler.SetChatEngine(engine)

	if tgBot != nil {
		tgBot.SetCore(handler)
		dispatcher.SetSender(tgBot)

		if db != nil {
			scheduler := notify.NewSummaryScheduler(dispatcher, conf.Summary.Hour, conf.Summary.Minute, lg)
			scheduler.SetTenantSource(db)
			scheduler.SetStatsSource(handler)
			scheduler.SetSender(tgBot)
			if err := scheduler.Start(); err != nil {
				lg.Error("summary scheduler", sl.Err(err))
			}
			defer scheduler.Stop()
		}

		// Start the bot in a goroutine
		go func() {
			if err := tgBot.Start(); err != nil {
				lg.Error("telegram bot error", slog.String("error", err.Error()))
			}
		}()
	}

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
