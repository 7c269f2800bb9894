package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"omniplan/internal/config"
	appLog "omniplan/internal/log"
	"omniplan/internal/notify"
	"omniplan/internal/state"
	"omniplan/internal/store"
	"omniplan/internal/suggest"
	"omniplan/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
}

func main() {
	flags := parseFlags()

	// Secrets (the suggestion API key) come from the environment; a
	// local .env file is honored when present.
	if err := godotenv.Load(); err != nil {
		appLog.Debug("no .env file found, relying on OS environment")
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	appLog.Info("omniplan starting",
		"listen", conf.Listen,
		"redis_url", conf.RedisURL,
		"key_prefix", conf.KeyPrefix,
		"notify_cron", conf.NotifyCron,
		"notify_window_days", conf.NotifyWindowDays,
		"suggest_model", conf.Suggest.Model,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	st, err := store.New(ctx, conf.RedisURL, conf.KeyPrefix)
	if err != nil {
		appLog.Error("failed to connect to document store", err, "redis_url", conf.RedisURL)
		os.Exit(1)
	}
	defer st.Close()

	manager := state.NewManager(st)
	if err := manager.Start(ctx); err != nil {
		appLog.Error("failed to start state manager", err)
		os.Exit(1)
	}
	defer manager.Stop()

	reminder := notify.NewReminder(manager, conf.NotifyWindowDays)
	if err := reminder.Start(conf.NotifyCron); err != nil {
		appLog.Error("failed to start reminder schedule", err, "cron", conf.NotifyCron)
		os.Exit(1)
	}
	defer reminder.Stop()

	suggester := suggest.NewClient(
		conf.Suggest.BaseURL,
		conf.Suggest.Model,
		os.Getenv("GEMINI_API_KEY"),
		time.Duration(conf.Suggest.TimeoutSeconds)*time.Second,
	)

	server := web.NewServer(manager, suggester)
	httpServer := &http.Server{
		Addr:              conf.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLog.Error("http shutdown failed", err)
		}
	}()

	appLog.Info("http server listening", "addr", "http://"+conf.Listen)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Error("http server failed", err)
		os.Exit(1)
	}

	appLog.Info("omniplan exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig
	flag.StringVar(&cfg.configPath, "config", "./omniplan.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.Parse()
	return cfg
}
