package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"hwbot/internal/config"
	"hwbot/internal/notify"
	"hwbot/internal/poller"
	"hwbot/internal/practicum"
	"hwbot/internal/transport"
	"hwbot/internal/transport/telegram"
	"hwbot/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config file (yaml or json)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfgPath); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	// Secrets are checked before anything else so a misconfigured unit
	// fails fast instead of polling with a bad token.
	secrets, err := config.LoadSecrets()
	if err != nil {
		return err
	}

	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	logSvc, log := logx.New(logConfig(cfg))
	defer logSvc.Close()
	mgr.SetLogger(log.With(logx.String("component", "config")))
	mgr.SetValidator(validateConfig)

	timeout, err := cfg.HTTPTimeout()
	if err != nil {
		return err
	}
	sched, err := poller.ParseSchedule(cfg.Poll.Schedule)
	if err != nil {
		return fmt.Errorf("poll.schedule: %w", err)
	}

	adapter, err := telegram.New(secrets.TelegramToken, log.With(logx.String("component", "telegram")))
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	log.Info("bot initialized",
		logx.Int64("chat_id", secrets.ChatID),
		logx.String("schedule", sched.String()))

	target := transport.ChatTarget{ChatID: secrets.ChatID, ThreadID: cfg.Telegram.ThreadID}
	notifier := notify.New(adapter, target, cfg.Telegram.RatePerSec, log.With(logx.String("component", "notify")))
	client := practicum.NewClient(cfg.Poll.Endpoint, secrets.PracticumToken, timeout, log.With(logx.String("component", "practicum")))
	p := poller.New(client, notifier, sched, log.With(logx.String("component", "poller")))

	// Config hot reload: log level and schedule apply without a restart.
	// Secrets are env-only and never reloaded.
	sub := mgr.Subscribe(1)
	defer mgr.Unsubscribe(sub)
	go func() {
		if err := mgr.Watch(ctx); err != nil {
			log.Warn("config watch stopped", logx.Err(err))
		}
	}()
	go func() {
		for next := range sub {
			logSvc.Apply(logConfig(next))
			s, err := poller.ParseSchedule(next.Poll.Schedule)
			if err != nil {
				// Watch() validates before publishing, so this only
				// trips if the validator and parser ever disagree.
				log.Warn("reloaded schedule rejected", logx.Err(err))
				continue
			}
			p.SetSchedule(s)
		}
	}()

	notifySystemd(ctx, log)

	err = p.Run(ctx)
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	log.Info("shutdown complete")
	return err
}

func validateConfig(cfg *config.Config) error {
	if _, err := poller.ParseSchedule(cfg.Poll.Schedule); err != nil {
		return fmt.Errorf("poll.schedule: %w", err)
	}
	if _, err := cfg.HTTPTimeout(); err != nil {
		return err
	}
	return nil
}

func logConfig(cfg *config.Config) logx.Config {
	console := true
	if cfg.Logging.Console != nil {
		console = *cfg.Logging.Console
	}
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

// notifySystemd reports readiness and keeps the watchdog fed when the unit
// has one configured. Outside systemd both calls are no-ops.
func notifySystemd(ctx context.Context, log logx.Logger) {
	if ok, _ := daemon.SdNotify(false, daemon.SdNotifyReady); ok {
		log.Debug("systemd readiness reported")
	}
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval / 2)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}()
}
