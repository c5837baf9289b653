// Package server implements the "topicnotes server" CLI subcommand.
package server

import (
	"context"
	"flag"
	"log/slog"
	"strings"
	"time"

	"topicnotes/internal/config"
	"topicnotes/internal/db"
	"topicnotes/internal/httpapi"
	"topicnotes/internal/logging"
	"topicnotes/internal/notes"
)

// sweepInterval is how often expired sessions are purged.
const sweepInterval = 15 * time.Minute

type Options struct {
	ConfigPath string
	LogLevel   string

	DBPath       string
	BindAddr     string
	Port         int
	TLSCertPath  string
	TLSKeyPath   string
	SessionTTL   time.Duration
	StoreTimeout time.Duration
}

func Run(args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	var opt Options
	fs.StringVar(&opt.ConfigPath, "config", "", "path to topicnotes.yaml (when set, other flags are ignored)")
	fs.StringVar(&opt.LogLevel, "log-level", "", "log level: debug|info|warning|error")
	fs.StringVar(&opt.DBPath, "db", "./topicnotes.db", "sqlite database path")
	fs.StringVar(&opt.BindAddr, "bind", "127.0.0.1", "bind address")
	fs.IntVar(&opt.Port, "port", 5180, "HTTP port")
	fs.StringVar(&opt.TLSCertPath, "tls-cert", "", "TLS certificate path (serves HTTPS when set with -tls-key)")
	fs.StringVar(&opt.TLSKeyPath, "tls-key", "", "TLS key path")
	fs.DurationVar(&opt.SessionTTL, "session-ttl", notes.DefaultSessionTTL, "session lifetime")
	fs.DurationVar(&opt.StoreTimeout, "store-timeout", notes.DefaultStoreTimeout, "per-operation store timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if opt.ConfigPath != "" {
		c, err := config.Load(opt.ConfigPath)
		if err != nil {
			return err
		}
		level := c.Log.Level
		// CLI overrides config.
		if strings.TrimSpace(opt.LogLevel) != "" {
			level = opt.LogLevel
		}
		lg, err := logging.New(logging.Options{Level: level, JSON: c.Log.JSON})
		if err != nil {
			return err
		}
		return serve(context.Background(), Options{
			DBPath:       c.DB.Path,
			BindAddr:     c.HTTP.Bind,
			Port:         c.HTTP.Port,
			TLSCertPath:  c.HTTP.TLS.CertPath,
			TLSKeyPath:   c.HTTP.TLS.KeyPath,
			SessionTTL:   time.Duration(c.Session.TTLHours) * time.Hour,
			StoreTimeout: time.Duration(c.Store.TimeoutMS) * time.Millisecond,
		}, lg)
	}

	lg, err := logging.New(logging.Options{Level: opt.LogLevel})
	if err != nil {
		return err
	}
	return serve(context.Background(), opt, lg)
}

func serve(ctx context.Context, opt Options, lg *slog.Logger) error {
	d, err := db.Open(ctx, opt.DBPath)
	if err != nil {
		return err
	}
	defer d.Close()

	credentials := notes.NewCredentials(d, opt.StoreTimeout)
	sessions := notes.NewSessions(d, opt.SessionTTL, opt.StoreTimeout)
	repo := notes.NewRepository(d, opt.StoreTimeout)

	go sweepLoop(ctx, sessions, lg)

	api := &httpapi.Server{
		Logger:      lg,
		Credentials: credentials,
		Sessions:    sessions,
		Repo:        repo,
		BindAddr:    opt.BindAddr,
		Port:        opt.Port,
		CertPath:    opt.TLSCertPath,
		KeyPath:     opt.TLSKeyPath,
	}
	lg.Info("starting server", "bind", opt.BindAddr, "port", opt.Port, "tls", opt.TLSCertPath != "")
	return api.ListenAndServe()
}

func sweepLoop(ctx context.Context, sessions *notes.Sessions, lg *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			n, err := sessions.Sweep(ctx)
			if err != nil {
				lg.Warn("session sweep failed", "err", err)
				continue
			}
			if n > 0 {
				lg.Debug("swept expired sessions", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
