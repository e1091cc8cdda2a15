package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusnest/sublet-market/internal/api"
	"github.com/campusnest/sublet-market/internal/api/handler"
	"github.com/campusnest/sublet-market/internal/core/ports"
	"github.com/campusnest/sublet-market/internal/core/service"
	redisdb "github.com/campusnest/sublet-market/internal/infrastructure/db/redis"
	"github.com/campusnest/sublet-market/internal/infrastructure/mail"
	"github.com/campusnest/sublet-market/internal/infrastructure/queue"
	"github.com/campusnest/sublet-market/internal/infrastructure/realtime"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	var port string
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long:  "Start the HTTP API, the notification workers and the realtime message hub. Stops gracefully on SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, port, migrate)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "override PORT")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "ensure MongoDB indexes before serving")

	return cmd
}

func runServe(ctx context.Context, port string, migrate bool) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	a, err := openApp(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	if migrate {
		if err := a.repos.EnsureIndexes(ctx); err != nil {
			return err
		}
	}

	// Background workers outlive the signal context. They are cancelled once
	// the HTTP server has stopped and the dispatcher drains its queue then.
	bgCtx, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()

	var mailer ports.Mailer
	smtpCfg := mail.SMTPConfig{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	}
	if smtpCfg.IsConfigured() {
		mailer = mail.NewSMTPMailer(smtpCfg)
	} else {
		log.Warn().Msg("SMTP not configured, emails will only be logged")
		mailer = mail.NewLogMailer(log)
	}

	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, mailer, log)
	dispatcher.Start(bgCtx)

	hub := realtime.NewHub(log)
	hubDone := make(chan struct{})
	go func() {
		hub.Run(bgCtx)
		close(hubDone)
	}()

	tokens := redisdb.NewTokenStore(a.redis)
	cascade := service.NewCascade(a.repos.Users, a.repos.Listings, a.repos.Saved, a.repos.Messages, a.repos.Reports)

	svc := api.Services{
		Auth:       service.NewAuthService(a.repos.Users, tokens, dispatcher, cfg.JWTSecret, cfg.JWTTTL, cfg.BaseURL, log),
		Users:      service.NewUserService(a.repos.Users, cascade, log),
		Listings:   service.NewListingService(a.repos.Listings, a.repos.Saved, a.repos.Users, cascade, log),
		Messages:   service.NewMessageService(a.repos.Messages, a.repos.Users, a.repos.Listings, dispatcher, hub, cfg.BaseURL, log),
		Moderation: service.NewModerationService(a.repos.Reports, a.repos.Listings, a.repos.Users, cascade, dispatcher, log),
	}

	e := api.NewRouter(api.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins(),
		Streams:        hub,
		Checks:         []handler.DependencyCheck{handler.MongoCheck(a.db), handler.RedisCheck(a.redis)},
		Logger:         log,
	}, svc)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			cancelBg()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	cancelBg()
	dispatcher.Wait()
	<-hubDone

	log.Info().Msg("server stopped")
	return nil
}
