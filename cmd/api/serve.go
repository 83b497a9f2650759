package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

var (
	servePort      int
	embeddedWorker bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		var rabbit *queue.RabbitMQ
		var broker handlers.BrokerStatus
		if cfg.Mail.Mode == config.ModeQueue {
			rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQ.URL)
			if err != nil {
				return err
			}
			defer rabbit.Close()
			broker = rabbit
		}

		client := newCompleter(cfg.Anthropic)

		qualifyUC, err := newQualifyLeadUseCase(cfg, store, client, rabbit)
		if err != nil {
			return err
		}

		var limiter *handlers.RateLimiter
		if cfg.RateLimit.Enabled {
			limiter = handlers.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		}

		router := handlers.NewRouter(handlers.RouterConfig{
			Lead:           handlers.NewLeadHandler(qualifyUC, usecase.NewListLeadsUseCase(store), limiter),
			AI:             handlers.NewAIHandler(usecase.NewPromptUseCase(client)),
			Health:         handlers.NewHealthHandler(store, broker, client != nil),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		})

		port := servePort
		if port == 0 {
			port = cfg.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			zap.L().Info("starting server",
				zap.Int("port", port),
				zap.String("store", cfg.Store.Driver),
				zap.String("classifier", cfg.Pipeline.Classifier),
				zap.String("mail_mode", cfg.Mail.Mode),
			)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if limiter != nil {
			g.Go(func() error {
				limiter.Run(gctx, 10*time.Minute)
				return nil
			})
		}

		if rabbit != nil && embeddedWorker {
			worker := queue.NewWorker(rabbit.Ch, newEmailSender(cfg.Mail), cfg.Pipeline.StageTimeout, cfg.Pipeline.Retry())
			g.Go(func() error {
				return worker.Start(gctx, queue.QueueName)
			})
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&embeddedWorker, "with-worker", false, "also consume the reply queue in this process (mail.mode=queue)")
	rootCmd.AddCommand(serveCmd)
}
