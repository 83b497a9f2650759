package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Deliver queued reply emails from RabbitMQ",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RabbitMQ.URL == "" {
			return eris.New("rabbitmq.url is required")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rabbit.Close()

		// um email por vez por worker
		if err := rabbit.Ch.Qos(1, 0, false); err != nil {
			return eris.Wrap(err, "rabbitmq: set qos")
		}

		worker := queue.NewWorker(rabbit.Ch, newEmailSender(cfg.Mail), cfg.Pipeline.StageTimeout, cfg.Pipeline.Retry())
		return worker.Start(ctx, queue.QueueName)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
