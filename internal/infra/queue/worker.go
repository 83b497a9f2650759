package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/resilience"
)

type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Sender  mail.Sender
	Timeout time.Duration
	Retry   resilience.RetryConfig
}

func NewWorker(ch Consumer, sender mail.Sender, timeout time.Duration, retry resilience.RetryConfig) *Worker {
	return &Worker{
		Channel: ch,
		Sender:  sender,
		Timeout: timeout,
		Retry:   retry,
	}
}

// Start consome a fila até o ctx acabar ou o canal de entregas fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return eris.Wrap(err, "rabbitmq: register consumer")
	}

	zap.L().Info("worker aguardando na fila", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return eris.New("rabbitmq: delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload NotificationPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		zap.L().Error("payload inválido, enviando para DLQ", zap.Error(err))
		d.Nack(false, false)
		return
	}

	if err := w.process(ctx, payload); err != nil {
		// desligando no meio do envio: devolve para a fila em vez da DLQ
		if ctx.Err() != nil {
			zap.L().Warn("worker encerrando, resposta volta para a fila",
				zap.String("lead_id", payload.LeadID),
				zap.Error(err),
			)
			d.Nack(false, true)
			return
		}
		zap.L().Error("falha ao enviar resposta do lead",
			zap.String("lead_id", payload.LeadID),
			zap.Error(err),
		)
		d.Nack(false, false)
		return
	}

	zap.L().Info("resposta enviada", zap.String("lead_id", payload.LeadID))
	d.Ack(false)
}

func (w *Worker) process(ctx context.Context, payload NotificationPayload) error {
	cfg := w.Retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("smtp", "send reply")
	}

	return resilience.Do(ctx, cfg, func(ctx context.Context) error {
		if w.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, w.Timeout)
			defer cancel()
		}
		return w.Sender.Send(ctx, payload.Email)
	})
}
