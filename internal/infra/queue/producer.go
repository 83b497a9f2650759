package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
)

type NotificationPayload struct {
	LeadID string     `json:"lead_id"`
	Email  mail.Email `json:"email"`
}

// Publisher é o pedaço do *amqp.Channel que o producer usa.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQProducer is the queued Notifier: the request only waits for the
// broker to accept the message, the worker does the SMTP delivery.
type RabbitMQProducer struct {
	Ch      Publisher
	Builder mail.ReplyBuilder
}

func NewProducer(ch Publisher, builder mail.ReplyBuilder) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch, Builder: builder}
}

func (p *RabbitMQProducer) Notify(ctx context.Context, lead *entity.Lead) error {
	email, err := p.Builder.Build(lead)
	if err != nil {
		return err
	}

	body, err := json.Marshal(NotificationPayload{LeadID: lead.ID, Email: email})
	if err != nil {
		return eris.Wrap(err, "rabbitmq: marshal notification")
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    lead.ID,
		},
	)
	return eris.Wrap(err, "rabbitmq: publish notification")
}
