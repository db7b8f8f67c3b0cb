package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const rentalQueueName = "rental.created"

// Publisher pushes rental events onto the broker. Each publish opens a
// short-lived connection; message volume here is a handful per rental,
// not a stream.
type Publisher struct {
	url    string
	logger *zerolog.Logger
}

// NewPublisher builds a Publisher for the given AMQP URL.
func NewPublisher(url string, logger *zerolog.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishRentalCreated publishes the event to the rental.created queue.
// Messages are marked persistent so they survive a broker restart. Any
// error is logged and returned so the caller can choose to ignore it.
func (p *Publisher) PublishRentalCreated(ctx context.Context, ev RentalCreatedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Error().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Error().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// idempotent declare; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(rentalQueueName, true, false, false, false, nil); err != nil {
		p.logger.Error().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",              // default exchange
		rentalQueueName, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		pub,
	); err != nil {
		p.logger.Error().Err(err).Msg("rabbitmq: publish failed")
		return err
	}

	return nil
}
