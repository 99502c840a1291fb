package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"communityboard/internal/model"
)

// LoginRecordPublisher hands login events to the persist queue. The auth
// service treats publish failures as non-fatal; durability here is about
// not losing events once the broker accepted them.
type LoginRecordPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewLoginRecordPublisher(conn *amqp.Connection, queueName string) *LoginRecordPublisher {
	return &LoginRecordPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *LoginRecordPublisher) Record(ctx context.Context, record model.LoginRecord) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal login record failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish login record failed: %w", err)
	}
	return nil
}
