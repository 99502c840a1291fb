package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"communityboard/internal/model"
	"communityboard/internal/repository"
)

// LoginRecordWorker drains the login-record queue into the store. Login
// requests only publish; this is the single writer of login_records.
type LoginRecordWorker struct {
	conn      *amqp.Connection
	repo      *repository.LoginRecordRepository
	queueName string
	log       *logrus.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLoginRecordWorker(conn *amqp.Connection, repo *repository.LoginRecordRepository, queueName string, log *logrus.Logger) *LoginRecordWorker {
	return &LoginRecordWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
		log:       log,
	}
}

func (w *LoginRecordWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var record model.LoginRecord
				if err := json.Unmarshal(d.Body, &record); err != nil {
					w.log.WithError(err).Warn("decode login record failed")
					_ = d.Nack(false, false)
					continue
				}

				if err := w.repo.Create(workerCtx, &record); err != nil {
					w.log.WithError(err).Warn("persist login record failed")
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *LoginRecordWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
