package mailer

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/hossamkoky599/crowdfund/internal/config"
	"github.com/hossamkoky599/crowdfund/internal/infra/queue"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Worker drains the mail queue and delivers through resend. Email is
// best-effort end to end: a failed delivery is logged and the message
// requeued once via nack.
type Worker struct {
	client *resend.Client
	from   string
	queue  string
	conn   *amqp.Connection
	pre    int
	log    *zap.Logger
}

func NewWorker(conn *amqp.Connection, cfg *config.Config, log *zap.Logger) *Worker {
	var client *resend.Client
	if cfg.Mail.APIKey != "" {
		client = resend.NewClient(cfg.Mail.APIKey)
	}
	return &Worker{
		client: client,
		from:   cfg.Mail.From,
		queue:  cfg.RabbitMQ.MailQueue,
		conn:   conn,
		pre:    cfg.RabbitMQ.Prefetch,
		log:    log,
	}
}

// Run consumes until the context is canceled or the delivery channel closes.
func (w *Worker) Run(ctx context.Context) error {
	deliveries, err := queue.Consume(w.conn, w.queue, w.pre)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var job Job
	if err := sonic.Unmarshal(d.Body, &job); err != nil {
		w.log.Sugar().Errorw("mail job unmarshal failed, dropping", "err", err)
		_ = d.Nack(false, false)
		return
	}

	if err := w.send(ctx, job); err != nil {
		// Requeue only first-time failures, otherwise drop to avoid a
		// poison-message loop.
		w.log.Sugar().Errorw("mail delivery failed", "to", job.To, "subject", job.Subject, "err", err)
		_ = d.Nack(false, !d.Redelivered)
		return
	}

	w.log.Sugar().Infow("mail delivered", "to", job.To, "subject", job.Subject)
	_ = d.Ack(false)
}

func (w *Worker) send(ctx context.Context, job Job) error {
	if w.client == nil {
		// No API key configured; log-only mode for local development.
		w.log.Sugar().Infow("mail sent (dev mode)", "to", job.To, "subject", job.Subject, "body", job.Body)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    w.from,
		To:      []string{job.To},
		Subject: job.Subject,
		Text:    job.Body,
	}
	_, err := w.client.Emails.SendWithContext(ctx, params)
	return err
}
