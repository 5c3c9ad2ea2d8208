package mailer

import (
	"context"

	"github.com/careerpath/careerpath-api/pkg/helpers"
)

// Publisher enqueues email jobs onto the broker. A Publisher without a
// broker behind it silently drops jobs, so callers stay nil-safe when
// RabbitMQ is not configured.
type Publisher struct {
	MQ *helpers.RabbitPublisher
}

func NewPublisher(mq *helpers.RabbitPublisher) *Publisher {
	return &Publisher{MQ: mq}
}

func (p *Publisher) Enqueue(ctx context.Context, job EmailJob) error {
	if p == nil || p.MQ == nil {
		return nil
	}
	return p.MQ.PublishJSON(ctx, job)
}
