package messaging

import (
	"context"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/ports"
)

var _ ports.OutboxPublisher = (*RabbitMQBroker)(nil)

func (rmq *RabbitMQBroker) PublishStudentEnrolled(ctx context.Context, evt ports.StudentEnrolledEvent) error {
	return rmq.publish(ctx, rmq.enrollmentQueue, ports.StudentEnrolledEventType, evt)
}

// PublishBroadcastRequested hands a composed broadcast to the mail workers.
func (rmq *RabbitMQBroker) PublishBroadcastRequested(ctx context.Context, evt ports.BroadcastRequestedEvent) error {
	return rmq.publish(ctx, rmq.broadcastQueue, ports.BroadcastRequestedEventType, evt)
}
