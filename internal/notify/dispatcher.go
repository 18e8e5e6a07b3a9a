package notify

import (
	"context"
	"strconv"
	"time"

	"github.com/skyops/flightbooking/internal/kafka"
)

// Dispatcher delivers passenger notifications. Fire-and-forget from the
// saga's perspective: the orchestrator logs failures but never retries or
// rolls back because of them.
type Dispatcher interface {
	Notify(ctx context.Context, notice kafka.BookingNotice) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// KafkaDispatcher publishes notices to the notifications topic; the worker
// consumes them and hands each to the email sender.
type KafkaDispatcher struct {
	producer Producer
	topic    string
	timeout  time.Duration
}

func NewKafkaDispatcher(producer Producer, topic string, timeout time.Duration) *KafkaDispatcher {
	return &KafkaDispatcher{producer: producer, topic: topic, timeout: timeout}
}

func (d *KafkaDispatcher) Notify(ctx context.Context, notice kafka.BookingNotice) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return d.producer.Publish(ctx, d.topic, strconv.FormatInt(notice.BookingID, 10), notice)
}

var _ Dispatcher = (*KafkaDispatcher)(nil)
