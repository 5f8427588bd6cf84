package kafka_client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// OffsetCommitter commits message offsets with bounded retries.
// Commits happen only after the record's output has been written, so a
// crash between write and commit replays the batch rather than losing
// it.
type OffsetCommitter struct {
	consumer *kafka.Consumer
}

func NewOffsetCommitter(consumer *kafka.Consumer) *OffsetCommitter {
	return &OffsetCommitter{consumer: consumer}
}

func (oc *OffsetCommitter) Commit(ctx context.Context, msg *kafka.Message) error {
	backoff := RETRY_DELAY

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, err := oc.consumer.CommitMessage(msg)
		if err == nil {
			slog.Debug("[OffsetCommitter] Committed offset",
				slog.Int("partition", int(msg.TopicPartition.Partition)),
				slog.Int64("offset", int64(msg.TopicPartition.Offset)))
			return nil
		}

		if kafkaErr, ok := err.(kafka.Error); ok && kafkaErr.Code() == kafka.ErrAllBrokersDown {
			return fmt.Errorf("[OffsetCommitter] All brokers down: %w", err)
		}

		slog.Warn("[OffsetCommitter] Commit failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("partition", int(msg.TopicPartition.Partition)),
			slog.Int64("offset", int64(msg.TopicPartition.Offset)),
			slog.String("error", err.Error()))

		time.Sleep(backoff)
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	return fmt.Errorf("[OffsetCommitter] Failed to commit offset %d on partition %d after %d attempts",
		int64(msg.TopicPartition.Offset), msg.TopicPartition.Partition, MAX_RETRIES)
}
