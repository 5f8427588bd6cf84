package kafka_client

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/peh-research/civicsift/internal/models"
)

// Pending pairs a decoded record with the message handle the worker
// commits once the record's row has landed.
type Pending struct {
	Record  models.RawRecord
	Message *kafka.Message
}

// RecordStream decodes raw records off a consumer. Reads poll with a
// short timeout so periodic work and shutdown are never starved by a
// quiet topic, and undecodable payloads are skipped instead of wedging
// the partition.
type RecordStream struct {
	consumer *kafka.Consumer
}

func NewRecordStream(consumer *kafka.Consumer) *RecordStream {
	return &RecordStream{consumer: consumer}
}

// Poll waits up to POLL_TIMEOUT for the next record. A nil result with
// a nil error means the wait timed out; callers run their periodic
// work and poll again. A non-nil error means the stream is done.
func (rs *RecordStream) Poll(ctx context.Context) (*Pending, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg, err := rs.consumer.ReadMessage(POLL_TIMEOUT)
	if err != nil {
		if kafkaErr, ok := err.(kafka.Error); ok {
			switch kafkaErr.Code() {
			case kafka.ErrTimedOut:
				return nil, nil
			case kafka.ErrAllBrokersDown:
				slog.Error("[RecordStream] All Kafka brokers are down")
				return nil, err
			}
		}
		slog.Warn("[RecordStream] Read failed, continuing",
			slog.String("error", err.Error()))
		return nil, nil
	}

	var record models.RawRecord
	if err := json.Unmarshal(msg.Value, &record); err != nil {
		slog.Warn("[RecordStream] Skipping undecodable message",
			slog.String("topic_partition", msg.TopicPartition.String()),
			slog.String("error", err.Error()))
		return nil, nil
	}
	return &Pending{Record: record, Message: msg}, nil
}
