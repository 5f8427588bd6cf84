package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/peh-research/civicsift/internal/models"
)

var producer *kafka.Producer

func InitKafkaProducer(cfg KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("transactional_id", cfg.TransactionalID))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
		"transactional.id":                      cfg.TransactionalID,
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	if err := p.InitTransactions(context.Background()); err != nil {
		p.Close()
		return fmt.Errorf("[KafkaClient] Failed to init transactions: %w", err)
	}

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func CloseKafkaProducer() {
	if producer == nil {
		return
	}
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	producer.Close()
	producer = nil
	slog.Info("[KafkaClient] Kafka producer shut down")
}

// PublishToKafka sends a collected record to Kafka inside a transaction,
// keyed by the record ID so replays land on the same partition.
func PublishToKafka(topic string, record models.RawRecord) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to marshal record %s: %w", record.RecordID, err)
	}

	if err := producer.BeginTransaction(); err != nil {
		return fmt.Errorf("[KafkaClient] Failed to begin transaction: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(record.RecordID),
		Value:          jsonData,
	}

	if err := produceWithRetry(msg); err != nil {
		abortTransaction(record.RecordID)
		return err
	}
	if err := commitWithRetry(); err != nil {
		abortTransaction(record.RecordID)
		return err
	}

	slog.Debug("[KafkaClient] Published record to Kafka transactionally",
		slog.String("topic", topic),
		slog.String("record_id", record.RecordID),
		slog.String("source", record.Source),
		slog.String("city", record.City))

	return nil
}

func produceWithRetry(msg *kafka.Message) error {
	var err error
	for attempt := 1; attempt <= PUBLISH_RETRIES; attempt++ {
		if err = producer.Produce(msg, nil); err == nil {
			return nil
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		time.Sleep(RETRY_DELAY)
	}
	return fmt.Errorf("[KafkaClient] Failed to produce message after %d attempts: %w", PUBLISH_RETRIES, err)
}

func commitWithRetry() error {
	var err error
	for attempt := 1; attempt <= PUBLISH_RETRIES; attempt++ {
		if err = producer.CommitTransaction(context.Background()); err == nil {
			return nil
		}
		slog.Warn("[KafkaClient] Failed to commit transaction, retrying...",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		time.Sleep(RETRY_DELAY)
	}
	return fmt.Errorf("[KafkaClient] Failed to commit transaction after %d attempts: %w", PUBLISH_RETRIES, err)
}

// abortTransaction cleans up after a failed produce or commit. The
// original error is what the caller reports, so abort failures are
// only logged.
func abortTransaction(recordID string) {
	if err := producer.AbortTransaction(context.Background()); err != nil {
		slog.Error("[KafkaClient] Failed to abort transaction",
			slog.String("record_id", recordID),
			slog.String("error", err.Error()))
	}
}
