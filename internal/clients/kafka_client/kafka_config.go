package kafka_client

import "os"

// KafkaConfig carries the broker wiring shared by the collector's
// producer and the scrub worker's consumer. Everything defaults to the
// local compose setup.
type KafkaConfig struct {
	Broker          string
	GroupID         string
	Topic           string
	TransactionalID string
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Broker:          envOr("KAFKA_BROKER", "localhost:29092"),
		GroupID:         envOr("KAFKA_CONSUMER_GROUP_ID", "civicsift-scrub-group"),
		Topic:           envOr("KAFKA_CONSUMER_TOPIC", KAFKA_TOPIC_RAW_RECORDS),
		TransactionalID: envOr("KAFKA_TRANSACTIONAL_ID", "civicsift-collector-1"),
	}
}
