package kafka_client

import "time"

const (
	KAFKA_TOPIC_RAW_RECORDS = "raw-records" // collected rows awaiting deidentification
)

const (
	MAX_RETRIES     = 5
	RETRY_DELAY     = 2 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	POLL_TIMEOUT    = 1 * time.Second
	PUBLISH_RETRIES = 3
)
