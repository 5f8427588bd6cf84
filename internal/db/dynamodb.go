package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/peh-research/civicsift/internal/clients"
	"github.com/peh-research/civicsift/internal/models"
)

const ARCHIVE_TABLE_NAME = "DeidentifiedRecords"

var dbClient *dynamodb.Client

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

// BatchArchiveRecords writes deidentified records in 25-item batches,
// retrying unprocessed items with doubling backoff. A zero retention
// stores records without a TTL attribute.
func BatchArchiveRecords(ctx context.Context, records []models.ArchiveRecord, retention time.Duration) error {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	var expiresAt int64
	if retention > 0 {
		expiresAt = time.Now().Add(retention).Unix()
	}

	const maxBatchSize = 25
	for i := 0; i < len(records); i += maxBatchSize {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:

			end := i + maxBatchSize
			if end > len(records) {
				end = len(records)
			}

			writeRequests := make([]types.WriteRequest, 0, maxBatchSize)
			for _, record := range records[i:end] {
				item, err := recordToDynamoDBItem(record, expiresAt)
				if err != nil {
					return err
				}
				writeRequests = append(writeRequests, types.WriteRequest{
					PutRequest: &types.PutRequest{
						Item: item,
					},
				})
			}

			out, err := dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					ARCHIVE_TABLE_NAME: writeRequests,
				},
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] Failed to batch write records: %w", err)
			}

			retryCount := 0
			backoff := 500 * time.Millisecond
			for len(out.UnprocessedItems) > 0 && retryCount < 3 {
				time.Sleep(backoff)
				backoff *= 2

				slog.Warn("[DynamoDB] Retrying unprocessed items...",
					slog.Int("attempt", retryCount+1),
					slog.Int("remaining", len(out.UnprocessedItems[ARCHIVE_TABLE_NAME])))

				out, err = dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
					RequestItems: out.UnprocessedItems,
				})
				if err != nil {
					return fmt.Errorf("[DynamoDB] Failed to retry batch write: %w", err)
				}

				retryCount++
			}

			if len(out.UnprocessedItems) > 0 {
				slog.Error("[DynamoDB] Some records were not written even after retries",
					slog.Int("remaining", len(out.UnprocessedItems[ARCHIVE_TABLE_NAME])))
			}
		}
	}
	slog.Info("[DynamoDB] Successfully archived records", slog.Int("count", len(records)))
	return nil
}

func recordToDynamoDBItem(record models.ArchiveRecord, expiresAt int64) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to marshal record %s: %w", record.RecordID, err)
	}
	if expiresAt > 0 {
		item["ttl"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiresAt)}
	}
	return item, nil
}
