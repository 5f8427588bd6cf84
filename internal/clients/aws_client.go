package clients

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// AWS_DEFAULT_REGION applies when the environment carries no region of
// its own. AWS_ENDPOINT, when set, points the SDK at a local DynamoDB.
const AWS_DEFAULT_REGION = "us-west-2"

var (
	dynamoInstance *dynamodb.Client
	dynamoOnce     sync.Once
)

func GetDynamoDBClient() *dynamodb.Client {
	dynamoOnce.Do(func() {
		region := os.Getenv("AWS_REGION")
		if region == "" {
			region = AWS_DEFAULT_REGION
		}

		slog.Info("[AWSClient] Loading AWS config...",
			slog.String("region", region))
		cfg, err := config.LoadDefaultConfig(context.Background(),
			config.WithRegion(region))
		if err != nil {
			slog.Error("[AWSClient] Failed to load AWS config")
			panic(err)
		}

		endpoint := os.Getenv("AWS_ENDPOINT")
		if endpoint != "" {
			slog.Info("[AWSClient] Using custom DynamoDB endpoint",
				slog.String("endpoint", endpoint))
		}

		dynamoInstance = dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		})
	})
	return dynamoInstance
}
