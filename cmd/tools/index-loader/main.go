// cmd/tools/index-loader/main.go
//
// Builds the restaurant search index from the DynamoDB record table.
// Only the sampling fields are indexed; the record table stays the
// source of truth for restaurant details.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"math/rand"
	"os"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
)

var cuisines = []string{"Indian", "Chinese", "Mexican", "Italian", "Thai"}

func main() {
	countOnly := flag.Bool("count", false, "Report the index document count and exit")
	flag.Parse()

	cfg, err := config.Load()

	logLevel, logFormat := "info", "console"
	if err == nil {
		logLevel, logFormat = cfg.Logging.Level, cfg.Logging.Format
	}
	zapLog := logger.New(logLevel, logFormat)
	defer zapLog.Sync()

	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch client init failed", zap.Error(err))
	}

	ctx := context.Background()
	index := cfg.Database.Elasticsearch.Index

	if *countOnly {
		count, err := esClient.Count(ctx, index)
		if err != nil {
			zapLog.Fatal("count failed", zap.String("index", index), zap.Error(err))
		}
		zapLog.Info("index document count", zap.String("index", index), zap.Int64("count", count))
		return
	}

	dynamoClient, err := aws.NewDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("dynamodb client init failed", zap.Error(err))
	}

	table := cfg.Database.DynamoDB.RestaurantsTable
	indexed, failed := 0, 0

	for _, cuisine := range cuisines {
		records, err := scanCuisine(ctx, dynamoClient, table, cuisine)
		if err != nil {
			zapLog.Fatal("scan failed", zap.String("cuisine", cuisine), zap.Error(err))
		}
		zapLog.Info("fetched records", zap.String("cuisine", cuisine), zap.Int("count", len(records)))

		rand.Shuffle(len(records), func(i, j int) {
			records[i], records[j] = records[j], records[i]
		})

		for _, record := range records {
			if err := indexDocument(ctx, esClient, index, record); err != nil {
				zapLog.Error("index failed", zap.String("businessId", record.BusinessID), zap.Error(err))
				failed++
				continue
			}
			indexed++
		}
	}

	zapLog.Info("index load complete",
		zap.String("index", index),
		zap.Int("indexed", indexed),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		os.Exit(1)
	}
}

func scanCuisine(ctx context.Context, client *aws.DynamoDBClient, table, cuisine string) ([]models.RestaurantRecord, error) {
	out, err := client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        awssdk.String(table),
		FilterExpression: awssdk.String("Cuisine = :cuisine"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cuisine": &types.AttributeValueMemberS{Value: cuisine},
		},
	})
	if err != nil {
		return nil, err
	}

	var records []models.RestaurantRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func indexDocument(ctx context.Context, client *database.ElasticsearchClient, index string, record models.RestaurantRecord) error {
	doc := models.SearchDocument{
		RestaurantID: record.BusinessID,
		Cuisine:      record.Cuisine,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := client.Client.Index(
		index,
		bytes.NewReader(body),
		client.Client.Index.WithDocumentID(record.BusinessID),
		client.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return &indexError{status: res.Status()}
	}
	return nil
}

type indexError struct {
	status string
}

func (e *indexError) Error() string {
	return "index request failed: " + e.status
}
