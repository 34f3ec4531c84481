// cmd/tools/record-loader/main.go
//
// Loads a scraped restaurants JSON file into the DynamoDB record table.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
)

func main() {
	filePath := flag.String("file", "restaurants.json", "Restaurants JSON file to load")
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

	records, err := loadRecords(*filePath)
	if err != nil {
		zapLog.Fatal("load file failed", zap.String("path", *filePath), zap.Error(err))
	}
	zapLog.Info("loaded restaurants file",
		zap.String("path", *filePath),
		zap.Int("count", len(records)),
	)

	ctx := context.Background()

	client, err := aws.NewDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("dynamodb client init failed", zap.Error(err))
	}

	table := cfg.Database.DynamoDB.RestaurantsTable
	inserted, skipped, failed := 0, 0, 0

	for _, record := range records {
		if record.BusinessID == "" {
			zapLog.Warn("skipping record with missing business_id", zap.String("name", record.Name))
			skipped++
			continue
		}
		if record.InsertedAtTimestamp == "" {
			record.InsertedAtTimestamp = time.Now().UTC().Format(time.RFC3339)
		}

		item, err := attributevalue.MarshalMap(record)
		if err != nil {
			zapLog.Error("marshal failed", zap.String("businessId", record.BusinessID), zap.Error(err))
			failed++
			continue
		}

		if _, err := client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: awssdk.String(table),
			Item:      item,
		}); err != nil {
			// Per-record failures should not abort the load.
			zapLog.Error("put failed", zap.String("businessId", record.BusinessID), zap.Error(err))
			failed++
			continue
		}
		inserted++
	}

	zapLog.Info("load complete",
		zap.String("table", table),
		zap.Int("inserted", inserted),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		os.Exit(1)
	}
}

func loadRecords(path string) ([]models.RestaurantRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []models.RestaurantRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
