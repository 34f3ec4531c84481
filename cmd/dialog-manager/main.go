// cmd/dialog-manager/main.go
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/functions/dialogmanager"
)

func main() {
	cfg, err := config.Load()

	logLevel, logFormat := "info", "json"
	if err == nil {
		logLevel, logFormat = cfg.Logging.Level, cfg.Logging.Format
	}
	zapLog := logger.New(logLevel, logFormat)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	fnCfg := dialogmanager.DefaultConfig()
	fnCfg.PreferencesTable = cfg.Database.DynamoDB.PreferencesTable
	fnCfg.QueueURL = cfg.Queue.URL
	if err := fnCfg.Validate(); err != nil {
		zapLog.Fatal("invalid dialog-manager config", zap.Error(err))
	}

	ctx := context.Background()

	dynamoClient, err := aws.NewDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("dynamodb client init failed", zap.Error(err))
	}

	sqsClient, err := aws.NewSQSClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("sqs client init failed", zap.Error(err))
	}

	store := dialogmanager.NewDynamoPreferenceStore(dynamoClient, fnCfg.PreferencesTable)
	queue := dialogmanager.NewSQSRequestQueue(sqsClient, fnCfg.QueueURL)

	handler := dialogmanager.NewHandler(fnCfg, store, queue, log)

	zapLog.Info("dialog-manager ready",
		zap.String("preferencesTable", fnCfg.PreferencesTable),
	)

	lambda.Start(handler.Handle)
}
