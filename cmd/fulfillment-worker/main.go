// cmd/fulfillment-worker/main.go
package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/observability"
	"dining-concierge/internal/functions/fulfillment"
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

	fnCfg := fulfillment.DefaultConfig()
	fnCfg.RestaurantsTable = cfg.Database.DynamoDB.RestaurantsTable
	fnCfg.Index = cfg.Database.Elasticsearch.Index
	fnCfg.SenderEmail = cfg.Email.Sender
	fnCfg.AlertTopicARN = cfg.Email.AlertTopicARN
	if err := fnCfg.Validate(); err != nil {
		zapLog.Fatal("invalid fulfillment-worker config", zap.Error(err))
	}

	ctx := context.Background()

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch client init failed", zap.Error(err))
	}

	dynamoClient, err := aws.NewDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("dynamodb client init failed", zap.Error(err))
	}

	sesClient, err := aws.NewSESClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client init failed", zap.Error(err))
	}

	// Duplicate-delivery marker is optional; without Redis the worker
	// relies on the queue's at-least-once semantics alone.
	var marker fulfillment.ProcessedMarker
	if cfg.Database.Redis.Address != "" {
		redisClient, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis client init failed", zap.Error(err))
		}
		marker = fulfillment.NewRedisProcessedMarker(redisClient, fnCfg.MarkerTTL)
	} else {
		zapLog.Warn("redis not configured, duplicate deliveries may send duplicate emails")
		marker = fulfillment.NoopMarker{}
	}

	var alerts fulfillment.SNSAPI
	if fnCfg.AlertTopicARN != "" {
		snsClient, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		alerts = snsClient
	}

	search := fulfillment.NewElasticsearchIndex(esClient.Client, fnCfg.Index)
	store := fulfillment.NewDynamoRecordStore(dynamoClient, fnCfg.RestaurantsTable)
	mailer := fulfillment.NewSESMailer(sesClient, fnCfg.SenderEmail)

	handler := fulfillment.NewHandler(fnCfg, search, store, mailer, marker, alerts, log)

	obs := observability.New(fulfillment.FunctionName)
	defer obs.Shutdown()

	zapLog.Info("fulfillment-worker ready",
		zap.String("restaurantsTable", fnCfg.RestaurantsTable),
		zap.String("index", fnCfg.Index),
	)

	lambda.Start(func(ctx context.Context, event events.SQSEvent) error {
		start := time.Now()
		err := handler.Handle(ctx, event)
		status := "success"
		if err != nil {
			status = "error"
		}
		obs.RecordInvocation(ctx, status)
		obs.RecordDuration(ctx, time.Since(start), status)
		return err
	})
}
