// cmd/chat-gateway/main.go
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/functions/chatgateway"
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

	fnCfg := chatgateway.DefaultConfig()
	fnCfg.BotID = cfg.Lex.BotID
	fnCfg.BotAliasID = cfg.Lex.BotAliasID
	fnCfg.LocaleID = cfg.Lex.LocaleID
	if err := fnCfg.Validate(); err != nil {
		zapLog.Fatal("invalid chat-gateway config", zap.Error(err))
	}

	ctx := context.Background()

	lexClient, err := aws.NewLexRuntimeClient(ctx, cfg.AWS.Region)
	if err != nil {
		zapLog.Fatal("lex client init failed", zap.Error(err))
	}

	handler := chatgateway.NewHandler(fnCfg, lexClient, log)

	zapLog.Info("chat-gateway ready",
		zap.String("botId", cfg.Lex.BotID),
		zap.String("localeId", cfg.Lex.LocaleID),
	)

	lambda.Start(handler.Handle)
}
