// internal/common/aws/lexruntime.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/lexruntimev2"
)

type LexRuntimeClient struct {
	client *lexruntimev2.Client
}

func NewLexRuntimeClient(ctx context.Context, region string) (*LexRuntimeClient, error) {
	cfg, err := loadConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return &LexRuntimeClient{client: lexruntimev2.NewFromConfig(cfg)}, nil
}

func (l *LexRuntimeClient) RecognizeText(ctx context.Context, input *lexruntimev2.RecognizeTextInput) (*lexruntimev2.RecognizeTextOutput, error) {
	return l.client.RecognizeText(ctx, input)
}
