package dialogmanager

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	cerrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"
)

// RequestQueue hands completed searches to the fulfillment worker.
type RequestQueue interface {
	Publish(ctx context.Context, request *models.FulfillmentRequest) error
}

// SQSAPI narrows the queue client to the one call this package makes.
type SQSAPI interface {
	SendMessage(ctx context.Context, input *sqs.SendMessageInput) (*sqs.SendMessageOutput, error)
}

type SQSRequestQueue struct {
	client   SQSAPI
	queueURL string
}

func NewSQSRequestQueue(client SQSAPI, queueURL string) *SQSRequestQueue {
	return &SQSRequestQueue{client: client, queueURL: queueURL}
}

func (q *SQSRequestQueue) Publish(ctx context.Context, request *models.FulfillmentRequest) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal fulfillment request: %w", err)
	}

	if _, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	}); err != nil {
		return cerrors.NewQueuePublishFailedError(err)
	}
	return nil
}
