package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	cerrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/models"
)

const (
	FunctionName = "fulfillment-worker"

	// maxSuggestions is the number of restaurants recommended per email.
	maxSuggestions = 3
)

// SNSAPI narrows the alert client to the one call this package makes.
type SNSAPI interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config *Config
	search SearchIndex
	store  RecordStore
	mailer Mailer
	marker ProcessedMarker
	alerts SNSAPI
	logger logger.Logger
}

func NewHandler(config *Config, search SearchIndex, store RecordStore, mailer Mailer, marker ProcessedMarker, alerts SNSAPI, log logger.Logger) *Handler {
	if marker == nil {
		marker = NoopMarker{}
	}
	return &Handler{
		config: config,
		search: search,
		store:  store,
		mailer: mailer,
		marker: marker,
		alerts: alerts,
		logger: log.WithFields(map[string]interface{}{"function": FunctionName}),
	}
}

// Handle consumes one queue delivery. Returning an error leaves the
// batch unacknowledged so the queue redelivers it; returning nil
// consumes every record in the batch.
func (h *Handler) Handle(ctx context.Context, event events.SQSEvent) error {
	metrics.FunctionInvocations.WithLabelValues(FunctionName).Inc()
	timer := time.Now()
	defer func() {
		metrics.FunctionDuration.WithLabelValues(FunctionName).Observe(time.Since(timer).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	for _, record := range event.Records {
		if err := h.processMessage(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) processMessage(ctx context.Context, record events.SQSMessage) error {
	log := h.logger.WithFields(map[string]interface{}{"messageId": record.MessageId})

	claimed, err := h.marker.Claim(ctx, record.MessageId)
	if err != nil {
		// Marker store trouble must not block fulfillment; at-least-once
		// delivery already tolerates the rare duplicate email.
		log.WithError(err).Warn("processed-marker claim failed, continuing", nil)
		claimed = true
	}
	if !claimed {
		log.Info("duplicate delivery skipped", nil)
		return nil
	}

	var request models.FulfillmentRequest
	if err := json.Unmarshal([]byte(record.Body), &request); err != nil {
		return h.fail(ctx, record.MessageId, cerrors.NewMalformedQueueMessageError(err.Error()))
	}
	if request.Cuisine == "" || request.Email == "" {
		return h.fail(ctx, record.MessageId, cerrors.NewMalformedQueueMessageError("cuisine and email are required"))
	}

	log.Info("processing fulfillment request", map[string]interface{}{
		"cuisine":   request.Cuisine,
		"sessionId": request.SessionID,
		"state":     request.State,
	})

	ids, err := h.search.FindRestaurantIDs(ctx, request.Cuisine)
	if err != nil {
		return h.fail(ctx, record.MessageId, asStandardError(err, cerrors.ErrCodeSearchQueryFailed))
	}
	if len(ids) == 0 {
		// Nothing to recommend; consuming the message is the correct
		// outcome, a retry would find the same empty index.
		log.Warn("no restaurants found", map[string]interface{}{"cuisine": request.Cuisine})
		return nil
	}

	restaurants := make([]*models.RestaurantRecord, 0, maxSuggestions)
	for _, id := range sampleIDs(ids, maxSuggestions) {
		item, err := h.store.FetchRestaurant(ctx, id)
		if err != nil {
			return h.fail(ctx, record.MessageId, asStandardError(err, cerrors.ErrCodeRecordFetchFailed))
		}
		if item == nil {
			// Index and record store drift; skip the dangling ID.
			log.Warn("restaurant record missing", map[string]interface{}{"businessId": id})
			continue
		}
		restaurants = append(restaurants, item)
	}
	if len(restaurants) == 0 {
		log.Warn("no restaurant details found", map[string]interface{}{"cuisine": request.Cuisine})
		return nil
	}

	if err := h.mailer.SendRecommendations(ctx, request.Email, request.Cuisine, restaurants); err != nil {
		h.alertSendFailure(ctx, request, err)
		return h.fail(ctx, record.MessageId, asStandardError(err, cerrors.ErrCodeNotificationSendFailed))
	}

	metrics.EmailsSent.WithLabelValues(request.Cuisine).Inc()
	log.Info("recommendations sent", map[string]interface{}{
		"cuisine":     request.Cuisine,
		"restaurants": len(restaurants),
	})
	return nil
}

// fail records the failure and decides what the redelivery should see.
// Retryable failures release the claim so the next delivery can try
// again; non-retryable ones keep it, so redeliveries of a poison
// message are skipped instead of failing forever.
func (h *Handler) fail(ctx context.Context, messageID string, serr *cerrors.StandardError) error {
	if cerrors.IsRetryableErrorCode(serr.Code) {
		h.marker.Release(ctx, messageID)
	}
	metrics.FunctionFailures.WithLabelValues(FunctionName, string(serr.Code)).Inc()
	return serr
}

// asStandardError passes a typed error through, or tags an untyped one
// with the given code.
func asStandardError(err error, code cerrors.ErrorCode) *cerrors.StandardError {
	var serr *cerrors.StandardError
	if errors.As(err, &serr) {
		return serr
	}
	return &cerrors.StandardError{
		Code:      code,
		Message:   "External service call failed",
		Details:   err.Error(),
		Retryable: cerrors.IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
	}
}

// alertSendFailure publishes an ops notification when email delivery
// fails. Best effort; the redelivery path is what actually recovers.
func (h *Handler) alertSendFailure(ctx context.Context, request models.FulfillmentRequest, sendErr error) {
	if h.alerts == nil || h.config.AlertTopicARN == "" {
		return
	}

	message := fmt.Sprintf("Recommendation email delivery failed\ncuisine: %s\nsession: %s\nerror: %v",
		request.Cuisine, request.SessionID, sendErr)
	if _, err := h.alerts.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.AlertTopicARN),
		Subject:  aws.String("fulfillment-worker: email delivery failed"),
		Message:  aws.String(message),
	}); err != nil {
		h.logger.WithError(err).Warn("failed to publish delivery alert", nil)
	}
}
