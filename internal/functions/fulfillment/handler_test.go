package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
)

func errorCode(t *testing.T, err error) cerrors.ErrorCode {
	t.Helper()
	var serr *cerrors.StandardError
	require.ErrorAs(t, err, &serr)
	return serr.Code
}

type fakeSearchIndex struct {
	ids []string
	err error
}

func (f *fakeSearchIndex) FindRestaurantIDs(ctx context.Context, cuisine string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ids, nil
}

type fakeRecordStore struct {
	records map[string]*models.RestaurantRecord
	err     error
}

func (f *fakeRecordStore) FetchRestaurant(ctx context.Context, businessID string) (*models.RestaurantRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[businessID], nil
}

type fakeMailer struct {
	sentTo      string
	sentCuisine string
	sentCount   int
	restaurants []*models.RestaurantRecord
	err         error
}

func (f *fakeMailer) SendRecommendations(ctx context.Context, toEmail, cuisine string, restaurants []*models.RestaurantRecord) error {
	if f.err != nil {
		return f.err
	}
	f.sentTo = toEmail
	f.sentCuisine = cuisine
	f.restaurants = restaurants
	f.sentCount++
	return nil
}

type fakeMarker struct {
	claimed  map[string]bool
	released []string
	claimErr error
}

func newFakeMarker() *fakeMarker {
	return &fakeMarker{claimed: map[string]bool{}}
}

func (f *fakeMarker) Claim(ctx context.Context, messageID string) (bool, error) {
	if f.claimErr != nil {
		return false, f.claimErr
	}
	if f.claimed[messageID] {
		return false, nil
	}
	f.claimed[messageID] = true
	return true, nil
}

func (f *fakeMarker) Release(ctx context.Context, messageID string) {
	delete(f.claimed, messageID)
	f.released = append(f.released, messageID)
}

type fakeAlerts struct {
	published int
	lastInput *sns.PublishInput
}

func (f *fakeAlerts) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	f.published++
	f.lastInput = input
	return &sns.PublishOutput{}, nil
}

func testConfig() *Config {
	return &Config{
		Timeout:          30 * time.Second,
		RestaurantsTable: "yelp-restaurants",
		Index:            "restaurants",
		SenderEmail:      "concierge@example.com",
		AlertTopicARN:    "arn:aws:sns:us-east-1:000000000000:ops-alerts",
		MarkerTTL:        time.Hour,
	}
}

func testRecords() map[string]*models.RestaurantRecord {
	return map[string]*models.RestaurantRecord{
		"biz-1": {BusinessID: "biz-1", Name: "Thai Villa", Address: "5 E 19th St", Rating: "4.5", NumReviews: 2100, ZipCode: "10003", Cuisine: "thai"},
		"biz-2": {BusinessID: "biz-2", Name: "Soothr", Address: "204 E 13th St", Rating: "4.5", NumReviews: 1400, ZipCode: "10003", Cuisine: "thai"},
		"biz-3": {BusinessID: "biz-3", Name: "Fish Cheeks", Address: "55 Bond St", Rating: "4.4", NumReviews: 1900, ZipCode: "10012", Cuisine: "thai"},
	}
}

func sqsEvent(t *testing.T, messageID string, request models.FulfillmentRequest) events.SQSEvent {
	t.Helper()
	body, err := json.Marshal(request)
	require.NoError(t, err)
	return events.SQSEvent{Records: []events.SQSMessage{{MessageId: messageID, Body: string(body)}}}
}

func validRequest() models.FulfillmentRequest {
	return models.FulfillmentRequest{
		Location:   "new york",
		Cuisine:    "thai",
		DiningTime: "7pm",
		NumPeople:  "2",
		Email:      "diner@example.com",
		SessionID:  "user-1",
		State:      models.ProvenanceNew,
	}
}

func TestHandler_Handle_Success(t *testing.T) {
	search := &fakeSearchIndex{ids: []string{"biz-1", "biz-2", "biz-3"}}
	store := &fakeRecordStore{records: testRecords()}
	mailer := &fakeMailer{}
	marker := newFakeMarker()
	handler := NewHandler(testConfig(), search, store, mailer, marker, nil, logger.NewTestLogger(t))

	err := handler.Handle(context.Background(), sqsEvent(t, "msg-1", validRequest()))

	require.NoError(t, err)
	assert.Equal(t, "diner@example.com", mailer.sentTo)
	assert.Equal(t, "thai", mailer.sentCuisine)
	assert.Len(t, mailer.restaurants, 3)
	assert.Empty(t, marker.released)
}

func TestHandler_Handle_SamplesAtMostThree(t *testing.T) {
	records := testRecords()
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	// Pad the candidate pool well past the suggestion cap.
	for i := 0; i < 40; i++ {
		ids = append(ids, ids[i%3])
	}

	search := &fakeSearchIndex{ids: ids}
	mailer := &fakeMailer{}
	handler := NewHandler(testConfig(), search, &fakeRecordStore{records: records}, mailer, newFakeMarker(), nil, logger.NewNoOpLogger())

	err := handler.Handle(context.Background(), sqsEvent(t, "msg-1", validRequest()))

	require.NoError(t, err)
	assert.LessOrEqual(t, len(mailer.restaurants), maxSuggestions)
	assert.NotEmpty(t, mailer.restaurants)
}

func TestHandler_Handle_DuplicateDeliverySkipped(t *testing.T) {
	search := &fakeSearchIndex{ids: []string{"biz-1"}}
	store := &fakeRecordStore{records: testRecords()}
	mailer := &fakeMailer{}
	marker := newFakeMarker()
	handler := NewHandler(testConfig(), search, store, mailer, marker, nil, logger.NewNoOpLogger())

	require.NoError(t, handler.Handle(context.Background(), sqsEvent(t, "msg-1", validRequest())))
	require.NoError(t, handler.Handle(context.Background(), sqsEvent(t, "msg-1", validRequest())))

	assert.Equal(t, 1, mailer.sentCount, "second delivery of the same message must not email again")
}

func TestHandler_Handle_MalformedBody(t *testing.T) {
	marker := newFakeMarker()
	handler := NewHandler(testConfig(), &fakeSearchIndex{}, &fakeRecordStore{}, &fakeMailer{}, marker, nil, logger.NewNoOpLogger())

	event := events.SQSEvent{Records: []events.SQSMessage{{MessageId: "msg-1", Body: "not json"}}}
	err := handler.Handle(context.Background(), event)

	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeMalformedQueueMessage, errorCode(t, err))
	// A body that cannot be parsed never parses on retry; the claim is
	// kept so the redelivery is skipped instead of failing forever.
	assert.Empty(t, marker.released)
	assert.NoError(t, handler.Handle(context.Background(), event))
}

func TestHandler_Handle_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.FulfillmentRequest)
	}{
		{"missing cuisine", func(r *models.FulfillmentRequest) { r.Cuisine = "" }},
		{"missing email", func(r *models.FulfillmentRequest) { r.Email = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := validRequest()
			tt.mutate(&request)

			mailer := &fakeMailer{}
			handler := NewHandler(testConfig(), &fakeSearchIndex{}, &fakeRecordStore{}, mailer, newFakeMarker(), nil, logger.NewNoOpLogger())

			err := handler.Handle(context.Background(), sqsEvent(t, "msg-1", request))

			require.Error(t, err)
			assert.Equal(t, cerrors.ErrCodeMalformedQueueMessage, errorCode(t, err))
			assert.Zero(t, mailer.sentCount)
		})
	}
}

func TestHandler_Handle_NoHitsConsumesMessage(t *testing.T) {
	mailer := &fakeMailer{}
	handler := NewHandler(testConfig(), &fakeSearchIndex{ids: nil}, &fakeRecordStore{}, mailer, newFakeMarker(), nil, logger.NewNoOpLogger())

	err := handler.Handle(context.Background(), sqsEvent(t, "msg-1", validRequest()))

	// Zero hits is a normal outcome, not a failure.
	require.NoError(t, err)
	assert.Zero(t, mailer.sentCount)
}

func TestHandler_Handle_AllRecordsMissingConsumesMessage(t *testing.T) {
	mailer := &fakeMailer{}
	search := &fakeSearchIndex{ids: []string{"gone-1", "gone-2"}}
	handler := NewHandler(testConfig(), search, &fakeRecordStore{records: map[string]*models.RestaurantRecord{}}, mailer, newFakeMarker(), nil, logger.NewNoOpLogger())

	err := handler.Handle(context.Background(), sqsEvent(t, "msg-1", validRequest()))

	require.NoError(t, err)
	assert.Zero(t, mailer.sentCount)
}

func TestHandler_Handle_SearchFailureRedelivers(t *testing.T) {
	marker := newFakeMarker()
	search := &fakeSearchIndex{err: errors.New("cluster red")}
	handler := NewHandler(testConfig(), search, &fakeRecordStore{}, &fakeMailer{}, marker, nil, logger.NewNoOpLogger())

	err := handler.Handle(context.Background(), sqsEvent(t, "msg-1", validRequest()))

	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeSearchQueryFailed, errorCode(t, err))
	// The claim is released so the redelivery is not mistaken for a
	// duplicate.
	assert.Contains(t, marker.released, "msg-1")
}

func TestHandler_Handle_RecordFetchFailureRedelivers(t *testing.T) {
	marker := newFakeMarker()
	search := &fakeSearchIndex{ids: []string{"biz-1"}}
	store := &fakeRecordStore{err: errors.New("throttled")}
	handler := NewHandler(testConfig(), search, store, &fakeMailer{}, marker, nil, logger.NewNoOpLogger())

	err := handler.Handle(context.Background(), sqsEvent(t, "msg-1", validRequest()))

	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeRecordFetchFailed, errorCode(t, err))
	assert.Contains(t, marker.released, "msg-1")
}

func TestHandler_Handle_SendFailureAlertsAndRedelivers(t *testing.T) {
	marker := newFakeMarker()
	alerts := &fakeAlerts{}
	search := &fakeSearchIndex{ids: []string{"biz-1"}}
	store := &fakeRecordStore{records: testRecords()}
	mailer := &fakeMailer{err: errors.New("address not verified")}
	handler := NewHandler(testConfig(), search, store, mailer, marker, alerts, logger.NewNoOpLogger())

	err := handler.Handle(context.Background(), sqsEvent(t, "msg-1", validRequest()))

	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeNotificationSendFailed, errorCode(t, err))
	assert.Contains(t, marker.released, "msg-1")
	assert.Equal(t, 1, alerts.published)
	assert.Contains(t, *alerts.lastInput.Message, "thai")
}

func TestHandler_Handle_MarkerErrorDoesNotBlock(t *testing.T) {
	marker := newFakeMarker()
	marker.claimErr = errors.New("redis down")
	search := &fakeSearchIndex{ids: []string{"biz-1"}}
	store := &fakeRecordStore{records: testRecords()}
	mailer := &fakeMailer{}
	handler := NewHandler(testConfig(), search, store, mailer, marker, nil, logger.NewNoOpLogger())

	err := handler.Handle(context.Background(), sqsEvent(t, "msg-1", validRequest()))

	require.NoError(t, err)
	assert.Equal(t, 1, mailer.sentCount)
}

func TestSampleIDs(t *testing.T) {
	t.Run("caps at n", func(t *testing.T) {
		ids := []string{"a", "b", "c", "d", "e"}
		sample := sampleIDs(ids, 3)
		assert.Len(t, sample, 3)
	})

	t.Run("returns everything when pool is small", func(t *testing.T) {
		sample := sampleIDs([]string{"a", "b"}, 3)
		assert.ElementsMatch(t, []string{"a", "b"}, sample)
	})

	t.Run("empty pool", func(t *testing.T) {
		assert.Empty(t, sampleIDs(nil, 3))
	})

	t.Run("no duplicates from distinct pool", func(t *testing.T) {
		ids := []string{"a", "b", "c", "d", "e", "f"}
		sample := sampleIDs(ids, 3)
		seen := map[string]bool{}
		for _, id := range sample {
			assert.False(t, seen[id])
			seen[id] = true
		}
	})

	t.Run("source slice is not mutated", func(t *testing.T) {
		ids := []string{"a", "b", "c"}
		_ = sampleIDs(ids, 2)
		assert.Equal(t, []string{"a", "b", "c"}, ids)
	})
}
