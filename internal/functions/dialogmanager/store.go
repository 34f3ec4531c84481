package dialogmanager

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	cerrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"
)

// PreferenceStore persists a user's last completed search.
type PreferenceStore interface {
	GetLastSearch(ctx context.Context, userID string) (*models.PreferenceRecord, error)
	StoreLastSearch(ctx context.Context, record *models.PreferenceRecord) error
}

// DynamoDBAPI narrows the keyed-store client to the calls this package
// makes, so tests can fake it.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, input *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
}

type DynamoPreferenceStore struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoPreferenceStore(client DynamoDBAPI, table string) *DynamoPreferenceStore {
	return &DynamoPreferenceStore{client: client, table: table}
}

// GetLastSearch returns the stored preference, or nil when the user has
// no history.
func (s *DynamoPreferenceStore) GetLastSearch(ctx context.Context, userID string) (*models.PreferenceRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.table,
		Key: map[string]types.AttributeValue{
			"UserId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get last search for %s: %w", userID, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var record models.PreferenceRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshal preference record: %w", err)
	}
	return &record, nil
}

// StoreLastSearch overwrites the user's preference item. Last write wins.
func (s *DynamoPreferenceStore) StoreLastSearch(ctx context.Context, record *models.PreferenceRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal preference record: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.table,
		Item:      item,
	}); err != nil {
		return cerrors.NewPreferenceStoreFailedError(err)
	}
	return nil
}
