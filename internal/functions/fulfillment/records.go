package fulfillment

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	cerrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"
)

// RecordStore hydrates restaurant details for sampled IDs.
type RecordStore interface {
	FetchRestaurant(ctx context.Context, businessID string) (*models.RestaurantRecord, error)
}

// DynamoDBAPI narrows the keyed-store client to the calls this package
// makes.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
}

type DynamoRecordStore struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoRecordStore(client DynamoDBAPI, table string) *DynamoRecordStore {
	return &DynamoRecordStore{client: client, table: table}
}

// FetchRestaurant returns the restaurant item, or nil when the index
// pointed at a record that no longer exists.
func (s *DynamoRecordStore) FetchRestaurant(ctx context.Context, businessID string) (*models.RestaurantRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.table,
		Key: map[string]types.AttributeValue{
			"business_id": &types.AttributeValueMemberS{Value: businessID},
		},
	})
	if err != nil {
		return nil, cerrors.NewRecordFetchFailedError(businessID, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var record models.RestaurantRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshal restaurant %s: %w", businessID, err)
	}
	return &record, nil
}
