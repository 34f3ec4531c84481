package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	cerrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"
)

// searchPoolSize over-fetches so the local sample stays random even
// when the index scoring clusters results.
const searchPoolSize = 50

// SearchIndex returns candidate restaurant IDs for a cuisine.
type SearchIndex interface {
	FindRestaurantIDs(ctx context.Context, cuisine string) ([]string, error)
}

type ElasticsearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchIndex(client *elasticsearch.Client, index string) *ElasticsearchIndex {
	return &ElasticsearchIndex{client: client, index: index}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.SearchDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// FindRestaurantIDs pulls a randomized pool of matches for the cuisine.
func (e *ElasticsearchIndex) FindRestaurantIDs(ctx context.Context, cuisine string) ([]string, error) {
	query := map[string]interface{}{
		"size": searchPoolSize,
		"query": map[string]interface{}{
			"function_score": map[string]interface{}{
				"query":        map[string]interface{}{"match": map[string]interface{}{"Cuisine": cuisine}},
				"random_score": map[string]interface{}{},
			},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, cerrors.NewSearchTimeoutError("cuisine-sample")
		}
		return nil, cerrors.NewSearchQueryFailedError("cuisine-sample", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, cerrors.NewIndexNotFoundError(e.index)
	}
	if res.IsError() {
		return nil, cerrors.NewSearchQueryFailedError("cuisine-sample", fmt.Errorf("search %s: %s", e.index, res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		if hit.Source.RestaurantID != "" {
			ids = append(ids, hit.Source.RestaurantID)
		}
	}
	return ids, nil
}

// sampleIDs draws up to n distinct IDs uniformly without replacement.
func sampleIDs(ids []string, n int) []string {
	if n > len(ids) {
		n = len(ids)
	}
	shuffled := make([]string, len(ids))
	copy(shuffled, ids)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}
