// cmd/tools/restaurant-scraper/main.go
//
// Collects restaurants per cuisine from the Yelp business search API
// and writes them to a local JSON file for the offline loaders.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dining-concierge/internal/common/config"
	httpclient "dining-concierge/internal/common/http"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
)

const (
	pageSize  = 30
	maxOffset = 100 // per-location search cap
)

var cuisines = []string{"Thai", "Mexican", "Chinese", "Italian", "Indian"}

var neighborhoods = []string{
	"Financial District, Manhattan, NY",
	"East Village, Manhattan, NY",
	"SoHo, Manhattan, NY",
	"Tribeca, Manhattan, NY",
	"Upper West Side, Manhattan, NY",
	"Harlem, Manhattan, NY",
	"Chelsea, Manhattan, NY",
	"Upper East Side, Manhattan, NY",
	"Midtown, Manhattan, NY",
	"Lower Manhattan, Manhattan, NY",
}

// searchResponse mirrors the business search payload, only the fields
// the record schema needs.
type searchResponse struct {
	Businesses []struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		ReviewCount int     `json:"review_count"`
		Rating      float64 `json:"rating"`
		Location    struct {
			Address1 string `json:"address1"`
			ZipCode  string `json:"zip_code"`
		} `json:"location"`
		Coordinates struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"coordinates"`
	} `json:"businesses"`
}

func main() {
	outPath := flag.String("out", "restaurants.json", "Output JSON file")
	perCuisine := flag.Int("per-cuisine", 250, "Target unique restaurants per cuisine")
	flag.Parse()

	cfg, err := config.Load()

	logLevel, logFormat := "info", "console"
	if err == nil {
		logLevel, logFormat = cfg.Logging.Level, cfg.Logging.Format
	}
	zapLog := logger.New(logLevel, logFormat)
	defer zapLog.Sync()

	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	if cfg.Yelp.APIKey == "" {
		zapLog.Fatal("YELP_API_KEY is required")
	}

	client := httpclient.NewClient(15 * time.Second)
	runID := uuid.NewString()
	zapLog.Info("starting scrape",
		zap.String("runId", runID),
		zap.Int("perCuisine", *perCuisine),
	)

	ctx := context.Background()

	var all []models.RestaurantRecord
	for _, cuisine := range cuisines {
		records, err := fetchCuisine(ctx, client, cfg, cuisine, *perCuisine, zapLog)
		if err != nil {
			zapLog.Fatal("scrape failed", zap.String("cuisine", cuisine), zap.Error(err))
		}
		zapLog.Info("cuisine done", zap.String("cuisine", cuisine), zap.Int("count", len(records)))
		all = append(all, records...)
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		zapLog.Fatal("marshal failed", zap.Error(err))
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		zapLog.Fatal("write failed", zap.String("path", *outPath), zap.Error(err))
	}

	zapLog.Info("scrape complete",
		zap.String("runId", runID),
		zap.Int("total", len(all)),
		zap.String("path", *outPath),
	)
}

// fetchCuisine walks neighborhoods until it collects the target number
// of unique restaurants for one cuisine.
func fetchCuisine(ctx context.Context, client *httpclient.Client, cfg *config.Config, cuisine string, target int, zapLog *zap.Logger) ([]models.RestaurantRecord, error) {
	unique := make(map[string]models.RestaurantRecord)

	for _, neighborhood := range neighborhoods {
		offset := 0
		for len(unique) < target && offset < maxOffset {
			limit := pageSize
			if remaining := target - len(unique); remaining < limit {
				limit = remaining
			}

			page, err := searchPage(ctx, client, cfg, cuisine, neighborhood, limit, offset)
			if err != nil {
				return nil, err
			}
			if len(page.Businesses) == 0 {
				break
			}

			now := time.Now().UTC().Format(time.RFC3339)
			for _, b := range page.Businesses {
				unique[b.ID] = models.RestaurantRecord{
					BusinessID: b.ID,
					Name:       b.Name,
					Address:    b.Location.Address1,
					Coordinates: models.Coordinates{
						Lat: strconv.FormatFloat(b.Coordinates.Latitude, 'f', -1, 64),
						Lon: strconv.FormatFloat(b.Coordinates.Longitude, 'f', -1, 64),
					},
					NumReviews:          b.ReviewCount,
					Rating:              strconv.FormatFloat(b.Rating, 'f', -1, 64),
					ZipCode:             b.Location.ZipCode,
					Cuisine:             cuisine,
					InsertedAtTimestamp: now,
				}
			}

			offset += pageSize
		}

		zapLog.Info("neighborhood scanned",
			zap.String("cuisine", cuisine),
			zap.String("neighborhood", neighborhood),
			zap.Int("collected", len(unique)),
		)

		if len(unique) >= target {
			break
		}
	}

	records := make([]models.RestaurantRecord, 0, len(unique))
	for _, r := range unique {
		records = append(records, r)
		if len(records) == target {
			break
		}
	}
	return records, nil
}

func searchPage(ctx context.Context, client *httpclient.Client, cfg *config.Config, cuisine, location string, limit, offset int) (*searchResponse, error) {
	params := url.Values{}
	params.Set("term", cuisine+" food")
	params.Set("location", location)
	params.Set("categories", "restaurants")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	endpoint := cfg.Yelp.BaseURL + "/businesses/search?" + params.Encode()

	resp, err := client.Get(ctx, endpoint, cfg.Yelp.APIKey)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("search returned HTTP %d for %s in %s", resp.StatusCode, cuisine, location)
	}

	var page searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &page, nil
}
