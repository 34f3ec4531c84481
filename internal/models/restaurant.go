// internal/models/restaurant.go
package models

// Coordinates holds a restaurant's position. Stored as strings to match
// the record-store item schema.
type Coordinates struct {
	Lat string `json:"lat" dynamodbav:"lat"`
	Lon string `json:"lon" dynamodbav:"lon"`
}

// RestaurantRecord is the authoritative restaurant item in the record
// store, keyed by business_id. Written by the offline loaders, read by
// the fulfillment worker.
type RestaurantRecord struct {
	BusinessID          string      `json:"business_id" dynamodbav:"business_id"`
	Name                string      `json:"Name" dynamodbav:"Name"`
	Address             string      `json:"Address" dynamodbav:"Address"`
	Coordinates         Coordinates `json:"Coordinates" dynamodbav:"Coordinates"`
	NumReviews          int         `json:"NumReviews" dynamodbav:"NumReviews"`
	Rating              string      `json:"Rating" dynamodbav:"Rating"`
	ZipCode             string      `json:"ZipCode" dynamodbav:"ZipCode"`
	Cuisine             string      `json:"Cuisine" dynamodbav:"Cuisine"`
	InsertedAtTimestamp string      `json:"InsertedAtTimestamp" dynamodbav:"InsertedAtTimestamp"`
}

// SearchDocument is the lightweight index entry used for sampling only;
// the record store stays authoritative for restaurant content.
type SearchDocument struct {
	RestaurantID string `json:"RestaurantID"`
	Cuisine      string `json:"Cuisine"`
}
