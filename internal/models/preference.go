// internal/models/preference.go
package models

// PreferenceRecord is a user's most recent completed search, keyed by
// user id. Overwritten on every fresh (non-reused) fulfilled search;
// there is no deletion path.
type PreferenceRecord struct {
	UserID       string `json:"UserId" dynamodbav:"UserId"`
	LastLocation string `json:"LastLocation" dynamodbav:"LastLocation"`
	LastCuisine  string `json:"LastCuisine" dynamodbav:"LastCuisine"`
	DiningTime   string `json:"DiningTime" dynamodbav:"DiningTime"`
	NumPeople    string `json:"NumPeople" dynamodbav:"NumPeople"`
	Email        string `json:"Email" dynamodbav:"Email"`
}
