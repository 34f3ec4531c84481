// internal/models/request.go
package models

// Provenance flag values on a queued fulfillment request: "new" when the
// slot values came from fresh input, "old" when a stored preference was
// reused.
const (
	ProvenanceNew = "new"
	ProvenanceOld = "old"
)

// FulfillmentRequest is the immutable message placed on the request
// queue once the dialog manager has a fully populated slot set. The
// queue delivers at least once; consumers must tolerate duplicates.
type FulfillmentRequest struct {
	Location   string `json:"Location"`
	Cuisine    string `json:"Cuisine"`
	DiningTime string `json:"DiningTime"`
	NumPeople  string `json:"NumPeople"`
	Email      string `json:"Email"`
	SessionID  string `json:"SessionID"`
	State      string `json:"State"`
}
