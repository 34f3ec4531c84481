// internal/models/lex.go
package models

// ConfirmationState is the engine's confirmation phase for an intent.
type ConfirmationState string

const (
	ConfirmationNone      ConfirmationState = "None"
	ConfirmationConfirmed ConfirmationState = "Confirmed"
	ConfirmationDenied    ConfirmationState = "Denied"
)

// Invocation sources for the code hook.
const (
	DialogCodeHook      = "DialogCodeHook"
	FulfillmentCodeHook = "FulfillmentCodeHook"
)

// Dialog action types returned to the engine.
const (
	ActionElicitSlot    = "ElicitSlot"
	ActionConfirmIntent = "ConfirmIntent"
	ActionDelegate      = "Delegate"
	ActionClose         = "Close"
)

// Intent fulfillment states on a Close action.
const (
	FulfillmentFulfilled = "Fulfilled"
	FulfillmentFailed    = "Failed"
)

// Slot names collected by the dining suggestion intent.
const (
	SlotLocation   = "Location"
	SlotCuisine    = "Cuisine"
	SlotDiningTime = "DiningTime"
	SlotNumPeople  = "NumPeople"
	SlotEmail      = "Email"
)

// RequiredSlots lists the five slots a fulfillment request needs, in
// prompt order.
var RequiredSlots = []string{SlotLocation, SlotCuisine, SlotDiningTime, SlotNumPeople, SlotEmail}

// SlotValue carries the raw user utterance and the engine's normalized
// reading of it.
type SlotValue struct {
	OriginalValue    string `json:"originalValue,omitempty"`
	InterpretedValue string `json:"interpretedValue,omitempty"`
}

// Slot is a tagged variant: a nil Value means the slot is still empty,
// a non-nil Value means it is filled. Callers go through Filled,
// Interpreted and Original instead of nil-checking the nested maps the
// engine sends on the wire.
type Slot struct {
	Value *SlotValue `json:"value,omitempty"`
}

// Filled reports whether the slot holds an interpreted value.
func (s *Slot) Filled() bool {
	return s != nil && s.Value != nil && s.Value.InterpretedValue != ""
}

// Interpreted returns the normalized value, or "" for an empty slot.
func (s *Slot) Interpreted() string {
	if !s.Filled() {
		return ""
	}
	return s.Value.InterpretedValue
}

// Original returns the raw user-supplied value, or "" for an empty slot.
func (s *Slot) Original() string {
	if s == nil || s.Value == nil {
		return ""
	}
	return s.Value.OriginalValue
}

// FilledSlot builds a slot whose raw and interpreted values are both v.
// Used when replaying a stored preference into the intent.
func FilledSlot(v string) *Slot {
	return &Slot{Value: &SlotValue{OriginalValue: v, InterpretedValue: v}}
}

// Intent is one recognized conversational goal plus its slots.
type Intent struct {
	Name              string            `json:"name"`
	Slots             map[string]*Slot  `json:"slots,omitempty"`
	ConfirmationState ConfirmationState `json:"confirmationState,omitempty"`
	State             string            `json:"state,omitempty"`
}

// DialogAction tells the engine what to do next.
type DialogAction struct {
	Type         string `json:"type"`
	SlotToElicit string `json:"slotToElicit,omitempty"`
}

// SessionState is the engine-owned conversation state round-tripped on
// every turn.
type SessionState struct {
	DialogAction      *DialogAction     `json:"dialogAction,omitempty"`
	Intent            Intent            `json:"intent"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
}

// LexEvent is the turn event delivered to the code hook.
type LexEvent struct {
	InvocationSource string       `json:"invocationSource"`
	SessionID        string       `json:"sessionId"`
	SessionState     SessionState `json:"sessionState"`
}

// LexMessage is one plain-text message returned to the user.
type LexMessage struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// LexResponse is the code hook's reply for one turn.
type LexResponse struct {
	SessionState SessionState `json:"sessionState"`
	Messages     []LexMessage `json:"messages,omitempty"`
}

// PlainText builds a single-element plain-text message list.
func PlainText(content string) []LexMessage {
	return []LexMessage{{ContentType: "PlainText", Content: content}}
}
