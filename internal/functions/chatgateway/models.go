package chatgateway

import (
	lextypes "github.com/aws/aws-sdk-go-v2/service/lexruntimev2/types"
)

// ChatRequest is the envelope posted by the web frontend.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatMessage wraps one unstructured message.
type ChatMessage struct {
	Type         string              `json:"type"`
	Unstructured UnstructuredMessage `json:"unstructured"`
}

// UnstructuredMessage carries the user's utterance. ID doubles as the
// conversation session id so multi-turn context survives between calls.
type UnstructuredMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ChatResponse mirrors the request envelope, one message per bot reply,
// plus the engine's raw session state for diagnostics.
type ChatResponse struct {
	Messages     []ChatMessage          `json:"messages"`
	SessionState *lextypes.SessionState `json:"sessionState,omitempty"`
}

// ErrorResponse is the body returned on 4xx/5xx.
type ErrorResponse struct {
	Error string `json:"error"`
}
