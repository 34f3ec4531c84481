package chatgateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimev2"
	lextypes "github.com/aws/aws-sdk-go-v2/service/lexruntimev2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-concierge/internal/common/logger"
)

type fakeLexRuntime struct {
	lastInput    *lexruntimev2.RecognizeTextInput
	replies      []string
	sessionState *lextypes.SessionState
	err          error
}

func (f *fakeLexRuntime) RecognizeText(ctx context.Context, input *lexruntimev2.RecognizeTextInput) (*lexruntimev2.RecognizeTextOutput, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	messages := make([]lextypes.Message, 0, len(f.replies))
	for _, r := range f.replies {
		messages = append(messages, lextypes.Message{Content: aws.String(r)})
	}
	return &lexruntimev2.RecognizeTextOutput{Messages: messages, SessionState: f.sessionState}, nil
}

func createTestConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		BotID:      "TESTBOT",
		BotAliasID: "TESTALIAS",
		LocaleID:   "en_US",
	}
}

func chatBody(t *testing.T, id, text string) string {
	t.Helper()
	body, err := json.Marshal(ChatRequest{Messages: []ChatMessage{{
		Type:         "unstructured",
		Unstructured: UnstructuredMessage{ID: id, Text: text},
	}}})
	require.NoError(t, err)
	return string(body)
}

func TestHandler_Handle_Success(t *testing.T) {
	lex := &fakeLexRuntime{
		replies: []string{"Hi there, how can I help you today?"},
		sessionState: &lextypes.SessionState{
			SessionAttributes: map[string]string{"deniedState": "false"},
		},
	}
	handler := NewHandler(createTestConfig(), lex, logger.NewTestLogger(t))

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		Body: chatBody(t, "user-42", "  hello  "),
	})

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	// Text is trimmed and the message id rides through as session id.
	assert.Equal(t, "hello", *lex.lastInput.Text)
	assert.Equal(t, "user-42", *lex.lastInput.SessionId)
	assert.Equal(t, "TESTBOT", *lex.lastInput.BotId)

	var out ChatResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "unstructured", out.Messages[0].Type)
	assert.Equal(t, "bot-response", out.Messages[0].Unstructured.ID)
	assert.Equal(t, "Hi there, how can I help you today?", out.Messages[0].Unstructured.Text)
	assert.NotEmpty(t, out.Messages[0].Unstructured.Timestamp)

	// The engine's session state rides along for diagnostics.
	require.NotNil(t, out.SessionState)
	assert.Equal(t, "false", out.SessionState.SessionAttributes["deniedState"])
}

func TestHandler_Handle_AcceptsBareUnstructuredMessage(t *testing.T) {
	// The documented envelope carries only "unstructured"; the message
	// type tag is optional.
	lex := &fakeLexRuntime{replies: []string{"ok"}}
	handler := NewHandler(createTestConfig(), lex, logger.NewNoOpLogger())

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		Body: `{"messages": [{"unstructured": {"id": "user-7", "text": "hello"}}]}`,
	})

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	require.NotNil(t, lex.lastInput)
	assert.Equal(t, "hello", *lex.lastInput.Text)
	assert.Equal(t, "user-7", *lex.lastInput.SessionId)
}

func TestHandler_Handle_SessionStateOmittedWhenEngineSendsNone(t *testing.T) {
	lex := &fakeLexRuntime{replies: []string{"ok"}}
	handler := NewHandler(createTestConfig(), lex, logger.NewNoOpLogger())

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		Body: chatBody(t, "user-1", "hello"),
	})

	require.NoError(t, err)
	assert.NotContains(t, resp.Body, "sessionState")
}

func TestHandler_Handle_DefaultUserID(t *testing.T) {
	lex := &fakeLexRuntime{replies: []string{"ok"}}
	handler := NewHandler(createTestConfig(), lex, logger.NewNoOpLogger())

	_, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		Body: chatBody(t, "", "hello"),
	})

	require.NoError(t, err)
	assert.Equal(t, "default-user", *lex.lastInput.SessionId)
}

func TestHandler_Handle_FallbackReply(t *testing.T) {
	// Engine answered but produced no messages.
	lex := &fakeLexRuntime{replies: nil}
	handler := NewHandler(createTestConfig(), lex, logger.NewNoOpLogger())

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		Body: chatBody(t, "user-1", "mumble"),
	})

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out ChatResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "Sorry, I didn't understand that.", out.Messages[0].Unstructured.Text)
}

func TestHandler_Handle_MultipleReplies(t *testing.T) {
	lex := &fakeLexRuntime{replies: []string{"first", "second"}}
	handler := NewHandler(createTestConfig(), lex, logger.NewNoOpLogger())

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		Body: chatBody(t, "user-1", "hello"),
	})

	require.NoError(t, err)

	var out ChatResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	require.Len(t, out.Messages, 2)
	assert.Equal(t, "first", out.Messages[0].Unstructured.Text)
	assert.Equal(t, "second", out.Messages[1].Unstructured.Text)
}

func TestHandler_Handle_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"not json", "hello"},
		{"missing messages", `{}`},
		{"empty messages array", `{"messages": []}`},
		{"missing unstructured", `{"messages": [{"type": "unstructured"}]}`},
		{"missing text", `{"messages": [{"type": "unstructured", "unstructured": {"id": "u1"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex := &fakeLexRuntime{replies: []string{"never"}}
			handler := NewHandler(createTestConfig(), lex, logger.NewNoOpLogger())

			resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{Body: tt.body})

			require.NoError(t, err)
			assert.Equal(t, 400, resp.StatusCode)
			assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
			assert.Nil(t, lex.lastInput, "engine must not be called for bad requests")

			var out ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
			assert.Contains(t, out.Error, "Bad Request")
		})
	}
}

func TestHandler_Handle_EngineFailure(t *testing.T) {
	lex := &fakeLexRuntime{err: errors.New("connection refused")}
	handler := NewHandler(createTestConfig(), lex, logger.NewNoOpLogger())

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		Body: chatBody(t, "user-1", "hello"),
	})

	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var out ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	// No internal detail leaks into the 500 body.
	assert.Equal(t, "Internal server error", out.Error)
	assert.NotContains(t, out.Error, "connection refused")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing bot id", func(c *Config) { c.BotID = "" }, "bot_id"},
		{"missing alias id", func(c *Config) { c.BotAliasID = "" }, "bot_alias_id"},
		{"missing locale", func(c *Config) { c.LocaleID = "" }, "locale_id"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
