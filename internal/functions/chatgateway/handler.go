package chatgateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimev2"
	lextypes "github.com/aws/aws-sdk-go-v2/service/lexruntimev2/types"
	"github.com/xeipuuv/gojsonschema"

	cerrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
)

const (
	FunctionName = "chat-gateway"

	defaultUserID   = "default-user"
	botResponseID   = "bot-response"
	fallbackMessage = "Sorry, I didn't understand that."
)

// requestSchema validates the envelope before anything touches the
// engine. Rejections become 400s, never 500s. Only "unstructured.text"
// is mandatory; frontends may omit the message type tag.
const requestSchema = `{
	"type": "object",
	"required": ["messages"],
	"properties": {
		"messages": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["unstructured"],
				"properties": {
					"type": {"type": "string"},
					"unstructured": {
						"type": "object",
						"required": ["text"],
						"properties": {
							"id": {"type": "string"},
							"text": {"type": "string"},
							"timestamp": {"type": "string"}
						}
					}
				}
			}
		}
	}
}`

// LexRuntime is the engine call the handler needs, narrowed for mocking.
type LexRuntime interface {
	RecognizeText(ctx context.Context, input *lexruntimev2.RecognizeTextInput) (*lexruntimev2.RecognizeTextOutput, error)
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin": "*",
	"Content-Type":                "application/json",
}

type Handler struct {
	config *Config
	lex    LexRuntime
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewHandler(config *Config, lex LexRuntime, log logger.Logger) *Handler {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(requestSchema))
	if err != nil {
		// The schema is a compile-time constant; failing to parse it is
		// a programming error.
		panic(err)
	}
	return &Handler{
		config: config,
		lex:    lex,
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"function": FunctionName}),
	}
}

// Handle relays one chat turn from the HTTP frontend to the engine.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	metrics.FunctionInvocations.WithLabelValues(FunctionName).Inc()
	timer := time.Now()
	defer func() {
		metrics.FunctionDuration.WithLabelValues(FunctionName).Observe(time.Since(timer).Seconds())
	}()

	input, err := h.parseRequest(req.Body)
	if err != nil {
		serr := cerrors.NewMalformedChatRequestError(err.Error())
		h.logger.Warn("rejected chat request", map[string]interface{}{
			"error": serr.Details,
		})
		metrics.FunctionFailures.WithLabelValues(FunctionName, string(serr.Code)).Inc()
		return errorResponse(http.StatusBadRequest, "Bad Request: "+err.Error()), nil
	}

	text := strings.TrimSpace(input.Messages[0].Unstructured.Text)
	sessionID := input.Messages[0].Unstructured.ID
	if sessionID == "" {
		sessionID = defaultUserID
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	out, err := h.lex.RecognizeText(ctx, &lexruntimev2.RecognizeTextInput{
		BotId:      aws.String(h.config.BotID),
		BotAliasId: aws.String(h.config.BotAliasID),
		LocaleId:   aws.String(h.config.LocaleID),
		SessionId:  aws.String(sessionID),
		Text:       aws.String(text),
	})
	if err != nil {
		serr := cerrors.NewEngineUnavailableError(err)
		h.logger.Error("engine call failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     serr.Details,
		})
		metrics.FunctionFailures.WithLabelValues(FunctionName, string(serr.Code)).Inc()
		return errorResponse(http.StatusInternalServerError, "Internal server error"), nil
	}

	replies := make([]string, 0, len(out.Messages))
	for _, m := range out.Messages {
		if m.Content != nil && *m.Content != "" {
			replies = append(replies, *m.Content)
		}
	}
	if len(replies) == 0 {
		replies = append(replies, fallbackMessage)
	}

	h.logger.Info("chat turn relayed", map[string]interface{}{
		"sessionId": sessionID,
		"replies":   len(replies),
	})

	return okResponse(replies, out.SessionState), nil
}

// parseRequest validates the raw body against the envelope schema and
// decodes it.
func (h *Handler) parseRequest(body string) (*ChatRequest, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("empty request body")
	}

	result, err := h.schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return nil, errors.New("invalid JSON body")
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, errors.New(strings.Join(details, "; "))
	}

	var input ChatRequest
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		return nil, errors.New("invalid JSON body")
	}
	return &input, nil
}

func okResponse(replies []string, sessionState *lextypes.SessionState) events.APIGatewayProxyResponse {
	now := time.Now().UTC().Format(time.RFC3339)

	messages := make([]ChatMessage, 0, len(replies))
	for _, reply := range replies {
		messages = append(messages, ChatMessage{
			Type: "unstructured",
			Unstructured: UnstructuredMessage{
				ID:        botResponseID,
				Text:      reply,
				Timestamp: now,
			},
		})
	}

	body, _ := json.Marshal(ChatResponse{Messages: messages, SessionState: sessionState})
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders,
		Body:       string(body),
	}
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(ErrorResponse{Error: message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(body),
	}
}
