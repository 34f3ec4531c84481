package dialogmanager

import (
	"context"
	"fmt"
	"time"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/models"
)

const (
	FunctionName = "dialog-manager"

	IntentGreeting         = "GreetingIntent"
	IntentThankYou         = "ThankYouIntent"
	IntentDiningSuggestion = "DiningSuggestionIntent"

	greetingMessage   = "Hi there, how can I help you today?"
	thankYouMessage   = "You're welcome! Let me know if you need anything else"
	fallbackMessage   = "Sorry, I did not understand your request."
	unexpectedMessage = "I encountered an unexpected issue."
	missingSlotsMsg   = "Sorry, I am missing some details to complete your request."
	enqueueFailedMsg  = "Sorry, I couldn't process your request to send the email at this time."
)

type Handler struct {
	config *Config
	store  PreferenceStore
	queue  RequestQueue
	logger logger.Logger
}

func NewHandler(config *Config, store PreferenceStore, queue RequestQueue, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		queue:  queue,
		logger: log.WithFields(map[string]interface{}{"function": FunctionName}),
	}
}

// Handle routes one code-hook turn by intent. It always produces a
// well-formed response for the engine; infrastructure failures surface
// to the user as a failed close, never as a handler error.
func (h *Handler) Handle(ctx context.Context, event models.LexEvent) (models.LexResponse, error) {
	metrics.FunctionInvocations.WithLabelValues(FunctionName).Inc()
	timer := time.Now()
	defer func() {
		metrics.FunctionDuration.WithLabelValues(FunctionName).Observe(time.Since(timer).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	intentName := event.SessionState.Intent.Name
	attrs := event.SessionState.SessionAttributes

	h.logger.Info("processing turn", map[string]interface{}{
		"intent":           intentName,
		"sessionId":        event.SessionID,
		"invocationSource": event.InvocationSource,
	})

	switch intentName {
	case IntentGreeting:
		return closeSession(&event, greetingMessage, models.FulfillmentFulfilled, attrs), nil
	case IntentThankYou:
		return closeSession(&event, thankYouMessage, models.FulfillmentFulfilled, attrs), nil
	case IntentDiningSuggestion:
		return h.handleDiningSuggestion(ctx, &event), nil
	default:
		return closeSession(&event, fallbackMessage, models.FulfillmentFailed, attrs), nil
	}
}

func (h *Handler) handleDiningSuggestion(ctx context.Context, event *models.LexEvent) models.LexResponse {
	userID := event.SessionID
	slots := event.SessionState.Intent.Slots
	if slots == nil {
		slots = map[string]*models.Slot{}
	}
	confirmation := event.SessionState.Intent.ConfirmationState
	attrs := ParseSessionAttributes(event.SessionState.SessionAttributes)

	lastSearch, err := h.store.GetLastSearch(ctx, userID)
	if err != nil {
		// Degrade to the no-history path rather than stalling the
		// conversation.
		h.logger.WithError(err).Warn("preference lookup failed", map[string]interface{}{
			"sessionId": userID,
		})
		lastSearch = nil
	}

	switch event.InvocationSource {
	case models.DialogCodeHook:
		return h.handleDialogTurn(event, slots, confirmation, attrs, lastSearch)
	case models.FulfillmentCodeHook:
		return h.handleFulfillmentTurn(ctx, event, slots, confirmation, attrs)
	}

	return closeSession(event, unexpectedMessage, models.FulfillmentFailed, event.SessionState.SessionAttributes)
}

func (h *Handler) handleDialogTurn(event *models.LexEvent, slots map[string]*models.Slot, confirmation models.ConfirmationState, attrs SessionAttributes, lastSearch *models.PreferenceRecord) models.LexResponse {
	// Offer to reuse the stored preference once, before confirmation
	// has started and only while the user hasn't turned it down.
	if lastSearch != nil && confirmation == models.ConfirmationNone && !attrs.DeniedPreviousOffer {
		if loc := slots[models.SlotLocation]; loc.Filled() && loc.Interpreted() == lastSearch.LastLocation {
			attrs.DeniedPreviousOffer = false
			message := fmt.Sprintf("I have your previous preferences: %s food in %s at %s. Do you want to use them?",
				lastSearch.LastCuisine, lastSearch.LastLocation, lastSearch.DiningTime)
			return confirmIntent(event, message, attrs.ToMap(event.SessionState.SessionAttributes))
		}
	}

	// Fresh collection: no history, the offer was denied just now, or a
	// denial is carried in the session attributes.
	if confirmation == models.ConfirmationDenied || lastSearch == nil || attrs.DeniedPreviousOffer {
		attrs.DeniedPreviousOffer = confirmation == models.ConfirmationDenied || attrs.DeniedPreviousOffer

		result := validateSlots(slots)
		if !result.IsValid {
			return elicitSlot(event, result.ViolatedSlot, result.Message, attrs.ToMap(event.SessionState.SessionAttributes))
		}
		return delegate(event, slots, attrs.ToMap(event.SessionState.SessionAttributes))
	}

	// Reuse accepted: replay every stored value into the slot set so
	// the engine sees a complete intent and moves to fulfillment.
	if confirmation == models.ConfirmationConfirmed {
		if lastSearch != nil {
			slots[models.SlotLocation] = models.FilledSlot(lastSearch.LastLocation)
			slots[models.SlotCuisine] = models.FilledSlot(lastSearch.LastCuisine)
			slots[models.SlotDiningTime] = models.FilledSlot(lastSearch.DiningTime)
			slots[models.SlotNumPeople] = models.FilledSlot(lastSearch.NumPeople)
			slots[models.SlotEmail] = models.FilledSlot(lastSearch.Email)
		}
		attrs.DeniedPreviousOffer = false
		return delegate(event, slots, attrs.ToMap(event.SessionState.SessionAttributes))
	}

	return delegate(event, slots, attrs.ToMap(event.SessionState.SessionAttributes))
}

func (h *Handler) handleFulfillmentTurn(ctx context.Context, event *models.LexEvent, slots map[string]*models.Slot, confirmation models.ConfirmationState, attrs SessionAttributes) models.LexResponse {
	for _, name := range models.RequiredSlots {
		if !slots[name].Filled() {
			return closeSession(event, missingSlotsMsg, models.FulfillmentFailed, event.SessionState.SessionAttributes)
		}
	}

	request := &models.FulfillmentRequest{
		Location:   slots[models.SlotLocation].Interpreted(),
		Cuisine:    slots[models.SlotCuisine].Interpreted(),
		DiningTime: slots[models.SlotDiningTime].Interpreted(),
		NumPeople:  slots[models.SlotNumPeople].Interpreted(),
		Email:      slots[models.SlotEmail].Interpreted(),
		SessionID:  event.SessionID,
	}

	if confirmation == models.ConfirmationConfirmed {
		request.State = models.ProvenanceOld
	} else {
		request.State = models.ProvenanceNew
		// Persist before enqueueing so the worker never references a
		// preference that was not durably written.
		if err := h.store.StoreLastSearch(ctx, &models.PreferenceRecord{
			UserID:       event.SessionID,
			LastLocation: request.Location,
			LastCuisine:  request.Cuisine,
			DiningTime:   request.DiningTime,
			NumPeople:    request.NumPeople,
			Email:        request.Email,
		}); err != nil {
			// The search can still be fulfilled without the stored
			// preference; only the reuse offer is lost.
			h.logger.WithError(err).Warn("failed to store preference", map[string]interface{}{
				"sessionId": event.SessionID,
			})
		}
	}

	if err := h.queue.Publish(ctx, request); err != nil {
		h.logger.WithError(err).Error("failed to enqueue fulfillment request", map[string]interface{}{
			"sessionId": event.SessionID,
		})
		metrics.FunctionFailures.WithLabelValues(FunctionName, "QUEUE_PUBLISH_FAILED").Inc()
		return closeSession(event, enqueueFailedMsg, models.FulfillmentFailed, event.SessionState.SessionAttributes)
	}

	h.logger.Info("fulfillment request enqueued", map[string]interface{}{
		"sessionId": event.SessionID,
		"cuisine":   request.Cuisine,
		"state":     request.State,
	})

	attrs.DeniedPreviousOffer = false
	message := fmt.Sprintf("Got it! We received your request for %s in %s and will send the recommendations to %s shortly.",
		request.Cuisine, request.Location, request.Email)
	return closeSession(event, message, models.FulfillmentFulfilled, attrs.ToMap(event.SessionState.SessionAttributes))
}
