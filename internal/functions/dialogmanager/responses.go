package dialogmanager

import (
	"dining-concierge/internal/models"
)

// Response builders. Each one round-trips the engine-owned session
// state and attaches the next dialog action.

func elicitSlot(event *models.LexEvent, slotName, message string, attrs map[string]string) models.LexResponse {
	return models.LexResponse{
		SessionState: models.SessionState{
			DialogAction: &models.DialogAction{
				Type:         models.ActionElicitSlot,
				SlotToElicit: slotName,
			},
			Intent:            event.SessionState.Intent,
			SessionAttributes: attrs,
		},
		Messages: models.PlainText(message),
	}
}

func confirmIntent(event *models.LexEvent, message string, attrs map[string]string) models.LexResponse {
	return models.LexResponse{
		SessionState: models.SessionState{
			DialogAction:      &models.DialogAction{Type: models.ActionConfirmIntent},
			Intent:            event.SessionState.Intent,
			SessionAttributes: attrs,
		},
		Messages: models.PlainText(message),
	}
}

func delegate(event *models.LexEvent, slots map[string]*models.Slot, attrs map[string]string) models.LexResponse {
	intent := event.SessionState.Intent
	intent.Slots = slots

	return models.LexResponse{
		SessionState: models.SessionState{
			DialogAction:      &models.DialogAction{Type: models.ActionDelegate},
			Intent:            intent,
			SessionAttributes: attrs,
		},
	}
}

func closeSession(event *models.LexEvent, message, fulfillmentState string, attrs map[string]string) models.LexResponse {
	return models.LexResponse{
		SessionState: models.SessionState{
			DialogAction: &models.DialogAction{Type: models.ActionClose},
			Intent: models.Intent{
				Name:  event.SessionState.Intent.Name,
				State: fulfillmentState,
			},
			SessionAttributes: attrs,
		},
		Messages: models.PlainText(message),
	}
}
