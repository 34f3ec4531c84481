package dialogmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dining-concierge/internal/models"
)

func TestValidateSlots(t *testing.T) {
	tests := []struct {
		name         string
		slots        map[string]*models.Slot
		wantValid    bool
		violatedSlot string
		wantMessage  string
	}{
		{
			name:      "empty slots are valid",
			slots:     map[string]*models.Slot{},
			wantValid: true,
		},
		{
			name: "new york accepted",
			slots: map[string]*models.Slot{
				models.SlotLocation: models.FilledSlot("new york"),
			},
			wantValid: true,
		},
		{
			name: "location is case insensitive",
			slots: map[string]*models.Slot{
				models.SlotLocation: models.FilledSlot("New York"),
			},
			wantValid: true,
		},
		{
			name: "unsupported city rejected with raw value",
			slots: map[string]*models.Slot{
				models.SlotLocation: {Value: &models.SlotValue{
					OriginalValue:    "Bostonnn",
					InterpretedValue: "boston",
				}},
			},
			wantValid:    false,
			violatedSlot: models.SlotLocation,
			wantMessage:  "We do not have suggestions in Bostonnn currently. Please choose New York to proceed further.",
		},
		{
			name: "supported cuisine accepted",
			slots: map[string]*models.Slot{
				models.SlotCuisine: models.FilledSlot("Italian"),
			},
			wantValid: true,
		},
		{
			name: "unsupported cuisine rejected with choices",
			slots: map[string]*models.Slot{
				models.SlotCuisine: {Value: &models.SlotValue{
					OriginalValue:    "French",
					InterpretedValue: "french",
				}},
			},
			wantValid:    false,
			violatedSlot: models.SlotCuisine,
			wantMessage:  "We do not have suggestions for French restaurants currently. Please choose from chinese, indian, italian, mexican, thai.",
		},
		{
			name: "location checked before cuisine",
			slots: map[string]*models.Slot{
				models.SlotLocation: {Value: &models.SlotValue{
					OriginalValue:    "Paris",
					InterpretedValue: "paris",
				}},
				models.SlotCuisine: {Value: &models.SlotValue{
					OriginalValue:    "French",
					InterpretedValue: "french",
				}},
			},
			wantValid:    false,
			violatedSlot: models.SlotLocation,
			wantMessage:  "We do not have suggestions in Paris currently. Please choose New York to proceed further.",
		},
		{
			name: "nil slot value treated as empty",
			slots: map[string]*models.Slot{
				models.SlotLocation: {},
				models.SlotCuisine:  nil,
			},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateSlots(tt.slots)
			assert.Equal(t, tt.wantValid, result.IsValid)
			if !tt.wantValid {
				assert.Equal(t, tt.violatedSlot, result.ViolatedSlot)
				assert.Equal(t, tt.wantMessage, result.Message)
			}
		})
	}
}

func TestSessionAttributes_RoundTrip(t *testing.T) {
	t.Run("parse missing key as false", func(t *testing.T) {
		attrs := ParseSessionAttributes(nil)
		assert.False(t, attrs.DeniedPreviousOffer)
	})

	t.Run("parse true", func(t *testing.T) {
		attrs := ParseSessionAttributes(map[string]string{"deniedState": "true"})
		assert.True(t, attrs.DeniedPreviousOffer)
	})

	t.Run("non-literal values are false", func(t *testing.T) {
		attrs := ParseSessionAttributes(map[string]string{"deniedState": "TRUE"})
		assert.False(t, attrs.DeniedPreviousOffer)
	})

	t.Run("to map preserves foreign keys", func(t *testing.T) {
		out := SessionAttributes{DeniedPreviousOffer: true}.ToMap(map[string]string{"other": "x"})
		assert.Equal(t, "true", out["deniedState"])
		assert.Equal(t, "x", out["other"])
	})

	t.Run("to map writes explicit false", func(t *testing.T) {
		out := SessionAttributes{}.ToMap(nil)
		assert.Equal(t, "false", out["deniedState"])
	})
}
