package dialogmanager

import (
	"fmt"
	"strings"

	"dining-concierge/internal/models"
)

var (
	validCities   = []string{"new york"}
	validCuisines = []string{"chinese", "indian", "italian", "mexican", "thai"}
)

// validateSlots checks filled slots against the service allow-lists.
// Empty slots are not violations; the engine keeps prompting for those.
// Violation messages quote the user's raw value, not the normalized one.
func validateSlots(slots map[string]*models.Slot) ValidationResult {
	if loc := slots[models.SlotLocation]; loc.Filled() {
		city := strings.ToLower(loc.Interpreted())
		if !contains(validCities, city) {
			return ValidationResult{
				IsValid:      false,
				ViolatedSlot: models.SlotLocation,
				Message:      fmt.Sprintf("We do not have suggestions in %s currently. Please choose New York to proceed further.", loc.Original()),
			}
		}
	}

	if cui := slots[models.SlotCuisine]; cui.Filled() {
		cuisine := strings.ToLower(cui.Interpreted())
		if !contains(validCuisines, cuisine) {
			return ValidationResult{
				IsValid:      false,
				ViolatedSlot: models.SlotCuisine,
				Message:      fmt.Sprintf("We do not have suggestions for %s restaurants currently. Please choose from %s.", cui.Original(), strings.Join(validCuisines, ", ")),
			}
		}
	}

	return ValidationResult{IsValid: true}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
