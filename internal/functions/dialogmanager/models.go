package dialogmanager

// deniedStateKey is the session attribute recording that the user
// already turned down the stored-preference offer this conversation.
const deniedStateKey = "deniedState"

// SessionAttributes is the typed view of the engine's string-map
// session attributes.
type SessionAttributes struct {
	DeniedPreviousOffer bool
}

// ParseSessionAttributes reads the typed attributes out of the engine's
// wire map. Anything but the literal "true" means false.
func ParseSessionAttributes(attrs map[string]string) SessionAttributes {
	return SessionAttributes{
		DeniedPreviousOffer: attrs[deniedStateKey] == "true",
	}
}

// ToMap renders the attributes back into the wire map, preserving any
// keys this function does not own.
func (s SessionAttributes) ToMap(existing map[string]string) map[string]string {
	out := make(map[string]string, len(existing)+1)
	for k, v := range existing {
		out[k] = v
	}
	if s.DeniedPreviousOffer {
		out[deniedStateKey] = "true"
	} else {
		out[deniedStateKey] = "false"
	}
	return out
}

// ValidationResult reports the first slot allow-list violation found.
type ValidationResult struct {
	IsValid      bool
	ViolatedSlot string
	Message      string
}
