package types

// AlertStatusLost is the only alert status the escalation path emits.
const AlertStatusLost = "lost"

// AlertPayload is what the SOS control and the emergency escalation both
// submit to the alert webhook.
type AlertPayload struct {
	SubjectID string `json:"userId"`
	Status    string `json:"status"`
	// Message is an optional human-readable summary for the recipient.
	Message           string        `json:"message,omitempty"`
	Route             *RouteSummary `json:"route,omitempty"`
	LastKnownPosition *Position     `json:"lastKnownPosition,omitempty"`
}
