package types

// Event represents a typed event emitted during state transitions. Attributes
// carry string-encoded payload fields so downstream indexers never need to
// understand module internals.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
