// Package domain contains entity without logic, just meta-data
package domain

// Identity is the stable key (email) addressing a party across connections.
// It is supplied by the client on register; this subsystem never mints one.
type Identity string

// PartyInfo is the caller/callee info carried inside call events and
// forwarded verbatim to the other side.
type PartyInfo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// CallKind tags a call as voice or video. It is an opaque label: the server
// forwards whatever the client sent and never checks it against these values.
type CallKind string

const (
	CallVoice CallKind = "VOICE"
	CallVideo CallKind = "VIDEO"
)
