package ws

import "encoding/json"

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// AttachMsg subscribes the connection to a session's state stream. Token is
// a bearer JWT; UserID is accepted instead when no JWKS endpoint is
// configured (local development).
type AttachMsg struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Token     string `json:"token,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

// PlayCardMsg plays one card for the human seat of the attached session.
type PlayCardMsg struct {
	Type   string `json:"type"`
	CardID string `json:"cardId"`
}

// An "abandon" message carries no payload beyond the envelope type.

// --- Server-to-Client messages ---

// ErrorMsg is sent when a client action is invalid.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AttachedMsg confirms the connection is subscribed to a session.
type AttachedMsg struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}
