package signaling

import "encoding/json"

// Client-to-server message types.
const (
	TypeRegister     = "register"
	TypeRequestMatch = "request-match"
	TypeOffer        = "offer"
	TypeAnswer       = "answer"
	TypeIceCandidate = "ice-candidate"
	TypeVideoToggle  = "video-toggle"
	TypeAudioToggle  = "audio-toggle"
	TypeLeaveRoom    = "leave-room"
	TypeGetStats     = "get-stats"
)

// Server-to-client event types (relay kinds reuse the inbound names).
const (
	TypeRegistered      = "registered"
	TypeMatched         = "matched"
	TypeWaiting         = "waiting"
	TypePeerVideoToggle = "peer-video-toggle"
	TypePeerAudioToggle = "peer-audio-toggle"
	TypeUserLeft        = "user-left"
	TypeStats           = "stats"
	TypeError           = "error"
)

// Message is every client-to-server frame. Which fields matter depends on
// Type; Payload stays an uninterpreted blob (SDP and ICE contents are never
// parsed here).
type Message struct {
	Type        string          `json:"type"`
	UserID      string          `json:"userId,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
	RoomID      string          `json:"roomId,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Enabled     *bool           `json:"enabled,omitempty"`

	// client is the connection the message arrived on. Set by the read pump,
	// never sent over the wire.
	client *Client
}

// RegisteredEvent acknowledges a successful registration.
type RegisteredEvent struct {
	Type    string   `json:"type"`
	Success bool     `json:"success"`
	User    UserInfo `json:"user"`
}

// MatchedEvent is delivered to both members when a room forms.
type MatchedEvent struct {
	Type   string     `json:"type"`
	RoomID string     `json:"roomId"`
	Users  []PeerInfo `json:"users"`
}

// WaitingEvent tells a queued user that no partner is available yet.
type WaitingEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RelayEvent carries an offer, answer or ICE candidate to the peer, payload
// untouched.
type RelayEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	From    string          `json:"from"`
}

// ToggleEvent notifies the peer that the sender muted or unmuted a track.
type ToggleEvent struct {
	Type    string `json:"type"`
	From    string `json:"from"`
	Enabled bool   `json:"enabled"`
}

// UserLeftEvent notifies the remaining member that its peer is gone.
type UserLeftEvent struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
}

// StatsEvent answers a get-stats query.
type StatsEvent struct {
	Type string `json:"type"`
	Stats
}

// ErrorEvent reports a failed request back to its sender only.
type ErrorEvent struct {
	Type  string      `json:"type"`
	Error ErrorDetail `json:"error"`
}

// ErrorDetail names the failure kind plus a human-readable message.
type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
