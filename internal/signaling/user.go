package signaling

// CallState tracks where a user is in the matchmaking lifecycle.
type CallState int

const (
	// StateIdle: registered, not waiting, not in a call.
	StateIdle CallState = iota
	// StateWaiting: enqueued for matching.
	StateWaiting
	// StateInCall: member of a room.
	StateInCall
)

func (s CallState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateInCall:
		return "in-call"
	default:
		return "unknown"
	}
}

// User is the per-connection record tracked by the matchmaker. The identity
// fields come from the client's register message and are not verified here;
// authentication is handled upstream.
type User struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`

	state  CallState
	roomID string
}

// State reports the user's lifecycle state.
func (u *User) State() CallState { return u.state }

// RoomID returns the room the user belongs to, or "" when not in a call.
func (u *User) RoomID() string { return u.roomID }

// InCall reports whether the user is currently a room member.
func (u *User) InCall() bool { return u.state == StateInCall }

// PeerInfo is the public shape of a user echoed to other clients.
type PeerInfo struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
}

// Info returns the user's public shape.
func (u *User) Info() PeerInfo {
	return PeerInfo{ConnectionID: u.ConnectionID, DisplayName: u.DisplayName}
}

// UserInfo is the full record a user gets back about itself in the
// registration ack. Unlike PeerInfo it carries the userId, which is never
// exposed to other clients.
type UserInfo struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
}

// FullInfo returns the user's own-view shape.
func (u *User) FullInfo() UserInfo {
	return UserInfo{ConnectionID: u.ConnectionID, UserID: u.UserID, DisplayName: u.DisplayName}
}
