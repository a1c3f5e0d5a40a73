package signaling

import "errors"

// Every failure a client request can hit. Errors are local to the requesting
// connection; teardown paths never surface them.
var (
	ErrDuplicateConnection = errors.New("connection already registered")
	ErrNotRegistered       = errors.New("connection is not registered")
	ErrAlreadyInCall       = errors.New("user is already in a call or waiting for one")
	ErrNotInRoom           = errors.New("sender is not a member of this room")
	ErrPeerUnavailable     = errors.New("no reachable peer in this room")
	ErrRoomNotFound        = errors.New("room not found")
)

// errorKind maps an error to the stable kind string reported on the wire.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateConnection):
		return "duplicate-connection"
	case errors.Is(err, ErrNotRegistered):
		return "not-registered"
	case errors.Is(err, ErrAlreadyInCall):
		return "already-in-call"
	case errors.Is(err, ErrNotInRoom):
		return "not-in-room"
	case errors.Is(err, ErrPeerUnavailable):
		return "peer-unavailable"
	case errors.Is(err, ErrRoomNotFound):
		return "room-not-found"
	default:
		return "bad-message"
	}
}
