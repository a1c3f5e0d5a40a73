package signaling

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Matchmaker owns the connection registry, the waiting queue and the room
// table behind a single mutex. Pairing, relaying and teardown each mutate all
// three views of a user's state, so every operation here is atomic with
// respect to the others: two concurrent request-match calls can never dequeue
// the same waiting user or build two rooms for one pair.
type Matchmaker struct {
	mu       sync.Mutex
	registry *registry
	queue    *waitingQueue
	rooms    *roomTable

	totalMatches uint64

	log *logrus.Entry
}

// NewMatchmaker creates an empty matchmaker.
func NewMatchmaker() *Matchmaker {
	return &Matchmaker{
		registry: newRegistry(),
		queue:    newWaitingQueue(),
		rooms:    newRoomTable(),
		log:      logrus.WithField("component", "matchmaker"),
	}
}

// Register stores a record for a new connection. Registering a connection ID
// that is already live is rejected.
func (m *Matchmaker) Register(connectionID, userID, displayName string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.registry.register(connectionID, userID, displayName)
	if err != nil {
		return nil, err
	}
	m.log.WithFields(logrus.Fields{
		"connection_id": connectionID,
		"user_id":       userID,
	}).Info("User registered")
	return user, nil
}

// Lookup returns the record for a live connection.
func (m *Matchmaker) Lookup(connectionID string) (*User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registry.lookup(connectionID)
}

// MatchResult describes the outcome of a request-match call: either a new
// room with both members, or the requester parked in the queue.
type MatchResult struct {
	Matched bool
	User    *User
	Peer    *User
	Room    *Room
}

// RequestMatch pairs the connection with the longest-waiting user, or queues
// it when nobody is waiting. A user that is already in a room or already
// queued is rejected without any state change.
func (m *Matchmaker) RequestMatch(connectionID string) (MatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.registry.lookup(connectionID)
	if !ok {
		return MatchResult{}, ErrNotRegistered
	}
	if user.state != StateIdle || m.queue.contains(connectionID) {
		return MatchResult{}, ErrAlreadyInCall
	}

	waiting := m.queue.pop()
	if waiting == nil {
		user.state = StateWaiting
		m.queue.push(user)
		m.log.WithField("connection_id", connectionID).Info("User queued for matching")
		return MatchResult{Matched: false, User: user}, nil
	}

	room := m.rooms.create(user, waiting)
	m.totalMatches++
	m.log.WithFields(logrus.Fields{
		"room_id": room.ID,
		"users":   []string{user.ConnectionID, waiting.ConnectionID},
	}).Info("Room created")
	return MatchResult{Matched: true, User: user, Peer: waiting, Room: room}, nil
}

// RelayPeer resolves the delivery target for a signaling message: the other
// member of the given room. The sender must currently belong to the room.
func (m *Matchmaker) RelayPeer(senderConnectionID, roomID string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms.get(roomID)
	if !ok || !room.hasMember(senderConnectionID) {
		return nil, ErrNotInRoom
	}
	peer := room.other(senderConnectionID)
	if peer == nil {
		return nil, ErrPeerUnavailable
	}
	return peer, nil
}

// LeaveResult names the peer to notify after a member left its room.
type LeaveResult struct {
	User   *User
	Peer   *User
	RoomID string
}

// Leave handles an explicit leave-room request. The leaver's registration
// survives, so it may request a new match afterwards. The remaining member is
// returned to idle, not re-queued.
func (m *Matchmaker) Leave(connectionID string) (LeaveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.registry.lookup(connectionID)
	if !ok {
		return LeaveResult{}, ErrNotRegistered
	}
	if user.state == StateWaiting {
		// Leaving while queued just abandons the wait; no room existed.
		m.queue.remove(connectionID)
		user.state = StateIdle
		m.log.WithField("connection_id", connectionID).Info("User left waiting queue")
		return LeaveResult{User: user}, nil
	}
	if user.state != StateInCall {
		return LeaveResult{}, ErrNotInRoom
	}

	roomID := user.roomID
	peer, _ := m.rooms.removeMember(roomID, connectionID)
	m.log.WithFields(logrus.Fields{
		"connection_id": connectionID,
		"room_id":       roomID,
	}).Info("User left room")
	return LeaveResult{User: user, Peer: peer, RoomID: roomID}, nil
}

// DisconnectResult describes what a connection's teardown unwound.
type DisconnectResult struct {
	User   *User
	Peer   *User
	RoomID string
}

// Disconnect unwinds every trace of a closed connection: queue slot, room
// membership and registry record. It never fails and is safe to call twice;
// the second call finds nothing and does nothing.
func (m *Matchmaker) Disconnect(connectionID string) DisconnectResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.registry.lookup(connectionID)
	if !ok {
		return DisconnectResult{}
	}

	result := DisconnectResult{User: user}
	prevState := user.state
	switch user.state {
	case StateWaiting:
		m.queue.remove(connectionID)
	case StateInCall:
		result.RoomID = user.roomID
		result.Peer, _ = m.rooms.removeMember(user.roomID, connectionID)
	}
	m.registry.remove(connectionID)
	m.log.WithFields(logrus.Fields{
		"connection_id": connectionID,
		"state":         prevState.String(),
	}).Info("Connection cleaned up")
	return result
}

// Stats are the ephemeral in-memory counters exposed over both the websocket
// query and the REST endpoint.
type Stats struct {
	ActiveConnections int    `json:"activeConnections"`
	WaitingUsers      int    `json:"waitingUsers"`
	ActiveRooms       int    `json:"activeRooms"`
	TotalMatches      uint64 `json:"totalMatches"`
}

// Stats returns a snapshot of the current counters.
func (m *Matchmaker) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		ActiveConnections: m.registry.size(),
		WaitingUsers:      m.queue.size(),
		ActiveRooms:       m.rooms.size(),
		TotalMatches:      m.totalMatches,
	}
}
