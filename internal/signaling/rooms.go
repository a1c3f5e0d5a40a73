package signaling

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// Room pairs exactly two users for signaling exchange.
type Room struct {
	ID        string
	Members   []*User
	CreatedAt time.Time
}

// other returns the member that is not the given connection, or nil.
func (r *Room) other(connectionID string) *User {
	for _, member := range r.Members {
		if member.ConnectionID != connectionID {
			return member
		}
	}
	return nil
}

// hasMember reports whether the connection is one of the room's members.
func (r *Room) hasMember(connectionID string) bool {
	for _, member := range r.Members {
		if member.ConnectionID == connectionID {
			return true
		}
	}
	return false
}

// roomTable owns room membership and identifiers. Not self-locking; the
// Matchmaker serializes access.
type roomTable struct {
	rooms map[string]*Room
}

func newRoomTable() *roomTable {
	return &roomTable{rooms: make(map[string]*Room)}
}

// create allocates a fresh room for the two users and flips both into the
// in-call state.
func (t *roomTable) create(a, b *User) *Room {
	room := &Room{
		ID:        t.newRoomID(),
		Members:   []*User{a, b},
		CreatedAt: time.Now(),
	}
	t.rooms[room.ID] = room
	for _, member := range room.Members {
		member.state = StateInCall
		member.roomID = room.ID
	}
	return room
}

func (t *roomTable) get(roomID string) (*Room, bool) {
	room, ok := t.rooms[roomID]
	return room, ok
}

// removeMember takes the leaver out of the room and returns the peer that
// remained, if any. Both sides are returned to idle and the room is destroyed
// in the same step: a one-member room is useless for relaying, and keeping it
// around with the survivor's roomID cleared would leak it.
func (t *roomTable) removeMember(roomID, connectionID string) (remaining *User, ok bool) {
	room, exists := t.rooms[roomID]
	if !exists || !room.hasMember(connectionID) {
		return nil, false
	}
	remaining = room.other(connectionID)
	for _, member := range room.Members {
		member.state = StateIdle
		member.roomID = ""
	}
	delete(t.rooms, roomID)
	return remaining, true
}

func (t *roomTable) size() int {
	return len(t.rooms)
}

// newRoomID combines a random component with a time component, matching the
// ID shape clients already handle. Regenerates on the (unlikely) collision
// with a live room.
func (t *roomTable) newRoomID() string {
	for {
		buf := make([]byte, 6)
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand failing means the platform is broken; fall back to
			// the time component alone plus a counter-free retry.
			return strconv.FormatInt(time.Now().UnixNano(), 36)
		}
		id := hex.EncodeToString(buf) + strconv.FormatInt(time.Now().UnixMilli(), 36)
		if _, exists := t.rooms[id]; !exists {
			return id
		}
	}
}
