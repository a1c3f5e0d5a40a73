package signaling

// registry is the authoritative map from live connection ID to User. It is
// not safe for concurrent use on its own; the Matchmaker serializes access.
type registry struct {
	users map[string]*User
}

func newRegistry() *registry {
	return &registry{users: make(map[string]*User)}
}

// register creates and stores a record for the connection. A second register
// before the connection is removed is a caller error.
func (r *registry) register(connectionID, userID, displayName string) (*User, error) {
	if _, exists := r.users[connectionID]; exists {
		return nil, ErrDuplicateConnection
	}
	user := &User{
		ConnectionID: connectionID,
		UserID:       userID,
		DisplayName:  displayName,
		state:        StateIdle,
	}
	r.users[connectionID] = user
	return user, nil
}

func (r *registry) lookup(connectionID string) (*User, bool) {
	user, ok := r.users[connectionID]
	return user, ok
}

// remove deletes the record. Safe to call on an absent connection.
func (r *registry) remove(connectionID string) {
	delete(r.users, connectionID)
}

func (r *registry) size() int {
	return len(r.users)
}
