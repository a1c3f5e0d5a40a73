package signaling

// waitingQueue is the FIFO of users awaiting a match. Insertion order is
// pairing order. Not self-locking; the Matchmaker serializes access.
type waitingQueue struct {
	users []*User
}

func newWaitingQueue() *waitingQueue {
	return &waitingQueue{}
}

// push appends a user to the tail. The caller guarantees the user is idle and
// not already queued.
func (q *waitingQueue) push(user *User) {
	q.users = append(q.users, user)
}

// pop removes and returns the longest-waiting user, or nil when empty.
func (q *waitingQueue) pop() *User {
	if len(q.users) == 0 {
		return nil
	}
	user := q.users[0]
	q.users = q.users[1:]
	return user
}

// remove drops the user with the given connection ID from the queue, if
// present. Used when a waiting user leaves or disconnects.
func (q *waitingQueue) remove(connectionID string) bool {
	for i, user := range q.users {
		if user.ConnectionID == connectionID {
			q.users = append(q.users[:i], q.users[i+1:]...)
			return true
		}
	}
	return false
}

func (q *waitingQueue) contains(connectionID string) bool {
	for _, user := range q.users {
		if user.ConnectionID == connectionID {
			return true
		}
	}
	return false
}

func (q *waitingQueue) size() int {
	return len(q.users)
}
