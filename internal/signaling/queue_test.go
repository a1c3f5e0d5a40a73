package signaling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func queuedUser(id string) *User {
	return &User{ConnectionID: id, state: StateWaiting}
}

func TestQueueFIFO(t *testing.T) {
	q := newWaitingQueue()
	assert.Nil(t, q.pop())

	q.push(queuedUser("a"))
	q.push(queuedUser("b"))
	q.push(queuedUser("c"))
	assert.Equal(t, 3, q.size())

	assert.Equal(t, "a", q.pop().ConnectionID)
	assert.Equal(t, "b", q.pop().ConnectionID)
	assert.Equal(t, "c", q.pop().ConnectionID)
	assert.Nil(t, q.pop())
}

func TestQueueRemove(t *testing.T) {
	q := newWaitingQueue()
	q.push(queuedUser("a"))
	q.push(queuedUser("b"))
	q.push(queuedUser("c"))

	assert.True(t, q.remove("b"))
	assert.False(t, q.remove("b"))
	assert.False(t, q.contains("b"))
	assert.Equal(t, 2, q.size())

	// Order of the survivors is unchanged.
	assert.Equal(t, "a", q.pop().ConnectionID)
	assert.Equal(t, "c", q.pop().ConnectionID)
}
