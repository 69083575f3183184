package notification

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// A reconnecting client makes register close the previous connection's send
// channel; a concurrent push must never hit that channel after the close.
func TestHubSendDuringReconnectDoesNotPanic(t *testing.T) {
	h := NewHub()
	n := &Notification{ID: 1, UserID: 1, Type: TypeLeadAssigned, Title: "New lead assigned"}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				h.SendToUser(1, n)
			}
		}
	}()

	go func() {
		defer wg.Done()
		defer close(done)
		for i := 0; i < 5000; i++ {
			h.register(&connection{userID: 1, send: make(chan []byte, 1)})
		}
	}()

	wg.Wait()
}

func TestHubShutdownRefusesRegistration(t *testing.T) {
	h := NewHub()
	h.Shutdown()

	ok := h.register(&connection{userID: 1, send: make(chan []byte, 1)})
	assert.False(t, ok)
}
