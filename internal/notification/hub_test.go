package notification

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	mu        sync.Mutex
	written   [][]byte
	deadlines int
	writeErr  error
	// when set, WriteMessage blocks until the conn is closed
	stall  bool
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	if f.stall {
		<-f.closed
		return errors.New("closed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, data)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deadlines++
	return nil
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) messages() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.written...)
}

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

func serve(h *Hub, conn *fakeConn, sub Subscriber) <-chan error {
	done := make(chan error, 1)
	go func() { done <- h.Serve(conn, sub) }()
	return done
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Clients() == n }, time.Second, 5*time.Millisecond)
}

func waitMessages(t *testing.T, c *fakeConn, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return len(c.messages()) == n }, time.Second, 5*time.Millisecond)
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub(zap.NewNop())
	owner, admin := newFakeConn(), newFakeConn()
	serve(h, owner, Subscriber{UserID: "c-1"})
	serve(h, admin, Subscriber{UserID: "a-1", Admin: true})
	waitClients(t, h, 2)

	h.Broadcast("c-1", New(TypeOrderStatusUpdate, "ord-1", map[string]string{"status": "shipped"}))

	for _, c := range []*fakeConn{owner, admin} {
		waitMessages(t, c, 1)

		var n Notification
		require.NoError(t, json.Unmarshal(c.messages()[0], &n))
		assert.Equal(t, TypeOrderStatusUpdate, n.Type)
		assert.Equal(t, "ord-1", n.OrderID)
	}
	owner.mu.Lock()
	assert.Equal(t, 1, owner.deadlines)
	owner.mu.Unlock()
}

func TestHubOnlyNotifiesOwnerAndAdmins(t *testing.T) {
	h := NewHub(zap.NewNop())
	owner, other, anonymous := newFakeConn(), newFakeConn(), newFakeConn()
	serve(h, owner, Subscriber{UserID: "c-1"})
	serve(h, other, Subscriber{UserID: "c-2"})
	serve(h, anonymous, Subscriber{})
	waitClients(t, h, 3)

	h.Broadcast("c-1", New(TypePaymentStatusUpdate, "ord-1", map[string]string{"paidAmount": "230"}))
	h.Broadcast("", New(TypePaymentStatusUpdate, "ord-x", nil))

	waitMessages(t, owner, 1)
	// give the writer goroutines a chance to deliver anything misrouted
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, other.messages())
	assert.Empty(t, anonymous.messages())
}

func TestHubDropsFailingClient(t *testing.T) {
	h := NewHub(zap.NewNop())
	good, bad := newFakeConn(), newFakeConn()
	bad.writeErr = errors.New("broken pipe")
	serve(h, good, Subscriber{Admin: true})
	done := serve(h, bad, Subscriber{Admin: true})
	waitClients(t, h, 2)

	h.Broadcast("c-1", New(TypePaymentStatusUpdate, "ord-1", nil))

	waitClients(t, h, 1)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("serve did not return for dropped client")
	}
	waitMessages(t, good, 1)
}

func TestHubStalledClientDoesNotBlockBroadcast(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.sendBuffer = 2
	stalled, other := newFakeConn(), newFakeConn()
	stalled.stall = true
	serve(h, stalled, Subscriber{UserID: "c-1"})
	serve(h, other, Subscriber{UserID: "c-2"})
	waitClients(t, h, 2)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			h.Broadcast("c-1", New(TypeOrderStatusUpdate, "ord-1", i))
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a stalled client")
	}

	waitClients(t, h, 1)
	assert.True(t, stalled.isClosed())
	assert.False(t, other.isClosed())
}

func TestHubDisconnect(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := newFakeConn()
	done := serve(h, c, Subscriber{UserID: "c-1"})
	waitClients(t, h, 1)

	c.Close()

	require.NoError(t, <-done)
	assert.Equal(t, 0, h.Clients())
}

func TestHubClose(t *testing.T) {
	h := NewHub(zap.NewNop())
	c := newFakeConn()
	done := serve(h, c, Subscriber{UserID: "c-1"})
	waitClients(t, h, 1)

	h.Close()
	require.NoError(t, <-done)
	assert.Equal(t, 0, h.Clients())

	assert.ErrorIs(t, h.Serve(newFakeConn(), Subscriber{}), ErrHubClosed)
}
