package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// drain pops every payload currently buffered on the connection.
// The write loop is never started in these tests, so Send only enqueues.
func drain(c *Connection) [][]byte {
	var out [][]byte
	for {
		select {
		case payload := <-c.send:
			out = append(out, payload)
		default:
			return out
		}
	}
}

func Test_Broadcast_ReachesEveryMember(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	a := NewConnection(nil)
	b := NewConnection(nil)
	reg.Join("demo", a)
	reg.Join("demo", b)

	delivered := reg.Broadcast("demo", []byte("hi"), "")
	req.Equal(2, delivered)
	req.Len(drain(a), 1)
	req.Len(drain(b), 1)
}

func Test_Broadcast_CanExcludeTheSender(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	a := NewConnection(nil)
	b := NewConnection(nil)
	reg.Join("demo", a)
	reg.Join("demo", b)

	delivered := reg.Broadcast("demo", []byte("joined"), a.ID)
	req.Equal(1, delivered)
	req.Empty(drain(a))
	req.Len(drain(b), 1)
}

func Test_Broadcast_DoesNotCrossRooms(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	a := NewConnection(nil)
	b := NewConnection(nil)
	reg.Join("demo", a)
	reg.Join("other", b)

	delivered := reg.Broadcast("demo", []byte("hi"), "")
	req.Equal(1, delivered)
	req.Empty(drain(b))
}

func Test_Broadcast_EmptyRoomDeliversNothing(t *testing.T) {
	require.Zero(t, NewRegistry().Broadcast("ghost", []byte("hi"), ""))
}

func Test_Leave_RemovesMemberAndTearsDownEmptyRoom(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	a := NewConnection(nil)
	b := NewConnection(nil)
	reg.Join("demo", a)
	reg.Join("demo", b)

	reg.Leave("demo", a)
	req.Equal(1, reg.Members("demo"))
	req.Zero(reg.Broadcast("demo", []byte("x"), b.ID))

	reg.Leave("demo", b)
	req.Zero(reg.Members("demo"))
	// The room entry is gone once the last member leaves.
	req.NotContains(reg.rooms, "demo")
	req.Empty(reg.connRooms)
}

func Test_Detach_LeavesEveryJoinedRoom(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	a := NewConnection(nil)
	observer := NewConnection(nil)
	reg.Join("demo", a)
	reg.Join("other", a)
	reg.Join("other", observer)

	reg.Detach(a)

	req.Zero(reg.Members("demo"))
	req.Equal(1, reg.Members("other"))
	req.NotContains(reg.connRooms, a.ID)
}

func Test_Join_IsIdempotentPerConnection(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	a := NewConnection(nil)
	reg.Join("demo", a)
	reg.Join("demo", a)

	req.Equal(1, reg.Members("demo"))
	req.Equal(1, reg.Broadcast("demo", []byte("once"), ""))
	req.Len(drain(a), 1)
}

func Test_Send_FailsAfterClose(t *testing.T) {
	req := require.New(t)
	for i := 0; i < 200; i++ {
		c := NewConnection(nil)
		c.Close(1000, "bye")
		req.Error(c.Send([]byte("late")), "iteration %d", i)
	}
}

func Test_Close_DuringConcurrentSendsIsSafe(t *testing.T) {
	for i := 0; i < 100; i++ {
		c := NewConnection(nil)
		done := make(chan struct{})
		go func() {
			// Overrun the buffer so Send itself triggers Close while the
			// other goroutine is closing too.
			for j := 0; j < sendBuffer+8; j++ {
				_ = c.Send([]byte("x"))
			}
			close(done)
		}()
		c.Close(1001, "shutdown")
		<-done
	}
}
