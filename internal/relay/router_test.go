package relay

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"groupctl/internal/domain"
)

func TestRouter_ReadFlow(t *testing.T) {
	r := NewRouter()
	ch, err := r.Register("sub-1", readKey, time.Now().Add(time.Second))
	require.NoError(t, err)

	r.Dispatch(&EventFrame{Sub: "sub-1", Event: domain.Event{ID: "e1"}})
	r.Dispatch(&EventFrame{Sub: "sub-1", Event: domain.Event{ID: "e2"}})
	r.Dispatch(&EOSEFrame{Sub: "sub-1"})

	require.Equal(t, "e1", (<-ch).Event.ID)
	require.Equal(t, "e2", (<-ch).Event.ID)
	require.True(t, (<-ch).Done)
	require.Zero(t, r.pendingCount())
}

func TestRouter_WriteFlowByEventID(t *testing.T) {
	r := NewRouter()
	ch, err := r.Register("ev-abc", writeKey, time.Now().Add(time.Second))
	require.NoError(t, err)

	r.Dispatch(&OKFrame{EventID: "ev-abc", Accepted: true})

	out := <-ch
	require.NotNil(t, out.OK)
	require.True(t, out.OK.Accepted)
	require.Zero(t, r.pendingCount())
}

func TestRouter_DuplicateKey(t *testing.T) {
	r := NewRouter()
	_, err := r.Register("sub-1", readKey, time.Now().Add(time.Second))
	require.NoError(t, err)
	_, err = r.Register("sub-1", readKey, time.Now().Add(time.Second))
	require.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestRouter_UnmatchedFramesDropped(t *testing.T) {
	r := NewRouter()
	ch, err := r.Register("sub-1", readKey, time.Now().Add(time.Second))
	require.NoError(t, err)

	// Unrelated traffic and a write-keyed ack must not reach a read waiter.
	r.Dispatch(&EventFrame{Sub: "other", Event: domain.Event{ID: "e1"}})
	r.Dispatch(&OKFrame{EventID: "sub-1", Accepted: true})
	r.Dispatch(&EOSEFrame{Sub: "other"})

	select {
	case out := <-ch:
		t.Fatalf("unexpected delivery: %+v", out)
	case <-time.After(50 * time.Millisecond):
	}
	require.Equal(t, 1, r.pendingCount())
}

func TestRouter_TimeoutReleasesKey(t *testing.T) {
	r := NewRouter()
	ch, err := r.Register("sub-1", readKey, time.Now().Add(30*time.Millisecond))
	require.NoError(t, err)

	select {
	case out := <-ch:
		require.ErrorIs(t, out.Err, domain.ErrTimeout)
	case <-time.After(time.Second):
		t.Fatal("deadline never fired")
	}
	require.Zero(t, r.pendingCount())

	// The key is reusable once released.
	_, err = r.Register("sub-1", readKey, time.Now().Add(time.Second))
	require.NoError(t, err)
}

func TestRouter_CancelReleasesWithoutDelivery(t *testing.T) {
	r := NewRouter()
	ch, err := r.Register("sub-1", readKey, time.Now().Add(time.Second))
	require.NoError(t, err)

	r.Cancel("sub-1")
	require.Zero(t, r.pendingCount())
	select {
	case out := <-ch:
		t.Fatalf("unexpected delivery after cancel: %+v", out)
	default:
	}
}

func TestRouter_FailAllUnblocksEveryPending(t *testing.T) {
	r := NewRouter()
	readCh, err := r.Register("sub-1", readKey, time.Now().Add(time.Minute))
	require.NoError(t, err)
	writeCh, err := r.Register("ev-abc", writeKey, time.Now().Add(time.Minute))
	require.NoError(t, err)

	cause := errors.New("connection reset")
	r.FailAll(cause)

	require.ErrorIs(t, (<-readCh).Err, cause)
	require.ErrorIs(t, (<-writeCh).Err, cause)
	require.Zero(t, r.pendingCount())

	// A failed router refuses new registrations.
	_, err = r.Register("sub-2", readKey, time.Now().Add(time.Second))
	require.ErrorIs(t, err, cause)
}
