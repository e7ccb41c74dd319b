package relay

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"groupctl/internal/domain"
)

// outcomeBuffer sizes each correlation channel. Events stream into the
// buffer while the waiter drains; terminal outcomes arrive after the key is
// already released.
const outcomeBuffer = 64

// Outcome is one delivery to a waiting operation. Exactly one of the fields
// is meaningful: Event for a streamed read result, Done for end of stored
// events, OK for a write acknowledgment, Err for timeout or transport
// failure. Done, OK and Err are terminal; the correlation key is released
// before they are delivered.
type Outcome struct {
	Event *domain.Event
	Done  bool
	OK    *OKFrame
	Err   error
}

type keyKind int

const (
	readKey  keyKind = iota // subscription label
	writeKey                // expected event identifier
)

type pending struct {
	kind  keyKind
	ch    chan Outcome
	timer *time.Timer
}

// Router demultiplexes inbound frames to whichever operation is waiting.
// Read flows correlate by subscription label, write flows by the event
// identifier embedded in the OK frame. At most one pending correlation per
// key; a key is released exactly once, by its EOSE/OK, its deadline, a
// cancel, or transport failure.
type Router struct {
	mu      sync.Mutex
	pending map[string]*pending
	failed  error
}

func NewRouter() *Router {
	return &Router{pending: make(map[string]*pending)}
}

// Register creates a pending correlation with its own deadline timer.
func (r *Router) Register(key string, kind keyKind, deadline time.Time) (<-chan Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed != nil {
		return nil, r.failed
	}
	if _, ok := r.pending[key]; ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateKey, key)
	}
	p := &pending{kind: kind, ch: make(chan Outcome, outcomeBuffer)}
	p.timer = time.AfterFunc(time.Until(deadline), func() { r.expire(key, p) })
	r.pending[key] = p
	return p.ch, nil
}

// Cancel releases a correlation without delivering a result.
func (r *Router) Cancel(key string) {
	r.mu.Lock()
	p, ok := r.pending[key]
	if ok {
		delete(r.pending, key)
	}
	r.mu.Unlock()
	if ok {
		p.timer.Stop()
	}
}

// Dispatch routes one inbound frame. Frames with no pending correlation are
// dropped: unrelated traffic or late duplicates.
func (r *Router) Dispatch(f Frame) {
	switch f := f.(type) {
	case *EventFrame:
		r.mu.Lock()
		p, ok := r.pending[f.Sub]
		if ok && p.kind != readKey {
			ok = false
		}
		r.mu.Unlock()
		if !ok {
			log.Debug().Str("sub", f.Sub).Msg("dropping event for unknown subscription")
			return
		}
		deliver(p, Outcome{Event: &f.Event})

	case *EOSEFrame:
		if p := r.release(f.Sub, readKey); p != nil {
			deliver(p, Outcome{Done: true})
		}

	case *OKFrame:
		if p := r.release(f.EventID, writeKey); p != nil {
			deliver(p, Outcome{OK: f})
		} else {
			log.Debug().Str("event_id", f.EventID).Msg("dropping ack for unknown submission")
		}

	default:
		log.Debug().Str("label", f.Label()).Msg("dropping unroutable frame")
	}
}

// FailAll resolves every pending correlation with err and fails future
// registrations. Called on transport failure.
func (r *Router) FailAll(err error) {
	r.mu.Lock()
	drained := r.pending
	r.pending = make(map[string]*pending)
	if r.failed == nil {
		r.failed = err
	}
	r.mu.Unlock()

	for _, p := range drained {
		p.timer.Stop()
		deliver(p, Outcome{Err: err})
	}
}

// release removes and returns the pending entry for key, or nil.
func (r *Router) release(key string, kind keyKind) *pending {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[key]
	if !ok || p.kind != kind {
		return nil
	}
	delete(r.pending, key)
	p.timer.Stop()
	return p
}

// expire fires when a deadline elapses before resolution.
func (r *Router) expire(key string, p *pending) {
	r.mu.Lock()
	if r.pending[key] != p {
		r.mu.Unlock()
		return
	}
	delete(r.pending, key)
	r.mu.Unlock()
	log.Debug().Str("key", key).Msg("correlation deadline elapsed")
	deliver(p, Outcome{Err: domain.ErrTimeout})
}

// deliver never blocks the dispatch path; the buffer is generous and the
// waiter drains continuously, so a drop indicates an abandoned waiter.
func deliver(p *pending, out Outcome) {
	select {
	case p.ch <- out:
	default:
		log.Warn().Msg("dropping outcome for stalled correlation channel")
	}
}

// pendingCount reports live correlation keys.
func (r *Router) pendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
