package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"groupctl/internal/domain"
)

// HandshakeState tracks the challenge-response authentication machine.
type HandshakeState int

const (
	// StateIdle means no challenge has been received. A session stuck here is
	// usable for reads only.
	StateIdle HandshakeState = iota

	// StateChallengeReceived means the relay's challenge arrived and the
	// authentication event is being built.
	StateChallengeReceived

	// StateSubmitted means the signed authentication event is in flight.
	StateSubmitted

	// StateAuthenticated means the relay accepted the authentication event.
	StateAuthenticated

	// StateAuthFailed means the relay rejected it, or signing/sending failed.
	StateAuthFailed
)

// String returns a string representation of the handshake state.
func (s HandshakeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChallengeReceived:
		return "challenge_received"
	case StateSubmitted:
		return "submitted"
	case StateAuthenticated:
		return "authenticated"
	case StateAuthFailed:
		return "auth_failed"
	default:
		return "unknown"
	}
}

// Handshake reacts to the relay's AUTH challenge: it signs an authentication
// event binding the endpoint and the challenge verbatim, submits it, and
// tracks the outcome. One handshake per session; only the first challenge is
// honoured.
type Handshake struct {
	endpoint string
	signer   domain.Signer // nil leaves the session read-only
	router   *Router
	send     func(Frame) error
	timeout  time.Duration

	mu      sync.Mutex
	state   HandshakeState
	failure error
	done    chan struct{}
}

func NewHandshake(endpoint string, signer domain.Signer, router *Router, send func(Frame) error, timeout time.Duration) *Handshake {
	return &Handshake{
		endpoint: endpoint,
		signer:   signer,
		router:   router,
		send:     send,
		timeout:  timeout,
		state:    StateIdle,
		done:     make(chan struct{}),
	}
}

// State returns the current handshake state.
func (h *Handshake) State() HandshakeState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// OnChallenge handles a server-issued challenge. Called from the frame
// delivery path; must not block on the relay's answer.
func (h *Handshake) OnChallenge(challenge string) {
	h.mu.Lock()
	if h.state != StateIdle {
		h.mu.Unlock()
		log.Debug().Msg("ignoring repeated auth challenge")
		return
	}
	if h.signer == nil {
		h.mu.Unlock()
		log.Debug().Msg("auth challenge received without signing identity; staying read-only")
		return
	}
	h.state = StateChallengeReceived
	h.mu.Unlock()

	// Tag order matters: the relay validates address first, challenge second.
	ev := domain.Event{
		Kind:      domain.KindClientAuth,
		CreatedAt: time.Now().Unix(),
		Tags: []domain.Tag{
			{"relay", h.endpoint},
			{"challenge", challenge},
		},
	}
	if err := h.signer.Sign(&ev); err != nil {
		h.fail(fmt.Errorf("sign auth event: %w", err))
		return
	}

	ch, err := h.router.Register(ev.ID, writeKey, time.Now().Add(h.timeout))
	if err != nil {
		h.fail(err)
		return
	}
	if err := h.send(&AuthSubmitFrame{Event: ev}); err != nil {
		h.router.Cancel(ev.ID)
		h.fail(err)
		return
	}

	h.mu.Lock()
	h.state = StateSubmitted
	h.mu.Unlock()
	log.Debug().Str("event_id", ev.ID).Msg("auth event submitted")

	go h.awaitVerdict(ch)
}

func (h *Handshake) awaitVerdict(ch <-chan Outcome) {
	out := <-ch
	switch {
	case out.Err != nil:
		h.fail(out.Err)
	case out.OK != nil && out.OK.Accepted:
		h.mu.Lock()
		h.state = StateAuthenticated
		h.mu.Unlock()
		close(h.done)
		log.Info().Str("endpoint", h.endpoint).Msg("authenticated with relay")
	case out.OK != nil:
		h.fail(&domain.AuthError{Msg: out.OK.Message})
	default:
		h.fail(&domain.AuthError{})
	}
}

func (h *Handshake) fail(err error) {
	h.mu.Lock()
	h.state = StateAuthFailed
	h.failure = err
	h.mu.Unlock()
	close(h.done)
	log.Warn().Err(err).Msg("relay authentication failed")
}

// Wait blocks until the handshake reaches a terminal state or ctx expires.
// A session the relay never challenged resolves to ErrAuthRequired so
// callers fail fast instead of submitting writes the relay will reject.
func (h *Handshake) Wait(ctx context.Context) error {
	select {
	case <-h.done:
	case <-ctx.Done():
		h.mu.Lock()
		state := h.state
		h.mu.Unlock()
		if state == StateIdle {
			return domain.ErrAuthRequired
		}
		return fmt.Errorf("%w: authentication pending in state %s", domain.ErrTimeout, state)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == StateAuthenticated {
		return nil
	}
	return h.failure
}
