package relay

import (
	"context"
	"fmt"
	"time"

	"groupctl/internal/domain"
)

const (
	defaultOperationTimeout = 10 * time.Second
	defaultAuthTimeout      = 5 * time.Second
)

type options struct {
	signer      domain.Signer
	opTimeout   time.Duration
	authTimeout time.Duration
}

// Option configures a Session.
type Option func(*options)

// WithSigner binds a signing identity so the session can answer the relay's
// auth challenge. Without it the session is read-only.
func WithSigner(s domain.Signer) Option {
	return func(o *options) { o.signer = s }
}

// WithOperationTimeout bounds each request/publish correlation.
func WithOperationTimeout(d time.Duration) Option {
	return func(o *options) { o.opTimeout = d }
}

// WithAuthTimeout bounds how long WaitAuthenticated waits for the relay to
// challenge and accept.
func WithAuthTimeout(d time.Duration) Option {
	return func(o *options) { o.authTimeout = d }
}

// Session is one live connection to a relay: transport, correlation router
// and authentication handshake. It is owned by the operation that dialed it
// and must be closed on every code path.
type Session struct {
	endpoint    string
	tr          *Transport
	rt          *Router
	hs          *Handshake
	opTimeout   time.Duration
	authTimeout time.Duration
}

// Dial connects to the relay endpoint and starts the frame loop. The URL is
// kept exactly as dialed; the auth handshake must echo it byte-for-byte.
func Dial(ctx context.Context, endpoint string, opts ...Option) (*Session, error) {
	o := options{
		opTimeout:   defaultOperationTimeout,
		authTimeout: defaultAuthTimeout,
	}
	for _, apply := range opts {
		apply(&o)
	}

	tr, err := DialTransport(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	rt := NewRouter()
	s := &Session{
		endpoint:    endpoint,
		tr:          tr,
		rt:          rt,
		opTimeout:   o.opTimeout,
		authTimeout: o.authTimeout,
	}
	s.hs = NewHandshake(endpoint, o.signer, rt, tr.Send, o.opTimeout)
	tr.Start(s.route, rt.FailAll)
	return s, nil
}

// route is the single inbound frame sink: the first AUTH challenge goes to
// the handshake, everything else to the router.
func (s *Session) route(f Frame) {
	if a, ok := f.(*AuthChallengeFrame); ok {
		s.hs.OnChallenge(a.Challenge)
		return
	}
	s.rt.Dispatch(f)
}

// Request subscribes under label, collects events until end-of-stored-events,
// and returns them. The server-side subscription is released with CLOSE on
// every path, including timeout and error.
func (s *Session) Request(ctx context.Context, label string, filter domain.Filter) ([]domain.Event, error) {
	ch, err := s.rt.Register(label, readKey, time.Now().Add(s.opTimeout))
	if err != nil {
		return nil, err
	}
	if err := s.tr.Send(&ReqFrame{Sub: label, Filter: filter}); err != nil {
		s.rt.Cancel(label)
		return nil, err
	}
	// Release server-side subscription state regardless of outcome.
	defer func() { _ = s.tr.Send(&CloseFrame{Sub: label}) }()

	var events []domain.Event
	for {
		select {
		case out := <-ch:
			switch {
			case out.Err != nil:
				return nil, out.Err
			case out.Done:
				return events, nil
			case out.Event != nil:
				events = append(events, *out.Event)
			}
		case <-ctx.Done():
			s.rt.Cancel(label)
			return nil, ctx.Err()
		}
	}
}

// Publish submits a signed event and waits for the matching OK. A rejected
// event surfaces the relay's message verbatim.
func (s *Session) Publish(ctx context.Context, ev domain.Event) error {
	if ev.ID == "" || ev.Sig == "" {
		return fmt.Errorf("publish: event is not signed")
	}
	// Register before sending so a fast ack cannot slip past the router.
	ch, err := s.rt.Register(ev.ID, writeKey, time.Now().Add(s.opTimeout))
	if err != nil {
		return err
	}
	if err := s.tr.Send(&EventSubmitFrame{Event: ev}); err != nil {
		s.rt.Cancel(ev.ID)
		return err
	}

	select {
	case out := <-ch:
		switch {
		case out.Err != nil:
			return out.Err
		case out.OK != nil && !out.OK.Accepted:
			return &domain.RejectedError{EventID: ev.ID, Msg: out.OK.Message}
		default:
			return nil
		}
	case <-ctx.Done():
		s.rt.Cancel(ev.ID)
		return ctx.Err()
	}
}

// WaitAuthenticated blocks until the handshake completes, bounded by the
// session's auth timeout.
func (s *Session) WaitAuthenticated(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.authTimeout)
	defer cancel()
	return s.hs.Wait(ctx)
}

// Close tears the connection down; the read loop then fails all pending
// correlations so no caller is left waiting.
func (s *Session) Close() error {
	return s.tr.Close()
}

// Compile-time assertion that Session implements domain.RelaySession.
var _ domain.RelaySession = (*Session)(nil)
