package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"groupctl/internal/domain"
)

const defaultHandshakeTimeout = 10 * time.Second

// FrameHandler receives inbound frames in arrival order.
type FrameHandler func(Frame)

// Transport owns one websocket connection to a relay endpoint. Frames are
// read on a dedicated goroutine and delivered FIFO; writes are serialised by
// a mutex so concurrent operations can share the connection.
type Transport struct {
	endpoint string
	conn     *websocket.Conn

	writeMu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// DialTransport establishes the websocket connection. The context bounds the
// dial and the transport-level handshake.
func DialTransport(ctx context.Context, endpoint string) (*Transport, error) {
	dialer := websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", domain.ErrConnection, endpoint, err)
	}
	log.Info().Str("endpoint", endpoint).Msg("connected to relay")
	return &Transport{
		endpoint: endpoint,
		conn:     conn,
		closed:   make(chan struct{}),
	}, nil
}

// Start launches the read loop. onFrame receives each parsed inbound frame;
// onDown fires exactly once when the connection ends, with ErrNotConnected
// after a deliberate Close and a connection error otherwise.
func (t *Transport) Start(onFrame FrameHandler, onDown func(error)) {
	go t.readLoop(onFrame, onDown)
}

func (t *Transport) readLoop(onFrame FrameHandler, onDown func(error)) {
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			select {
			case <-t.closed:
				onDown(domain.ErrNotConnected)
			default:
				log.Warn().Str("endpoint", t.endpoint).Err(err).Msg("relay connection lost")
				t.Close()
				onDown(fmt.Errorf("%w: %v", domain.ErrConnection, err))
			}
			return
		}
		f, err := ParseFrame(data)
		if err != nil {
			// Malformed input never crashes the session.
			log.Debug().Err(err).Msg("dropping malformed frame")
			continue
		}
		if f == nil {
			log.Debug().Msg("dropping frame with unknown label")
			continue
		}
		onFrame(f)
	}
}

// Send enqueues one frame for transmission.
func (t *Transport) Send(f Frame) error {
	select {
	case <-t.closed:
		return domain.ErrNotConnected
	default:
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := t.conn.WriteJSON(f); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	return nil
}

// Close performs a best-effort graceful shutdown. Idempotent.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		close(t.closed)
		deadline := time.Now().Add(time.Second)
		_ = t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = t.conn.Close()
		log.Info().Str("endpoint", t.endpoint).Msg("relay connection closed")
	})
	return nil
}
