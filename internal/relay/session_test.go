package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"groupctl/internal/domain"
)

// startRelay runs an in-process websocket relay whose behaviour is the given
// handler. Returns the ws:// URL to dial.
func startRelay(t *testing.T, handler func(c *websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		handler(c)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// readFrame reads one message and splits it into label and raw elements.
func readFrame(c *websocket.Conn) (label string, arr []json.RawMessage, err error) {
	_, data, err := c.ReadMessage()
	if err != nil {
		return "", nil, err
	}
	if err := json.Unmarshal(data, &arr); err != nil {
		return "", nil, err
	}
	if len(arr) == 0 {
		return "", nil, nil
	}
	err = json.Unmarshal(arr[0], &label)
	return label, arr, err
}

func TestSession_AuthHandshakeScenario(t *testing.T) {
	authEvents := make(chan domain.Event, 1)
	wsURL := startRelay(t, func(c *websocket.Conn) {
		_ = c.WriteMessage(websocket.TextMessage, []byte(`["AUTH","nonce123"]`))
		label, arr, err := readFrame(c)
		if err != nil || label != "AUTH" || len(arr) < 2 {
			return
		}
		var ev domain.Event
		if json.Unmarshal(arr[1], &ev) != nil {
			return
		}
		authEvents <- ev
		_ = c.WriteMessage(websocket.TextMessage, []byte(`["OK","`+ev.ID+`",true,""]`))
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})

	sess, err := Dial(context.Background(), wsURL,
		WithSigner(testSigner(t)), WithAuthTimeout(2*time.Second))
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.WaitAuthenticated(context.Background()))

	ev := <-authEvents
	require.Equal(t, domain.KindClientAuth, ev.Kind)
	require.Len(t, ev.Tags, 2)
	require.Equal(t, domain.Tag{"relay", wsURL}, ev.Tags[0])
	require.Equal(t, domain.Tag{"challenge", "nonce123"}, ev.Tags[1])
}

func TestSession_RequestStreamsUntilEOSE(t *testing.T) {
	closeLabels := make(chan string, 1)
	wsURL := startRelay(t, func(c *websocket.Conn) {
		label, arr, err := readFrame(c)
		if err != nil || label != "REQ" || len(arr) < 2 {
			return
		}
		var sub string
		_ = json.Unmarshal(arr[1], &sub)

		ev1 := `{"id":"e1","pubkey":"","created_at":1,"kind":39000,"tags":[["d","teamchat"]],"content":"","sig":""}`
		ev2 := `{"id":"e2","pubkey":"","created_at":2,"kind":39000,"tags":[["d","standup"]],"content":"","sig":""}`
		_ = c.WriteMessage(websocket.TextMessage, []byte(`["EVENT","`+sub+`",`+ev1+`]`))
		_ = c.WriteMessage(websocket.TextMessage, []byte(`["EVENT","`+sub+`",`+ev2+`]`))
		_ = c.WriteMessage(websocket.TextMessage, []byte(`["EOSE","`+sub+`"]`))

		label, arr, err = readFrame(c)
		if err == nil && label == "CLOSE" && len(arr) >= 2 {
			_ = json.Unmarshal(arr[1], &sub)
			closeLabels <- sub
		}
	})

	sess, err := Dial(context.Background(), wsURL)
	require.NoError(t, err)
	defer sess.Close()

	events, err := sess.Request(context.Background(), "probe-1", domain.Filter{Kinds: []int{domain.KindGroupMetadata}})
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "e1", events[0].ID)
	require.Equal(t, "e2", events[1].ID)

	select {
	case sub := <-closeLabels:
		require.Equal(t, "probe-1", sub)
	case <-time.After(time.Second):
		t.Fatal("subscription was never closed server-side")
	}
}

func TestSession_PublishRejectedSurfacesMessage(t *testing.T) {
	wsURL := startRelay(t, func(c *websocket.Conn) {
		label, arr, err := readFrame(c)
		if err != nil || label != "EVENT" || len(arr) < 2 {
			return
		}
		var ev domain.Event
		if json.Unmarshal(arr[1], &ev) != nil {
			return
		}
		_ = c.WriteMessage(websocket.TextMessage, []byte(`["OK","`+ev.ID+`",false,"group not found"]`))
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})

	sess, err := Dial(context.Background(), wsURL)
	require.NoError(t, err)

	ev := domain.Event{
		Kind:      domain.KindGroupDelete,
		CreatedAt: time.Now().Unix(),
		Tags:      []domain.Tag{{"h", "ghost-group"}},
	}
	require.NoError(t, testSigner(t).Sign(&ev))

	err = sess.Publish(context.Background(), ev)
	var rej *domain.RejectedError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, "group not found", rej.Msg)

	// Teardown still happens, and the dead session refuses further sends.
	require.NoError(t, sess.Close())
	require.ErrorIs(t, sess.Publish(context.Background(), ev), domain.ErrNotConnected)
}

func TestSession_PublishRequiresSignedEvent(t *testing.T) {
	wsURL := startRelay(t, func(c *websocket.Conn) {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})

	sess, err := Dial(context.Background(), wsURL)
	require.NoError(t, err)
	defer sess.Close()

	err = sess.Publish(context.Background(), domain.Event{Kind: domain.KindGroupCreate})
	require.Error(t, err)
}

func TestSession_RequestTimeoutStillClosesSubscription(t *testing.T) {
	closeLabels := make(chan string, 1)
	wsURL := startRelay(t, func(c *websocket.Conn) {
		label, _, err := readFrame(c)
		if err != nil || label != "REQ" {
			return
		}
		// Never answer; the client's deadline must fire.
		label, arr, err := readFrame(c)
		if err == nil && label == "CLOSE" && len(arr) >= 2 {
			var sub string
			_ = json.Unmarshal(arr[1], &sub)
			closeLabels <- sub
		}
	})

	sess, err := Dial(context.Background(), wsURL, WithOperationTimeout(80*time.Millisecond))
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.Request(context.Background(), "stalled-1", domain.Filter{Kinds: []int{domain.KindGroupMetadata}})
	require.ErrorIs(t, err, domain.ErrTimeout)

	select {
	case sub := <-closeLabels:
		require.Equal(t, "stalled-1", sub)
	case <-time.After(time.Second):
		t.Fatal("timed-out subscription was never closed server-side")
	}
}

func TestSession_TransportFailureUnblocksPending(t *testing.T) {
	wsURL := startRelay(t, func(c *websocket.Conn) {
		if _, _, err := readFrame(c); err != nil {
			return
		}
		_ = c.Close() // abrupt drop mid-operation
	})

	sess, err := Dial(context.Background(), wsURL, WithOperationTimeout(5*time.Second))
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.Request(context.Background(), "doomed-1", domain.Filter{Kinds: []int{domain.KindGroupMetadata}})
	require.ErrorIs(t, err, domain.ErrConnection)
}
