package feed

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-go/vai-console-lite/pkg/console/events"
)

// WebSocketFeed reads platform events from a websocket connection. Binary
// frames and frames that fail to decode are skipped.
type WebSocketFeed struct {
	conn *websocket.Conn
}

// DialWebSocket connects to the platform event stream.
func DialWebSocket(ctx context.Context, url string, header http.Header) (*WebSocketFeed, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &WebSocketFeed{conn: conn}, nil
}

// NewWebSocketFeed wraps an already-established connection.
func NewWebSocketFeed(conn *websocket.Conn) *WebSocketFeed {
	return &WebSocketFeed{conn: conn}
}

func (f *WebSocketFeed) Next(ctx context.Context) (events.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return events.Event{}, err
		}
		if deadline, ok := ctx.Deadline(); ok {
			_ = f.conn.SetReadDeadline(deadline)
		} else {
			_ = f.conn.SetReadDeadline(time.Time{})
		}

		messageType, data, err := f.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return events.Event{}, io.EOF
			}
			return events.Event{}, err
		}
		if messageType != websocket.TextMessage {
			continue
		}
		ev, err := events.Decode(data)
		if err != nil {
			continue
		}
		return ev, nil
	}
}

func (f *WebSocketFeed) Close() error {
	_ = f.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(2*time.Second))
	return f.conn.Close()
}
