// Package feed delivers inbound voice-platform events to the console. Two
// transports are supported: a websocket stream and a server-sent-events
// stream. Both hand frames to events.Decode and skip frames that are not
// event records.
package feed

import (
	"context"

	"github.com/vango-go/vai-console-lite/pkg/console/events"
)

// Feed is a sequential source of platform events. Next blocks until an
// event arrives, the stream ends (io.EOF), or the context is done.
type Feed interface {
	Next(ctx context.Context) (events.Event, error)
	Close() error
}
