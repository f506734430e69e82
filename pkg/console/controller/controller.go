// Package controller owns the per-session transcript state for one voice
// console: the chunk store, the message ledger, connection status, and the
// user-facing banner. All event handling is synchronous; the mutex only
// lets a UI snapshot state while the feed loop runs.
package controller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/vango-go/vai-console-lite/pkg/console/events"
	"github.com/vango-go/vai-console-lite/pkg/console/feed"
	"github.com/vango-go/vai-console-lite/pkg/console/ledger"
	"github.com/vango-go/vai-console-lite/pkg/console/transcript"
	"github.com/vango-go/vai-console-lite/pkg/core"
)

// Status is the session connection state.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

// BannerKind distinguishes the persistent balance banner from transient
// error banners.
type BannerKind string

const (
	BannerError               BannerKind = "error"
	BannerInsufficientBalance BannerKind = "insufficient_balance"
)

// Banner is a user-facing notice. The insufficient-balance banner persists
// until dismissed; generic error banners are replaced by the next state
// change.
type Banner struct {
	Kind        BannerKind
	Message     string
	Dismissible bool
}

// Controller is the session-scoped UI controller. It exclusively owns its
// chunk store and ledger.
type Controller struct {
	mu     sync.Mutex
	store  *transcript.Store
	ledger *ledger.Ledger
	disp   events.Dispatcher
	logger *slog.Logger

	status Status
	banner *Banner
}

func New(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	store := transcript.NewStore()
	l := ledger.New()
	return &Controller{
		store:  store,
		ledger: l,
		disp: events.Dispatcher{
			Aggregator: transcript.NewAggregator(store),
			Ledger:     l,
		},
		logger: logger,
		status: StatusIdle,
	}
}

// BeginConnect marks a connection attempt and fully resets session state:
// chunk store and ledger both cleared. The ledger reset belongs here, not
// in HandleDisconnect, so a disconnected session still shows its final
// transcript.
func (c *Controller) BeginConnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Reset()
	c.ledger.Reset()
	c.status = StatusConnecting
	c.banner = nil
}

// MarkConnected records a successful connection.
func (c *Controller) MarkConnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusConnected
}

// HandleEvent applies one inbound event.
func (c *Controller) HandleEvent(ev events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disp.Dispatch(ev)
}

// HandleDisconnect clears chunk state and marks the session disconnected.
// The ledger is retained as the session's final transcript.
func (c *Controller) HandleDisconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Reset()
	c.status = StatusDisconnected
}

// HandleError surfaces a transport or session error. The distinguished
// insufficient-balance condition raises a persistent dismissible banner;
// everything else is a transient error banner.
func (c *Controller) HandleError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = StatusError
	if core.IsInsufficientBalance(err) {
		c.banner = &Banner{
			Kind:        BannerInsufficientBalance,
			Message:     "Your account balance is exhausted. Top up to keep talking.",
			Dismissible: true,
		}
		return
	}
	c.banner = &Banner{Kind: BannerError, Message: err.Error()}
}

func (c *Controller) clearChunks() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Reset()
}

// DismissBanner clears the current banner.
func (c *Controller) DismissBanner() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.banner = nil
}

// Status returns the current connection state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Banner returns the current banner, or nil.
func (c *Controller) Banner() *Banner {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.banner == nil {
		return nil
	}
	b := *c.banner
	return &b
}

// Messages returns the transcript in order.
func (c *Controller) Messages() []ledger.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Messages()
}

// Run drives a feed until it ends. A clean close (io.EOF) or context
// cancellation disconnects quietly; any other feed error is surfaced via
// HandleError before disconnecting.
func (c *Controller) Run(ctx context.Context, f feed.Feed) error {
	c.MarkConnected()
	for {
		ev, err := f.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				c.HandleDisconnect()
				return nil
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				c.HandleDisconnect()
				return err
			default:
				c.logger.Warn("event feed failed", "error", err)
				c.HandleError(err)
				c.clearChunks()
				return err
			}
		}
		c.HandleEvent(ev)
	}
}
