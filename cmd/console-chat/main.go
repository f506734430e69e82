// Command console-chat is a terminal voice-console client. It exchanges an
// agent id for a session credential through the console gateway, follows
// the live event feed over WebSocket or SSE, and prints the transcript as
// it builds.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vango-go/vai-console-lite/internal/dotenv"
	"github.com/vango-go/vai-console-lite/pkg/console/controller"
	"github.com/vango-go/vai-console-lite/pkg/console/feed"
	"github.com/vango-go/vai-console-lite/pkg/console/ledger"
	"github.com/vango-go/vai-console-lite/pkg/core"
)

const (
	defaultGatewayURL = "http://127.0.0.1:8080"
	defaultTransport  = "ws"
	defaultTimeout    = 15 * time.Second
)

type consoleConfig struct {
	GatewayURL string
	FeedURL    string
	Transport  string
	AgentID    string
	Timeout    time.Duration
}

func parseConsoleConfig(args []string, getenv func(string) string) (consoleConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := consoleConfig{}
	fs := flag.NewFlagSet("console-chat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.GatewayURL, "gateway-url", defaultGatewayURL, "console gateway base URL")
	fs.StringVar(&cfg.FeedURL, "feed-url", strings.TrimSpace(getenv("VAI_CONSOLE_FEED_URL")), "event feed URL (or VAI_CONSOLE_FEED_URL)")
	fs.StringVar(&cfg.Transport, "transport", defaultTransport, "event feed transport: ws or sse")
	fs.StringVar(&cfg.AgentID, "agent-id", strings.TrimSpace(getenv("VAI_CONSOLE_AGENT_ID")), "agent id to start a session for (or VAI_CONSOLE_AGENT_ID)")
	fs.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "session exchange timeout (e.g. 15s)")

	if err := fs.Parse(args); err != nil {
		return consoleConfig{}, err
	}

	if err := validateConsoleConfig(cfg); err != nil {
		return consoleConfig{}, err
	}
	return cfg, nil
}

func validateConsoleConfig(cfg consoleConfig) error {
	gatewayURL, err := url.Parse(strings.TrimSpace(cfg.GatewayURL))
	if err != nil || gatewayURL.Scheme == "" || gatewayURL.Host == "" {
		return errors.New("gateway-url must be a valid absolute URL")
	}
	if gatewayURL.User != nil {
		return errors.New("gateway-url must not include credentials")
	}

	feedURL, err := url.Parse(strings.TrimSpace(cfg.FeedURL))
	if err != nil || feedURL.Scheme == "" || feedURL.Host == "" {
		return errors.New("feed-url must be a valid absolute URL")
	}

	switch cfg.Transport {
	case "ws":
		if feedURL.Scheme != "ws" && feedURL.Scheme != "wss" {
			return fmt.Errorf("feed-url scheme %q needs transport sse", feedURL.Scheme)
		}
	case "sse":
		if feedURL.Scheme != "http" && feedURL.Scheme != "https" {
			return fmt.Errorf("feed-url scheme %q needs transport ws", feedURL.Scheme)
		}
	default:
		return fmt.Errorf("transport must be ws or sse, got %q", cfg.Transport)
	}

	if cfg.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}
	return nil
}

// fetchSessionToken performs the session exchange against the gateway and
// pulls the credential out of the relayed payload. Error responses carry
// the gateway's JSON envelope and are surfaced as *core.Error so the
// balance-exhausted condition is still recognizable client-side.
func fetchSessionToken(ctx context.Context, client *http.Client, gatewayURL, agentID string) (string, error) {
	body, err := json.Marshal(map[string]string{"agent_id": agentID})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(gatewayURL, "/") + "/v1/console/session"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("session exchange: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("session exchange: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error *core.Error `json:"error"`
		}
		if jsonErr := json.Unmarshal(payload, &envelope); jsonErr == nil && envelope.Error != nil {
			return "", envelope.Error
		}
		return "", fmt.Errorf("session exchange: gateway returned status %d", resp.StatusCode)
	}

	token := extractSessionToken(payload)
	if token == "" {
		return "", errors.New("session exchange: no credential in gateway response")
	}
	return token, nil
}

// extractSessionToken accepts the credential field names the platform has
// used across versions.
func extractSessionToken(payload []byte) string {
	var fields struct {
		SessionToken string `json:"session_token"`
		Token        string `json:"token"`
		APIKey       string `json:"api_key"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ""
	}
	for _, candidate := range []string{fields.SessionToken, fields.Token, fields.APIKey} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

func openFeed(ctx context.Context, cfg consoleConfig, token string) (feed.Feed, error) {
	switch cfg.Transport {
	case "sse":
		return feed.OpenSSE(ctx, http.DefaultClient, cfg.FeedURL, token)
	default:
		header := http.Header{}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
		return feed.DialWebSocket(ctx, cfg.FeedURL, header)
	}
}

// renderTranscript prints lines that are new or have grown since the last
// snapshot. Growing lines reprint in full; a terminal transcript tolerates
// that better than cursor tricks.
func renderTranscript(out io.Writer, messages []ledger.Message, rendered []string) []string {
	for i, msg := range messages {
		line := fmt.Sprintf("[%s] %s", msg.Role, msg.Text)
		if i < len(rendered) && rendered[i] == line {
			continue
		}
		fmt.Fprintln(out, line)
		if i < len(rendered) {
			rendered[i] = line
		} else {
			rendered = append(rendered, line)
		}
	}
	return rendered
}

func renderBanner(out io.Writer, b *controller.Banner) {
	if b == nil {
		return
	}
	if b.Dismissible {
		fmt.Fprintf(out, "!! %s (dismiss with Ctrl-C)\n", b.Message)
		return
	}
	fmt.Fprintf(out, "!! %s\n", b.Message)
}

func runConsole(ctx context.Context, cfg consoleConfig, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	ctrl := controller.New(nil)
	ctrl.BeginConnect()

	exchangeCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	token, err := fetchSessionToken(exchangeCtx, http.DefaultClient, cfg.GatewayURL, cfg.AgentID)
	cancel()
	if err != nil {
		ctrl.HandleError(err)
		renderBanner(errOut, ctrl.Banner())
		return err
	}

	f, err := openFeed(ctx, cfg, token)
	if err != nil {
		ctrl.HandleError(err)
		renderBanner(errOut, ctrl.Banner())
		return err
	}
	defer f.Close()

	ctrl.MarkConnected()
	fmt.Fprintf(out, "connected to %s (%s)\n", cfg.FeedURL, cfg.Transport)

	var rendered []string
	for {
		ev, err := f.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				ctrl.HandleDisconnect()
				fmt.Fprintln(out, "session ended")
				return nil
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				ctrl.HandleDisconnect()
				fmt.Fprintln(out, "session ended")
				return nil
			default:
				ctrl.HandleError(err)
				renderBanner(errOut, ctrl.Banner())
				return err
			}
		}
		ctrl.HandleEvent(ev)
		rendered = renderTranscript(out, ctrl.Messages(), rendered)
	}
}

func main() {
	if err := dotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "console-chat: %v\n", err)
		os.Exit(1)
	}

	cfg, err := parseConsoleConfig(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "console-chat: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runConsole(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "console-chat: %v\n", err)
		os.Exit(1)
	}
}
