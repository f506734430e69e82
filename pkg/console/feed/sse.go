package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vango-go/vai-console-lite/pkg/console/events"
)

type sseFrame struct {
	Event string
	Data  []byte
}

type sseParser struct {
	reader *bufio.Reader
}

func newSSEParser(r io.Reader) *sseParser {
	return &sseParser{reader: bufio.NewReader(r)}
}

func (p *sseParser) Next() (sseFrame, error) {
	var eventType string
	var dataLines []string

	for {
		line, err := p.reader.ReadString('\n')
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return sseFrame{}, err
		}

		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
		}

		if line == "" {
			if len(dataLines) == 0 && eventType == "" {
				if eof {
					return sseFrame{}, io.EOF
				}
				continue
			}
			return sseFrame{
				Event: eventType,
				Data:  []byte(strings.Join(dataLines, "\n")),
			}, nil
		}

		// Comment lines are heartbeats.
		if strings.HasPrefix(line, ":") {
			if eof {
				if len(dataLines) == 0 && eventType == "" {
					return sseFrame{}, io.EOF
				}
				return sseFrame{
					Event: eventType,
					Data:  []byte(strings.Join(dataLines, "\n")),
				}, nil
			}
			continue
		}

		field, value := splitSSEField(line)
		switch field {
		case "event":
			eventType = value
		case "data":
			dataLines = append(dataLines, value)
		}

		if eof {
			if len(dataLines) == 0 && eventType == "" {
				return sseFrame{}, io.EOF
			}
			return sseFrame{
				Event: eventType,
				Data:  []byte(strings.Join(dataLines, "\n")),
			}, nil
		}
	}
}

func splitSSEField(line string) (field string, value string) {
	index := strings.IndexByte(line, ':')
	if index < 0 {
		return line, ""
	}
	field = line[:index]
	value = line[index+1:]
	if strings.HasPrefix(value, " ") {
		value = value[1:]
	}
	return field, value
}

// SSEFeed reads platform events from a text/event-stream body.
type SSEFeed struct {
	body   io.ReadCloser
	parser *sseParser
}

// OpenSSE issues the GET for an event stream, attaching the bearer token
// when present.
func OpenSSE(ctx context.Context, client *http.Client, url, bearer string) (*SSEFeed, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("event stream: unexpected status %d", resp.StatusCode)
	}
	return NewSSEFeed(resp.Body), nil
}

// NewSSEFeed wraps an already-open event-stream body.
func NewSSEFeed(body io.ReadCloser) *SSEFeed {
	return &SSEFeed{body: body, parser: newSSEParser(body)}
}

func (f *SSEFeed) Next(ctx context.Context) (events.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return events.Event{}, err
		}
		frame, err := f.parser.Next()
		if err != nil {
			return events.Event{}, err
		}
		if len(frame.Data) == 0 {
			continue
		}
		ev, err := events.Decode(frame.Data)
		if err != nil {
			continue
		}
		return ev, nil
	}
}

func (f *SSEFeed) Close() error {
	return f.body.Close()
}
