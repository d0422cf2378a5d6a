package client

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/websocket"

	"github.com/devsphere/engagement/pkg/eventbus"
)

// EventStream consumes the platform's websocket events endpoint and feeds
// the decoded packets into the local buses. One stream per process is
// enough; the buses fan out to however many views are open. Reconnecting is
// the caller's concern: a closed socket ends the stream.
type EventStream struct {
	conn  *websocket.Conn
	buses *eventbus.Buses
}

func DialEvents(ctx context.Context, wsURL string, token string, buses *eventbus.Buses) (*EventStream, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	headers := map[string][]string{}
	if token != "" {
		headers["Authorization"] = []string{"Bearer " + token}
	}

	conn, _, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		return nil, err
	}
	return &EventStream{conn: conn, buses: buses}, nil
}

// Run reads packets until the socket closes or ctx is cancelled. Malformed
// packets are captured and skipped.
func (s *EventStream) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	for {
		_, packet, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if err := s.buses.Dispatch(packet); err != nil {
			sentry.CaptureException(err)
		}
	}
}

func (s *EventStream) Close() error {
	return s.conn.Close()
}
