package sync

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/tidwall/gjson"
)

const (
	notifyReconnectMin = 5 * time.Second
	notifyReconnectMax = 5 * time.Minute

	// notifyReadLimit caps change-feed messages; they are tiny JSON pings.
	notifyReadLimit = 64 * 1024

	// jitterDivisor controls the range of random jitter added to
	// reconnect backoff: jitter is uniform in [0, backoff/jitterDivisor).
	jitterDivisor = 2
)

// Listener subscribes to the backend's change feed over WebSocket and
// signals on Changes whenever the remote collections changed, so the
// daemon can pull without waiting for the next interval. The feed is
// advisory: missing a ping only delays a pull, never loses data.
type Listener struct {
	url     string
	authKey string
	logger  *slog.Logger
	changes chan struct{}
}

// NewListener creates a change-feed listener for the given WebSocket URL.
func NewListener(url, authKey string, logger *slog.Logger) *Listener {
	return &Listener{
		url:     url,
		authKey: authKey,
		logger:  logger,
		changes: make(chan struct{}, 1),
	}
}

// Changes delivers one signal per detected remote change. The channel
// has a one-slot buffer; coalescing repeated signals is intentional.
func (l *Listener) Changes() <-chan struct{} {
	return l.changes
}

// reconnectDelay tracks the backoff ladder between change-feed sessions.
// Failed dials double the delay up to the ceiling; a session that reached
// the server resets the ladder, so a long-lived connection never pays for
// flapping that happened before it.
type reconnectDelay struct {
	backoff time.Duration
}

// advance returns how long to wait before the next dial, with jitter.
func (r *reconnectDelay) advance(connected bool) time.Duration {
	if connected || r.backoff == 0 {
		r.backoff = notifyReconnectMin
	}

	wait := r.backoff + rand.N(r.backoff/jitterDivisor)

	r.backoff *= 2
	if r.backoff > notifyReconnectMax {
		r.backoff = notifyReconnectMax
	}

	return wait
}

// Listen connects and reads the feed until the context is cancelled,
// reconnecting with exponential backoff and jitter on any failure.
func (l *Listener) Listen(ctx context.Context) error {
	var delay reconnectDelay

	for {
		connected, err := l.listenOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}

		wait := delay.advance(connected)
		l.logger.Warn("change feed disconnected",
			slog.String("error", err.Error()),
			slog.Duration("reconnect_in", wait),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// listenOnce runs one feed session. The bool reports whether the dial
// succeeded, regardless of how the session ended.
func (l *Listener) listenOnce(ctx context.Context) (bool, error) {
	header := http.Header{}
	header.Set("X-Post-Auth-Key", l.authKey)

	conn, _, err := websocket.Dial(ctx, l.url, &websocket.DialOptions{
		HTTPHeader: header,
	})
	if err != nil {
		return false, err
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	conn.SetReadLimit(notifyReadLimit)
	l.logger.Info("change feed connected", slog.String("url", l.url))

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return true, err
		}

		if gjson.GetBytes(data, "op").Str != "changed" {
			continue
		}

		select {
		case l.changes <- struct{}{}:
		default:
			// A pull is already pending; one signal is enough.
		}
	}
}
