package gridd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"
)

// Watcher holds one websocket subscription to the daemon's /watch feed. Each
// frame is a head payload announcing a new revision, letting the client sync
// promptly instead of waiting out its poll interval. The feed is advisory:
// polling stays the source of truth and a failed watch is recoverable.
type Watcher struct {
	url string
}

// NewWatcher builds a watcher for the same apiBind value NewClient accepts.
func NewWatcher(apiBind string) (*Watcher, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	wsURL := *base
	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}
	wsURL.Path = "/watch"
	return &Watcher{url: wsURL.String()}, nil
}

// Run dials the feed and invokes onHead for every frame until the connection
// drops or ctx is cancelled. It returns nil on cancellation and the transport
// error otherwise; callers decide whether and when to redial.
func (w *Watcher) Run(ctx context.Context, onHead func(Head)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("dial watch feed: %w", err)
	}
	defer conn.Close()

	// Unblock ReadJSON when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var head Head
		if err := conn.ReadJSON(&head); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read watch feed: %w", err)
		}
		onHead(head)
	}
}

// URL exposes the resolved websocket endpoint, mostly for logging.
func (w *Watcher) URL() string {
	if w == nil {
		return ""
	}
	u, err := url.Parse(w.url)
	if err != nil {
		return w.url
	}
	return u.String()
}
