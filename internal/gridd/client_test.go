package gridd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/easelapp/easel/internal/wire"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesEndpoints(t *testing.T) {
	t.Parallel()

	var gotDeltaQuery url.Values
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/head":
			_ = json.NewEncoder(w).Encode(Head{Revision: 9, Width: 64, Height: 32})
		case "/canvas":
			_ = json.NewEncoder(w).Encode(wire.CompactPayload{
				Revision:     9,
				OwnerTable:   []string{"alice"},
				Xs:           []uint16{1},
				Ys:           []uint16{2},
				OwnerIndices: []int{0},
				Prices:       []uint64{5},
				Colors:       []uint32{0xABCDEF},
			})
		case "/canvas_delta":
			gotDeltaQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode(DeltaResponse{Full: true})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	head, err := c.Head(ctx)
	if err != nil {
		t.Fatalf("Head returned error: %v", err)
	}
	if head.Revision != 9 || head.Width != 64 || head.Height != 32 {
		t.Fatalf("Head payload = %#v, want revision 9 dims 64x32", head)
	}

	payload, err := c.Canvas(ctx)
	if err != nil {
		t.Fatalf("Canvas returned error: %v", err)
	}
	if payload.Revision != 9 || len(payload.Xs) != 1 || payload.OwnerTable[0] != "alice" {
		t.Fatalf("Canvas payload = %#v, want 1 pixel owned by alice", payload)
	}

	delta, err := c.Delta(ctx, 7)
	if err != nil {
		t.Fatalf("Delta returned error: %v", err)
	}
	if !delta.Full {
		t.Fatalf("Delta.Full = false, want true")
	}
	if gotDeltaQuery.Get("since") != "7" {
		t.Fatalf("delta query = %v, want since=7", gotDeltaQuery)
	}

	if gotUserAgent == "" || !strings.HasPrefix(gotUserAgent, "easel/") {
		t.Fatalf("User-Agent = %q, want easel/*", gotUserAgent)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/head":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/canvas":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.Head(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("Head error = %v, want decode response error", err)
	}

	_, err = c.Canvas(context.Background())
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Canvas error = %v, want status 500 error", err)
	}
}
