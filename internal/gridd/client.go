package gridd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/easelapp/easel/internal/wire"
)

// Client talks to the gridd HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7621"
	defaultUserAgent = "easel/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Head retrieves the current revision and grid dimensions.
func (c *Client) Head(ctx context.Context) (Head, error) {
	if c == nil {
		return Head{}, fmt.Errorf("client is nil")
	}
	var payload Head
	if err := c.do(ctx, "/head", nil, &payload); err != nil {
		return Head{}, err
	}
	return payload, nil
}

// Canvas retrieves a full snapshot of the canvas.
func (c *Client) Canvas(ctx context.Context) (wire.CompactPayload, error) {
	if c == nil {
		return wire.CompactPayload{}, fmt.Errorf("client is nil")
	}
	var payload wire.CompactPayload
	if err := c.do(ctx, "/canvas", nil, &payload); err != nil {
		return wire.CompactPayload{}, err
	}
	return payload, nil
}

// Delta retrieves the pixels changed since the given revision. The daemon may
// answer with Full set when the revision is too old to diff against.
func (c *Client) Delta(ctx context.Context, since uint64) (DeltaResponse, error) {
	if c == nil {
		return DeltaResponse{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("since", strconv.FormatUint(since, 10))
	var payload DeltaResponse
	if err := c.do(ctx, "/canvas_delta", values, &payload); err != nil {
		return DeltaResponse{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, path string, query url.Values, dest any) error {
	rel := &url.URL{Path: path}
	if query != nil {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
