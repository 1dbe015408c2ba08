package canvas

import (
	"context"
	"fmt"
	"sync"

	"github.com/easelapp/easel/internal/gridd"
	"github.com/easelapp/easel/internal/wire"
)

// Fetcher is the slice of the gridd API the store needs. It is implemented
// by *gridd.Client and by fakes in tests.
type Fetcher interface {
	Head(ctx context.Context) (gridd.Head, error)
	Canvas(ctx context.Context) (wire.CompactPayload, error)
	Delta(ctx context.Context, since uint64) (gridd.DeltaResponse, error)
}

// Ensure the HTTP client satisfies the seam at compile time.
var _ Fetcher = (*gridd.Client)(nil)

// Store holds the authoritative mirror of the remote canvas: every confirmed
// pixel keyed by linear index, plus the revision the mirror corresponds to.
// Revision never decreases within one dimension epoch; a dimension change
// clears the mirror and starts a new epoch at revision zero.
type Store struct {
	mu       sync.RWMutex
	fetcher  Fetcher
	width    int
	height   int
	revision uint64
	pixels   map[int]wire.Pixel
}

// Snapshot is a point-in-time copy of the mirror for readers.
type Snapshot struct {
	Pixels   []wire.Pixel
	Revision uint64
	Width    int
	Height   int
}

// SyncResult reports what a sync changed.
type SyncResult struct {
	Changed    []wire.Pixel
	FullReload bool
	Revision   uint64
}

// NewStore creates an empty store at revision zero.
func NewStore(fetcher Fetcher) *Store {
	return &Store{
		fetcher: fetcher,
		pixels:  make(map[int]wire.Pixel),
	}
}

// Init fetches the grid dimensions and a full snapshot. A dimension change
// against whatever the store held before clears the mirror first.
func (s *Store) Init(ctx context.Context) (SyncResult, error) {
	head, err := s.fetcher.Head(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch head: %w", err)
	}
	s.adoptDimensions(head.Width, head.Height)

	payload, err := s.fetcher.Canvas(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch canvas: %w", err)
	}
	changed, err := s.ApplyFull(payload)
	if err != nil {
		return SyncResult{}, err
	}
	return SyncResult{Changed: changed, FullReload: true, Revision: s.Revision()}, nil
}

// SmartSync polls the head and fetches the cheapest payload that brings the
// mirror current: nothing when the revision matches, a delta when the daemon
// can serve one, a full snapshot otherwise or on a dimension change.
func (s *Store) SmartSync(ctx context.Context) (SyncResult, error) {
	head, err := s.fetcher.Head(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch head: %w", err)
	}

	width, height := s.Dimensions()
	if head.Width != width || head.Height != height {
		s.adoptDimensions(head.Width, head.Height)
		return s.fullReload(ctx)
	}

	if head.Revision == s.Revision() {
		return SyncResult{Revision: head.Revision}, nil
	}

	resp, err := s.fetcher.Delta(ctx, s.Revision())
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch delta: %w", err)
	}
	if resp.Full {
		// The daemon could not diff against our revision; treat it as a
		// forced reload, not an error.
		changed, err := s.ApplyFull(resp.Payload)
		if err != nil {
			return SyncResult{}, err
		}
		return SyncResult{Changed: changed, FullReload: true, Revision: s.Revision()}, nil
	}
	changed, err := s.ApplyDelta(resp.Payload)
	if err != nil {
		return SyncResult{}, err
	}
	return SyncResult{Changed: changed, Revision: s.Revision()}, nil
}

func (s *Store) fullReload(ctx context.Context) (SyncResult, error) {
	payload, err := s.fetcher.Canvas(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch canvas: %w", err)
	}
	changed, err := s.ApplyFull(payload)
	if err != nil {
		return SyncResult{}, err
	}
	return SyncResult{Changed: changed, FullReload: true, Revision: s.Revision()}, nil
}

// ApplyFull replaces the whole mirror with the payload's records.
func (s *Store) ApplyFull(payload wire.CompactPayload) ([]wire.Pixel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decoded, err := wire.DecodePayload(payload, s.width, s.height)
	if err != nil {
		return nil, err
	}
	s.pixels = make(map[int]wire.Pixel, len(decoded))
	for _, px := range decoded {
		s.pixels[wire.Index(px.X, px.Y, s.width)] = px
	}
	s.bumpRevision(payload.Revision)
	return decoded, nil
}

// ApplyDelta inserts or overwrites only the records present in the payload.
// Records absent from a delta are unchanged, never deleted.
func (s *Store) ApplyDelta(payload wire.CompactPayload) ([]wire.Pixel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	decoded, err := wire.DecodePayload(payload, s.width, s.height)
	if err != nil {
		return nil, err
	}
	for _, px := range decoded {
		s.pixels[wire.Index(px.X, px.Y, s.width)] = px
	}
	s.bumpRevision(payload.Revision)
	return decoded, nil
}

// bumpRevision enforces monotonicity within the current epoch. Callers hold
// the write lock.
func (s *Store) bumpRevision(revision uint64) {
	if revision > s.revision {
		s.revision = revision
	}
}

// adoptDimensions starts a new epoch when the grid size changed.
func (s *Store) adoptDimensions(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width == s.width && height == s.height {
		return
	}
	s.width = width
	s.height = height
	s.revision = 0
	s.pixels = make(map[int]wire.Pixel)
}

// Revision returns the mirror's current revision.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Dimensions returns the grid size of the current epoch.
func (s *Store) Dimensions() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// Pixel looks up one record by coordinate.
func (s *Store) Pixel(x, y int) (wire.Pixel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.width == 0 {
		return wire.Pixel{}, false
	}
	px, ok := s.pixels[wire.Index(x, y, s.width)]
	return px, ok
}

// Snapshot returns an independent copy of the mirror.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pixels := make([]wire.Pixel, 0, len(s.pixels))
	for _, px := range s.pixels {
		pixels = append(pixels, px)
	}
	return Snapshot{
		Pixels:   pixels,
		Revision: s.revision,
		Width:    s.width,
		Height:   s.height,
	}
}

// Len reports how many confirmed pixels the mirror holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pixels)
}
