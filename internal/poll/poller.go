package poll

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/easelapp/easel/internal/canvas"
)

// Syncer is the slice of the canvas store the poller drives.
type Syncer interface {
	SmartSync(ctx context.Context) (canvas.SyncResult, error)
}

// Options tune the polling cadence.
type Options struct {
	BaseInterval     time.Duration // delay after a successful sync
	MaxInterval      time.Duration // backoff ceiling
	BackoffFactor    float64       // growth per consecutive failure
	JitterFraction   float64       // +/- fraction applied to every delay
	HiddenMultiplier float64       // delay stretch while the client is not visible
}

const (
	defaultBaseInterval     = 8 * time.Second
	defaultMaxInterval      = 2 * time.Minute
	defaultBackoffFactor    = 1.8
	defaultJitterFraction   = 0.2
	defaultHiddenMultiplier = 4
)

func (o Options) withDefaults() Options {
	if o.BaseInterval <= 0 {
		o.BaseInterval = defaultBaseInterval
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = defaultMaxInterval
	}
	if o.BackoffFactor <= 1 {
		o.BackoffFactor = defaultBackoffFactor
	}
	if o.JitterFraction <= 0 || o.JitterFraction >= 1 {
		o.JitterFraction = defaultJitterFraction
	}
	if o.HiddenMultiplier < 1 {
		o.HiddenMultiplier = defaultHiddenMultiplier
	}
	return o
}

// Poller periodically drives SmartSync with adaptive backoff and jitter.
// Errors are reported to subscribers and never stop the loop. The pending
// wait can be paused while the operator is drawing and resumes with the
// remaining time intact rather than a fresh interval.
type Poller struct {
	mu           sync.Mutex
	opts         Options
	syncer       Syncer
	rng          *rand.Rand
	currentDelay time.Duration
	visible      bool
	online       bool
	running      bool
	pauseDepth   int
	cancel       context.CancelFunc
	forceCh      chan struct{}
	pauseCh      chan struct{}
	resumeCh     chan struct{}
	onUpdate     []func(canvas.SyncResult)
	onError      []func(error)
}

// New builds a stopped poller around the given syncer.
func New(syncer Syncer, opts Options) *Poller {
	o := opts.withDefaults()
	return &Poller{
		opts:         o,
		syncer:       syncer,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		currentDelay: o.BaseInterval,
		visible:      true,
		online:       true,
	}
}

// OnUpdate registers a handler for syncs that changed the mirror. No-op
// syncs are silent.
func (p *Poller) OnUpdate(handler func(canvas.SyncResult)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onUpdate = append(p.onUpdate, handler)
}

// OnError registers a handler for recoverable sync failures.
func (p *Poller) OnError(handler func(error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onError = append(p.onError, handler)
}

// Start launches the polling loop. Starting a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.running = true
	p.currentDelay = p.opts.BaseInterval
	p.pauseDepth = 0
	p.forceCh = make(chan struct{}, 1)
	p.pauseCh = make(chan struct{}, 1)
	p.resumeCh = make(chan struct{}, 1)
	go p.loop(ctx, p.forceCh, p.pauseCh, p.resumeCh)
}

// Stop cancels the pending timer and ends the loop. Afterwards the poller is
// indistinguishable from one that never started; Start may be called again.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.cancel()
	p.cancel = nil
	p.running = false
	p.forceCh = nil
	p.pauseCh = nil
	p.resumeCh = nil
	p.currentDelay = p.opts.BaseInterval
	p.pauseDepth = 0
}

// ForceSync schedules an immediate sync, collapsing the pending wait. While
// drawing is in progress the request is queued and honored on resume.
func (p *Poller) ForceSync() {
	p.mu.Lock()
	ch := p.forceCh
	p.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

// SetVisible tells the poller whether the client is on screen. Hidden
// clients poll at a reduced frequency; becoming visible resets the delay to
// base and forces a sync.
func (p *Poller) SetVisible(visible bool) {
	p.mu.Lock()
	wasVisible := p.visible
	p.visible = visible
	if visible && !wasVisible {
		p.currentDelay = p.opts.BaseInterval
	}
	p.mu.Unlock()
	if visible && !wasVisible {
		p.ForceSync()
	}
}

// SetOnline tells the poller whether the network is reachable. Coming back
// online resets the delay to base and forces a sync.
func (p *Poller) SetOnline(online bool) {
	p.mu.Lock()
	wasOnline := p.online
	p.online = online
	if online && !wasOnline {
		p.currentDelay = p.opts.BaseInterval
	}
	p.mu.Unlock()
	if online && !wasOnline {
		p.ForceSync()
	}
}

// PauseWhileDrawing freezes the pending wait so a base-layer refresh cannot
// fight an in-progress stroke. Pauses nest: each call must be matched by one
// ResumeAfterDrawing before polling continues.
func (p *Poller) PauseWhileDrawing() {
	p.mu.Lock()
	p.pauseDepth++
	first := p.pauseDepth == 1
	ch := p.pauseCh
	p.mu.Unlock()
	if !first || ch == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

// ResumeAfterDrawing unfreezes the wait with its remaining time intact once
// the outermost pause ends. Calls without a matching pause are ignored.
func (p *Poller) ResumeAfterDrawing() {
	p.mu.Lock()
	if p.pauseDepth == 0 {
		p.mu.Unlock()
		return
	}
	p.pauseDepth--
	last := p.pauseDepth == 0
	ch := p.resumeCh
	p.mu.Unlock()
	if !last || ch == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (p *Poller) loop(ctx context.Context, forceCh, pauseCh, resumeCh chan struct{}) {
	for {
		if !p.wait(ctx, p.nextDelay(), forceCh, pauseCh, resumeCh) {
			return
		}
		p.syncOnce(ctx)
	}
}

// wait blocks for d, honoring pause/resume and force requests. It returns
// false when the poller was stopped.
func (p *Poller) wait(ctx context.Context, d time.Duration, forceCh, pauseCh, resumeCh chan struct{}) bool {
	remaining := d
	for {
		start := time.Now()
		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
			return true
		case <-forceCh:
			timer.Stop()
			return true
		case <-pauseCh:
			timer.Stop()
			remaining -= time.Since(start)
			if remaining < 0 {
				remaining = 0
			}
			// Drawing in progress: only stop or resume can move us on.
			// A force arriving now stays queued until the stroke ends.
			select {
			case <-ctx.Done():
				return false
			case <-resumeCh:
			}
		}
	}
}

func (p *Poller) syncOnce(ctx context.Context) {
	res, err := p.syncer.SmartSync(ctx)

	p.mu.Lock()
	if err != nil {
		p.currentDelay = backoff(p.currentDelay, p.opts.BackoffFactor, p.opts.MaxInterval)
	} else {
		p.currentDelay = p.opts.BaseInterval
	}
	updates := append([]func(canvas.SyncResult){}, p.onUpdate...)
	errors := append([]func(error){}, p.onError...)
	p.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		for _, handler := range errors {
			handler(err)
		}
		return
	}
	if len(res.Changed) == 0 && !res.FullReload {
		return
	}
	for _, handler := range updates {
		handler(res)
	}
}

// nextDelay applies the hidden multiplier and jitter to the current delay.
func (p *Poller) nextDelay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	d := p.currentDelay
	if !p.visible {
		d = time.Duration(float64(d) * p.opts.HiddenMultiplier)
	}
	if j := p.opts.JitterFraction; j > 0 {
		factor := 1 + (p.rng.Float64()*2-1)*j
		d = time.Duration(float64(d) * factor)
	}
	if d < 0 {
		d = 0
	}
	return d
}

// backoff grows the delay multiplicatively and caps it at max.
func backoff(current time.Duration, factor float64, max time.Duration) time.Duration {
	next := time.Duration(float64(current) * factor)
	if next > max {
		next = max
	}
	return next
}
