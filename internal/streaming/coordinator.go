// Package streaming grows the world around the viewer one chunk at a time.
// A single background job generates a detached chunk while the render
// thread keeps drawing; the result is committed on the render thread.
package streaming

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"riverworld/internal/profiling"
	"riverworld/internal/spatial"
	"riverworld/internal/world"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrBusy is returned when a job is submitted while another is in flight.
	ErrBusy = errors.New("streaming: job in flight")
	// ErrNoResult is returned by Commit when no finished job is waiting.
	ErrNoResult = errors.New("streaming: no result ready")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("streaming: coordinator closed")
)

// Status is the phase of the coordinator's single job slot.
type Status int32

const (
	Idle Status = iota
	Running
	ResultsReady
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case ResultsReady:
		return "results-ready"
	}
	return fmt.Sprintf("status(%d)", int32(s))
}

// Options configures a Coordinator.
type Options struct {
	Store *world.Store
	// Rivers is optional; without it chunks are generated dry.
	Rivers world.Rivers
	// Workers sizes the job pool, 1 by default. Only one job is ever
	// in flight.
	Workers int
	// RetryDelay is how long a region whose job failed is left alone
	// before it is tried again. It doubles per failure up to maxRetryDelay.
	RetryDelay time.Duration
	Logger     *slog.Logger
}

const (
	defaultRetryDelay = 2 * time.Second
	maxRetryDelay     = time.Minute
)

// Result is a finished job waiting to be committed.
type Result struct {
	Region       spatial.Rect
	Staging      *world.Staging
	Payload      *world.Payload
	RiverSpawned bool
	Elapsed      time.Duration
	Err          error
}

// TickReport describes what one Tick did.
type TickReport struct {
	Status       Status
	Submitted    bool
	Committed    bool
	Region       spatial.Rect
	Triangles    int
	RiverSpawned bool
	// Deferred is set when the nearest missing region failed recently and
	// is still backing off.
	Deferred bool
	Err      error
}

// failure tracks a region whose job failed.
type failure struct {
	count int
	retry time.Time
}

// Coordinator owns the job slot. Submit, Poll, Commit and Tick are meant
// for the render thread; the job itself runs on the pool.
type Coordinator struct {
	store   *world.Store
	rivers  world.Rivers
	pool    pond.Pool
	results chan *Result
	log     *slog.Logger

	status atomic.Int32
	closed atomic.Bool

	retryDelay time.Duration

	mu        sync.Mutex
	pending   *Result
	committed int
	failed    map[spatial.Rect]failure
}

// New creates an idle coordinator.
func New(opts Options) *Coordinator {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{
		store:   opts.Store,
		rivers:  opts.Rivers,
		pool:    pond.NewPool(opts.Workers),
		results: make(chan *Result, 1),
		log:     opts.Logger,

		retryDelay: opts.RetryDelay,
		failed:     map[spatial.Rect]failure{},
	}
}

func (c *Coordinator) Status() Status { return Status(c.status.Load()) }

// Committed returns how many chunks were committed so far.
func (c *Coordinator) Committed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed
}

// Submit starts generating the chunk covering region.
func (c *Coordinator) Submit(region spatial.Rect) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if !c.status.CompareAndSwap(int32(Idle), int32(Running)) {
		return ErrBusy
	}
	c.pool.Submit(func() {
		res := c.run(region)
		c.results <- res
		c.status.Store(int32(ResultsReady))
	})
	c.log.Debug("job submitted", "region", region.String())
	return nil
}

// run generates the staged chunk, lets rivers carve into it, decorates it
// and meshes it together with its live neighbours.
func (c *Coordinator) run(region spatial.Rect) (res *Result) {
	defer profiling.Track("streaming.Job")()
	start := time.Now()
	res = &Result{Region: region}
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("generate %s: %v", region, r)
		}
		res.Elapsed = time.Since(start)
	}()

	stg := c.store.NewStaging(region.XMin, region.ZMin)
	res.Staging = stg
	stg.Build()
	if c.rivers != nil {
		res.RiverSpawned = c.rivers.Update(stg.Rect(), stg)
	}
	stg.PlaceAssets()
	res.Payload = stg.Mesh()
	return res
}

// Poll returns the finished result without blocking. The result stays
// pending until Commit.
func (c *Coordinator) Poll() (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		return c.pending, true
	}
	if c.Status() != ResultsReady {
		return nil, false
	}
	select {
	case res := <-c.results:
		c.pending = res
		return res, true
	default:
		return nil, false
	}
}

// Commit installs the pending result into the store and frees the slot.
// A failed job frees the slot and returns its error.
func (c *Coordinator) Commit() (*Result, error) {
	res, ok := c.Poll()
	if !ok {
		return nil, ErrNoResult
	}
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
	defer c.status.Store(int32(Idle))

	if res.Err != nil {
		f := c.recordFailure(res.Region)
		c.log.Error("job failed", "region", res.Region.String(), "error", res.Err,
			"failures", f.count, "retry_in", time.Until(f.retry).Round(time.Millisecond))
		return res, res.Err
	}
	if !c.store.Commit(res.Staging, res.Payload) {
		return res, fmt.Errorf("commit %s: chunk already exists", res.Region)
	}
	c.mu.Lock()
	c.committed++
	delete(c.failed, res.Region)
	c.mu.Unlock()
	c.log.Debug("chunk streamed", "region", res.Region.String(),
		"triangles", res.Payload.Triangles(), "river", res.RiverSpawned, "elapsed", res.Elapsed)
	return res, nil
}

func (c *Coordinator) recordFailure(region spatial.Rect) failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.failed[region]
	f.count++
	delay := c.retryDelay << (f.count - 1)
	if delay > maxRetryDelay || delay <= 0 {
		delay = maxRetryDelay
	}
	f.retry = time.Now().Add(delay)
	c.failed[region] = f
	return f
}

// backingOff reports whether region failed and its retry time is not due.
func (c *Coordinator) backingOff(region spatial.Rect) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.failed[region]
	return ok && time.Now().Before(f.retry)
}

// Tick drives the slot once per frame: a finished job is committed, an
// idle slot is handed the nearest missing chunk around viewer unless that
// chunk failed recently.
func (c *Coordinator) Tick(viewer mgl32.Vec3) TickReport {
	defer profiling.Track("streaming.Tick")()
	rep := TickReport{Status: c.Status()}
	if c.closed.Load() {
		rep.Err = ErrClosed
		return rep
	}
	switch rep.Status {
	case ResultsReady:
		res, err := c.Commit()
		if res != nil {
			rep.Region = res.Region
			rep.RiverSpawned = res.RiverSpawned
		}
		if err != nil {
			rep.Err = err
			return rep
		}
		rep.Committed = true
		rep.Triangles = res.Payload.Triangles()
	case Idle:
		x := int(math.Floor(float64(viewer.X())))
		z := int(math.Floor(float64(viewer.Z())))
		region, ok := c.store.CheckBorder(x, z)
		if !ok {
			return rep
		}
		if c.backingOff(region) {
			rep.Deferred = true
			rep.Region = region
			return rep
		}
		if err := c.Submit(region); err != nil {
			rep.Err = err
			return rep
		}
		rep.Submitted = true
		rep.Region = region
	}
	return rep
}

// Close rejects new jobs and waits for the one in flight. A result left in
// the slot is discarded.
func (c *Coordinator) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.pool.StopAndWait()
	c.log.Debug("coordinator closed", "committed", c.Committed())
}
