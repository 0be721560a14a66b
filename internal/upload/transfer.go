package upload

import (
	"context"
	"io"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"
)

// Receipt identifies where a completed transfer stored the file. It is empty for simulated transfers.
type Receipt struct {
	ID   string // record created by the sink, if any
	Key  string
	ETag string
}

// Transfer is one in-flight upload. Progress yields non-decreasing percentages and is
// closed when the transfer ends; 100 is only sent on success. Result is valid once
// Progress is closed. A Transfer cannot be restarted.
type Transfer interface {
	Progress() <-chan int
	Result() (Receipt, error)
	Cancel()
}

// Transport starts transfers. Slots are written only against this interface.
type Transport interface {
	Begin(ctx context.Context, f *File) Transfer
}

// transfer is the channel-backed Transfer shared by the transports in this package.
type transfer struct {
	progress chan int
	cancel   context.CancelFunc
	receipt  Receipt
	err      error
}

func newTransfer(ctx context.Context) (*transfer, context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	return &transfer{progress: make(chan int), cancel: cancel}, ctx
}

func (t *transfer) Progress() <-chan int { return t.progress }

// Result must only be called after Progress is closed; the close publishes receipt and err.
func (t *transfer) Result() (Receipt, error) { return t.receipt, t.err }

func (t *transfer) Cancel() { t.cancel() }

// emit blocks until the value is taken or ctx ends.
func (t *transfer) emit(ctx context.Context, p int) bool {
	select {
	case t.progress <- p:
		return true
	case <-ctx.Done():
		return false
	}
}

// SimulatedTransport advances progress by a random step per tick without moving any bytes.
type SimulatedTransport struct {
	Tick    time.Duration
	MinStep int
	MaxStep int
	// Rand returns a value in [0, n). Defaults to math/rand/v2.
	Rand func(n int) int
}

// Begin starts a simulated transfer.
func (s *SimulatedTransport) Begin(ctx context.Context, _ *File) Transfer {
	t, ctx := newTransfer(ctx)
	tick, lo, hi := s.Tick, s.MinStep, s.MaxStep
	if tick <= 0 {
		tick = 200 * time.Millisecond
	}
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	rnd := s.Rand
	if rnd == nil {
		rnd = rand.IntN
	}

	go func() {
		defer close(t.progress)
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		progress := 0
		for {
			select {
			case <-ctx.Done():
				t.err = ctx.Err()
				return
			case <-ticker.C:
			}
			progress += lo + rnd(hi-lo+1)
			if progress >= 100 {
				progress = 100
			}
			if !t.emit(ctx, progress) {
				t.err = ctx.Err()
				return
			}
			if progress == 100 {
				return
			}
		}
	}()
	return t
}

// SinkFunc writes the body of f to its destination.
type SinkFunc func(ctx context.Context, f *File, body io.Reader) (Receipt, error)

// StorageTransport streams the file through Sink and reports bytes read as progress.
// In-flight values are capped at 99; 100 is sent after Sink returns successfully.
type StorageTransport struct {
	Sink     SinkFunc
	Interval time.Duration
	// Abandon receives what Sink stored for a transfer that was cancelled before it
	// could report success. It runs on its own goroutine.
	Abandon func(f *File, r Receipt)
}

// Begin starts a real transfer.
func (s *StorageTransport) Begin(ctx context.Context, f *File) Transfer {
	t, ctx := newTransfer(ctx)
	interval := s.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	body := &countingReader{r: f.Reader()}
	type outcome struct {
		receipt Receipt
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := s.Sink(ctx, f, body)
		done <- outcome{receipt: r, err: err}
	}()

	go func() {
		defer close(t.progress)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		last := 0
		report := func() bool {
			p := percent(body.n.Load(), f.Size)
			if p > 99 {
				p = 99
			}
			if p <= last {
				return true
			}
			last = p
			return t.emit(ctx, p)
		}

		abandon := func(out outcome) {
			if out.err == nil && s.Abandon != nil {
				s.Abandon(f, out.receipt)
			}
		}
		// The sink still owns the write; whatever it stores after cancellation is abandoned.
		abandonPending := func() {
			go func() { abandon(<-done) }()
		}

		for {
			select {
			case <-ctx.Done():
				t.err = ctx.Err()
				abandonPending()
				return
			case out := <-done:
				if out.err != nil {
					t.err = out.err
					return
				}
				if ctx.Err() != nil || !report() || !t.emit(ctx, 100) {
					t.err = ctx.Err()
					go abandon(out)
					return
				}
				t.receipt = out.receipt
				return
			case <-ticker.C:
				if !report() {
					t.err = ctx.Err()
					abandonPending()
					return
				}
			}
		}
	}()
	return t
}

func percent(n, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(n * 100 / total)
}

type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

// ObservedTransport wraps a Transport and reports each transfer outcome to Done.
type ObservedTransport struct {
	Next    Transport
	Started func()
	Done    func(err error, elapsed time.Duration)
}

// Begin starts a transfer on Next and observes its outcome.
func (o *ObservedTransport) Begin(ctx context.Context, f *File) Transfer {
	if o.Started != nil {
		o.Started()
	}
	return &observedTransfer{Transfer: o.Next.Begin(ctx, f), done: o.Done, start: time.Now()}
}

type observedTransfer struct {
	Transfer
	done  func(err error, elapsed time.Duration)
	start time.Time
	once  sync.Once
}

func (o *observedTransfer) Result() (Receipt, error) {
	r, err := o.Transfer.Result()
	o.once.Do(func() {
		if o.done != nil {
			o.done(err, time.Since(o.start))
		}
	})
	return r, err
}
