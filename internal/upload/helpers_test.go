package upload

import (
	"context"
	"errors"
	"sync"
	"time"
)

// recorder collects slot events in the order the slot emits them.
type recorder struct {
	mu      sync.Mutex
	states  []State
	events  []string
	uploads   []*File
	abandoned []*File
	removes   int
	uploadErr error
}

func (r *recorder) options(tr Transport, dec Decoder) Options {
	return Options{
		Transport:   tr,
		Decoder:     dec,
		SettleDelay: 5 * time.Millisecond,
		OnChange: func(st State) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.states = append(r.states, st)
			r.events = append(r.events, "change")
		},
		OnUpload: func(f *File, _ Receipt) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.uploads = append(r.uploads, f)
			r.events = append(r.events, "upload")
			return r.uploadErr
		},
		OnAbandon: func(f *File, _ Receipt) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.abandoned = append(r.abandoned, f)
		},
		OnRemove: func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.removes++
			r.events = append(r.events, "remove")
		},
	}
}

// progressValues returns the distinct progress values observed, with -1 standing for nil.
func (r *recorder) progressValues() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int
	for _, st := range r.states {
		v := -1
		if st.Progress != nil {
			v = *st.Progress
		}
		if len(out) == 0 || out[len(out)-1] != v {
			out = append(out, v)
		}
	}
	return out
}

func (r *recorder) uploadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.uploads)
}

func (r *recorder) abandonedFiles() []*File {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*File(nil), r.abandoned...)
}

func (r *recorder) removeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removes
}

// uploadPosition returns how many changes preceded the first upload event and the
// last progress value among them.
func (r *recorder) uploadPosition() (changesBefore int, lastProgress int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lastProgress = -1
	for _, e := range r.events {
		if e == "upload" {
			return changesBefore, lastProgress
		}
		if e == "change" {
			st := r.states[changesBefore]
			if st.Progress != nil {
				lastProgress = *st.Progress
			}
			changesBefore++
		}
	}
	return changesBefore, lastProgress
}

// manualTransport hands control of every transfer to the test.
type manualTransport struct {
	mu        sync.Mutex
	transfers []*manualTransfer
	started   chan *manualTransfer
}

func newManualTransport() *manualTransport {
	return &manualTransport{started: make(chan *manualTransfer, 8)}
}

type manualTransfer struct {
	*transfer
	file   *File
	steps  chan int
	result chan error
}

func (m *manualTransport) Begin(ctx context.Context, f *File) Transfer {
	t, ctx := newTransfer(ctx)
	mt := &manualTransfer{transfer: t, file: f, steps: make(chan int), result: make(chan error, 1)}
	go func() {
		defer close(t.progress)
		for {
			select {
			case <-ctx.Done():
				t.err = ctx.Err()
				return
			case p := <-mt.steps:
				if !t.emit(ctx, p) {
					t.err = ctx.Err()
					return
				}
			case err := <-mt.result:
				t.err = err
				return
			}
		}
	}()
	m.mu.Lock()
	m.transfers = append(m.transfers, mt)
	m.mu.Unlock()
	m.started <- mt
	return mt
}

func (mt *manualTransfer) step(p int) { mt.steps <- p }

func (mt *manualTransfer) finish(err error) { mt.result <- err }

func (m *manualTransport) next() *manualTransfer { return <-m.started }

// gatedDecoder blocks each decode until the test releases that file name.
type gatedDecoder struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newGatedDecoder(names ...string) *gatedDecoder {
	g := &gatedDecoder{gates: make(map[string]chan struct{})}
	for _, n := range names {
		g.gates[n] = make(chan struct{})
	}
	return g
}

func (g *gatedDecoder) release(name string) { close(g.gates[name]) }

func (g *gatedDecoder) Decode(_ context.Context, f *File) (string, error) {
	g.mu.Lock()
	gate, ok := g.gates[f.Name]
	g.mu.Unlock()
	if !ok {
		return "", errors.New("unknown file")
	}
	<-gate
	return "preview:" + f.Name, nil
}

type staticDecoder struct{}

func (staticDecoder) Decode(_ context.Context, f *File) (string, error) {
	return "preview:" + f.Name, nil
}

func imageFile(name string, size int64) *File {
	return &File{Name: name, ContentType: "image/png", Size: size, Data: []byte("png")}
}

func pdfFile(name string, size int64) *File {
	return &File{Name: name, ContentType: "application/pdf", Size: size, Data: []byte("%PDF-1.4")}
}

func fastTransport(step int) *SimulatedTransport {
	return &SimulatedTransport{
		Tick:    time.Millisecond,
		MinStep: step,
		MaxStep: step,
		Rand:    func(int) int { return 0 },
	}
}
