package upload

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"hrdesk/internal/domain"
)

// Phase is the lifecycle position of a slot.
type Phase string

const (
	PhaseEmpty      Phase = "empty"
	PhaseValidating Phase = "validating"
	PhaseUploading  Phase = "uploading"
	PhaseSettled    Phase = "settled"
)

const defaultSettleDelay = 500 * time.Millisecond

// State is a snapshot of a slot.
type State struct {
	ID              string                    `json:"id"`
	Label           string                    `json:"label"`
	Description     string                    `json:"description"`
	AcceptedTypes   []string                  `json:"accepted_types"`
	MaxSizeMB       float64                   `json:"max_size_mb"`
	Phase           Phase                     `json:"phase"`
	Preview         string                    `json:"preview,omitempty"`
	FileName        string                    `json:"file_name,omitempty"`
	FileSize        int64                     `json:"file_size,omitempty"`
	Progress        *int                      `json:"progress"`
	Error           string                    `json:"error,omitempty"`
	ErrorKind       ErrorKind                 `json:"error_kind,omitempty"`
	Verification    domain.VerificationStatus `json:"verification_status"`
	RejectionReason string                    `json:"rejection_reason,omitempty"`
	Badge           *Badge                    `json:"badge,omitempty"`
	ReadOnly        bool                      `json:"read_only"`
	Compact         bool                      `json:"compact"`
	DragOver        bool                      `json:"drag_over"`
}

// HasFile reports whether the slot holds a local file.
func (s State) HasFile() bool { return s.FileName != "" }

// Options wires a slot to its collaborators.
type Options struct {
	Transport   Transport
	Decoder     Decoder
	SettleDelay time.Duration

	// OnUpload fires once per accepted selection, after progress reached 100. A non-nil
	// error fails the upload and restores the state before the selection.
	// It must not call Select, Drop, Remove or Close on the same slot.
	OnUpload func(f *File, r Receipt) error
	// OnAbandon receives the receipt of a completed transfer whose selection was
	// replaced, removed or closed before OnUpload could fire.
	OnAbandon func(f *File, r Receipt)
	// OnRemove fires on explicit removal of a non-empty slot. Same restriction as OnUpload.
	OnRemove func()
	// OnChange receives every state change in order. It runs with the slot locked and must not call into the slot.
	OnChange func(State)
}

// Slot manages the lifecycle of a single document input point.
//
// Locking: emitMu serializes selection, removal and upload-complete delivery so no
// callback from a superseded selection runs after Select or Remove returns. mu guards
// the state. emitMu is always taken before mu.
type Slot struct {
	emitMu sync.Mutex
	mu     sync.Mutex
	wg     sync.WaitGroup

	cfg  Config
	opts Options

	gen      uint64
	cancel   context.CancelFunc
	phase    Phase
	preview  string
	file     *File
	progress *int
	err      *ValidationError
	dragOver bool
}

// NewSlot builds a slot from cfg, rehydrated from cfg.CurrentPreview.
func NewSlot(cfg Config, opts Options) (*Slot, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	if opts.Transport == nil {
		opts.Transport = &SimulatedTransport{}
	}
	if opts.Decoder == nil {
		opts.Decoder = ImageDecoder{}
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	s := &Slot{cfg: cfg, opts: opts, phase: PhaseEmpty}
	if cfg.CurrentPreview != "" {
		s.preview = cfg.CurrentPreview
		s.phase = PhaseSettled
	}
	return s, nil
}

// State returns a snapshot of the slot.
func (s *Slot) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// DragEnter marks the drop zone as hovered. No-op when read-only.
func (s *Slot) DragEnter() { s.setDragOver(true) }

// DragLeave clears the hover state. No-op when read-only.
func (s *Slot) DragLeave() { s.setDragOver(false) }

func (s *Slot) setDragOver(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.ReadOnly || s.dragOver == v {
		return
	}
	s.dragOver = v
	s.notify()
}

// Drop ends a drag and selects the dropped file.
func (s *Slot) Drop(ctx context.Context, f *File) error {
	s.DragLeave()
	return s.Select(ctx, f)
}

// Select validates f and, when valid, starts its preview and upload. Validation errors are
// returned as *ValidationError and recorded on the slot; the previous preview is kept.
// Work started here outlives ctx cancellation but keeps its values.
func (s *Slot) Select(ctx context.Context, f *File) error {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.ReadOnly {
		return domain.ErrSlotReadOnly
	}

	prevPhase := s.phase
	s.dragOver = false
	s.err = nil
	s.phase = PhaseValidating
	s.notify()

	if err := Validate(f, s.cfg); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.err = verr
		}
		s.phase = prevPhase
		s.notify()
		return err
	}

	s.stopRun()
	s.gen++
	gen := s.gen
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	prev := previous{phase: prevPhase, preview: s.preview, file: s.file}
	s.file = f
	switch {
	case f.ContentType == pdfContentType:
		s.preview = PDFPreview
	case isImage(f.ContentType):
		// The old preview stays until the new one is decoded.
		s.wg.Add(1)
		go s.decode(runCtx, gen, f)
	default:
		s.preview = ""
	}

	zero := 0
	s.progress = &zero
	s.phase = PhaseUploading
	s.notify()

	tr := s.opts.Transport.Begin(runCtx, f)
	s.wg.Add(1)
	go s.run(runCtx, gen, f, tr, prev)
	return nil
}

// Remove clears the preview and the local file, cancels outstanding work and fires OnRemove.
// It is a no-op on an empty or read-only slot.
func (s *Slot) Remove() {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.cfg.ReadOnly || (s.preview == "" && s.file == nil) {
		s.mu.Unlock()
		return
	}
	s.stopRun()
	s.gen++
	s.preview = ""
	s.file = nil
	s.progress = nil
	s.err = nil
	s.phase = PhaseEmpty
	s.notify()
	s.mu.Unlock()

	if s.opts.OnRemove != nil {
		s.opts.OnRemove()
	}
}

// SetVerification updates the externally supplied verification annotation.
// The reason is only kept for rejected documents.
func (s *Slot) SetVerification(status domain.VerificationStatus, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == "" {
		status = domain.VerificationNone
	}
	if status != domain.VerificationRejected {
		reason = ""
	}
	s.cfg.VerificationStatus = status
	s.cfg.RejectionReason = reason
	s.notify()
}

// SetReadOnly toggles the read-only flag.
func (s *Slot) SetReadOnly(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.ReadOnly == v {
		return
	}
	s.cfg.ReadOnly = v
	if v {
		s.dragOver = false
	}
	s.notify()
}

// Rehydrate replaces the preview with an externally stored reference. It is ignored while an upload is in flight.
func (s *Slot) Rehydrate(preview string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress != nil {
		return
	}
	s.cfg.CurrentPreview = preview
	s.preview = preview
	switch {
	case preview != "":
		s.phase = PhaseSettled
	case s.file == nil:
		s.phase = PhaseEmpty
	}
	s.notify()
}

// Busy reports whether an upload is in flight.
func (s *Slot) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress != nil
}

// Wait blocks until in-flight decode and transfer work has finished.
func (s *Slot) Wait() { s.wg.Wait() }

// Close cancels outstanding work and waits for it to stop. The slot keeps its last state.
func (s *Slot) Close() {
	s.emitMu.Lock()
	s.mu.Lock()
	s.stopRun()
	s.gen++
	if s.progress != nil {
		s.progress = nil
		if s.preview != "" {
			s.phase = PhaseSettled
		} else {
			s.phase = PhaseEmpty
		}
	}
	s.mu.Unlock()
	s.emitMu.Unlock()
	s.wg.Wait()
}

// stopRun cancels the current run. Callers hold mu.
func (s *Slot) stopRun() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Slot) decode(ctx context.Context, gen uint64, f *File) {
	defer s.wg.Done()
	uri, err := s.opts.Decoder.Decode(ctx, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	if err != nil {
		log.Printf("upload.Slot: preview unavailable for %s in slot %s: %v", f.Name, s.cfg.ID, err)
		s.preview = ""
	} else {
		s.preview = uri
	}
	s.notify()
}

func (s *Slot) run(ctx context.Context, gen uint64, f *File, tr Transfer, prev previous) {
	defer s.wg.Done()
	defer func() {
		tr.Cancel()
		for range tr.Progress() {
		}
		_, _ = tr.Result()
	}()

	for p := range tr.Progress() {
		if p >= 100 {
			continue
		}
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		if p > *s.progress {
			v := p
			s.progress = &v
			s.notify()
		}
		s.mu.Unlock()
	}

	receipt, err := tr.Result()
	if err != nil {
		s.fail(gen, f, err, prev)
		return
	}

	s.emitMu.Lock()
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.emitMu.Unlock()
		if s.opts.OnAbandon != nil {
			s.opts.OnAbandon(f, receipt)
		}
		return
	}
	done := 100
	s.progress = &done
	s.notify()
	s.mu.Unlock()
	if s.opts.OnUpload != nil {
		if err := s.opts.OnUpload(f, receipt); err != nil {
			s.fail(gen, f, err, prev)
			s.emitMu.Unlock()
			return
		}
	}
	s.emitMu.Unlock()

	timer := time.NewTimer(s.opts.SettleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.progress = nil
	s.phase = PhaseSettled
	s.notify()
}

// previous is what a failed transfer restores.
type previous struct {
	phase   Phase
	preview string
	file    *File
}

// fail abandons the selection and restores the state before it.
func (s *Slot) fail(gen uint64, f *File, err error, prev previous) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	log.Printf("upload.Slot: upload of %s in slot %s failed: %v", f.Name, s.cfg.ID, err)
	s.stopRun()
	s.gen++
	s.file = prev.file
	s.progress = nil
	s.preview = prev.preview
	s.phase = prev.phase
	if s.phase == PhaseUploading || s.phase == PhaseValidating {
		if s.preview != "" {
			s.phase = PhaseSettled
		} else {
			s.phase = PhaseEmpty
		}
	}
	s.err = &ValidationError{Kind: KindUploadFailed, Message: "Upload failed. Please try again."}
	s.notify()
}

// snapshot builds a State. Callers hold mu.
func (s *Slot) snapshot() State {
	st := State{
		ID:              s.cfg.ID,
		Label:           s.cfg.Label,
		Description:     s.cfg.Description,
		AcceptedTypes:   s.cfg.AcceptedTypes(),
		MaxSizeMB:       s.cfg.MaxSizeMB,
		Phase:           s.phase,
		Preview:         s.preview,
		Verification:    s.cfg.VerificationStatus,
		RejectionReason: s.cfg.RejectionReason,
		Badge:           RenderBadge(s.cfg.VerificationStatus, strings.TrimSpace(s.cfg.RejectionReason)),
		ReadOnly:        s.cfg.ReadOnly,
		Compact:         s.cfg.Compact,
		DragOver:        s.dragOver,
	}
	if s.file != nil {
		st.FileName = s.file.Name
		st.FileSize = s.file.Size
	}
	if s.progress != nil {
		v := *s.progress
		st.Progress = &v
	}
	if s.err != nil {
		st.Error = s.err.Message
		st.ErrorKind = s.err.Kind
	}
	return st
}

// notify publishes the current state. Callers hold mu.
func (s *Slot) notify() {
	if s.opts.OnChange != nil {
		s.opts.OnChange(s.snapshot())
	}
}
