package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
	"hrdesk/internal/upload"
)

const (
	TransportSimulated = "simulated"
	TransportStorage   = "storage"

	subscriberBuffer = 16
	commitTimeout    = 2 * time.Minute
)

// UploadServiceConfig holds the live slot settings.
type UploadServiceConfig struct {
	Transport       string
	TickInterval    time.Duration
	MinStep         int
	MaxStep         int
	SettleDelay     time.Duration
	PreviewMaxPixel int
}

// UploadMetrics receives slot and transfer observations. A nil UploadMetrics records nothing.
type UploadMetrics interface {
	ValidationFailed(slotID string, kind upload.ErrorKind)
	TransferStarted(slotID string)
	TransferFinished(slotID string, err error, elapsed time.Duration)
	LiveSlots(n int)
}

// UploadService keeps one live upload slot per employee and document slot.
type UploadService interface {
	Catalog() *upload.Catalog
	State(ctx context.Context, employeeID uuid.UUID, slotID string) (upload.State, error)
	Select(ctx context.Context, employeeID uuid.UUID, slotID string, f *upload.File, actor uuid.UUID) (upload.State, error)
	Remove(ctx context.Context, employeeID uuid.UUID, slotID string, actor uuid.UUID) (upload.State, error)
	// Subscribe streams state changes, starting with the current state. cancel must be called to release the stream.
	Subscribe(ctx context.Context, employeeID uuid.UUID, slotID string) (states <-chan upload.State, cancel func(), err error)
	// Sweep closes and forgets idle slots last used before cutoff. It returns how many were evicted.
	Sweep(cutoff time.Time) int
	Close()
}

type slotKey struct {
	employeeID uuid.UUID
	slotID     string
}

type slotEntry struct {
	key  slotKey
	slot *upload.Slot

	// op serializes Select and Remove on the entry. Slot callbacks never take it.
	op sync.Mutex

	mu       sync.Mutex
	lastUsed time.Time
	owners   map[*upload.File]uuid.UUID
	remover  uuid.UUID
	subs     map[int]chan upload.State
	nextSub  int
	version  uint64
}

type uploadService struct {
	catalog   *upload.Catalog
	files     FileService
	documents DocumentService
	employees port.EmployeeRepository
	metrics   UploadMetrics
	cfg       UploadServiceConfig
	now       func() time.Time

	mu      sync.Mutex
	entries map[slotKey]*slotEntry
}

// NewUploadService creates a new UploadService and subscribes it to verification decisions.
func NewUploadService(
	catalog *upload.Catalog,
	files FileService,
	documents DocumentService,
	employees port.EmployeeRepository,
	metrics UploadMetrics,
	cfg UploadServiceConfig,
) UploadService {
	if catalog == nil {
		catalog = upload.DefaultCatalog()
	}
	if cfg.Transport == "" {
		cfg.Transport = TransportStorage
	}
	s := &uploadService{
		catalog:   catalog,
		files:     files,
		documents: documents,
		employees: employees,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
		entries:   make(map[slotKey]*slotEntry),
	}
	documents.OnDecision(s.applyDecision)
	return s
}

func (s *uploadService) Catalog() *upload.Catalog { return s.catalog }

func (s *uploadService) State(ctx context.Context, employeeID uuid.UUID, slotID string) (upload.State, error) {
	e, err := s.entry(ctx, employeeID, slotID)
	if err != nil {
		return upload.State{}, err
	}
	return e.slot.State(), nil
}

func (s *uploadService) Select(ctx context.Context, employeeID uuid.UUID, slotID string, f *upload.File, actor uuid.UUID) (upload.State, error) {
	e, err := s.entry(ctx, employeeID, slotID)
	if err != nil {
		return upload.State{}, err
	}
	resolveContentType(f)

	e.op.Lock()
	defer e.op.Unlock()

	e.mu.Lock()
	e.owners[f] = actor
	e.mu.Unlock()

	if err := e.slot.Select(ctx, f); err != nil {
		e.mu.Lock()
		delete(e.owners, f)
		e.mu.Unlock()

		var verr *upload.ValidationError
		if errors.As(err, &verr) && s.metrics != nil {
			s.metrics.ValidationFailed(slotID, verr.Kind)
		}
		return e.slot.State(), err
	}

	// Only the latest accepted selection can reach OnUpload.
	e.mu.Lock()
	for other := range e.owners {
		if other != f {
			delete(e.owners, other)
		}
	}
	e.mu.Unlock()

	log.Printf("uploadService.Select: %s (%s, %d bytes) accepted for employee %s slot %s",
		f.Name, f.ContentType, f.Size, employeeID, slotID)
	return e.slot.State(), nil
}

func (s *uploadService) Remove(ctx context.Context, employeeID uuid.UUID, slotID string, actor uuid.UUID) (upload.State, error) {
	e, err := s.entry(ctx, employeeID, slotID)
	if err != nil {
		return upload.State{}, err
	}

	e.op.Lock()
	defer e.op.Unlock()

	st := e.slot.State()
	if st.ReadOnly {
		return st, domain.ErrSlotReadOnly
	}
	if st.Preview == "" && !st.HasFile() {
		// A committed document whose preview could not be rehydrated is still removable.
		if err := s.documents.RemoveBySlot(ctx, employeeID, slotID, actor); err != nil {
			return st, err
		}
		e.slot.SetVerification(domain.VerificationNone, "")
		return e.slot.State(), nil
	}

	e.mu.Lock()
	e.remover = actor
	e.mu.Unlock()
	e.slot.Remove()
	return e.slot.State(), nil
}

func (s *uploadService) Subscribe(ctx context.Context, employeeID uuid.UUID, slotID string) (<-chan upload.State, func(), error) {
	e, err := s.entry(ctx, employeeID, slotID)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan upload.State, subscriberBuffer)
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	seen := e.version
	e.mu.Unlock()

	// If a broadcast reached the subscriber after registration it already holds the latest state.
	st := e.slot.State()
	e.mu.Lock()
	if e.version == seen {
		e.deliver(ch, st)
	}
	e.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if _, ok := e.subs[id]; ok {
				delete(e.subs, id)
				close(ch)
			}
			e.lastUsed = s.now()
		})
	}
	return ch, cancel, nil
}

func (s *uploadService) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	var idle []*slotEntry
	for k, e := range s.entries {
		e.mu.Lock()
		stale := e.lastUsed.Before(cutoff) && len(e.subs) == 0
		e.mu.Unlock()
		if stale && !e.slot.Busy() {
			idle = append(idle, e)
			delete(s.entries, k)
		}
	}
	live := len(s.entries)
	s.mu.Unlock()

	for _, e := range idle {
		e.slot.Close()
	}
	if s.metrics != nil {
		s.metrics.LiveSlots(live)
	}
	return len(idle)
}

func (s *uploadService) Close() {
	s.mu.Lock()
	entries := make([]*slotEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.entries = make(map[slotKey]*slotEntry)
	s.mu.Unlock()

	for _, e := range entries {
		e.slot.Close()
		e.closeSubscribers()
	}
	log.Printf("uploadService.Close: closed %d live slots", len(entries))
}

// entry returns the live slot for the key, building and rehydrating it on first use.
func (s *uploadService) entry(ctx context.Context, employeeID uuid.UUID, slotID string) (*slotEntry, error) {
	key := slotKey{employeeID: employeeID, slotID: slotID}

	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		s.mu.Unlock()
		e.touch(s.now())
		return e, nil
	}
	s.mu.Unlock()

	def, ok := s.catalog.Get(slotID)
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	cfg := def.Config()
	cfg.Compact = emp.DecodeSettings().CompactLayout
	if err := s.rehydrate(ctx, &cfg, employeeID, slotID); err != nil {
		return nil, err
	}

	e := &slotEntry{
		key:      key,
		lastUsed: s.now(),
		owners:   make(map[*upload.File]uuid.UUID),
		subs:     make(map[int]chan upload.State),
	}
	slot, err := upload.NewSlot(cfg, upload.Options{
		Transport:   s.transport(e),
		Decoder:     upload.ImageDecoder{MaxDimension: s.cfg.PreviewMaxPixel},
		SettleDelay: s.cfg.SettleDelay,
		OnUpload:    func(f *upload.File, r upload.Receipt) error { return s.commit(e, f, r) },
		OnAbandon:   func(f *upload.File, r upload.Receipt) { s.discard(e, f, r) },
		OnRemove:    func() { s.removeCommitted(e) },
		OnChange:    e.broadcast,
	})
	if err != nil {
		return nil, fmt.Errorf("uploadService.entry: slot %s: %w", slotID, err)
	}
	e.slot = slot

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[key]; ok {
		// Lost a race with another request building the same slot.
		slot.Close()
		existing.touch(s.now())
		return existing, nil
	}
	s.entries[key] = e
	if s.metrics != nil {
		s.metrics.LiveSlots(len(s.entries))
	}
	return e, nil
}

// rehydrate fills the preview and verification annotation from the committed document.
func (s *uploadService) rehydrate(ctx context.Context, cfg *upload.Config, employeeID uuid.UUID, slotID string) error {
	doc, err := s.documents.GetBySlot(ctx, employeeID, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil
		}
		return fmt.Errorf("uploadService.rehydrate: %w", err)
	}

	cfg.VerificationStatus = doc.VerificationStatus
	cfg.RejectionReason = doc.RejectionReason
	cfg.ReadOnly = doc.VerificationStatus == domain.VerificationVerified
	cfg.CurrentPreview = s.storedPreview(ctx, doc)
	return nil
}

func (s *uploadService) storedPreview(ctx context.Context, doc *domain.EmployeeDocument) string {
	meta, err := s.files.GetByID(ctx, doc.FileID)
	if err != nil {
		log.Printf("uploadService.storedPreview: file %s of document %s: %v", doc.FileID, doc.ID, err)
		return ""
	}
	if meta.FileType == domain.FileTypePDF {
		return upload.PDFPreview
	}
	url, err := s.files.GetDownloadURL(ctx, doc.FileID)
	if err != nil {
		log.Printf("uploadService.storedPreview: presign %s: %v", doc.FileID, err)
		return ""
	}
	return url
}

func (s *uploadService) transport(e *slotEntry) upload.Transport {
	var next upload.Transport
	switch s.cfg.Transport {
	case TransportSimulated:
		next = &upload.SimulatedTransport{Tick: s.cfg.TickInterval, MinStep: s.cfg.MinStep, MaxStep: s.cfg.MaxStep}
	default:
		next = &upload.StorageTransport{
			Sink:     s.sink(e),
			Interval: s.cfg.TickInterval,
			Abandon:  func(f *upload.File, r upload.Receipt) { s.discard(e, f, r) },
		}
	}
	if s.metrics == nil {
		return next
	}
	slotID := e.key.slotID
	return &upload.ObservedTransport{
		Next:    next,
		Started: func() { s.metrics.TransferStarted(slotID) },
		Done:    func(err error, elapsed time.Duration) { s.metrics.TransferFinished(slotID, err, elapsed) },
	}
}

// sink stores the file through FileService, attributing it to whoever selected it.
func (s *uploadService) sink(e *slotEntry) upload.SinkFunc {
	return func(ctx context.Context, f *upload.File, body io.Reader) (upload.Receipt, error) {
		return s.files.Sink(e.key.employeeID, e.owner(f), e.key.slotID)(ctx, f, body)
	}
}

// commit persists a completed upload. It runs from the slot's OnUpload callback; an error
// fails the upload on the slot.
func (s *uploadService) commit(e *slotEntry, f *upload.File, r upload.Receipt) error {
	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()

	actor := e.owner(f)
	e.mu.Lock()
	delete(e.owners, f)
	e.mu.Unlock()

	fileID, err := uuid.Parse(r.ID)
	if err != nil {
		meta, uerr := s.files.Upload(ctx, FileUploadInput{
			EmployeeID: e.key.employeeID,
			UploadedBy: actor,
			SlotID:     e.key.slotID,
			File:       f,
		})
		if uerr != nil {
			log.Printf("uploadService.commit: storing %s for employee %s slot %s failed: %v",
				f.Name, e.key.employeeID, e.key.slotID, uerr)
			return uerr
		}
		fileID = meta.ID
	}

	doc, err := s.documents.Commit(ctx, CommitInput{
		EmployeeID: e.key.employeeID,
		SlotID:     e.key.slotID,
		FileID:     fileID,
		UploadedBy: actor,
	})
	if err != nil {
		log.Printf("uploadService.commit: committing file %s for employee %s slot %s failed: %v",
			fileID, e.key.employeeID, e.key.slotID, err)
		if derr := s.files.Delete(ctx, fileID); derr != nil {
			log.Printf("uploadService.commit: cleaning up file %s: %v", fileID, derr)
		}
		return err
	}
	e.slot.SetVerification(doc.VerificationStatus, doc.RejectionReason)
	return nil
}

// discard deletes a stored file whose selection ended before it was committed.
func (s *uploadService) discard(e *slotEntry, f *upload.File, r upload.Receipt) {
	e.mu.Lock()
	delete(e.owners, f)
	e.mu.Unlock()

	fileID, err := uuid.Parse(r.ID)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()

	log.Printf("uploadService.discard: %s for employee %s slot %s was superseded, deleting file %s",
		f.Name, e.key.employeeID, e.key.slotID, fileID)
	if err := s.files.Delete(ctx, fileID); err != nil {
		log.Printf("uploadService.discard: deleting file %s: %v", fileID, err)
	}
}

// removeCommitted deletes the committed document. It runs from the slot's OnRemove callback.
func (s *uploadService) removeCommitted(e *slotEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()

	e.mu.Lock()
	actor := e.remover
	clear(e.owners)
	e.mu.Unlock()

	if err := s.documents.RemoveBySlot(ctx, e.key.employeeID, e.key.slotID, actor); err != nil {
		log.Printf("uploadService.removeCommitted: employee %s slot %s: %v", e.key.employeeID, e.key.slotID, err)
		return
	}
	e.slot.SetVerification(domain.VerificationNone, "")
}

// applyDecision re-annotates the live slot of a decided document.
func (s *uploadService) applyDecision(doc *domain.EmployeeDocument) {
	s.mu.Lock()
	e, ok := s.entries[slotKey{employeeID: doc.EmployeeID, slotID: doc.SlotID}]
	s.mu.Unlock()
	if !ok {
		return
	}
	e.slot.SetVerification(doc.VerificationStatus, doc.RejectionReason)
	e.slot.SetReadOnly(doc.VerificationStatus == domain.VerificationVerified)
}

func (e *slotEntry) touch(now time.Time) {
	e.mu.Lock()
	e.lastUsed = now
	e.mu.Unlock()
}

func (e *slotEntry) owner(f *upload.File) uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.owners[f]
}

// broadcast fans a state out to subscribers. It runs under the slot lock and never blocks.
func (e *slotEntry) broadcast(st upload.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.version++
	for _, ch := range e.subs {
		e.deliver(ch, st)
	}
}

func (e *slotEntry) closeSubscribers() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
}

// deliver sends st, dropping the oldest buffered state when the subscriber lags.
func (e *slotEntry) deliver(ch chan upload.State, st upload.State) {
	select {
	case ch <- st:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- st:
	default:
	}
}

// resolveContentType replaces the declared type with the sniffed one unless sniffing found nothing specific.
func resolveContentType(f *upload.File) {
	if f == nil {
		return
	}
	if f.Size == 0 {
		f.Size = int64(len(f.Data))
	}
	m := mimetype.Detect(f.Data)
	if m.Is("application/octet-stream") && f.ContentType != "" {
		return
	}
	f.ContentType = strings.TrimSpace(strings.SplitN(m.String(), ";", 2)[0])
}
