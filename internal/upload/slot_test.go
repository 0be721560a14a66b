package upload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain"
)

func newTestSlot(t *testing.T, cfg Config, rec *recorder, tr Transport, dec Decoder) *Slot {
	t.Helper()
	if cfg.ID == "" {
		cfg.ID = "national_id"
		cfg.Label = "National ID"
	}
	s, err := NewSlot(cfg, rec.options(tr, dec))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestNewSlot_Defaults(t *testing.T) {
	s, err := NewSlot(Config{ID: "national_id", Label: "National ID"}, Options{})
	require.NoError(t, err)

	st := s.State()
	assert.Equal(t, PhaseEmpty, st.Phase)
	assert.Equal(t, []string{"image/*", ".pdf"}, st.AcceptedTypes)
	assert.Equal(t, float64(5), st.MaxSizeMB)
	assert.Equal(t, domain.VerificationNone, st.Verification)
	assert.Nil(t, st.Badge)
	assert.Nil(t, st.Progress)
}

func TestNewSlot_RehydratesCurrentPreview(t *testing.T) {
	s, err := NewSlot(Config{ID: "resume", Label: "Resume", CurrentPreview: "https://cdn/resume.pdf"}, Options{})
	require.NoError(t, err)

	st := s.State()
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.Equal(t, "https://cdn/resume.pdf", st.Preview)
	assert.False(t, st.HasFile())
}

func TestNewSlot_InvalidConfig(t *testing.T) {
	_, err := NewSlot(Config{ID: "x", Accept: " , ", MaxSizeMB: 5}, Options{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewSlot(Config{ID: "x", MaxSizeMB: -1}, Options{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSlot_Select_ProgressSequence(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, fastTransport(17), staticDecoder{})

	f := imageFile("id.png", 1024*1024)
	require.NoError(t, s.Select(context.Background(), f))
	s.Wait()

	values := rec.progressValues()
	require.NotEmpty(t, values)
	assert.Equal(t, -1, values[len(values)-1], "progress clears after settling")
	assert.Equal(t, 100, values[len(values)-2], "100 is shown before clearing")

	last := -1
	for _, v := range values[:len(values)-1] {
		if v == -1 {
			continue
		}
		assert.GreaterOrEqual(t, v, last)
		last = v
	}

	_, lastProgress := rec.uploadPosition()
	assert.Equal(t, 100, lastProgress, "onUpload fires after progress reached 100")

	require.Equal(t, 1, rec.uploadCount())
	assert.Same(t, f, rec.uploads[0])

	st := s.State()
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.Equal(t, "preview:id.png", st.Preview)
	assert.Equal(t, "id.png", st.FileName)
	assert.Nil(t, st.Progress)
}

func TestSlot_Select_FileTooLarge(t *testing.T) {
	rec := &recorder{}
	tr := newManualTransport()
	s := newTestSlot(t, Config{}, rec, tr, staticDecoder{})

	err := s.Select(context.Background(), imageFile("big.png", 6*1024*1024))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindFileTooLarge, verr.Kind)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	assert.Contains(t, verr.Message, "5MB")

	st := s.State()
	assert.Equal(t, PhaseEmpty, st.Phase)
	assert.Equal(t, "File size must be less than 5MB", st.Error)
	assert.Equal(t, KindFileTooLarge, st.ErrorKind)
	assert.Empty(t, st.Preview)
	assert.Nil(t, st.Progress)
	assert.Equal(t, 0, rec.uploadCount())
	assert.Empty(t, tr.started)
}

func TestSlot_Select_SizeCheckedBeforeType(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, newManualTransport(), staticDecoder{})

	err := s.Select(context.Background(), &File{Name: "huge.zip", ContentType: "application/zip", Size: 6 * 1024 * 1024})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestSlot_Select_UnsupportedType(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, newManualTransport(), staticDecoder{})

	err := s.Select(context.Background(), &File{Name: "notes.docx", ContentType: "application/msword", Size: 1024})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	assert.Equal(t, "Please upload an image or PDF file", s.State().Error)
	assert.Equal(t, 0, rec.uploadCount())
}

func TestSlot_Select_ValidationErrorKeepsPreviousPreview(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{CurrentPreview: "https://cdn/old.png"}, rec, newManualTransport(), staticDecoder{})

	err := s.Select(context.Background(), imageFile("big.png", 6*1024*1024))
	require.Error(t, err)

	st := s.State()
	assert.Equal(t, "https://cdn/old.png", st.Preview)
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.NotEmpty(t, st.Error)
}

func TestSlot_Select_ClearsPreviousError(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, fastTransport(50), staticDecoder{})

	require.Error(t, s.Select(context.Background(), imageFile("big.png", 6*1024*1024)))
	require.NoError(t, s.Select(context.Background(), imageFile("ok.png", 1024)))
	assert.Empty(t, s.State().Error)
	s.Wait()
}

func TestSlot_Select_PDFPreviewImmediate(t *testing.T) {
	rec := &recorder{}
	tr := newManualTransport()
	s := newTestSlot(t, Config{}, rec, tr, newGatedDecoder())

	f := pdfFile("degree.pdf", 1024)
	require.NoError(t, s.Select(context.Background(), f))

	st := s.State()
	assert.Equal(t, PDFPreview, st.Preview)
	assert.Equal(t, PhaseUploading, st.Phase)
	require.NotNil(t, st.Progress)
	assert.Equal(t, 0, *st.Progress)

	mt := tr.next()
	mt.step(40)
	mt.finish(nil)
	s.Wait()

	require.Equal(t, 1, rec.uploadCount())
	assert.Same(t, f, rec.uploads[0])
	assert.Equal(t, PDFPreview, s.State().Preview)
}

func TestSlot_Select_LastSelectionWins(t *testing.T) {
	rec := &recorder{}
	tr := newManualTransport()
	dec := newGatedDecoder("a.png", "b.png")
	s := newTestSlot(t, Config{}, rec, tr, dec)

	a, b := imageFile("a.png", 1024), imageFile("b.png", 1024)
	require.NoError(t, s.Select(context.Background(), a))
	first := tr.next()
	require.NoError(t, s.Select(context.Background(), b))
	second := tr.next()
	assert.Same(t, b, second.file)

	dec.release("b.png")
	require.Eventually(t, func() bool { return s.State().Preview == "preview:b.png" }, time.Second, time.Millisecond)
	dec.release("a.png")

	second.finish(nil)
	s.Wait()

	assert.Same(t, a, first.file)
	require.Equal(t, 1, rec.uploadCount())
	assert.Same(t, b, rec.uploads[0])
	assert.Equal(t, "preview:b.png", s.State().Preview)
	assert.Equal(t, "b.png", s.State().FileName)
}

func TestSlot_Select_ProgressNeverDecreases(t *testing.T) {
	rec := &recorder{}
	tr := newManualTransport()
	s := newTestSlot(t, Config{}, rec, tr, staticDecoder{})

	require.NoError(t, s.Select(context.Background(), pdfFile("doc.pdf", 1024)))
	mt := tr.next()
	mt.step(60)
	mt.step(30)
	mt.step(70)
	mt.finish(nil)
	s.Wait()

	assert.Equal(t, []int{-1, 0, 60, 70, 100, -1}, rec.progressValues())
}

func TestSlot_Select_TransferFailureRestoresState(t *testing.T) {
	rec := &recorder{}
	tr := newManualTransport()
	s := newTestSlot(t, Config{CurrentPreview: "https://cdn/old.pdf"}, rec, tr, staticDecoder{})

	require.NoError(t, s.Select(context.Background(), pdfFile("new.pdf", 1024)))
	mt := tr.next()
	mt.step(25)
	mt.finish(errors.New("connection reset"))
	s.Wait()

	st := s.State()
	assert.Equal(t, "https://cdn/old.pdf", st.Preview)
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.Nil(t, st.Progress)
	assert.Equal(t, KindUploadFailed, st.ErrorKind)
	assert.False(t, st.HasFile())
	assert.Equal(t, 0, rec.uploadCount())
}

func TestSlot_Select_CommitFailureRestoresState(t *testing.T) {
	rec := &recorder{uploadErr: errors.New("db down")}
	tr := newManualTransport()
	s := newTestSlot(t, Config{CurrentPreview: "https://cdn/old.pdf"}, rec, tr, staticDecoder{})

	require.NoError(t, s.Select(context.Background(), pdfFile("new.pdf", 1024)))
	tr.next().finish(nil)
	s.Wait()

	st := s.State()
	assert.Equal(t, 1, rec.uploadCount())
	assert.Equal(t, "https://cdn/old.pdf", st.Preview)
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.Nil(t, st.Progress)
	assert.False(t, st.HasFile())
	assert.Equal(t, KindUploadFailed, st.ErrorKind)
	assert.Equal(t, "Upload failed. Please try again.", st.Error)
}

func TestSlot_Select_CommitFailureOnEmptySlot(t *testing.T) {
	rec := &recorder{uploadErr: errors.New("db down")}
	s := newTestSlot(t, Config{}, rec, fastTransport(50), staticDecoder{})

	require.NoError(t, s.Select(context.Background(), imageFile("me.png", 1024)))
	s.Wait()

	st := s.State()
	assert.Equal(t, PhaseEmpty, st.Phase)
	assert.Empty(t, st.Preview)
	assert.False(t, st.HasFile())
	assert.Equal(t, KindUploadFailed, st.ErrorKind)
}

// detachedTransfer ignores cancellation and succeeds once its progress channel is closed.
type detachedTransfer struct {
	progress chan int
	receipt  Receipt
}

func (d *detachedTransfer) Progress() <-chan int     { return d.progress }
func (d *detachedTransfer) Result() (Receipt, error) { return d.receipt, nil }
func (d *detachedTransfer) Cancel()                  {}

type transportFunc func(ctx context.Context, f *File) Transfer

func (fn transportFunc) Begin(ctx context.Context, f *File) Transfer { return fn(ctx, f) }

func TestSlot_Select_SupersededTransferIsAbandoned(t *testing.T) {
	rec := &recorder{}
	first := &detachedTransfer{progress: make(chan int), receipt: Receipt{ID: "stored-a"}}
	tr := transportFunc(func(ctx context.Context, f *File) Transfer {
		if f.Name == "a.pdf" {
			return first
		}
		return fastTransport(50).Begin(ctx, f)
	})
	s := newTestSlot(t, Config{}, rec, tr, staticDecoder{})

	a, b := pdfFile("a.pdf", 1024), pdfFile("b.pdf", 1024)
	require.NoError(t, s.Select(context.Background(), a))
	require.NoError(t, s.Select(context.Background(), b))
	close(first.progress)
	s.Wait()

	require.Equal(t, 1, rec.uploadCount())
	assert.Same(t, b, rec.uploads[0])
	abandoned := rec.abandonedFiles()
	require.Len(t, abandoned, 1)
	assert.Same(t, a, abandoned[0])
	assert.Equal(t, "b.pdf", s.State().FileName)
}

func TestSlot_Select_NilFile(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, fastTransport(50), staticDecoder{})

	err := s.Select(context.Background(), nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindUnsupportedType, verr.Kind)

	err = s.Drop(context.Background(), nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, PhaseEmpty, s.State().Phase)
	assert.Equal(t, 0, rec.uploadCount())
}

func TestSlot_Select_ContextCancelDoesNotAbortUpload(t *testing.T) {
	rec := &recorder{}
	tr := newManualTransport()
	s := newTestSlot(t, Config{}, rec, tr, staticDecoder{})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Select(ctx, pdfFile("doc.pdf", 1024)))
	cancel()

	mt := tr.next()
	mt.finish(nil)
	s.Wait()
	assert.Equal(t, 1, rec.uploadCount())
}

func TestSlot_Drop_ClearsDragOver(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, fastTransport(50), staticDecoder{})

	s.DragEnter()
	assert.True(t, s.State().DragOver)

	require.NoError(t, s.Drop(context.Background(), imageFile("id.png", 1024)))
	assert.False(t, s.State().DragOver)
	s.Wait()
	assert.Equal(t, 1, rec.uploadCount())
}

func TestSlot_DragLeave(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, nil, nil)

	s.DragEnter()
	s.DragLeave()
	assert.False(t, s.State().DragOver)
}

func TestSlot_ReadOnly_IgnoresInteraction(t *testing.T) {
	rec := &recorder{}
	tr := newManualTransport()
	s := newTestSlot(t, Config{ReadOnly: true, CurrentPreview: "https://cdn/id.png"}, rec, tr, staticDecoder{})

	s.DragEnter()
	err := s.Drop(context.Background(), imageFile("id.png", 1024))
	assert.ErrorIs(t, err, domain.ErrSlotReadOnly)
	s.Remove()

	st := s.State()
	assert.False(t, st.DragOver)
	assert.Equal(t, "https://cdn/id.png", st.Preview)
	assert.Empty(t, st.Error)
	assert.Equal(t, 0, rec.uploadCount())
	assert.Equal(t, 0, rec.removeCount())
	assert.Empty(t, tr.started)
	assert.Empty(t, rec.states)
}

func TestSlot_Remove(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, fastTransport(50), staticDecoder{})

	require.NoError(t, s.Select(context.Background(), imageFile("id.png", 1024)))
	s.Wait()
	s.Remove()

	st := s.State()
	assert.Equal(t, PhaseEmpty, st.Phase)
	assert.Empty(t, st.Preview)
	assert.False(t, st.HasFile())
	assert.Nil(t, st.Progress)
	assert.Equal(t, 1, rec.removeCount())

	s.Remove()
	assert.Equal(t, 1, rec.removeCount(), "removing an empty slot is a no-op")
}

func TestSlot_Remove_CancelsUpload(t *testing.T) {
	rec := &recorder{}
	tr := newManualTransport()
	s := newTestSlot(t, Config{}, rec, tr, staticDecoder{})

	require.NoError(t, s.Select(context.Background(), pdfFile("doc.pdf", 1024)))
	mt := tr.next()
	mt.step(30)
	s.Remove()
	s.Wait()

	st := s.State()
	assert.Equal(t, PhaseEmpty, st.Phase)
	assert.Nil(t, st.Progress)
	assert.Empty(t, st.Error)
	assert.Equal(t, 0, rec.uploadCount())
	assert.Equal(t, 1, rec.removeCount())
}

func TestSlot_SetVerification(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, nil, nil)

	s.SetVerification(domain.VerificationRejected, "blurry photo")
	st := s.State()
	require.NotNil(t, st.Badge)
	assert.Equal(t, "Rejected", st.Badge.Label)
	assert.Equal(t, "destructive", st.Badge.Variant)
	assert.Equal(t, "blurry photo", st.Badge.Tooltip)
	assert.Equal(t, "blurry photo", st.Badge.InlineReason)

	s.SetVerification(domain.VerificationVerified, "ignored")
	st = s.State()
	assert.Equal(t, "Verified", st.Badge.Label)
	assert.Empty(t, st.RejectionReason)

	s.SetVerification("", "")
	assert.Nil(t, s.State().Badge)
}

func TestSlot_SetReadOnly(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, newManualTransport(), staticDecoder{})

	s.DragEnter()
	s.SetReadOnly(true)
	assert.False(t, s.State().DragOver)
	assert.ErrorIs(t, s.Select(context.Background(), imageFile("id.png", 1024)), domain.ErrSlotReadOnly)

	s.SetReadOnly(false)
	assert.False(t, s.State().ReadOnly)
}

func TestSlot_Rehydrate(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, nil, nil)

	s.Rehydrate("https://cdn/new.png")
	st := s.State()
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.Equal(t, "https://cdn/new.png", st.Preview)

	s.Rehydrate("")
	assert.Equal(t, PhaseEmpty, s.State().Phase)
}

func TestSlot_Rehydrate_IgnoredWhileUploading(t *testing.T) {
	rec := &recorder{}
	tr := newManualTransport()
	s := newTestSlot(t, Config{}, rec, tr, staticDecoder{})

	require.NoError(t, s.Select(context.Background(), pdfFile("doc.pdf", 1024)))
	assert.True(t, s.Busy())
	s.Rehydrate("https://cdn/other.pdf")
	assert.Equal(t, PDFPreview, s.State().Preview)

	tr.next().finish(nil)
	s.Wait()
	assert.False(t, s.Busy())
}

func TestSlot_DecodeFailureDegradesPreview(t *testing.T) {
	rec := &recorder{}
	s := newTestSlot(t, Config{}, rec, fastTransport(50), ImageDecoder{})

	f := &File{Name: "broken.png", ContentType: "image/png", Size: 4, Data: []byte("nope")}
	require.NoError(t, s.Select(context.Background(), f))
	s.Wait()

	st := s.State()
	assert.Empty(t, st.Preview)
	assert.Empty(t, st.Error)
	assert.Equal(t, 1, rec.uploadCount())
}

func TestSlot_Close_StopsWork(t *testing.T) {
	rec := &recorder{}
	tr := newManualTransport()
	s, err := NewSlot(Config{ID: "resume"}, rec.options(tr, staticDecoder{}))
	require.NoError(t, err)

	require.NoError(t, s.Select(context.Background(), pdfFile("doc.pdf", 1024)))
	tr.next()
	s.Close()

	assert.False(t, s.Busy())
	assert.Equal(t, 0, rec.uploadCount())
}
