package recorder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/phuljhari/internal/store"
	"github.com/ayusman/phuljhari/testdata"
)

func newTestRecorder(t *testing.T) (*Recorder, *store.Store) {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	r, err := New(s, filepath.Join(tmpDir, "recordings"), 30, 64, 48)
	if err != nil {
		t.Fatalf("recorder.New() error = %v", err)
	}
	return r, s
}

func TestRecorder_WriteWithoutStartIsNoop(t *testing.T) {
	r, _ := newTestRecorder(t)

	frame := testdata.BlackFrame(64, 48)
	defer frame.Close()

	if err := r.Write(&frame); err != nil {
		t.Errorf("Write without Start: err = %v, want nil", err)
	}
	if r.IsRecording() {
		t.Error("IsRecording should be false before Start")
	}
}

func TestRecorder_StopWithoutStart(t *testing.T) {
	r, _ := newTestRecorder(t)

	if _, err := r.Stop(); err != ErrNotRecording {
		t.Errorf("Stop without Start: err = %v, want ErrNotRecording", err)
	}
}

func TestRecorder_StartWriteStop(t *testing.T) {
	r, s := newTestRecorder(t)

	rec, err := r.Start()
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !r.IsRecording() {
		t.Error("IsRecording should be true after Start")
	}
	if _, err := r.Start(); err != ErrAlreadyRecording {
		t.Errorf("second Start: err = %v, want ErrAlreadyRecording", err)
	}

	frame := testdata.BlackFrame(64, 48)
	defer frame.Close()

	const n = 5
	for i := 0; i < n; i++ {
		if err := r.Write(&frame); err != nil {
			t.Fatalf("Write %d error = %v", i, err)
		}
	}

	done, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if done.Frames != n {
		t.Errorf("frames = %d, want %d", done.Frames, n)
	}
	if done.InProgress() {
		t.Error("stopped recording should not be in progress")
	}

	// The file exists and the store row is finished.
	if _, err := os.Stat(rec.Path); err != nil {
		t.Errorf("recording file missing: %v", err)
	}
	stored, err := s.Recordings().GetByID(rec.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Frames != n || stored.InProgress() {
		t.Errorf("stored recording = %+v, want %d frames and finished", stored, n)
	}
}
