// Package recorder captures composited frames to video files on disk and
// indexes them in the store.
package recorder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/phuljhari/internal/store"
)

// videoCodec is the FourCC handed to the OpenCV video writer. mp4v is the
// most portable codec OpenCV builds ship with.
const videoCodec = "mp4v"

// ErrAlreadyRecording is returned by Start while a recording is active.
var ErrAlreadyRecording = errors.New("already recording")

// ErrNotRecording is returned by Stop when no recording is active.
var ErrNotRecording = errors.New("not recording")

// Recorder writes composited frames to one video file at a time.
// Start/Stop can be called from the API or tray goroutines while the frame
// loop calls Write, so the internal state is mutex-guarded.
type Recorder struct {
	store  *store.Store
	dir    string
	fps    float64
	width  int
	height int

	mu      sync.Mutex
	writer  *gocv.VideoWriter
	current *store.Recording
	frames  int
}

// New creates a Recorder that writes files into dir at the given frame rate
// and resolution. The directory is created if missing.
func New(st *store.Store, dir string, fps float64, width, height int) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recordings dir: %w", err)
	}

	return &Recorder{
		store:  st,
		dir:    dir,
		fps:    fps,
		width:  width,
		height: height,
	}, nil
}

// Start opens a new video file and registers the recording in the store.
func (r *Recorder) Start() (*store.Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.writer != nil {
		return nil, ErrAlreadyRecording
	}

	id := uuid.New().String()
	path := filepath.Join(r.dir, id+".mp4")

	writer, err := gocv.VideoWriterFile(path, videoCodec, r.fps, r.width, r.height, true)
	if err != nil {
		return nil, fmt.Errorf("open video writer: %w", err)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, fmt.Errorf("video writer failed to open %s", path)
	}

	rec := &store.Recording{
		ID:        id,
		Path:      path,
		Width:     r.width,
		Height:    r.height,
		FPS:       r.fps,
		StartedAt: time.Now(),
	}
	if err := r.store.Recordings().Create(rec); err != nil {
		writer.Close()
		os.Remove(path)
		return nil, fmt.Errorf("register recording: %w", err)
	}

	r.writer = writer
	r.current = rec
	r.frames = 0
	return rec, nil
}

// Write appends one frame to the active recording. It is a no-op when no
// recording is active, so the frame loop can call it unconditionally.
func (r *Recorder) Write(frame *gocv.Mat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.writer == nil {
		return nil
	}

	if err := r.writer.Write(*frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	r.frames++
	return nil
}

// Stop finalizes the active recording and returns its metadata.
func (r *Recorder) Stop() (*store.Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.writer == nil {
		return nil, ErrNotRecording
	}

	err := r.writer.Close()
	rec := r.current
	frames := r.frames
	r.writer = nil
	r.current = nil
	r.frames = 0

	if err != nil {
		return nil, fmt.Errorf("close video writer: %w", err)
	}

	ended := time.Now()
	if err := r.store.Recordings().Finish(rec.ID, frames, ended); err != nil {
		return nil, fmt.Errorf("finish recording: %w", err)
	}
	rec.Frames = frames
	rec.EndedAt = &ended
	return rec, nil
}

// IsRecording reports whether a recording is currently active.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writer != nil
}

// Close stops any active recording and releases resources.
func (r *Recorder) Close() error {
	if !r.IsRecording() {
		return nil
	}
	_, err := r.Stop()
	return err
}
