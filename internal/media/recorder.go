package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type RecorderState string

const (
	RecorderIdle      RecorderState = "idle"
	RecorderRecording RecorderState = "recording"
	RecorderStopped   RecorderState = "stopped"
)

var ErrNotRecording = errors.New("no recording in progress")

// Capturer opens a capture device. Implementations return an error wrapping
// ErrMediaAccessDenied when the user refuses access.
type Capturer interface {
	Open(ctx context.Context) (Capture, error)
}

// Capture is an open capture. Finish ends it and returns the encoded bytes.
type Capture interface {
	Finish() (data []byte, mimeType string, err error)
	Abort()
}

// Recording is a finished voice capture.
type Recording struct {
	Data     []byte
	Duration int // whole seconds
	MimeType string
}

// Recorder drives one capture at a time: idle -> recording -> stopped.
// Any failure drops back to idle with no partial state kept.
type Recorder struct {
	capturer Capturer
	now      func() time.Time

	mu      sync.Mutex
	state   RecorderState
	capture Capture
	started time.Time
}

// NewRecorder creates a recorder. A nil capturer means the host has no
// capture support and Start fails with ErrMediaUnsupported.
func NewRecorder(capturer Capturer, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{capturer: capturer, now: now, state: RecorderIdle}
}

func (r *Recorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capturer == nil {
		return ErrMediaUnsupported
	}
	if r.state == RecorderRecording {
		return fmt.Errorf("%w: already recording", ErrMediaUnsupported)
	}

	capture, err := r.capturer.Open(ctx)
	if err != nil {
		r.reset()
		if errors.Is(err, ErrMediaAccessDenied) || errors.Is(err, ErrMediaUnsupported) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrMediaUnsupported, err)
	}

	r.capture = capture
	r.started = r.now()
	r.state = RecorderRecording
	return nil
}

// Write appends a chunk to captures that accept streamed data.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RecorderRecording {
		return 0, ErrNotRecording
	}
	w, ok := r.capture.(interface{ Write([]byte) (int, error) })
	if !ok {
		return 0, fmt.Errorf("%w: capture does not accept chunks", ErrMediaUnsupported)
	}
	return w.Write(p)
}

func (r *Recorder) Stop() (*Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RecorderRecording {
		return nil, ErrNotRecording
	}

	elapsed := r.now().Sub(r.started)
	data, mimeType, err := r.capture.Finish()
	if err != nil {
		r.reset()
		return nil, fmt.Errorf("finish capture: %w", err)
	}

	mimeType, err = ValidateAudioMIME(mimeType, data)
	if err != nil {
		r.reset()
		return nil, err
	}

	r.capture = nil
	r.state = RecorderStopped
	return &Recording{
		Data:     data,
		Duration: int(elapsed / time.Second),
		MimeType: mimeType,
	}, nil
}

// Cancel aborts an in-progress capture and returns to idle.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.capture != nil {
		r.capture.Abort()
	}
	r.reset()
}

func (r *Recorder) reset() {
	r.capture = nil
	r.started = time.Time{}
	r.state = RecorderIdle
}

// StreamCapturer accepts a recording pushed in chunks by the client, the way
// a browser MediaRecorder emits data.
type StreamCapturer struct {
	MimeType string
}

func (s StreamCapturer) Open(ctx context.Context) (Capture, error) {
	if _, err := ValidateAudioMIME(s.MimeType, nil); err != nil {
		return nil, err
	}
	return &streamCapture{mimeType: s.MimeType}, nil
}

type streamCapture struct {
	mimeType string
	buf      bytes.Buffer
}

func (c *streamCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *streamCapture) Finish() ([]byte, string, error) {
	if c.buf.Len() == 0 {
		return nil, "", errors.New("empty recording")
	}
	return c.buf.Bytes(), c.mimeType, nil
}

func (c *streamCapture) Abort() {
	c.buf.Reset()
}
