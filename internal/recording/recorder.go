package recording

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GokalpAyar/amplify-lms-client/internal/timer"
)

var (
	// ErrMicrophoneUnavailable means the capture device denied or lacks
	// the capability. The oral-answer path stays usable via UploadFile.
	ErrMicrophoneUnavailable = errors.New("microphone access denied or not available")

	// ErrBusy means a capture or upload is already in progress; the
	// caller should surface a "please wait" signal rather than retry.
	ErrBusy = errors.New("please wait for the current recording to finish")

	// ErrInvalidLimit means the requested capture bound is not a positive
	// number of seconds.
	ErrInvalidLimit = errors.New("capture limit must be a positive number of seconds")
)

// State is the recorder's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateUploading
)

func (s State) String() string {
	switch s {
	case StateCapturing:
		return "capturing"
	case StateUploading:
		return "uploading"
	default:
		return "idle"
	}
}

// Transcriber uploads finalized audio and returns recognized text.
// *api.Client satisfies it.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte, transcribeContext string) (string, error)
}

// Result is delivered to the OnResult callback after every upload,
// whether triggered by a manual stop, the hard-stop guard, or UploadFile.
type Result struct {
	Transcript string
	Err        error
}

// Options configures a Recorder.
type Options struct {
	// Context tags uploads for the transcription backend ("assignment",
	// "feedback").
	Context string

	// OnResult receives the transcript (or error) once an upload
	// finishes. May be nil when callers only use UploadFile's return.
	OnResult func(Result)

	// TickInterval shrinks the countdown interval in tests.
	TickInterval time.Duration

	Logger *slog.Logger
}

// Recorder drives one microphone capture at a time through
// Idle -> Capturing -> Uploading and back, bounding capture duration with
// a hard-stop guard that runs independently of the visible countdown.
type Recorder struct {
	device      CaptureDevice
	transcriber Transcriber
	opts        Options

	mu        sync.Mutex
	state     State
	countdown *timer.Countdown
	hardStop  *time.Timer
}

func NewRecorder(device CaptureDevice, transcriber Transcriber, opts Options) *Recorder {
	if opts.Context == "" {
		opts.Context = "feedback"
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Recorder{
		device:      device,
		transcriber: transcriber,
		opts:        opts,
	}
}

// State returns the recorder's current lifecycle position.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Remaining returns the seconds left on the visible capture countdown, or
// zero when not capturing.
func (r *Recorder) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countdown == nil {
		return 0
	}
	return r.countdown.Remaining()
}

// StartCapture acquires the device and begins a bounded capture. Fails
// with ErrBusy while a capture or upload is in flight and with
// ErrMicrophoneUnavailable when the device cannot be acquired.
func (r *Recorder) StartCapture(ctx context.Context, limitSeconds int) error {
	// The countdown fires expiry synchronously for non-positive seconds,
	// which would finalize against the lock held below.
	if limitSeconds <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, limitSeconds)
	}

	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return ErrBusy
	}
	r.state = StateCapturing
	r.mu.Unlock()

	if err := r.device.Start(ctx); err != nil {
		r.mu.Lock()
		r.state = StateIdle
		r.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrMicrophoneUnavailable, err)
	}

	r.opts.Logger.Info("Capture started", "limit_seconds", limitSeconds)

	r.mu.Lock()
	// Visible countdown; its expiry also finalizes the capture.
	r.countdown = timer.Start(limitSeconds, timer.Options{
		Interval: r.opts.TickInterval,
		OnExpire: func() { r.finalize(context.WithoutCancel(ctx)) },
	})
	// Hard-stop guard: bounds the recording even if the countdown's
	// callback is delayed.
	hardLimit := time.Duration(limitSeconds)*r.opts.TickInterval + r.opts.TickInterval
	r.hardStop = time.AfterFunc(hardLimit, func() { r.finalize(context.WithoutCancel(ctx)) })
	r.mu.Unlock()

	return nil
}

// StopCapture finalizes the buffered audio and uploads it. Safe to call
// when not capturing.
func (r *Recorder) StopCapture(ctx context.Context) {
	r.finalize(ctx)
}

// finalize moves Capturing -> Uploading exactly once per capture,
// releases the device, and runs the upload.
func (r *Recorder) finalize(ctx context.Context) {
	r.mu.Lock()
	if r.state != StateCapturing {
		r.mu.Unlock()
		return
	}
	r.state = StateUploading
	r.stopTimersLocked()
	r.mu.Unlock()

	audio, err := r.device.Stop()
	if err != nil {
		r.mu.Lock()
		r.state = StateIdle
		r.mu.Unlock()

		if !errors.Is(err, ErrDeviceNotStarted) {
			r.opts.Logger.Error("Failed to finalize capture", "error", err)
			r.deliver(Result{Err: fmt.Errorf("failed to finalize capture: %w", err)})
		}
		return
	}

	r.opts.Logger.Info("Capture finalized", "bytes", len(audio))
	r.upload(ctx, "recording.webm", audio)
}

// UploadFile sends a user-supplied pre-recorded file down the same
// transcription path, bypassing capture.
func (r *Recorder) UploadFile(ctx context.Context, filename string, audio []byte) (string, error) {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return "", ErrBusy
	}
	r.state = StateUploading
	r.mu.Unlock()

	return r.transcribe(ctx, filename, audio)
}

func (r *Recorder) upload(ctx context.Context, filename string, audio []byte) {
	_, _ = r.transcribe(ctx, filename, audio)
}

func (r *Recorder) transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	text, err := r.transcriber.Transcribe(ctx, filename, audio, r.opts.Context)

	r.mu.Lock()
	r.state = StateIdle
	r.mu.Unlock()

	if err != nil {
		r.opts.Logger.Error("Transcription failed", "error", err)
		r.deliver(Result{Err: err})
		return "", err
	}

	r.deliver(Result{Transcript: text})
	return text, nil
}

func (r *Recorder) deliver(result Result) {
	if r.opts.OnResult != nil {
		r.opts.OnResult(result)
	}
}

// Close releases the device and timers without uploading. An in-flight
// upload is left to finish in the background.
func (r *Recorder) Close() {
	r.mu.Lock()
	wasCapturing := r.state == StateCapturing
	if wasCapturing {
		r.state = StateIdle
	}
	r.stopTimersLocked()
	r.mu.Unlock()

	if wasCapturing {
		_, _ = r.device.Stop()
		r.opts.Logger.Info("Capture discarded on teardown")
	}
}

func (r *Recorder) stopTimersLocked() {
	if r.countdown != nil {
		r.countdown.Stop()
		r.countdown = nil
	}
	if r.hardStop != nil {
		r.hardStop.Stop()
		r.hardStop = nil
	}
}
