package recording

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice buffers canned audio and tracks acquire/release pairing.
type fakeDevice struct {
	mu       sync.Mutex
	audio    []byte
	startErr error
	started  bool
	stops    int
}

func (d *fakeDevice) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.startErr != nil {
		return d.startErr
	}
	d.started = true
	return nil
}

func (d *fakeDevice) Stop() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops++
	if !d.started {
		return nil, ErrDeviceNotStarted
	}
	d.started = false
	return d.audio, nil
}

func (d *fakeDevice) acquired() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

type fakeTranscriber struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
	block chan struct{} // when set, Transcribe waits on it
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, filename string, audio []byte, transcribeContext string) (string, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.text, f.err
}

type resultSink struct {
	mu      sync.Mutex
	results []Result
}

func (s *resultSink) accept(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *resultSink) all() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestRecorder_CaptureStopAndTranscribe(t *testing.T) {
	device := &fakeDevice{audio: []byte("audio")}
	transcriber := &fakeTranscriber{text: "the cell is the basic unit"}
	sink := &resultSink{}

	r := NewRecorder(device, transcriber, Options{
		Context:  "assignment",
		OnResult: sink.accept,
		Logger:   testLogger(),
	})

	require.NoError(t, r.StartCapture(context.Background(), 60))
	assert.Equal(t, StateCapturing, r.State())
	assert.True(t, device.acquired())

	r.StopCapture(context.Background())

	results := sink.all()
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "the cell is the basic unit", results[0].Transcript)

	assert.Equal(t, StateIdle, r.State())
	assert.False(t, device.acquired(), "device must be released after capture")
}

func TestRecorder_HardStopBoundsCapture(t *testing.T) {
	device := &fakeDevice{audio: []byte("audio")}
	transcriber := &fakeTranscriber{text: "bounded"}
	sink := &resultSink{}

	r := NewRecorder(device, transcriber, Options{
		OnResult:     sink.accept,
		TickInterval: 5 * time.Millisecond,
		Logger:       testLogger(),
	})

	require.NoError(t, r.StartCapture(context.Background(), 2))

	assert.Eventually(t, func() bool {
		return len(sink.all()) == 1
	}, time.Second, time.Millisecond)

	assert.False(t, device.acquired(), "hard stop must release the device")
	assert.Equal(t, StateIdle, r.State())

	// Countdown expiry and hard-stop guard both fired; only one upload.
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, sink.all(), 1)
	assert.Equal(t, 1, transcriber.calls)
}

func TestRecorder_NonPositiveLimitRejected(t *testing.T) {
	device := &fakeDevice{audio: []byte("audio")}
	transcriber := &fakeTranscriber{text: "ok"}
	sink := &resultSink{}

	r := NewRecorder(device, transcriber, Options{OnResult: sink.accept, Logger: testLogger()})

	for _, limit := range []int{0, -1} {
		done := make(chan error, 1)
		go func() { done <- r.StartCapture(context.Background(), limit) }()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, ErrInvalidLimit)
		case <-time.After(time.Second):
			t.Fatalf("StartCapture(%d) did not return", limit)
		}
		assert.Equal(t, StateIdle, r.State())
		assert.False(t, device.acquired(), "rejected capture must not hold the device")
	}

	// The recorder stays fully usable afterwards.
	require.NoError(t, r.StartCapture(context.Background(), 60))
	r.StopCapture(context.Background())
	require.Len(t, sink.all(), 1)
	assert.Equal(t, "ok", sink.all()[0].Transcript)
}

func TestRecorder_StopWhenIdleIsNoop(t *testing.T) {
	device := &fakeDevice{}
	transcriber := &fakeTranscriber{}
	sink := &resultSink{}

	r := NewRecorder(device, transcriber, Options{OnResult: sink.accept, Logger: testLogger()})

	r.StopCapture(context.Background())
	assert.Empty(t, sink.all())
	assert.Equal(t, 0, transcriber.calls)
}

func TestRecorder_DeviceDeniedSurfacesMicrophoneError(t *testing.T) {
	device := &fakeDevice{startErr: errors.New("permission denied")}
	r := NewRecorder(device, &fakeTranscriber{}, Options{Logger: testLogger()})

	err := r.StartCapture(context.Background(), 60)
	assert.ErrorIs(t, err, ErrMicrophoneUnavailable)
	assert.Equal(t, StateIdle, r.State())
}

func TestRecorder_StartWhileUploadingRejected(t *testing.T) {
	device := &fakeDevice{audio: []byte("audio")}
	block := make(chan struct{})
	transcriber := &fakeTranscriber{text: "slow", block: block}

	r := NewRecorder(device, transcriber, Options{Logger: testLogger()})

	require.NoError(t, r.StartCapture(context.Background(), 60))
	go r.StopCapture(context.Background())

	assert.Eventually(t, func() bool {
		return r.State() == StateUploading
	}, time.Second, time.Millisecond)

	assert.ErrorIs(t, r.StartCapture(context.Background(), 60), ErrBusy)

	_, err := r.UploadFile(context.Background(), "other.webm", []byte("x"))
	assert.ErrorIs(t, err, ErrBusy)

	close(block)
	assert.Eventually(t, func() bool {
		return r.State() == StateIdle
	}, time.Second, time.Millisecond)
}

func TestRecorder_TranscriptionFailureDelivered(t *testing.T) {
	device := &fakeDevice{audio: []byte("audio")}
	transcriber := &fakeTranscriber{err: errors.New("backend down")}
	sink := &resultSink{}

	r := NewRecorder(device, transcriber, Options{OnResult: sink.accept, Logger: testLogger()})

	require.NoError(t, r.StartCapture(context.Background(), 60))
	r.StopCapture(context.Background())

	results := sink.all()
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Equal(t, StateIdle, r.State())
}

func TestRecorder_UploadFileBypassesCapture(t *testing.T) {
	transcriber := &fakeTranscriber{text: "from file"}
	r := NewRecorder(&fakeDevice{}, transcriber, Options{Logger: testLogger()})

	text, err := r.UploadFile(context.Background(), "answer.mp3", []byte("mp3-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "from file", text)
	assert.Equal(t, StateIdle, r.State())
}

func TestRecorder_CloseReleasesDevice(t *testing.T) {
	device := &fakeDevice{audio: []byte("audio")}
	transcriber := &fakeTranscriber{}
	sink := &resultSink{}

	r := NewRecorder(device, transcriber, Options{OnResult: sink.accept, Logger: testLogger()})

	require.NoError(t, r.StartCapture(context.Background(), 60))
	r.Close()

	assert.False(t, device.acquired())
	assert.Empty(t, sink.all(), "teardown discards the capture without uploading")
	assert.Equal(t, 0, transcriber.calls)
}

func TestFileDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.webm")
	require.NoError(t, os.WriteFile(path, []byte("clip-bytes"), 0o644))

	device := &FileDevice{Path: path}

	_, err := device.Stop()
	assert.ErrorIs(t, err, ErrDeviceNotStarted)

	require.NoError(t, device.Start(context.Background()))
	audio, err := device.Stop()
	require.NoError(t, err)
	assert.Equal(t, []byte("clip-bytes"), audio)

	missing := &FileDevice{Path: filepath.Join(t.TempDir(), "absent.webm")}
	assert.Error(t, missing.Start(context.Background()))
}
