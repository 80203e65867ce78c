package recording

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

// CaptureDevice is the injected audio capability. Start acquires the
// device and begins buffering; Stop finalizes the buffered audio and
// releases the device. Stop must be idempotent: the recorder calls it on
// normal completion, on hard-stop, and on teardown, and a device left
// acquired is a defect.
type CaptureDevice interface {
	Start(ctx context.Context) error
	Stop() ([]byte, error)
}

// ErrDeviceNotStarted is returned by Stop when no capture was running.
// Recorders treat it as a clean no-op.
var ErrDeviceNotStarted = errors.New("capture device not started")

// FileDevice is a CaptureDevice that "records" the contents of a
// pre-recorded audio file. It exists for demos and environments without a
// real microphone; the upload path is identical to live capture.
type FileDevice struct {
	Path string

	mu      sync.Mutex
	started bool
}

func (d *FileDevice) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := os.Stat(d.Path); err != nil {
		return fmt.Errorf("audio file unavailable: %w", err)
	}

	d.started = true
	return nil
}

func (d *FileDevice) Stop() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil, ErrDeviceNotStarted
	}
	d.started = false

	audio, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	return audio, nil
}
