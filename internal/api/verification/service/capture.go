package verificationService

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Device opens a camera stream. Open blocks until the first frame is
// available, the user refuses access, or ctx is done.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

type Stream interface {
	Frames() <-chan entity.Frame
	Close() error
}

// CaptureSession owns at most one live camera handle at a time.
type CaptureSession struct {
	device Device
	log    *logrus.Logger

	mu     sync.Mutex
	handle *CaptureHandle
}

func NewCaptureSession(device Device, log *logrus.Logger) *CaptureSession {
	return &CaptureSession{device: device, log: log}
}

// Acquire opens the device and starts buffering frames. If ctx is canceled
// while the device is opening the stream is closed and ctx.Err is returned.
func (c *CaptureSession) Acquire(ctx context.Context) (*CaptureHandle, error) {
	c.mu.Lock()
	if c.handle != nil {
		c.mu.Unlock()
		return nil, verification.ErrCaptureBusy
	}
	c.mu.Unlock()

	if c.device == nil {
		return nil, verification.ErrDeviceUnavailable
	}

	stream, err := c.device.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, verification.ErrPermissionDenied) || errors.Is(err, verification.ErrDeviceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", verification.ErrDeviceUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil || c.handle != nil {
		if err := stream.Close(); err != nil {
			c.log.WithField("error", err.Error()).Warn("[CaptureSession.Acquire] failed to close abandoned stream")
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, verification.ErrCaptureBusy
	}

	c.handle = newCaptureHandle(stream, c.log)
	return c.handle, nil
}

// Release stops the current handle, if any. Safe to call repeatedly.
func (c *CaptureSession) Release() {
	c.mu.Lock()
	h := c.handle
	c.handle = nil
	c.mu.Unlock()

	if h != nil {
		h.close()
	}
}

func (c *CaptureSession) held() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != nil
}

// CaptureHandle buffers the most recent frame of an open stream.
type CaptureHandle struct {
	stream Stream
	log    *logrus.Logger

	seq    atomic.Uint64
	latest atomic.Pointer[entity.Frame]

	mu   sync.Mutex
	tick chan struct{}

	done      chan struct{}
	closeOnce sync.Once
}

func newCaptureHandle(stream Stream, log *logrus.Logger) *CaptureHandle {
	h := &CaptureHandle{
		stream: stream,
		log:    log,
		tick:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go h.pump()
	return h
}

func (h *CaptureHandle) pump() {
	frames := h.stream.Frames()
	for {
		select {
		case <-h.done:
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if f.IsZero() {
				continue
			}
			f.Seq = h.seq.Add(1)
			h.latest.Store(&f)

			h.mu.Lock()
			close(h.tick)
			h.tick = make(chan struct{})
			h.mu.Unlock()
		}
	}
}

// Latest returns the most recent frame, if one has arrived.
func (h *CaptureHandle) Latest() (entity.Frame, bool) {
	f := h.latest.Load()
	if f == nil {
		return entity.Frame{}, false
	}
	return *f, true
}

// Next blocks until a frame with a sequence number greater than after is
// available.
func (h *CaptureHandle) Next(ctx context.Context, after uint64) (entity.Frame, error) {
	for {
		h.mu.Lock()
		wait := h.tick
		h.mu.Unlock()

		if f := h.latest.Load(); f != nil && f.Seq > after {
			return *f, nil
		}

		select {
		case <-ctx.Done():
			return entity.Frame{}, ctx.Err()
		case <-h.done:
			return entity.Frame{}, verification.ErrCaptureReleased
		case <-wait:
		}
	}
}

func (h *CaptureHandle) released() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (h *CaptureHandle) close() {
	h.closeOnce.Do(func() {
		close(h.done)
		if err := h.stream.Close(); err != nil {
			h.log.WithField("error", err.Error()).Warn("[CaptureHandle.close] failed to close camera stream")
		}
	})
}

func (c *CaptureSession) releaseHandle(h *CaptureHandle) {
	if h == nil {
		return
	}
	c.mu.Lock()
	if c.handle == h {
		c.handle = nil
	}
	c.mu.Unlock()
	h.close()
}
