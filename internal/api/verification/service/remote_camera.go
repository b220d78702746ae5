package verificationService

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"sync"
	"time"
)

const remoteFrameBuffer = 4

// RemoteCamera is a Device fed by frames the browser pushes over the
// verification socket. Open asks the browser to start its camera and waits
// for the first frame.
type RemoteCamera struct {
	send           func(verification.Control) error
	acquireTimeout time.Duration

	mu      sync.Mutex
	stream  *remoteStream
	refusal chan error
}

func NewRemoteCamera(send func(verification.Control) error, acquireTimeout time.Duration) *RemoteCamera {
	return &RemoteCamera{send: send, acquireTimeout: acquireTimeout}
}

func (c *RemoteCamera) Open(ctx context.Context) (Stream, error) {
	c.mu.Lock()
	if c.stream != nil {
		c.mu.Unlock()
		return nil, verification.ErrCaptureBusy
	}
	stream := &remoteStream{
		owner:  c,
		frames: make(chan entity.Frame, remoteFrameBuffer),
		first:  make(chan struct{}),
	}
	refusal := make(chan error, 1)
	c.stream = stream
	c.refusal = refusal
	c.mu.Unlock()

	if err := c.send(verification.Control{Type: verification.ControlCameraRequest}); err != nil {
		stream.discard()
		return nil, verification.ErrDeviceUnavailable
	}

	timer := time.NewTimer(c.acquireTimeout)
	defer timer.Stop()

	select {
	case <-stream.first:
		return stream, nil
	case err := <-refusal:
		stream.discard()
		return nil, err
	case <-timer.C:
		_ = stream.Close()
		return nil, verification.ErrDeviceUnavailable
	case <-ctx.Done():
		_ = stream.Close()
		return nil, ctx.Err()
	}
}

// Push delivers a frame from the browser. Frames that arrive while no
// stream is open, or while the buffer is full, are dropped.
func (c *RemoteCamera) Push(frame entity.Frame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stream
	if s == nil {
		return false
	}
	select {
	case s.frames <- frame:
	default:
		return false
	}
	s.firstOnce.Do(func() { close(s.first) })
	return true
}

// Deny reports that the browser could not start the camera.
func (c *RemoteCamera) Deny(permission bool) {
	err := verification.ErrDeviceUnavailable
	if permission {
		err = verification.ErrPermissionDenied
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refusal == nil {
		return
	}
	select {
	case c.refusal <- err:
	default:
	}
}

func (c *RemoteCamera) streaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream != nil
}

type remoteStream struct {
	owner     *RemoteCamera
	frames    chan entity.Frame
	first     chan struct{}
	firstOnce sync.Once
	closeOnce sync.Once
}

func (s *remoteStream) Frames() <-chan entity.Frame {
	return s.frames
}

// Close detaches the stream and tells the browser to stop its camera.
func (s *remoteStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.detach()
		err = s.owner.send(verification.Control{Type: verification.ControlCameraRelease})
	})
	return err
}

func (s *remoteStream) discard() {
	s.closeOnce.Do(s.detach)
}

func (s *remoteStream) detach() {
	c := s.owner
	c.mu.Lock()
	if c.stream == s {
		c.stream = nil
		c.refusal = nil
	}
	c.mu.Unlock()
}
