package verificationService

import (
	"ProjectKYC/internal/entity"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testCredential() entity.Credential {
	return entity.Credential{Token: "token", ExpiresAt: time.Now().Add(time.Hour)}
}

func ptr(v float64) *float64 { return &v }

// tickingSource hands out a fresh frame on every call.
type tickingSource struct {
	seq atomic.Uint64
}

func (s *tickingSource) Latest() (entity.Frame, bool) {
	n := s.seq.Add(1)
	return entity.Frame{Seq: n, Data: []byte{0xff, 0xd8, 0xff}, ContentType: "image/jpeg"}, true
}

func (s *tickingSource) Next(ctx context.Context, _ uint64) (entity.Frame, error) {
	if err := ctx.Err(); err != nil {
		return entity.Frame{}, err
	}
	f, _ := s.Latest()
	return f, nil
}

type classifierStep struct {
	verdict entity.LivenessVerdict
	err     error
}

func collecting(n int) classifierStep {
	return classifierStep{verdict: entity.LivenessVerdict{Collecting: true, FramesCollected: n}}
}

func live(n int) classifierStep {
	return classifierStep{verdict: entity.LivenessVerdict{Live: true, FramesCollected: n}}
}

// scriptedClassifier answers with the steps in order and repeats the last
// one once the script runs out.
type scriptedClassifier struct {
	mu       sync.Mutex
	script   []classifierStep
	calls    int
	probeIDs map[string]int
	gate     chan struct{}
}

func newScriptedClassifier(steps ...classifierStep) *scriptedClassifier {
	return &scriptedClassifier{script: steps, probeIDs: make(map[string]int)}
}

func (c *scriptedClassifier) SubmitLivenessFrame(ctx context.Context, _ entity.Frame, probeID string, _ entity.Credential) (entity.LivenessVerdict, error) {
	if c.gate != nil {
		select {
		case <-ctx.Done():
			return entity.LivenessVerdict{}, ctx.Err()
		case <-c.gate:
			if err := ctx.Err(); err != nil {
				go func() { c.gate <- struct{}{} }()
				return entity.LivenessVerdict{}, err
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	step := c.script[len(c.script)-1]
	if c.calls < len(c.script) {
		step = c.script[c.calls]
	}
	c.calls++
	c.probeIDs[probeID]++
	return step.verdict, step.err
}

func (c *scriptedClassifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *scriptedClassifier) ProbeIDs() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.probeIDs))
	for k, v := range c.probeIDs {
		out[k] = v
	}
	return out
}

// fakeDevice opens streams that emit a frame every few milliseconds.
type fakeDevice struct {
	err    error
	block  bool
	opens  atomic.Int32
	closes atomic.Int32
}

func (d *fakeDevice) Open(ctx context.Context) (Stream, error) {
	if d.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if d.err != nil {
		return nil, d.err
	}
	d.opens.Add(1)
	s := &fakeStream{
		device: d,
		frames: make(chan entity.Frame, 1),
		done:   make(chan struct{}),
	}
	go s.produce()
	return s, nil
}

func (d *fakeDevice) OpenStreams() int {
	return int(d.opens.Load() - d.closes.Load())
}

type fakeStream struct {
	device *fakeDevice
	frames chan entity.Frame
	done   chan struct{}
	once   sync.Once
}

func (s *fakeStream) produce() {
	t := time.NewTicker(2 * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-t.C:
			select {
			case s.frames <- entity.Frame{CapturedAt: now, Data: []byte{0xff, 0xd8, 0xff}, ContentType: "image/jpeg"}:
			default:
			}
		}
	}
}

func (s *fakeStream) Frames() <-chan entity.Frame { return s.frames }

func (s *fakeStream) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.device.closes.Add(1)
	})
	return nil
}
