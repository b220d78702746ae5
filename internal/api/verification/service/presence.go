package verificationService

import (
	"ProjectKYC/internal/entity"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type frameSource interface {
	Latest() (entity.Frame, bool)
	Next(ctx context.Context, after uint64) (entity.Frame, error)
}

// PresenceDetector turns per-frame face detection into debounced presence
// changes. The initial state is absent.
type PresenceDetector struct {
	detector FaceDetector
	log      *logrus.Logger

	mu      sync.Mutex
	present bool
}

func NewPresenceDetector(detector FaceDetector, log *logrus.Logger) *PresenceDetector {
	return &PresenceDetector{detector: detector, log: log}
}

// Evaluate classifies one frame. A detector failure counts as absent for
// that frame. changed reports whether the debounced state flipped.
func (p *PresenceDetector) Evaluate(ctx context.Context, frame entity.Frame, cred entity.Credential) (entity.PresenceResult, bool) {
	result, err := p.detector.DetectPresence(ctx, frame, cred)
	if err != nil {
		if ctx.Err() == nil {
			p.log.WithFields(logrus.Fields{
				"seq":   frame.Seq,
				"error": err.Error(),
			}).Warn("[PresenceDetector.Evaluate] face detection failed, treating frame as absent")
		}
		result = entity.PresenceResult{}
	}
	if !result.Present {
		result.BoundingBox = nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if result.Present == p.present {
		return result, false
	}
	p.present = result.Present
	return result, true
}

// Reset returns the debounced state to absent so the next present frame is
// reported as a change.
func (p *PresenceDetector) Reset() {
	p.mu.Lock()
	p.present = false
	p.mu.Unlock()
}

func (p *PresenceDetector) isPresent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.present
}

// Run evaluates frames from src at most once per interval until ctx is done
// and calls emit on every debounced change.
func (p *PresenceDetector) Run(ctx context.Context, src frameSource, cred func() entity.Credential, interval time.Duration, emit func(entity.PresenceResult)) {
	var last uint64
	for {
		frame, err := src.Next(ctx, last)
		if err != nil {
			return
		}
		last = frame.Seq

		result, changed := p.Evaluate(ctx, frame, cred())
		if ctx.Err() != nil {
			return
		}
		if changed {
			emit(result)
		}

		if interval > 0 {
			t := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
	}
}
