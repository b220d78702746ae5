package verificationService

import (
	"ProjectKYC/internal/entity"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type LivenessConfig struct {
	Interval             time.Duration
	Timeout              time.Duration
	FrameBudget          int
	MaxConsecutiveErrors int
}

type probeHooks struct {
	// progress is called after every accepted classifier response.
	progress func(verdict entity.LivenessVerdict)
	resolve  func(outcome entity.LivenessOutcome)
}

// LivenessProbe samples frames at a fixed interval and submits them to the
// liveness classifier until it resolves. It can be paused and resumed; its
// counters and deadline survive a pause.
type LivenessProbe struct {
	classifier LivenessClassifier
	cfg        LivenessConfig
	probeID    string
	log        *logrus.Logger
	now        func() time.Time

	mu                sync.Mutex
	gen               uint64
	cancel            context.CancelFunc
	deadline          time.Time
	submitted         int
	counted           int
	consecutiveErrors int
	collected         int
	resolved          bool
}

func NewLivenessProbe(classifier LivenessClassifier, cfg LivenessConfig, probeID string, log *logrus.Logger) *LivenessProbe {
	return &LivenessProbe{
		classifier: classifier,
		cfg:        cfg,
		probeID:    probeID,
		log:        log,
		now:        time.Now,
	}
}

// Resume starts sampling if the probe is neither running nor resolved. The
// deadline is fixed on the first call.
func (p *LivenessProbe) Resume(ctx context.Context, src frameSource, cred func() entity.Credential, hooks probeHooks) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.resolved || p.cancel != nil {
		return false
	}
	if p.deadline.IsZero() {
		p.deadline = p.now().Add(p.cfg.Timeout)
	}

	p.gen++
	runCtx, cancel := context.WithDeadline(ctx, p.deadline)
	p.cancel = cancel

	go p.run(runCtx, p.gen, src, cred, hooks)
	return true
}

// Pause stops sampling. Responses still in flight are discarded.
func (p *LivenessProbe) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Stop pauses the probe permanently.
func (p *LivenessProbe) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.resolved = true
}

func (p *LivenessProbe) running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *LivenessProbe) submittedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitted
}

func (p *LivenessProbe) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
}

func (p *LivenessProbe) run(ctx context.Context, gen uint64, src frameSource, cred func() entity.Credential, hooks probeHooks) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	var last uint64
	for {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				p.finish(gen, entity.LivenessOutcome{Reason: entity.LivenessReasonTimeout}, hooks)
			}
			return
		}

		if frame, ok := src.Latest(); ok && frame.Seq != last {
			last = frame.Seq
			verdict, err := p.classifier.SubmitLivenessFrame(ctx, frame, p.probeID, cred())
			if done := p.record(ctx, gen, verdict, err, hooks); done {
				return
			}
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}
}

// record applies one classifier response and reports whether the run is over.
func (p *LivenessProbe) record(ctx context.Context, gen uint64, verdict entity.LivenessVerdict, err error, hooks probeHooks) bool {
	p.mu.Lock()
	if gen != p.gen || p.resolved {
		p.mu.Unlock()
		return true
	}

	if err != nil {
		if ctx.Err() != nil {
			p.mu.Unlock()
			return false
		}
		p.consecutiveErrors++
		p.log.WithFields(logrus.Fields{
			"probe_id":           p.probeID,
			"consecutive_errors": p.consecutiveErrors,
			"error":              err.Error(),
		}).Warn("[LivenessProbe.record] liveness submission failed")

		if p.consecutiveErrors > p.cfg.MaxConsecutiveErrors {
			p.mu.Unlock()
			p.finish(gen, entity.LivenessOutcome{
				FramesCollected: p.collectedSnapshot(),
				Reason:          entity.LivenessReasonServiceError,
			}, hooks)
			return true
		}
		p.mu.Unlock()
		return false
	}

	p.submitted++
	p.consecutiveErrors = 0

	var outcome *entity.LivenessOutcome
	switch {
	case verdict.Live:
		p.collected = verdict.FramesCollected
		outcome = &entity.LivenessOutcome{Confirmed: true, FramesCollected: verdict.FramesCollected}
	case verdict.NoFace:
	default:
		p.counted++
		p.collected = verdict.FramesCollected
		if p.cfg.FrameBudget > 0 && p.counted >= p.cfg.FrameBudget {
			outcome = &entity.LivenessOutcome{FramesCollected: p.collected, Reason: entity.LivenessReasonTimeout}
		}
	}
	if outcome == nil && !p.now().Before(p.deadline) {
		outcome = &entity.LivenessOutcome{FramesCollected: p.collected, Reason: entity.LivenessReasonTimeout}
	}
	p.mu.Unlock()

	if hooks.progress != nil {
		hooks.progress(verdict)
	}
	if outcome != nil {
		p.finish(gen, *outcome, hooks)
		return true
	}
	return false
}

func (p *LivenessProbe) collectedSnapshot() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.collected
}

func (p *LivenessProbe) finish(gen uint64, outcome entity.LivenessOutcome, hooks probeHooks) {
	p.mu.Lock()
	if gen != p.gen || p.resolved {
		p.mu.Unlock()
		return
	}
	p.resolved = true
	p.stopLocked()
	p.mu.Unlock()

	if hooks.resolve != nil {
		hooks.resolve(outcome)
	}
}
