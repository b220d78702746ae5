package verificationService

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"ProjectKYC/pkg/metrics"
	"ProjectKYC/pkg/utils"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const persistTimeout = 10 * time.Second

type Dependencies struct {
	Device    Device
	Detector  FaceDetector
	Liveness  LivenessClassifier
	Extractor DocumentExtractor
	Matcher   FaceMatcher

	// Optional collaborators.
	Applications ApplicationSink
	Snapshots    SnapshotStore
	Archive      DocumentArchive
	Metrics      *metrics.Metrics
	Utils        utils.IUtils
}

type DocumentRequest struct {
	Image   entity.DocumentImage
	Purpose entity.DocumentPurpose
	Replace bool
}

type session struct {
	record      entity.VerificationSession
	transitions []entity.Transition

	ctx    context.Context
	cancel context.CancelFunc

	handle         *CaptureHandle
	presence       *PresenceDetector
	presenceCancel context.CancelFunc
	probe          *LivenessProbe
	proof          LivenessProof
	document       entity.DocumentImage

	awaitingAuth bool
}

// prefill holds document data received while no session is active. It seeds
// the next session.
type prefill struct {
	fields      entity.ExtractedFields
	replaced    bool
	document    *entity.DocumentImage
	documentKey string
}

// Orchestrator drives one user's verification sessions. All session state
// is owned by a single loop goroutine; public methods and background tasks
// hand closures to that loop.
type Orchestrator struct {
	userID  string
	cfg     Config
	deps    Dependencies
	log     *logrus.Logger
	metrics *metrics.Metrics
	utils   utils.IUtils

	capture   *CaptureSession
	documents *DocumentPipeline
	matcher   *MatchVerifier
	snapshots *snapshotWriter

	cred atomic.Pointer[entity.Credential]

	baseCtx context.Context
	stop    context.CancelFunc

	qmu      sync.Mutex
	queue    []func()
	closed   bool
	wake     chan struct{}
	loopDone chan struct{}

	tasks     sync.WaitGroup
	closeOnce sync.Once

	// loop-owned
	session *session
	history []entity.Transition
	prefill prefill
	subs    map[int]chan Event
	nextSub int
}

func NewOrchestrator(userID string, cfg Config, deps Dependencies, cred entity.Credential, log *logrus.Logger) *Orchestrator {
	if deps.Utils == nil {
		deps.Utils = utils.New()
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultConfig().EventBuffer
	}

	baseCtx, stop := context.WithCancel(context.Background())

	o := &Orchestrator{
		userID:    userID,
		cfg:       cfg,
		deps:      deps,
		log:       log,
		metrics:   deps.Metrics,
		utils:     deps.Utils,
		capture:   NewCaptureSession(deps.Device, log),
		documents: NewDocumentPipeline(deps.Extractor, cfg.DocumentMaxBytes, log),
		matcher:   NewMatchVerifier(deps.Matcher, cfg.MatchTimeout, cfg.MatchRetryDelay, log),
		baseCtx:   baseCtx,
		stop:      stop,
		wake:      make(chan struct{}, 1),
		loopDone:  make(chan struct{}),
		subs:      make(map[int]chan Event),
	}
	o.cred.Store(&cred)

	if deps.Snapshots != nil {
		o.snapshots = newSnapshotWriter(deps.Snapshots, log)
		o.spawn(func() { o.snapshots.run(baseCtx) })
	}

	go o.loop()
	return o
}

func (o *Orchestrator) loop() {
	defer close(o.loopDone)
	for {
		select {
		case <-o.baseCtx.Done():
			return
		case <-o.wake:
		}
		for {
			fn := o.pop()
			if fn == nil {
				break
			}
			fn()
		}
	}
}

func (o *Orchestrator) pop() func() {
	o.qmu.Lock()
	defer o.qmu.Unlock()
	if len(o.queue) == 0 {
		return nil
	}
	fn := o.queue[0]
	o.queue[0] = nil
	o.queue = o.queue[1:]
	return fn
}

// post queues fn for the loop without blocking. It reports false once the
// orchestrator is closed.
func (o *Orchestrator) post(fn func()) bool {
	o.qmu.Lock()
	if o.closed {
		o.qmu.Unlock()
		return false
	}
	o.queue = append(o.queue, fn)
	o.qmu.Unlock()

	select {
	case o.wake <- struct{}{}:
	default:
	}
	return true
}

// do runs fn on the loop and waits for its result.
func (o *Orchestrator) do(fn func() error) error {
	done := make(chan error, 1)
	if !o.post(func() { done <- fn() }) {
		return verification.ErrOrchestratorClosed
	}
	select {
	case err := <-done:
		return err
	case <-o.loopDone:
		select {
		case err := <-done:
			return err
		default:
			return verification.ErrOrchestratorClosed
		}
	}
}

func (o *Orchestrator) spawn(fn func()) {
	o.tasks.Add(1)
	go func() {
		defer o.tasks.Done()
		fn()
	}()
}

func (o *Orchestrator) credential() entity.Credential {
	if c := o.cred.Load(); c != nil {
		return *c
	}
	return entity.Credential{}
}

func (o *Orchestrator) active(s *session) bool {
	return s != nil && o.session == s && s.ctx.Err() == nil && !s.record.State.Terminal()
}

// Start begins a new session. It returns once the camera has been requested;
// the outcome of acquisition arrives as a state change.
func (o *Orchestrator) Start() error {
	return o.do(func() error {
		if prev := o.session; prev != nil {
			if !prev.record.State.Terminal() {
				return verification.ErrAlreadyStarted
			}
			o.carryOver(prev)
			o.history = prev.transitions
		}

		s, err := o.newSession()
		if err != nil {
			return err
		}
		o.session = s
		o.metrics.IncSessionStarted()

		o.log.WithFields(logrus.Fields{
			"user_id":    o.userID,
			"session_id": s.record.ID,
		}).Info("[Orchestrator.Start] verification session started")

		o.transition(s, entity.StateCameraStarting, entity.ReasonNone)

		o.spawn(func() {
			h, err := o.capture.Acquire(s.ctx)
			if !o.post(func() { o.onCaptureAcquired(s, h, err) }) {
				o.capture.releaseHandle(h)
			}
		})
		return nil
	})
}

func (o *Orchestrator) newSession() (*session, error) {
	now := time.Now()
	id, err := o.utils.NewULIDFromTimestamp(now)
	if err != nil {
		o.log.WithFields(logrus.Fields{
			"user_id": o.userID,
			"error":   err.Error(),
		}).Error("[Orchestrator.newSession] failed to generate session id")
		return nil, err
	}

	ctx, cancel := context.WithCancel(o.baseCtx)
	s := &session{
		record: entity.VerificationSession{
			ID:        id,
			UserID:    o.userID,
			CreatedAt: now,
			State:     entity.StateIdle,
			Fields:    o.prefill.fields,
			UpdatedAt: now,
		},
		ctx:      ctx,
		cancel:   cancel,
		presence: NewPresenceDetector(o.deps.Detector, o.log),
	}
	if o.prefill.document != nil {
		s.document = *o.prefill.document
		s.record.DocumentReady = true
		s.record.DocumentKey = o.prefill.documentKey
	}
	o.prefill = prefill{}
	return s, nil
}

func (o *Orchestrator) onCaptureAcquired(s *session, h *CaptureHandle, err error) {
	if !o.active(s) || s.record.State != entity.StateCameraStarting {
		o.capture.releaseHandle(h)
		return
	}

	if err != nil {
		reason := entity.ReasonDeviceUnavailable
		if errors.Is(err, verification.ErrPermissionDenied) {
			reason = entity.ReasonPermissionDenied
		}
		o.log.WithFields(logrus.Fields{
			"session_id": s.record.ID,
			"error":      err.Error(),
		}).Warn("[Orchestrator.onCaptureAcquired] camera could not be acquired")
		o.transition(s, entity.StateFailed, reason)
		return
	}

	s.handle = h
	o.transition(s, entity.StateAwaitingPresence, entity.ReasonNone)
	o.startPresence(s)
}

func (o *Orchestrator) startPresence(s *session) {
	ctx, cancel := context.WithCancel(s.ctx)
	s.presenceCancel = cancel

	h, detector := s.handle, s.presence
	o.spawn(func() {
		detector.Run(ctx, h, o.credential, o.cfg.PresenceInterval, func(res entity.PresenceResult) {
			o.post(func() { o.onPresence(s, res) })
		})
	})
}

func (o *Orchestrator) onPresence(s *session, res entity.PresenceResult) {
	if !o.active(s) {
		return
	}

	o.publish(PresenceChanged{
		EventMeta:   o.meta(s),
		Present:     res.Present,
		BoundingBox: res.BoundingBox,
	})

	switch s.record.State {
	case entity.StateAwaitingPresence:
		if res.Present {
			o.transition(s, entity.StateProbingLiveness, entity.ReasonNone)
			o.resumeProbe(s)
		}
	case entity.StateProbingLiveness:
		if res.Present {
			o.resumeProbe(s)
		} else if s.probe != nil {
			s.probe.Pause()
		}
	}
}

func (o *Orchestrator) resumeProbe(s *session) {
	if s.probe == nil {
		s.probe = NewLivenessProbe(o.deps.Liveness, LivenessConfig{
			Interval:             o.cfg.LivenessInterval,
			Timeout:              o.cfg.LivenessTimeout,
			FrameBudget:          o.cfg.LivenessFrameBudget,
			MaxConsecutiveErrors: o.cfg.LivenessMaxConsecutiveErrors,
		}, s.record.ID, o.log)
	}

	probe := s.probe
	probe.Resume(s.ctx, s.handle, o.credential, probeHooks{
		progress: func(v entity.LivenessVerdict) {
			o.post(func() { o.onLivenessProgress(s, probe, v) })
		},
		resolve: func(out entity.LivenessOutcome) {
			o.post(func() { o.onLivenessResolved(s, probe, out) })
		},
	})
}

func (o *Orchestrator) onLivenessProgress(s *session, probe *LivenessProbe, v entity.LivenessVerdict) {
	if !o.active(s) || s.probe != probe {
		return
	}
	s.record.LivenessFramesSubmitted++
	o.metrics.IncLivenessSubmission()

	o.publish(LivenessProgress{
		EventMeta:       o.meta(s),
		FramesSubmitted: s.record.LivenessFramesSubmitted,
		FramesCollected: v.FramesCollected,
	})
}

func (o *Orchestrator) onLivenessResolved(s *session, probe *LivenessProbe, out entity.LivenessOutcome) {
	if !o.active(s) || s.probe != probe || s.record.State != entity.StateProbingLiveness {
		return
	}
	s.probe = nil

	if out.Confirmed {
		o.metrics.IncLivenessOutcome("confirmed")
		s.proof = newLivenessProof(s.record.ID, out)
		s.record.LivenessConfirmed = true
		if s.presenceCancel != nil {
			s.presenceCancel()
		}

		o.publish(LivenessResolved{EventMeta: o.meta(s), Outcome: out, Retries: s.record.LivenessRetries})
		o.transition(s, entity.StateLivenessConfirmed, entity.ReasonNone)
		o.maybeMatch(s)
		return
	}

	o.metrics.IncLivenessOutcome(string(out.Reason))
	s.record.LivenessRetries++
	o.publish(LivenessResolved{EventMeta: o.meta(s), Outcome: out, Retries: s.record.LivenessRetries})

	if s.record.LivenessRetries > o.cfg.LivenessRetryCap {
		o.transition(s, entity.StateFailed, entity.ReasonLivenessExhausted)
		return
	}

	reason := entity.ReasonLivenessTimeout
	if out.Reason == entity.LivenessReasonServiceError {
		reason = entity.ReasonLivenessService
	}
	s.presence.Reset()
	o.transition(s, entity.StateAwaitingPresence, reason)
}

// maybeMatch starts the first match attempt once both liveness and the
// document are in hand. Later attempts need RetryMatch.
func (o *Orchestrator) maybeMatch(s *session) {
	if s.record.State != entity.StateLivenessConfirmed || !s.record.DocumentReady {
		return
	}
	if s.record.MatchAttempts > 0 || s.awaitingAuth {
		return
	}
	o.beginMatch(s)
}

func (o *Orchestrator) beginMatch(s *session) {
	o.transition(s, entity.StateMatching, entity.ReasonNone)

	proof, document, h := s.proof, s.document, s.handle
	o.spawn(func() {
		selfie, ok := h.Latest()
		if !ok {
			var err error
			if selfie, err = h.Next(s.ctx, 0); err != nil {
				return
			}
		}

		started := time.Now()
		out := o.matcher.Verify(s.ctx, proof, selfie, document, o.credential())
		elapsed := time.Since(started)
		o.post(func() { o.onMatch(s, out, elapsed) })
	})
}

func (o *Orchestrator) onMatch(s *session, out entity.MatchOutcome, elapsed time.Duration) {
	if !o.active(s) || s.record.State != entity.StateMatching {
		return
	}

	result := string(out.Reason)
	if out.Verified {
		result = "verified"
	}
	o.metrics.ObserveMatch(result, elapsed)

	if out.Reason == entity.MatchReasonAuthExpired {
		s.awaitingAuth = true
		o.publish(AuthRequired{EventMeta: o.meta(s)})
		o.transition(s, entity.StateLivenessConfirmed, entity.ReasonAuthExpired)
		return
	}

	s.record.MatchAttempts++
	if out.SimilarityScore != nil {
		score := *out.SimilarityScore
		s.record.Similarity = &score
	}
	o.publish(MatchCompleted{EventMeta: o.meta(s), Attempt: s.record.MatchAttempts, Outcome: out})

	if out.Verified {
		o.transition(s, entity.StateVerified, entity.ReasonNone)
		o.persistVerified(s)
		return
	}

	if s.record.MatchAttempts >= o.cfg.MatchAttemptCap {
		o.transition(s, entity.StateFailed, entity.ReasonMatchExhausted)
		return
	}

	reason := entity.ReasonNoMatch
	if out.Reason == entity.MatchReasonServiceError {
		reason = entity.ReasonMatchService
	}
	o.transition(s, entity.StateLivenessConfirmed, reason)
}

func (o *Orchestrator) persistVerified(s *session) {
	if o.deps.Applications == nil {
		return
	}

	record := entity.VerificationRecord{
		SessionID:   s.record.ID,
		UserID:      s.record.UserID,
		Fields:      s.record.Fields,
		Similarity:  s.record.Similarity,
		DocumentKey: s.record.DocumentKey,
		VerifiedAt:  s.record.UpdatedAt,
	}
	o.spawn(func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(o.baseCtx), persistTimeout)
		defer cancel()

		if err := o.deps.Applications.SaveVerification(ctx, record); err != nil {
			o.log.WithFields(logrus.Fields{
				"user_id":    record.UserID,
				"session_id": record.SessionID,
				"error":      err.Error(),
			}).Error("[Orchestrator.persistVerified] failed to store verification result")
		}
	})
}

// Cancel stops the current session and returns to Idle. The camera is
// released before Cancel returns.
func (o *Orchestrator) Cancel() error {
	return o.do(func() error {
		o.cancelSession()
		return nil
	})
}

func (o *Orchestrator) cancelSession() {
	s := o.session
	if s == nil {
		return
	}

	if !s.record.State.Terminal() {
		o.metrics.DecActiveSessions()
	}
	o.carryOver(s)

	o.transition(s, entity.StateIdle, entity.ReasonCanceled)
	o.history = s.transitions
	o.session = nil
}

// carryOver keeps the fields and document of an unverified session for the
// next one. Data received after the session ended takes precedence.
func (o *Orchestrator) carryOver(s *session) {
	if s.record.State == entity.StateVerified {
		return
	}
	if !o.prefill.replaced {
		o.prefill.fields = o.prefill.fields.Merge(s.record.Fields, false)
	}
	if s.record.DocumentReady && o.prefill.document == nil {
		doc := s.document
		o.prefill.document = &doc
		o.prefill.documentKey = s.record.DocumentKey
	}
}

// SubmitDocument validates the image synchronously and extracts it in the
// background. The result arrives as DocumentExtracted or DocumentRejected.
func (o *Orchestrator) SubmitDocument(req DocumentRequest) error {
	if req.Purpose == "" {
		req.Purpose = entity.PurposeKYC
	}
	image := req.Image
	if err := o.documents.Validate(&image); err != nil {
		o.metrics.IncDocumentExtraction(string(req.Purpose), "rejected")
		return err
	}

	return o.do(func() error {
		s := o.session
		if !o.active(s) {
			s = nil
		}

		ctx, sessionID := o.baseCtx, ""
		if s != nil {
			ctx, sessionID = s.ctx, s.record.ID
		}
		cred := o.credential()

		o.spawn(func() {
			ctx, cancel := context.WithTimeout(ctx, o.cfg.DocumentTimeout)
			defer cancel()

			fields, err := o.documents.Extract(ctx, image, req.Purpose, cred)

			var key string
			if err == nil && req.Purpose == entity.PurposeKYC && o.deps.Archive != nil {
				var archiveErr error
				key, archiveErr = o.deps.Archive.StoreDocument(ctx, o.userID, sessionID, image)
				if archiveErr != nil {
					o.log.WithFields(logrus.Fields{
						"user_id": o.userID,
						"error":   archiveErr.Error(),
					}).Warn("[Orchestrator.SubmitDocument] failed to archive document")
				}
			}

			o.post(func() { o.onDocument(s, req, image, fields, key, err) })
		})
		return nil
	})
}

func (o *Orchestrator) onDocument(s *session, req DocumentRequest, image entity.DocumentImage, fields entity.ExtractedFields, key string, err error) {
	if s != nil && !o.active(s) {
		o.log.WithField("session_id", s.record.ID).Debug("[Orchestrator.onDocument] discarding extraction for finished session")
		return
	}

	target := s
	if target == nil && o.active(o.session) {
		target = o.session
	}
	meta := o.meta(target)

	if err != nil {
		o.metrics.IncDocumentExtraction(string(req.Purpose), "failed")
		o.log.WithFields(logrus.Fields{
			"user_id": o.userID,
			"purpose": req.Purpose,
			"error":   err.Error(),
		}).Warn("[Orchestrator.onDocument] document extraction failed")

		o.publish(DocumentRejected{EventMeta: meta, Purpose: req.Purpose, Reason: documentErrorCode(err)})
		if errors.Is(err, verification.ErrAuthExpired) {
			o.publish(AuthRequired{EventMeta: meta})
		}
		return
	}
	o.metrics.IncDocumentExtraction(string(req.Purpose), "extracted")

	if target == nil {
		o.prefill.fields = o.prefill.fields.Merge(fields, req.Replace)
		o.prefill.replaced = o.prefill.replaced || req.Replace
		if req.Purpose == entity.PurposeKYC {
			o.prefill.document = &image
			o.prefill.documentKey = key
		}
		o.publish(DocumentExtracted{EventMeta: meta, Purpose: req.Purpose, Fields: o.prefill.fields})
		return
	}

	target.record.Fields = target.record.Fields.Merge(fields, req.Replace)
	if req.Purpose == entity.PurposeKYC {
		target.document = image
		target.record.DocumentReady = true
		target.record.DocumentKey = key
	}
	target.record.UpdatedAt = time.Now()

	o.publish(DocumentExtracted{EventMeta: meta, Purpose: req.Purpose, Fields: target.record.Fields})
	o.saveSnapshot(target)
	o.maybeMatch(target)
}

func documentErrorCode(err error) string {
	switch {
	case errors.Is(err, verification.ErrInvalidFormat):
		return "INVALID_FORMAT"
	case errors.Is(err, verification.ErrTooLarge):
		return "TOO_LARGE"
	case errors.Is(err, verification.ErrAuthExpired):
		return string(entity.ReasonAuthExpired)
	default:
		return "EXTRACTION_FAILED"
	}
}

// UpdateFields applies user edits to the extracted fields.
func (o *Orchestrator) UpdateFields(fields entity.ExtractedFields, replace bool) (entity.ExtractedFields, error) {
	var merged entity.ExtractedFields
	err := o.do(func() error {
		s := o.session
		if !o.active(s) {
			o.prefill.fields = o.prefill.fields.Merge(fields, replace)
			o.prefill.replaced = o.prefill.replaced || replace
			merged = o.prefill.fields
			o.publish(FieldsUpdated{EventMeta: o.meta(nil), Fields: merged})
			return nil
		}

		s.record.Fields = s.record.Fields.Merge(fields, replace)
		s.record.UpdatedAt = time.Now()
		merged = s.record.Fields
		o.publish(FieldsUpdated{EventMeta: o.meta(s), Fields: merged})
		o.saveSnapshot(s)
		return nil
	})
	return merged, err
}

// RetryMatch starts another match attempt after a NoMatch or service error.
func (o *Orchestrator) RetryMatch() error {
	return o.do(func() error {
		s := o.session
		if !o.active(s) {
			return verification.ErrNotStarted
		}
		if s.record.State != entity.StateLivenessConfirmed || !s.proof.valid() {
			return verification.ErrMatchNotAllowed
		}
		if !s.record.DocumentReady {
			return verification.ErrDocumentNotReady
		}
		s.awaitingAuth = false
		o.beginMatch(s)
		return nil
	})
}

// SetCredential replaces the bearer credential used for later requests. A
// match interrupted by an expired credential is retried.
func (o *Orchestrator) SetCredential(cred entity.Credential) {
	o.cred.Store(&cred)
	o.post(func() {
		s := o.session
		if !o.active(s) || !s.awaitingAuth {
			return
		}
		if s.record.State == entity.StateLivenessConfirmed && s.record.DocumentReady {
			s.awaitingAuth = false
			o.beginMatch(s)
		}
	})
}

// Snapshot returns a copy of the current session, or an Idle record when
// there is none.
func (o *Orchestrator) Snapshot() (entity.VerificationSession, error) {
	var out entity.VerificationSession
	err := o.do(func() error {
		if o.session == nil {
			out = entity.VerificationSession{
				UserID: o.userID,
				State:  entity.StateIdle,
				Fields: o.prefill.fields,
			}
			out.DocumentReady = o.prefill.document != nil
			out.DocumentKey = o.prefill.documentKey
			return nil
		}
		out = copySession(o.session.record)
		return nil
	})
	return out, err
}

// Transitions returns the transition log of the current or last session.
func (o *Orchestrator) Transitions() ([]entity.Transition, error) {
	var out []entity.Transition
	err := o.do(func() error {
		src := o.history
		if o.session != nil {
			src = o.session.transitions
		}
		out = append([]entity.Transition(nil), src...)
		return nil
	})
	return out, err
}

// Subscribe registers a listener. Events are dropped for a subscriber whose
// buffer is full. The returned func unsubscribes and closes the channel.
func (o *Orchestrator) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, o.cfg.EventBuffer)
	var id int
	err := o.do(func() error {
		id = o.nextSub
		o.nextSub++
		o.subs[id] = ch
		return nil
	})
	if err != nil {
		close(ch)
		return ch, func() {}
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.post(func() {
				if c, ok := o.subs[id]; ok {
					delete(o.subs, id)
					close(c)
				}
			})
		})
	}
}

// Close cancels any session, closes subscriber channels and waits for
// background work to finish.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		_ = o.do(func() error {
			o.cancelSession()
			for id, ch := range o.subs {
				delete(o.subs, id)
				close(ch)
			}
			return nil
		})

		o.qmu.Lock()
		o.closed = true
		o.queue = nil
		o.qmu.Unlock()

		o.stop()
		<-o.loopDone
		o.capture.Release()
		o.tasks.Wait()
	})
}

func (o *Orchestrator) UserID() string { return o.userID }

func (o *Orchestrator) transition(s *session, to entity.VerificationState, reason entity.Reason) {
	if to.Terminal() || to == entity.StateIdle {
		o.release(s)
	}
	if to.Terminal() && !s.record.State.Terminal() {
		o.metrics.DecActiveSessions()
	}

	now := time.Now()
	from := s.record.State
	s.record.State = to
	s.record.Reason = reason
	s.record.UpdatedAt = now
	s.transitions = append(s.transitions, entity.Transition{
		From:              from,
		To:                to,
		Reason:            reason,
		LivenessConfirmed: s.record.LivenessConfirmed,
		At:                now,
	})

	o.metrics.ObserveTransition(to.String(), string(reason))
	o.log.WithFields(logrus.Fields{
		"user_id":    o.userID,
		"session_id": s.record.ID,
		"from":       from.String(),
		"to":         to.String(),
		"reason":     reason,
	}).Info("[Orchestrator.transition] state changed")

	o.publish(StateChanged{EventMeta: o.meta(s), From: from, To: to, Reason: reason})
	o.saveSnapshot(s)
}

// release stops every background task of s and gives the camera back.
func (o *Orchestrator) release(s *session) {
	s.cancel()
	if s.probe != nil {
		s.probe.Stop()
		s.probe = nil
	}
	if s.handle != nil {
		o.capture.releaseHandle(s.handle)
		s.handle = nil
	} else {
		o.capture.Release()
	}
}

func (o *Orchestrator) publish(ev Event) {
	for _, ch := range o.subs {
		select {
		case ch <- ev:
		default:
			o.metrics.IncEventsDropped()
			o.log.WithFields(logrus.Fields{
				"user_id": o.userID,
				"event":   ev.Kind(),
			}).Warn("[Orchestrator.publish] subscriber buffer full, dropping event")
		}
	}
}

func (o *Orchestrator) meta(s *session) EventMeta {
	m := EventMeta{At: time.Now()}
	if s != nil {
		m.SessionID = s.record.ID
	}
	return m
}

func (o *Orchestrator) saveSnapshot(s *session) {
	if o.snapshots == nil {
		return
	}
	o.snapshots.offer(copySession(s.record))
}

func copySession(rec entity.VerificationSession) entity.VerificationSession {
	out := rec
	out.Fields.Name = append([]string(nil), rec.Fields.Name...)
	if rec.Similarity != nil {
		v := *rec.Similarity
		out.Similarity = &v
	}
	return out
}
