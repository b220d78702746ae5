package verificationService

import (
	"ProjectKYC/internal/entity"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const snapshotTimeout = 3 * time.Second

// snapshotWriter persists the latest session record. Intermediate records
// offered while a write is in flight are coalesced.
type snapshotWriter struct {
	store SnapshotStore
	log   *logrus.Logger

	mu      sync.Mutex
	pending *entity.VerificationSession
	signal  chan struct{}
}

func newSnapshotWriter(store SnapshotStore, log *logrus.Logger) *snapshotWriter {
	return &snapshotWriter{
		store:  store,
		log:    log,
		signal: make(chan struct{}, 1),
	}
}

func (w *snapshotWriter) offer(rec entity.VerificationSession) {
	w.mu.Lock()
	w.pending = &rec
	w.mu.Unlock()

	select {
	case w.signal <- struct{}{}:
	default:
	}
}

func (w *snapshotWriter) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return
		case <-w.signal:
			w.flush()
		}
	}
}

func (w *snapshotWriter) flush() {
	w.mu.Lock()
	rec := w.pending
	w.pending = nil
	w.mu.Unlock()

	if rec == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	if err := w.store.SaveSnapshot(ctx, *rec); err != nil {
		w.log.WithFields(logrus.Fields{
			"user_id":    rec.UserID,
			"session_id": rec.ID,
			"error":      err.Error(),
		}).Warn("[snapshotWriter.flush] failed to save session snapshot")
	}
}
