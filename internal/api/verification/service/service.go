package verificationService

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

type IVerificationService interface {
	Connect(userID string, cred entity.Credential, device Device) *Orchestrator
	Disconnect(userID string, o *Orchestrator)
	Orchestrator(userID string) (*Orchestrator, error)
	SessionSnapshot(ctx context.Context, userID string) (entity.VerificationSession, bool, error)
	DocumentURL(key string) (string, error)
	Config() Config
	Shutdown()
}

type verificationService struct {
	log  *logrus.Logger
	cfg  Config
	deps Dependencies

	mu            sync.Mutex
	orchestrators map[string]*Orchestrator
}

// New builds the service. deps.Device is used for connections that do not
// bring their own camera.
func New(log *logrus.Logger, cfg Config, deps Dependencies) IVerificationService {
	return &verificationService{
		log:           log,
		cfg:           cfg,
		deps:          deps,
		orchestrators: make(map[string]*Orchestrator),
	}
}

// Connect creates the orchestrator for a user connection. A previous
// connection of the same user is closed.
func (s *verificationService) Connect(userID string, cred entity.Credential, device Device) *Orchestrator {
	deps := s.deps
	if device != nil {
		deps.Device = device
	}
	o := NewOrchestrator(userID, s.cfg, deps, cred, s.log)

	s.mu.Lock()
	prev := s.orchestrators[userID]
	s.orchestrators[userID] = o
	s.mu.Unlock()

	if prev != nil {
		s.log.WithField("user_id", userID).Info("[verificationService.Connect] replacing existing verification connection")
		go prev.Close()
	}
	return o
}

func (s *verificationService) Disconnect(userID string, o *Orchestrator) {
	s.mu.Lock()
	if s.orchestrators[userID] == o {
		delete(s.orchestrators, userID)
	}
	s.mu.Unlock()

	o.Close()
}

func (s *verificationService) Orchestrator(userID string) (*Orchestrator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orchestrators[userID]
	if !ok {
		return nil, verification.ErrSessionNotFound
	}
	return o, nil
}

// SessionSnapshot returns the live session of the user or, when the user is
// not connected, the last stored snapshot. live reports which one it is.
func (s *verificationService) SessionSnapshot(ctx context.Context, userID string) (entity.VerificationSession, bool, error) {
	if o, err := s.Orchestrator(userID); err == nil {
		snap, err := o.Snapshot()
		if err == nil {
			return snap, true, nil
		}
		if !errors.Is(err, verification.ErrOrchestratorClosed) {
			return entity.VerificationSession{}, false, err
		}
	}

	if s.deps.Snapshots == nil {
		return entity.VerificationSession{}, false, verification.ErrSessionNotFound
	}
	snap, err := s.deps.Snapshots.GetSnapshot(ctx, userID)
	if err != nil {
		return entity.VerificationSession{}, false, err
	}
	return snap, false, nil
}

func (s *verificationService) DocumentURL(key string) (string, error) {
	if s.deps.Archive == nil || key == "" {
		return "", nil
	}
	return s.deps.Archive.DocumentURL(key)
}

func (s *verificationService) Config() Config {
	return s.cfg
}

func (s *verificationService) Shutdown() {
	s.mu.Lock()
	all := make([]*Orchestrator, 0, len(s.orchestrators))
	for id, o := range s.orchestrators {
		all = append(all, o)
		delete(s.orchestrators, id)
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, o := range all {
		wg.Add(1)
		go func(o *Orchestrator) {
			defer wg.Done()
			o.Close()
		}(o)
	}
	wg.Wait()
}
