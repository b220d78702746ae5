//go:build !gstreamer

package camera

import (
	"ProjectKYC/internal/api/verification"
	verificationService "ProjectKYC/internal/api/verification/service"
	"context"

	"github.com/sirupsen/logrus"
)

// Local is unavailable in builds without the gstreamer tag.
type Local struct {
	log *logrus.Logger
}

func NewLocal(_ Config, log *logrus.Logger) *Local {
	return &Local{log: log}
}

func (l *Local) Open(_ context.Context) (verificationService.Stream, error) {
	l.log.Warn("[Local.Open] built without gstreamer support")
	return nil, verification.ErrDeviceUnavailable
}
