//go:build gstreamer

package camera

import (
	"ProjectKYC/internal/api/verification"
	verificationService "ProjectKYC/internal/api/verification/service"
	"ProjectKYC/internal/entity"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

// Local captures JPEG frames from a v4l2 device on the host.
//
//	v4l2src → videoconvert → videoscale → capsfilter → jpegenc → appsink
type Local struct {
	cfg Config
	log *logrus.Logger
}

func NewLocal(cfg Config, log *logrus.Logger) *Local {
	gst.Init(nil)
	return &Local{cfg: cfg, log: log}
}

func (l *Local) Open(ctx context.Context) (verificationService.Stream, error) {
	s, err := l.build()
	if err != nil {
		return nil, err
	}

	if err := s.pipeline.SetState(gst.StatePlaying); err != nil {
		s.destroy()
		return nil, fmt.Errorf("%w: %v", verification.ErrDeviceUnavailable, err)
	}
	go s.watchBus()

	timer := time.NewTimer(l.cfg.FirstFrameTimeout)
	defer timer.Stop()

	select {
	case <-s.first:
		return s, nil
	case err := <-s.failed:
		s.destroy()
		return nil, err
	case <-timer.C:
		s.destroy()
		return nil, verification.ErrDeviceUnavailable
	case <-ctx.Done():
		s.destroy()
		return nil, ctx.Err()
	}
}

func (l *Local) build() (*localStream, error) {
	pipeline, err := gst.NewPipeline("")
	if err != nil {
		return nil, fmt.Errorf("%w: create pipeline: %v", verification.ErrDeviceUnavailable, err)
	}

	src, err := gst.NewElement("v4l2src")
	if err != nil {
		return nil, fmt.Errorf("%w: create v4l2src: %v", verification.ErrDeviceUnavailable, err)
	}
	src.SetProperty("device", l.cfg.Device)

	elements := []*gst.Element{src}
	for _, name := range []string{"videoconvert", "videoscale"} {
		el, err := gst.NewElement(name)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", verification.ErrDeviceUnavailable, name, err)
		}
		elements = append(elements, el)
	}

	caps, err := gst.NewElement("capsfilter")
	if err != nil {
		return nil, fmt.Errorf("%w: create capsfilter: %v", verification.ErrDeviceUnavailable, err)
	}
	caps.SetProperty("caps", gst.NewCapsFromString(capsString(l.cfg)))

	enc, err := gst.NewElement("jpegenc")
	if err != nil {
		return nil, fmt.Errorf("%w: create jpegenc: %v", verification.ErrDeviceUnavailable, err)
	}

	sink, err := app.NewAppSink()
	if err != nil {
		return nil, fmt.Errorf("%w: create appsink: %v", verification.ErrDeviceUnavailable, err)
	}
	sink.SetProperty("sync", false)
	sink.SetProperty("max-buffers", 1)
	sink.SetProperty("drop", true)

	elements = append(elements, caps, enc, sink.Element)
	if err := pipeline.AddMany(elements...); err != nil {
		return nil, fmt.Errorf("%w: add elements: %v", verification.ErrDeviceUnavailable, err)
	}
	if err := gst.ElementLinkMany(elements...); err != nil {
		return nil, fmt.Errorf("%w: link elements: %v", verification.ErrDeviceUnavailable, err)
	}

	s := &localStream{
		cfg:      l.cfg,
		log:      l.log,
		pipeline: pipeline,
		frames:   make(chan entity.Frame, frameBuffer),
		first:    make(chan struct{}),
		failed:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	sink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: s.onSample,
	})
	return s, nil
}

type localStream struct {
	cfg      Config
	log      *logrus.Logger
	pipeline *gst.Pipeline

	frames    chan entity.Frame
	first     chan struct{}
	firstOnce sync.Once
	failed    chan error
	dropped   atomic.Uint64

	done      chan struct{}
	closeOnce sync.Once
}

func (s *localStream) Frames() <-chan entity.Frame {
	return s.frames
}

func (s *localStream) Close() error {
	return s.destroy()
}

func (s *localStream) destroy() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.pipeline.SetState(gst.StateNull)
		if n := s.dropped.Load(); n > 0 {
			s.log.WithField("dropped", n).Debug("[localStream.destroy] frames dropped while consumer was busy")
		}
	})
	return err
}

func (s *localStream) onSample(sink *app.Sink) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		return gst.FlowOK
	}
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		return gst.FlowOK
	}
	frameData := make([]byte, len(data))
	copy(frameData, data)
	buffer.Unmap()

	frame := entity.Frame{
		CapturedAt:  time.Now(),
		Data:        frameData,
		ContentType: "image/jpeg",
		Width:       s.cfg.Width,
		Height:      s.cfg.Height,
	}

	select {
	case <-s.done:
		return gst.FlowEOS
	case s.frames <- frame:
		s.firstOnce.Do(func() { close(s.first) })
	default:
		s.dropped.Add(1)
	}
	return gst.FlowOK
}

func (s *localStream) watchBus() {
	bus := s.pipeline.GetPipelineBus()
	for {
		select {
		case <-s.done:
			return
		default:
		}

		msg := bus.TimedPop(50 * time.Millisecond)
		if msg == nil {
			continue
		}

		switch msg.Type() {
		case gst.MessageEOS:
			s.fail(errors.New("camera stream ended"))
			return
		case gst.MessageError:
			gerr := msg.ParseError()
			s.log.WithFields(logrus.Fields{
				"device": s.cfg.Device,
				"error":  gerr.Error(),
				"debug":  gerr.DebugString(),
			}).Error("[localStream.watchBus] pipeline error")

			err := verification.ErrDeviceUnavailable
			if isPermissionError(gerr.Error()) || isPermissionError(gerr.DebugString()) {
				err = verification.ErrPermissionDenied
			}
			s.fail(err)
			return
		}
	}
}

func (s *localStream) fail(err error) {
	select {
	case s.failed <- err:
	default:
	}
}
