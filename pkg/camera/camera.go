package camera

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDevice    = "/dev/video0"
	defaultWidth     = 640
	defaultHeight    = 480
	defaultFramerate = 10
	frameBuffer      = 2
)

type Config struct {
	Device    string
	Width     int
	Height    int
	Framerate int
	// FirstFrameTimeout bounds how long Open waits for the pipeline to
	// produce a frame.
	FirstFrameTimeout time.Duration
}

func ConfigFromEnv() Config {
	cfg := Config{
		Device:            defaultDevice,
		Width:             defaultWidth,
		Height:            defaultHeight,
		Framerate:         defaultFramerate,
		FirstFrameTimeout: 10 * time.Second,
	}
	if v := os.Getenv("CAMERA_DEVICE"); v != "" {
		cfg.Device = v
	}
	if v, err := strconv.Atoi(os.Getenv("CAMERA_WIDTH")); err == nil && v > 0 {
		cfg.Width = v
	}
	if v, err := strconv.Atoi(os.Getenv("CAMERA_HEIGHT")); err == nil && v > 0 {
		cfg.Height = v
	}
	if v, err := strconv.Atoi(os.Getenv("CAMERA_FRAMERATE")); err == nil && v > 0 {
		cfg.Framerate = v
	}
	if v, err := time.ParseDuration(os.Getenv("CAMERA_ACQUIRE_TIMEOUT")); err == nil && v > 0 {
		cfg.FirstFrameTimeout = v
	}
	return cfg
}

// isPermissionError reports whether a pipeline error message means the
// process may not open the device.
func isPermissionError(msg string) bool {
	msg = strings.ToLower(msg)
	for _, kw := range []string{"permission denied", "not authorized", "eacces", "operation not permitted"} {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// capsString builds the source caps for a v4l2 device.
func capsString(cfg Config) string {
	return "video/x-raw,width=" + strconv.Itoa(cfg.Width) +
		",height=" + strconv.Itoa(cfg.Height) +
		",framerate=" + strconv.Itoa(cfg.Framerate) + "/1"
}
