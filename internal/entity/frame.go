package entity

import "time"

type Frame struct {
	Seq         uint64    `json:"seq"`
	CapturedAt  time.Time `json:"captured_at"`
	Data        []byte    `json:"-"`
	ContentType string    `json:"content_type"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
}

func (f Frame) IsZero() bool {
	return len(f.Data) == 0
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type PresenceResult struct {
	Present     bool  `json:"present"`
	BoundingBox *Rect `json:"bounding_box,omitempty"`
}
