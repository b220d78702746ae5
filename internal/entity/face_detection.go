package entity

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DetectionResult is the face detection service's answer for one frame.
type DetectionResult struct {
	Status       string             `json:"status"`
	Instructions []string           `json:"instructions"`
	FacePosition *Position          `json:"face_position,omitempty"`
	FaceSize     *float64           `json:"face_size,omitempty"`
	FrameCenter  Position           `json:"frame_center"`
	Deviations   map[string]float64 `json:"deviations,omitempty"`
}

const (
	DetectionStatusNoFace       = "NO_FACE_DETECTED"
	DetectionStatusMultipleFace = "MULTIPLE_FACES"
)

// Presence converts the detection result into a presence answer. A result
// without a face position, or with several faces, is treated as absent.
func (r DetectionResult) Presence() PresenceResult {
	if r.FacePosition == nil || r.Status == DetectionStatusNoFace || r.Status == DetectionStatusMultipleFace {
		return PresenceResult{}
	}

	res := PresenceResult{Present: true}
	if r.FaceSize != nil && *r.FaceSize > 0 {
		size := *r.FaceSize
		res.BoundingBox = &Rect{
			X:      float64(r.FacePosition.X) - size/2,
			Y:      float64(r.FacePosition.Y) - size/2,
			Width:  size,
			Height: size,
		}
	}
	return res
}
