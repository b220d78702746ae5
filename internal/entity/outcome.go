package entity

type LivenessReason string

const (
	LivenessReasonNone         LivenessReason = ""
	LivenessReasonNoFace       LivenessReason = "NO_FACE"
	LivenessReasonTimeout      LivenessReason = "TIMEOUT"
	LivenessReasonServiceError LivenessReason = "SERVICE_ERROR"
)

type LivenessOutcome struct {
	Confirmed       bool           `json:"confirmed"`
	FramesCollected int            `json:"frames_collected"`
	Reason          LivenessReason `json:"reason,omitempty"`
}

type MatchReason string

const (
	MatchReasonNone         MatchReason = ""
	MatchReasonNoMatch      MatchReason = "NO_MATCH"
	MatchReasonServiceError MatchReason = "SERVICE_ERROR"
	MatchReasonAuthExpired  MatchReason = "AUTH_EXPIRED"
)

type MatchOutcome struct {
	Verified        bool        `json:"verified"`
	SimilarityScore *float64    `json:"similarity_score,omitempty"`
	Reason          MatchReason `json:"reason,omitempty"`
}

// LivenessVerdict is one response of the remote liveness classifier.
type LivenessVerdict struct {
	Live            bool `json:"live"`
	Collecting      bool `json:"collecting"`
	NoFace          bool `json:"no_face"`
	FramesCollected int  `json:"frames_collected"`
}

type MatchResult struct {
	Verified   bool     `json:"verified"`
	Similarity *float64 `json:"similarity,omitempty"`
}
