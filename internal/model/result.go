package model

// InferenceResult is the verdict produced for one uploaded image against
// one claimed category. Severity is set only when IsMatch is true.
type InferenceResult struct {
	IsMatch     bool     `json:"is_match"`
	Probability float64  `json:"probability"`
	Severity    Severity `json:"severity,omitempty"`
}

// NewInferenceResult applies the fixed decision policy to a match
// probability.
func NewInferenceResult(probability float64) InferenceResult {
	result := InferenceResult{
		IsMatch:     probability >= MatchThreshold,
		Probability: probability,
	}
	if severity, ok := SeverityForProbability(probability); ok {
		result.Severity = severity
	}
	return result
}
