package model

// Severity is the discrete urgency tier reported alongside a positive
// classification. It is derived from the match probability alone.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Classification decision constants. MatchThreshold is a fixed design
// constant, not tunable per request. The severity cut points partition
// [MatchThreshold, 1.0] with no gaps; boundary values round up to the
// higher tier.
const (
	MatchThreshold  = 0.7
	mediumThreshold = 0.8
	highThreshold   = 0.9
)

// SeverityForProbability maps a match probability onto a tier. The second
// return is false when the probability is below the match threshold, in
// which case no severity applies.
func SeverityForProbability(p float64) (Severity, bool) {
	switch {
	case p >= highThreshold:
		return SeverityHigh, true
	case p >= mediumThreshold:
		return SeverityMedium, true
	case p >= MatchThreshold:
		return SeverityLow, true
	}
	return "", false
}

// String implements fmt.Stringer.
func (s Severity) String() string {
	return string(s)
}
