package model

import "testing"

func TestSeverityForProbability(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		p        float64
		severity Severity
		ok       bool
	}{
		{"below threshold", 0.69, "", false},
		{"zero", 0.0, "", false},
		{"exact low boundary", 0.7, SeverityLow, true},
		{"mid low", 0.75, SeverityLow, true},
		{"just under medium", 0.7999, SeverityLow, true},
		{"exact medium boundary", 0.8, SeverityMedium, true},
		{"mid medium", 0.85, SeverityMedium, true},
		{"just under high", 0.8999, SeverityMedium, true},
		{"exact high boundary", 0.9, SeverityHigh, true},
		{"certain", 1.0, SeverityHigh, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			severity, ok := SeverityForProbability(tc.p)
			if ok != tc.ok {
				t.Fatalf("SeverityForProbability(%v) ok = %v, expected %v", tc.p, ok, tc.ok)
			}
			if severity != tc.severity {
				t.Errorf("SeverityForProbability(%v) = %q, expected %q", tc.p, severity, tc.severity)
			}
		})
	}
}

func TestNewInferenceResult(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		p        float64
		isMatch  bool
		severity Severity
	}{
		{"no match", 0.3, false, ""},
		{"just below threshold", 0.6999, false, ""},
		{"boundary match is low", 0.7, true, SeverityLow},
		{"medium", 0.85, true, SeverityMedium},
		{"high", 0.95, true, SeverityHigh},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := NewInferenceResult(tc.p)
			if result.IsMatch != tc.isMatch {
				t.Errorf("IsMatch = %v, expected %v", result.IsMatch, tc.isMatch)
			}
			if result.Probability != tc.p {
				t.Errorf("Probability = %v, expected %v", result.Probability, tc.p)
			}
			if result.Severity != tc.severity {
				t.Errorf("Severity = %q, expected %q", result.Severity, tc.severity)
			}
		})
	}
}

// Severity must be absent from the wire format whenever the image did not
// match the claimed category.
func TestInferenceResultSeverityPresence(t *testing.T) {
	t.Parallel()

	for p := 0.0; p <= 1.0; p += 0.05 {
		result := NewInferenceResult(p)
		if result.IsMatch && result.Severity == "" {
			t.Errorf("probability %v: match without severity", p)
		}
		if !result.IsMatch && result.Severity != "" {
			t.Errorf("probability %v: severity %q on a non-match", p, result.Severity)
		}
	}
}
