package models

import (
	"math"
	"testing"
)

func TestNewHalsteadMetrics(t *testing.T) {
	tests := []struct {
		name           string
		n1, n2, N1, N2 int
		wantVocab      int
		wantLength     int
		wantVolume     float64
		wantDifficulty float64
	}{
		{
			name: "typical program",
			n1:   4, n2: 12, N1: 20, N2: 40,
			wantVocab:  16,
			wantLength: 60,
			wantVolume: 60 * 4, // log2(16) = 4
			// (4/2) * (40/12)
			wantDifficulty: 2 * (40.0 / 12.0),
		},
		{
			name: "no operands",
			n1:   3, n2: 0, N1: 5, N2: 0,
			wantVocab:      3,
			wantLength:     5,
			wantVolume:     5 * math.Log2(3),
			wantDifficulty: 0, // guarded n2 = 0
		},
		{
			name: "empty program",
			n1:   0, n2: 0, N1: 0, N2: 0,
			wantVocab: 0, wantLength: 0, wantVolume: 0, wantDifficulty: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHalsteadMetrics(tt.n1, tt.n2, tt.N1, tt.N2)
			if h.Vocabulary != tt.wantVocab {
				t.Errorf("Vocabulary = %d, want %d", h.Vocabulary, tt.wantVocab)
			}
			if h.Length != tt.wantLength {
				t.Errorf("Length = %d, want %d", h.Length, tt.wantLength)
			}
			if math.Abs(h.Volume-tt.wantVolume) > 1e-9 {
				t.Errorf("Volume = %f, want %f", h.Volume, tt.wantVolume)
			}
			if math.Abs(h.Difficulty-tt.wantDifficulty) > 1e-9 {
				t.Errorf("Difficulty = %f, want %f", h.Difficulty, tt.wantDifficulty)
			}
			if want := h.Volume * h.Difficulty; math.Abs(h.Effort-want) > 1e-9 {
				t.Errorf("Effort = %f, want %f", h.Effort, want)
			}
		})
	}
}

func TestMetricsReportValues(t *testing.T) {
	m := &MetricsReport{
		CyclomaticComplexity: 7,
		Halstead:             NewHalsteadMetrics(4, 10, 20, 30),
		Unavailable:          []string{"maintainability_index"},
	}

	values := m.Values()
	if _, ok := values["maintainability_index"]; ok {
		t.Error("Values() includes unavailable metric")
	}
	if got := values["cyclomatic_complexity"]; got != 7 {
		t.Errorf("cyclomatic_complexity = %f, want 7", got)
	}
	if !m.Available("cyclomatic_complexity") {
		t.Error("Available(cyclomatic_complexity) = false, want true")
	}
	if m.Available("maintainability_index") {
		t.Error("Available(maintainability_index) = true, want false")
	}
}

func TestFingerprintIdempotent(t *testing.T) {
	build := func() *AnalysisResult {
		return &AnalysisResult{
			ProgramName: "PAYROLL",
			Status:      StatusSuccess,
			Issues: []Issue{
				{Kind: IssueStructuralViolation, Severity: SeverityWarning, Message: "x"},
			},
		}
	}

	a, err := build().Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	b, err := build().Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	if a != b {
		t.Errorf("fingerprints differ: %s vs %s", a, b)
	}

	other := build()
	other.ProgramName = "BILLING"
	c, _ := other.Fingerprint()
	if a == c {
		t.Error("distinct results share a fingerprint")
	}
}
