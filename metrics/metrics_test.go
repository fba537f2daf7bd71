package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSubmission(t *testing.T) {
	validBefore := testutil.ToFloat64(submissions.WithLabelValues(OutcomeValid, "api"))
	invalidBefore := testutil.ToFloat64(submissions.WithLabelValues(OutcomeInvalid, "api"))
	emailBefore := testutil.ToFloat64(fieldErrors.WithLabelValues("email"))

	ObserveSubmission("api")
	ObserveSubmission("api", "email", "password")

	if got := testutil.ToFloat64(submissions.WithLabelValues(OutcomeValid, "api")) - validBefore; got != 1 {
		t.Errorf("valid delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(submissions.WithLabelValues(OutcomeInvalid, "api")) - invalidBefore; got != 1 {
		t.Errorf("invalid delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(fieldErrors.WithLabelValues("email")) - emailBefore; got != 1 {
		t.Errorf("email delta = %v, want 1", got)
	}
}

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"abc", 5, "abc"},
		{"abcdef", 3, "abc"},
		{"aé", 2, "a"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateUTF8(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateUTF8(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
