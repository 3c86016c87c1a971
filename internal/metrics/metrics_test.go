package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveDecision_Buckets(t *testing.T) {
	tests := []struct {
		name       string
		approved   bool
		limitCents int64
		wantBucket string
	}{
		{"declined", false, 0, "$0"},
		{"moderate", true, 10_000, "$0-$100"},
		{"acceptable", true, 40_000, "$100-$400"},
		{"low risk", true, 100_000, "$400+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecorder(prometheus.NewRegistry())
			rec.ObserveDecision(tt.approved, tt.limitCents)

			if got := testutil.ToFloat64(rec.limitBuckets.WithLabelValues(tt.wantBucket)); got != 1 {
				t.Errorf("bucket %q count = %v, want 1", tt.wantBucket, got)
			}

			outcome := "declined"
			if tt.approved {
				outcome = "approved"
			}
			if got := testutil.ToFloat64(rec.decisions.WithLabelValues(outcome)); got != 1 {
				t.Errorf("outcome %q count = %v, want 1", outcome, got)
			}
		})
	}
}

func TestCounters(t *testing.T) {
	rec := NewRecorder(prometheus.NewRegistry())

	rec.IncWebhookFailure()
	rec.IncWebhookFailure()
	rec.IncBankFetchFailure()
	rec.ObserveWebhookLatency(150 * time.Millisecond)

	if got := testutil.ToFloat64(rec.webhookFailures); got != 2 {
		t.Errorf("webhook failures = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.bankFailures); got != 1 {
		t.Errorf("bank failures = %v, want 1", got)
	}
}
