package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/xrsl/reachout/pkg/drafting"
)

func TestTransitions(t *testing.T) {
	r := New(nil)
	r.Transition("start", "content_generation")
	r.Transition("start", "content_generation")
	r.Transition("review", "dispatch")

	if got := testutil.ToFloat64(r.transitionsTotal.WithLabelValues("start", "content_generation")); got != 2 {
		t.Errorf("start>content_generation = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(r.transitionsTotal); got != 2 {
		t.Errorf("series = %d, want 2", got)
	}
}

func TestGenerationOutcomes(t *testing.T) {
	r := New(nil)
	tests := []struct {
		err     error
		status  string
		errType string
	}{
		{nil, "success", ""},
		{&drafting.SchemaError{Channel: drafting.Email, Field: "body", Reason: "too long"}, "error", "schema"},
		{&drafting.GenerationError{Stage: "email", Err: errors.New("timeout")}, "error", "generation"},
		{errors.New("boom"), "error", "other"},
	}
	for _, tt := range tests {
		r.Generation("email", 2*time.Second, tt.err)
		if got := testutil.ToFloat64(r.generationsTotal.WithLabelValues("email", tt.status, tt.errType)); got != 1 {
			t.Errorf("%v: counter(%s,%s) = %v, want 1", tt.err, tt.status, tt.errType, got)
		}
	}
	if got := testutil.CollectAndCount(r.generationDuration); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
}

func TestDeliveries(t *testing.T) {
	r := New(nil)
	r.Delivery("email", nil)
	r.Delivery("email", errors.New("smtp down"))
	r.Delivery("cover_letter", nil)

	expected := `
# HELP reachout_deliveries_total Dispatch attempts by content type and outcome
# TYPE reachout_deliveries_total counter
reachout_deliveries_total{content_type="cover_letter",status="success"} 1
reachout_deliveries_total{content_type="email",status="error"} 1
reachout_deliveries_total{content_type="email",status="success"} 1
`
	if err := testutil.CollectAndCompare(r.deliveriesTotal, strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New(nil)
	r.Transition("review", "terminal")
	path := filepath.Join(t.TempDir(), "reachout.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `reachout_transitions_total{from="review",to="terminal"} 1`) {
		t.Errorf("textfile missing transition:\n%s", data)
	}
}
