package nn

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestConsoleObserver verifies the per-epoch line and the early-stop summary
func TestConsoleObserver(t *testing.T) {
	var buf bytes.Buffer
	o := NewConsoleObserver(&buf)

	o.OnEpoch(EpochReport{Epoch: 1, Alpha: 0.01, Accuracy: 0.5, Cost: 0.25, Elapsed: time.Second})
	if expected := "[01] Accuracy:  50.00%, Avg. Cost: 0.250, Alpha: 0.010000, Elapsed: 1s\n"; buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}

	buf.Reset()
	o.OnEpoch(EpochReport{Epoch: 4, Accuracy: 0.9, Elapsed: 2 * time.Second, EarlyStop: true})
	if !strings.Contains(buf.String(), "Early stop after 4 epochs, avg. duration: 500ms") {
		t.Errorf("Missing early stop summary in %q", buf.String())
	}
}

// TestChannelObserver verifies reports are delivered and dropped when full
func TestChannelObserver(t *testing.T) {
	o := NewChannelObserver(1)
	o.OnEpoch(EpochReport{Epoch: 1})
	o.OnEpoch(EpochReport{Epoch: 2})

	if r := <-o.Reports; r.Epoch != 1 {
		t.Errorf("Expected epoch 1, got %d", r.Epoch)
	}
	select {
	case r := <-o.Reports:
		t.Errorf("Expected the second report to be dropped, got epoch %d", r.Epoch)
	default:
	}
}

// TestHTTPObserver verifies reports are posted as JSON
func TestHTTPObserver(t *testing.T) {
	received := make(chan EpochReport, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var report EpochReport
		if err := json.NewDecoder(r.Body).Decode(&report); err == nil {
			received <- report
		}
	}))
	defer server.Close()

	NewHTTPObserver(server.URL).OnEpoch(EpochReport{Epoch: 3, Accuracy: 0.75})

	select {
	case r := <-received:
		if r.Epoch != 3 || r.Accuracy != 0.75 {
			t.Errorf("Unexpected report %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No report received")
	}
}
