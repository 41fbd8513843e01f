package nn

import (
	"testing"
)

// TestEarlyStopPlateau verifies the criterion only triggers once the mean
// successive difference over the window drops to the threshold
func TestEarlyStopPlateau(t *testing.T) {
	hp := testHyperParams(1, 1)
	hp.EarlyStopping = EarlyStopping{StabilityThreshold: 0.001, Patience: 3}
	n := newTestNetwork(t, hp)

	history := []struct {
		accuracy float64
		stop     bool
	}{
		{0.5, false},
		{0.6, false}, // window not full
		{0.7, false}, // mean diff 0.2/3
		{0.7, false}, // mean diff 0.1/3
		{0.7, true},
	}

	for i, h := range history {
		if got := n.EarlyStop(h.accuracy); got != h.stop {
			t.Errorf("Epoch %d: expected %v, got %v", i+1, h.stop, got)
		}
	}

	if len(n.Performance()) != len(history) {
		t.Errorf("Expected %d recorded accuracies, got %d", len(history), len(n.Performance()))
	}
}

// TestEarlyStopDecline verifies a falling accuracy counts as a plateau
func TestEarlyStopDecline(t *testing.T) {
	criterion := EarlyStopping{StabilityThreshold: 0.001, Patience: 2}
	if !plateaued([]float64{0.9, 0.8}, criterion) {
		t.Error("Expected a decline to stop training")
	}
	if plateaued([]float64{0.8, 0.9}, criterion) {
		t.Error("Expected an improvement to continue training")
	}
}

// TestEarlyStopDisabled verifies a non-positive patience never stops
func TestEarlyStopDisabled(t *testing.T) {
	history := []float64{0.5, 0.5, 0.5, 0.5}
	for _, patience := range []int{0, -1} {
		if plateaued(history, EarlyStopping{StabilityThreshold: 1, Patience: patience}) {
			t.Errorf("Patience %d: expected no early stop", patience)
		}
	}
}
