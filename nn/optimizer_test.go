package nn

import (
	"math"
	"testing"
)

// TestBatchUpdateMean verifies parameters become the mean of the proposals
// and the accumulator is cleared
func TestBatchUpdateMean(t *testing.T) {
	n := newTestNetwork(t, testHyperParams(2, 1))

	n.batch.WeightUpdates[0].Set(0, 0, 3)
	n.batch.WeightUpdates[0].Set(0, 1, -1.5)
	n.batch.BiasUpdates[0][0] = 0.9

	n.BatchUpdate(3)

	if n.weights[0].At(0, 0) != 1 || n.weights[0].At(0, 1) != -0.5 {
		t.Errorf("Expected weights [1 -0.5], got [%g %g]", n.weights[0].At(0, 0), n.weights[0].At(0, 1))
	}
	if !almostEqual(n.biases[0][0], 0.3, 1e-15) {
		t.Errorf("Expected bias 0.3, got %g", n.biases[0][0])
	}

	for _, v := range n.batch.WeightUpdates[0].RawMatrix().Data {
		if v != 0 {
			t.Fatal("Weight accumulator was not reset")
		}
	}
	if n.batch.BiasUpdates[0][0] != 0 {
		t.Error("Bias accumulator was not reset")
	}
}

// TestBatchUpdateRemainderChunk verifies a short final chunk is averaged over
// its own size rather than the configured batch size
func TestBatchUpdateRemainderChunk(t *testing.T) {
	hp := testHyperParams(1, 1)
	hp.BatchSize = 4
	n := newIdentityNetwork(t, hp, [][][]float64{{{0}}}, nil)

	// zero inputs keep the weight proposal at its current value
	train := Samples{
		Inputs:  [][]float64{{0}, {0}, {0}, {0}, {0}},
		Targets: [][]float64{{0}, {0}, {0}, {0}, {0}},
	}
	n.weights[0].Set(0, 0, 2)
	n.TrainEpoch(train)

	if n.Iteration() != 5 {
		t.Errorf("Expected 5 iterations, got %d", n.Iteration())
	}
	if n.weights[0].At(0, 0) != 2 {
		t.Errorf("Expected weight 2 after averaged proposals, got %g", n.weights[0].At(0, 0))
	}
}

// TestAdamCorrection verifies the iteration is clamped to 1
func TestAdamCorrection(t *testing.T) {
	opt := NewAdam([]int{1, 1})
	params := DefaultAdamHyperParams()

	bc := opt.correction(params)
	if !almostEqual(bc.first, 0.1, 1e-15) || !almostEqual(bc.second, 0.001, 1e-15) {
		t.Errorf("Expected correction (0.1, 0.001) at iteration 0, got (%g, %g)", bc.first, bc.second)
	}

	opt.Iteration = 2
	bc = opt.correction(params)
	if !almostEqual(bc.first, 1-0.81, 1e-15) {
		t.Errorf("Expected first correction 0.19, got %g", bc.first)
	}
}

// TestAdamStep verifies the moments and the returned direction
func TestAdamStep(t *testing.T) {
	params := DefaultAdamHyperParams()
	opt := NewAdam([]int{1, 1})
	opt.Iteration = 1
	bc := opt.correction(params)

	var m1, m2 float64
	direction := params.step(&m1, &m2, -4, bc)

	if !almostEqual(m1, -0.4, 1e-15) || !almostEqual(m2, 0.016, 1e-15) {
		t.Errorf("Expected moments (-0.4, 0.016), got (%g, %g)", m1, m2)
	}
	if !almostEqual(direction, -1, 1e-8) {
		t.Errorf("Expected direction -1, got %g", direction)
	}

	direction = params.step(&m1, &m2, 0, opt.correction(params))
	if math.IsNaN(direction) || direction >= 0 {
		t.Errorf("Expected a negative direction from momentum, got %g", direction)
	}
}
