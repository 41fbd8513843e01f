package nn

import (
	"testing"
)

// identity passes the net input through, which keeps hand-computed
// expectations simple
var identity = activationFunc{
	kind:       ActivationLeakyReLU001,
	apply:      func(x float64) float64 { return x },
	derivative: func(float64) float64 { return 1 },
}

// testHyperParams returns an unregularized setup with a fixed seed
func testHyperParams(composition ...int) HyperParams {
	activations := make([]ActivationType, len(composition)-1)
	for i := range activations {
		activations[i] = ActivationLeakyReLU001
	}

	return HyperParams{
		Composition:  composition,
		Activations:  activations,
		LearningRate: LearningRate{Alpha: 0.01},
		Optimizer:    DefaultAdamHyperParams(),
		BatchSize:    1,
		MaxEpochs:    10,
		Seed:         1,
	}
}

func newTestNetwork(t *testing.T, hp HyperParams) *Network {
	t.Helper()
	n, err := NewNetwork(hp)
	if err != nil {
		t.Fatalf("NewNetwork failed: %v", err)
	}
	return n
}

// newIdentityNetwork builds a network whose layers all use the identity
// activation and whose parameters are set from the given rows and biases
func newIdentityNetwork(t *testing.T, hp HyperParams, weights [][][]float64, biases [][]float64) *Network {
	t.Helper()
	n := newTestNetwork(t, hp)

	for layer := range n.activations {
		n.activations[layer] = identity
	}
	for layer, rows := range weights {
		for neuron, row := range rows {
			copy(n.weights[layer].RawRowView(neuron), row)
		}
	}
	for layer, b := range biases {
		copy(n.biases[layer], b)
	}
	n.SetAllActiveDropoutMask()
	return n
}

func almostEqual(a, b, tolerance float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}
