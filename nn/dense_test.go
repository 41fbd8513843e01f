package nn

import (
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// TestNewNetworkShapes verifies every tensor follows the composition
func TestNewNetworkShapes(t *testing.T) {
	n := newTestNetwork(t, testHyperParams(3, 5, 2))

	expected := [][2]int{{5, 3}, {2, 5}}
	for layer, dims := range expected {
		r, c := n.weights[layer].Dims()
		if r != dims[0] || c != dims[1] {
			t.Errorf("Layer %d: expected weights %dx%d, got %dx%d", layer, dims[0], dims[1], r, c)
		}
		if len(n.biases[layer]) != dims[0] {
			t.Errorf("Layer %d: expected %d biases, got %d", layer, dims[0], len(n.biases[layer]))
		}
		for _, b := range n.biases[layer] {
			if b != 0 {
				t.Errorf("Layer %d: expected zero biases, got %v", layer, n.biases[layer])
				break
			}
		}
		for _, w := range n.weights[layer].RawMatrix().Data {
			if w < -1 || w > 1 {
				t.Errorf("Layer %d: weight %g outside [-1, 1]", layer, w)
			}
		}
	}

	if len(n.dropoutMask) != 3 || len(n.dropoutMask[0]) != 3 || len(n.dropoutMask[2]) != 2 {
		t.Errorf("Unexpected dropout mask layout: %v", n.dropoutMask)
	}

	weights, biases := n.ParameterCount()
	if weights != 25 || biases != 7 {
		t.Errorf("Expected 25 weights and 7 biases, got %d and %d", weights, biases)
	}

	if n.Iteration() != 0 {
		t.Errorf("Expected iteration 0, got %d", n.Iteration())
	}
	if n.Alpha() != 0.01 {
		t.Errorf("Expected alpha 0.01, got %g", n.Alpha())
	}
}

// TestNewNetworkSeed verifies a fixed seed reproduces the initial weights
func TestNewNetworkSeed(t *testing.T) {
	hp := testHyperParams(4, 3, 2)
	a := newTestNetwork(t, hp)
	b := newTestNetwork(t, hp)

	for layer := range a.weights {
		if !mat.Equal(a.weights[layer], b.weights[layer]) {
			t.Errorf("Layer %d: same seed produced different weights", layer)
		}
	}

	hp.Seed = 2
	c := newTestNetwork(t, hp)
	if mat.Equal(a.weights[0], c.weights[0]) {
		t.Error("Different seeds produced identical weights")
	}
}

// TestNewNetworkErrors verifies invalid configurations build nothing
func TestNewNetworkErrors(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(hp *HyperParams)
		expected error
	}{
		{"single layer", func(hp *HyperParams) { hp.Composition = []int{3} }, ErrInvalidComposition},
		{"empty layer", func(hp *HyperParams) { hp.Composition = []int{3, 0} }, ErrInvalidComposition},
		{"activation count", func(hp *HyperParams) { hp.Activations = hp.Activations[:1] }, ErrLayerActivationCountMismatch},
		{"unknown activation", func(hp *HyperParams) { hp.Activations[0] = ActivationType(99) }, ErrUnknownActivation},
		{"batch size", func(hp *HyperParams) { hp.BatchSize = 0 }, ErrInvalidHyperParams},
		{"dropout rate", func(hp *HyperParams) { hp.Regularization.Dropout.HiddenLayer = 1 }, ErrInvalidHyperParams},
		{"beta", func(hp *HyperParams) { hp.Optimizer.Beta2 = 1 }, ErrInvalidHyperParams},
		{"step", func(hp *HyperParams) {
			hp.LearningRate.Decay = &Decay{Method: DecayStep, Rate: 0.5}
		}, ErrInvalidHyperParams},
		{"restart", func(hp *HyperParams) { hp.LearningRate.Restart = &Restart{Alpha: 0.1} }, ErrInvalidHyperParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hp := testHyperParams(3, 4, 2)
			tt.modify(&hp)

			n, err := NewNetwork(hp)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
			if n != nil {
				t.Error("Expected no network on error")
			}
		})
	}
}

// TestNewNetworkCopiesConfig verifies the caller's slices are not shared
func TestNewNetworkCopiesConfig(t *testing.T) {
	hp := testHyperParams(2, 3, 1)
	n := newTestNetwork(t, hp)

	hp.Composition[1] = 100
	hp.Activations[0] = ActivationSigmoid

	if n.Composition()[1] != 3 {
		t.Errorf("Composition changed with the caller's slice: %v", n.Composition())
	}
	if n.HyperParams().Activations[0] != ActivationLeakyReLU001 {
		t.Error("Activations changed with the caller's slice")
	}
}

// TestAccessorsReturnCopies verifies accessors cannot mutate the network
func TestAccessorsReturnCopies(t *testing.T) {
	n := newTestNetwork(t, testHyperParams(2, 2))

	w := n.Weights(0)
	w.Set(0, 0, 42)
	if n.weights[0].At(0, 0) == 42 {
		t.Error("Weights returned a view")
	}

	b := n.Biases(0)
	b[0] = 42
	if n.biases[0][0] == 42 {
		t.Error("Biases returned a view")
	}
}

// TestExtractBlueprint verifies the statistics summary
func TestExtractBlueprint(t *testing.T) {
	hp := testHyperParams(4, 3, 2)
	hp.Activations = []ActivationType{ActivationTanh, ActivationSigmoid}
	hp.LearningRate.Decay = &Decay{Method: DecayExponential, Rate: 0.9}
	n := newTestNetwork(t, hp)

	bp := ExtractBlueprint(n)
	if bp.InputSize != 4 || bp.OutputSize != 2 || len(bp.Hidden) != 1 || bp.Hidden[0] != 3 {
		t.Errorf("Unexpected sizes: %+v", bp)
	}
	if bp.Weights != 18 || bp.Biases != 5 {
		t.Errorf("Expected 18 weights and 5 biases, got %d and %d", bp.Weights, bp.Biases)
	}
	if len(bp.Layers) != 2 {
		t.Fatalf("Expected 2 layers, got %d", len(bp.Layers))
	}
	if bp.Layers[0].Activation != "TANH" || bp.Layers[1].Activation != "SIGMOID" {
		t.Errorf("Unexpected activations: %+v", bp.Layers)
	}
	if bp.Layers[0].Parameters != 15 || bp.Layers[1].Parameters != 8 {
		t.Errorf("Unexpected parameter counts: %+v", bp.Layers)
	}
	if bp.Schedule != "ExponentialDecay(0.9)" {
		t.Errorf("Unexpected schedule name %q", bp.Schedule)
	}
}
