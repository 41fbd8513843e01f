package nn

import (
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// NewNetwork builds a network with uniform random weights in [-1, 1] and every
// other tensor zeroed. Nothing is built when the hyper parameters are invalid.
func NewNetwork(hp HyperParams) (*Network, error) {
	if err := hp.Validate(); err != nil {
		return nil, err
	}

	activations, err := GetActivations(hp.Activations)
	if err != nil {
		return nil, err
	}

	seed := hp.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)

	composition := append([]int(nil), hp.Composition...)
	hp.Composition = composition
	hp.Activations = append([]ActivationType(nil), hp.Activations...)

	n := &Network{
		composition: composition,
		activations: activations,
		weights:     randomMatrices(composition, rng),
		biases:      zeroVectors(composition, 1),
		netInputs:   zeroVectors(composition, 1),
		outputs:     zeroVectors(composition, 1),
		costs:       zeroVectors(composition, 1),
		dropoutMask: initDropoutMask(composition),
		activeMask:  onesVectors(composition),
		optimizer:   NewAdam(composition),
		batch:       NewBatch(composition),
		schedule:    NewLearningRateSchedule(hp.LearningRate),
		performance: make([]float64, 0),
		hyperParams: hp,
		rng:         rng,
	}

	return n, nil
}

// checkComposition verifies that the composition describes at least one dense layer
func checkComposition(composition []int) error {
	if len(composition) < 2 {
		return errors.Wrapf(ErrInvalidComposition, "need at least 2 layers, got %d", len(composition))
	}
	for i, width := range composition {
		if width < 1 {
			return errors.Wrapf(ErrInvalidComposition, "layer %d has width %d", i, width)
		}
	}
	return nil
}

// randomMatrices creates one [composition[i+1] × composition[i]] matrix per layer,
// drawn uniformly from [-1, 1]
func randomMatrices(composition []int, src rand.Source) []*mat.Dense {
	dist := distuv.Uniform{Min: -1, Max: 1, Src: src}

	matrices := make([]*mat.Dense, len(composition)-1)
	for i := 1; i < len(composition); i++ {
		data := make([]float64, composition[i]*composition[i-1])
		for j := range data {
			data[j] = dist.Rand()
		}
		matrices[i-1] = mat.NewDense(composition[i], composition[i-1], data)
	}
	return matrices
}

// zeroMatrices creates zeroed matrices shaped like the weights
func zeroMatrices(composition []int) []*mat.Dense {
	matrices := make([]*mat.Dense, len(composition)-1)
	for i := 1; i < len(composition); i++ {
		matrices[i-1] = mat.NewDense(composition[i], composition[i-1], nil)
	}
	return matrices
}

// zeroVectors creates one zeroed vector per layer, skipping the first `skip` layers
func zeroVectors(composition []int, skip int) [][]float64 {
	vectors := make([][]float64, 0, len(composition)-skip)
	for _, width := range composition[skip:] {
		vectors = append(vectors, make([]float64, width))
	}
	return vectors
}

// onesVectors creates one all-ones vector per layer, input layer included
func onesVectors(composition []int) [][]float64 {
	vectors := zeroVectors(composition, 0)
	for _, v := range vectors {
		fill(v, 1)
	}
	return vectors
}

// Composition returns the neuron count of every layer, input layer first
func (n *Network) Composition() []int {
	return append([]int(nil), n.composition...)
}

// HyperParams returns the configuration the network was built with
func (n *Network) HyperParams() HyperParams {
	return n.hyperParams
}

// Activations returns the activation of every non-input layer
func (n *Network) Activations() []Activation {
	return append([]Activation(nil), n.activations...)
}

// Weights returns a copy of the weight matrix of a layer
func (n *Network) Weights(layer int) *mat.Dense {
	return mat.DenseCopyOf(n.weights[layer])
}

// Biases returns a copy of the bias vector of a layer
func (n *Network) Biases(layer int) []float64 {
	return append([]float64(nil), n.biases[layer]...)
}

// Output returns a copy of the output layer values of the last forward pass
func (n *Network) Output() []float64 {
	return append([]float64(nil), n.outputs[len(n.outputs)-1]...)
}

// Iteration returns the number of training samples processed so far
func (n *Network) Iteration() int {
	return n.optimizer.Iteration
}

// Alpha returns the current learning rate
func (n *Network) Alpha() float64 {
	return n.schedule.Alpha()
}

// Performance returns the validation accuracy of every finished epoch
func (n *Network) Performance() []float64 {
	return append([]float64(nil), n.performance...)
}

// ParameterCount returns the total number of weights and biases
func (n *Network) ParameterCount() (weights, biases int) {
	for i := 1; i < len(n.composition); i++ {
		weights += n.composition[i] * n.composition[i-1]
		biases += n.composition[i]
	}
	return weights, biases
}
