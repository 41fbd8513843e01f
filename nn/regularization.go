package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// elasticNet returns l1*|v| + l2*v², the penalty term added to a gradient
func elasticNet(r ElasticNetRegularizer, value float64) float64 {
	return r.L1*math.Abs(value) + r.L2*value*value
}

// initDropoutMask creates one mask per layer including the virtual input
// layer. Every mask starts at zero except the output layer, which is fixed at 1.
func initDropoutMask(composition []int) [][]float64 {
	mask := zeroVectors(composition, 0)
	fill(mask[len(mask)-1], 1)
	return mask
}

// keepValue is the value a kept neuron gets in the mask for the given drop rate
func (d Dropout) keepValue(rate float64) float64 {
	if d.Scaling == DropoutPostTraining {
		return 1
	}
	return 1.0 / (1.0 - rate)
}

// GenerateDropoutMask draws a fresh Bernoulli mask with keep probability 1 - rate
// for the input layer and every hidden layer. The output layer mask is never drawn.
func (n *Network) GenerateDropoutMask() {
	dropout := n.hyperParams.Regularization.Dropout
	last := len(n.dropoutMask) - 1

	for layer := 0; layer < last; layer++ {
		rate := dropout.HiddenLayer
		if layer == 0 {
			rate = dropout.InputLayer
		}
		n.drawMask(n.dropoutMask[layer], rate, dropout.keepValue(rate))
	}
}

func (n *Network) drawMask(mask []float64, rate, keep float64) {
	if rate <= 0 {
		fill(mask, 1)
		return
	}

	draw := distuv.Bernoulli{P: 1 - rate, Src: n.rng}
	for i := range mask {
		mask[i] = draw.Rand() * keep
	}
}

// SetAllActiveDropoutMask switches every mask to 1 for inference
func (n *Network) SetAllActiveDropoutMask() {
	for _, mask := range n.dropoutMask {
		fill(mask, 1)
	}
}

// inverseDropout multiplies the weights and biases of every layer once by the
// inverse keep probability of the layer feeding it. Only used by the
// post-training scaling strategy.
func (n *Network) inverseDropout() {
	dropout := n.hyperParams.Regularization.Dropout

	for layer, weights := range n.weights {
		rate := dropout.HiddenLayer
		if layer == 0 {
			rate = dropout.InputLayer
		}
		factor := 1.0 / (1.0 - rate)

		weights.Scale(factor, weights)
		floats.Scale(factor, n.biases[layer])
	}
}
