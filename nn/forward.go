package nn

import (
	"gonum.org/v1/gonum/floats"
)

// Forward runs the network on one sample with the current dropout mask,
// overwriting the net inputs and outputs of every layer.
// The caller guarantees len(inputs) == composition[0].
func (n *Network) Forward(inputs []float64) {
	n.forward(inputs, n.dropoutMask)
}

// forward computes net input = dot(source, row) * mask + bias for every neuron.
// mask[0] applies to the input values, mask[i+1] to the neurons of layer i.
func (n *Network) forward(inputs []float64, mask [][]float64) {
	source := maskedInputs(inputs, mask[0])

	for layer := range n.weights {
		weights := n.weights[layer]
		bias := n.biases[layer]
		layerMask := mask[layer+1]
		netInput := n.netInputs[layer]
		output := n.outputs[layer]
		activation := n.activations[layer]

		for neuron := range netInput {
			netInput[neuron] = floats.Dot(source, weights.RawRowView(neuron))*layerMask[neuron] + bias[neuron]
			output[neuron] = activation.Apply(netInput[neuron])
		}

		source = output
	}
}

// maskedInputs returns inputs ⊙ mask, or inputs itself when the mask keeps
// every value unscaled
func maskedInputs(inputs, mask []float64) []float64 {
	if allOnes(mask) {
		return inputs
	}
	masked := make([]float64, len(inputs))
	floats.MulTo(masked, inputs, mask)
	return masked
}
