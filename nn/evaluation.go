package nn

import (
	"gonum.org/v1/gonum/floats"
)

// Evaluate runs every sample with all neurons active and returns the share of
// samples whose arg-max output matches the arg-max of the one-hot target, and
// the mean over samples of 0.5 * Σ(target - output)². The dropout mask and the
// optimizer state are left untouched.
func (n *Network) Evaluate(data Samples) (accuracy, avgCost float64) {
	if data.Len() == 0 {
		return 0, 0
	}

	output := n.outputs[len(n.outputs)-1]
	correct := 0
	cost := 0.0

	for i, input := range data.Inputs {
		target := data.Targets[i]
		n.forward(input, n.activeMask)

		if argMax(output) == argMax(target) {
			correct++
		}

		for j, o := range output {
			diff := target[j] - o
			cost += 0.5 * diff * diff
		}
	}

	accuracy = float64(correct) / float64(data.Len())
	avgCost = cost / float64(data.Len())
	return accuracy, avgCost
}

// Predict runs one sample in inference mode and returns a copy of the output layer
func (n *Network) Predict(inputs []float64) []float64 {
	n.forward(inputs, n.activeMask)
	return n.Output()
}

// Classify returns the index of the strongest output for one sample
func (n *Network) Classify(inputs []float64) int {
	n.forward(inputs, n.activeMask)
	return argMax(n.outputs[len(n.outputs)-1])
}

// argMax returns the index of the largest value, the first one on ties
func argMax(v []float64) int {
	if len(v) == 0 {
		return -1
	}
	return floats.MaxIdx(v)
}
