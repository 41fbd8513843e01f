package nn

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Backward propagates the error of the last forward pass and folds one Adam
// step per parameter into the batch accumulator. The live weights and biases
// are left untouched until BatchUpdate. The first layer sees the inputs
// through the same input mask as the forward pass.
func (n *Network) Backward(inputs, targets []float64) {
	n.computeCosts(targets)

	source := maskedInputs(inputs, n.dropoutMask[0])
	bc := n.optimizer.correction(n.hyperParams.Optimizer)
	for layer := len(n.weights) - 1; layer >= 0; layer-- {
		n.backwardPass(layer, source, bc)
	}
}

// computeCosts sets output - target on the output layer, then the
// transpose-weighted sum of the downstream costs on every hidden layer
func (n *Network) computeCosts(targets []float64) {
	last := len(n.costs) - 1
	floats.SubTo(n.costs[last], n.outputs[last], targets)

	for layer := last - 1; layer >= 0; layer-- {
		downstream := mat.NewVecDense(len(n.costs[layer+1]), n.costs[layer+1])
		cost := mat.NewVecDense(len(n.costs[layer]), n.costs[layer])
		cost.MulVec(n.weights[layer+1].T(), downstream)
	}
}

func (n *Network) backwardPass(layer int, inputs []float64, bc biasCorrection) {
	reg := n.hyperParams.Regularization
	adam := n.hyperParams.Optimizer
	alpha := n.schedule.Alpha()
	maxNorm := reg.MaxNormConstraint

	source := inputs
	if layer > 0 {
		source = n.outputs[layer-1]
	}

	weights := n.weights[layer]
	biases := n.biases[layer]
	netInputs := n.netInputs[layer]
	costs := n.costs[layer]
	activation := n.activations[layer]

	moment1Weights := n.optimizer.Moment1.Weights[layer]
	moment2Weights := n.optimizer.Moment2.Weights[layer]
	moment1Biases := n.optimizer.Moment1.Biases[layer]
	moment2Biases := n.optimizer.Moment2.Biases[layer]
	weightUpdates := n.batch.WeightUpdates[layer]
	biasUpdates := n.batch.BiasUpdates[layer]

	for neuron, cost := range costs {
		slope := activation.Derivative(netInputs[neuron])

		row := weights.RawRowView(neuron)
		moment1Row := moment1Weights.RawRowView(neuron)
		moment2Row := moment2Weights.RawRowView(neuron)
		updateRow := weightUpdates.RawRowView(neuron)

		// norm of the row before this sample's update
		norm := floats.Norm(row, 2)
		clip := maxNorm > 0 && norm > maxNorm

		for i, weight := range row {
			gradient := (cost + elasticNet(reg.ElasticNet.Weights, weight)) * slope * source[i]
			direction := adam.step(&moment1Row[i], &moment2Row[i], gradient, bc)

			updateRow[i] += weight - alpha*direction
			if clip {
				updateRow[i] *= maxNorm / norm
			}
		}

		bias := biases[neuron]
		gradient := (cost + elasticNet(reg.ElasticNet.Biases, bias)) * slope
		direction := adam.step(&moment1Biases[neuron], &moment2Biases[neuron], gradient, bc)

		biasUpdates[neuron] += bias - alpha*direction
	}
}
