// Package nn provides a fully-connected feedforward network trainer.
//
// A network is described by its composition, the ordered neuron count of every
// layer with the input layer first:
//   - Every non-input layer is dense and owns one activation function
//   - Weights of layer i form a [composition[i+1] × composition[i]] matrix
//   - Row j of that matrix holds the incoming weights of neuron j
//
// Training is hand-derived backpropagation with an Adam-style optimizer,
// elastic-net regularization, max-norm clipping, dropout, mini-batch
// averaging, learning-rate decay with restarts and early stopping on the
// validation accuracy.
//
// Example usage:
//
//	hp := nn.DefaultHyperParams(784, 10)
//	network, err := nn.NewNetwork(hp)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := network.Train(train, validation, nn.NewConsoleObserver(os.Stdout))
//	accuracy, cost := network.Evaluate(test)
//
//	// Persist biases then weights, one value per line
//	err = network.Save(nn.DefaultParametersFile)
package nn
