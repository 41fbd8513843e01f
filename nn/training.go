package nn

import (
	"time"

	"github.com/pkg/errors"
)

// DefaultMaxEpochs bounds training when HyperParams.MaxEpochs is 0
const DefaultMaxEpochs = 1000

// TrainingResult contains training statistics
type TrainingResult struct {
	State           TrainingState
	Epochs          int
	Iterations      int
	FinalAccuracy   float64
	FinalCost       float64
	FinalAlpha      float64
	TotalTime       time.Duration // training time, validation excluded
	AccuracyHistory []float64
	CostHistory     []float64
}

// TrainSample advances the shared iteration counter and runs one forward and
// one backward pass. The proposed parameters land in the batch accumulator.
func (n *Network) TrainSample(inputs, targets []float64) {
	n.optimizer.Iteration++
	n.Forward(inputs)
	n.Backward(inputs, targets)
}

// TrainEpoch runs one pass over the training data in contiguous chunks of the
// configured batch size. A new dropout mask is drawn for every chunk and the
// parameters are replaced by the chunk mean after it.
func (n *Network) TrainEpoch(train Samples) {
	batchSize := n.hyperParams.BatchSize

	for start := 0; start < train.Len(); start += batchSize {
		end := start + batchSize
		if end > train.Len() {
			end = train.Len()
		}

		n.GenerateDropoutMask()
		for i := start; i < end; i++ {
			n.TrainSample(train.Inputs[i], train.Targets[i])
		}

		n.BatchUpdate(end - start)
	}
}

// Train runs epochs until the early-stopping criterion holds (Converged) or
// the max-epoch bound is reached (Exhausted). After every epoch the network is
// evaluated on the validation data and the observers are notified; then, if
// training continues, the learning rate is updated. On return all dropout
// masks are active, and with post-training dropout scaling the parameters have
// been rescaled exactly once.
func (n *Network) Train(train, validation Samples, observers ...Observer) (*TrainingResult, error) {
	if err := checkSamples(train, n.composition); err != nil {
		return nil, errors.WithMessage(err, "training data")
	}
	if err := checkSamples(validation, n.composition); err != nil {
		return nil, errors.WithMessage(err, "validation data")
	}

	maxEpochs := n.hyperParams.MaxEpochs
	if maxEpochs <= 0 {
		maxEpochs = DefaultMaxEpochs
	}

	result := &TrainingResult{
		State:           TrainingRunning,
		AccuracyHistory: make([]float64, 0),
		CostHistory:     make([]float64, 0),
	}

	var duration time.Duration

	for epoch := 1; result.State == TrainingRunning; epoch++ {
		timestamp := time.Now()
		n.TrainEpoch(train)
		duration += time.Since(timestamp)

		accuracy, cost := n.Evaluate(validation)
		earlyStop := n.EarlyStop(accuracy)

		result.Epochs = epoch
		result.AccuracyHistory = append(result.AccuracyHistory, accuracy)
		result.CostHistory = append(result.CostHistory, cost)
		result.FinalAccuracy = accuracy
		result.FinalCost = cost

		report := EpochReport{
			Epoch:     epoch,
			Alpha:     n.schedule.Alpha(),
			Accuracy:  accuracy,
			Cost:      cost,
			Elapsed:   duration,
			EarlyStop: earlyStop,
		}
		for _, observer := range observers {
			observer.OnEpoch(report)
		}

		switch {
		case earlyStop:
			result.State = TrainingConverged
		case epoch >= maxEpochs:
			result.State = TrainingExhausted
		default:
			n.schedule.Update(epoch)
		}
	}

	n.finalizeTraining()

	result.Iterations = n.optimizer.Iteration
	result.FinalAlpha = n.schedule.Alpha()
	result.TotalTime = duration

	return result, nil
}

// finalizeTraining switches to inference masks and applies the one-time
// rescale of the post-training dropout strategy
func (n *Network) finalizeTraining() {
	n.SetAllActiveDropoutMask()

	if n.hyperParams.Regularization.Dropout.Scaling == DropoutPostTraining {
		n.inverseDropout()
	}
}

// checkSamples verifies alignment and widths of a data set against the composition
func checkSamples(data Samples, composition []int) error {
	if len(data.Inputs) != len(data.Targets) {
		return errors.Wrapf(ErrSampleCountMismatch, "%d inputs, %d targets", len(data.Inputs), len(data.Targets))
	}

	inputs := composition[0]
	outputs := composition[len(composition)-1]
	for i := range data.Inputs {
		if len(data.Inputs[i]) != inputs {
			return errors.Wrapf(ErrInvalidComposition, "sample %d has %d inputs, network expects %d", i, len(data.Inputs[i]), inputs)
		}
		if len(data.Targets[i]) != outputs {
			return errors.Wrapf(ErrInvalidComposition, "sample %d has %d targets, network expects %d", i, len(data.Targets[i]), outputs)
		}
	}
	return nil
}
