package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ============================================================================
// Adam state
// ============================================================================

// Moment holds one Adam moment estimate per weight and per bias
type Moment struct {
	Weights []*mat.Dense
	Biases  [][]float64
}

// NewMoment creates zeroed moment estimates shaped like the parameters
func NewMoment(composition []int) Moment {
	return Moment{
		Weights: zeroMatrices(composition),
		Biases:  zeroVectors(composition, 1),
	}
}

// Adam holds the first and second moment estimates of every parameter and the
// iteration counter shared by the whole network. Iteration advances once per
// training sample, never per layer.
type Adam struct {
	Iteration int
	Moment1   Moment
	Moment2   Moment
}

// NewAdam creates an optimizer state with zeroed moments
func NewAdam(composition []int) *Adam {
	return &Adam{
		Iteration: 0,
		Moment1:   NewMoment(composition),
		Moment2:   NewMoment(composition),
	}
}

// biasCorrection holds 1 - beta^k for both moments at the current iteration k
type biasCorrection struct {
	first  float64
	second float64
}

func (opt *Adam) correction(params AdamHyperParams) biasCorrection {
	k := opt.Iteration
	if k < 1 {
		k = 1
	}
	return biasCorrection{
		first:  1.0 - math.Pow(params.Beta1, float64(k)),
		second: 1.0 - math.Pow(params.Beta2, float64(k)),
	}
}

// step folds the gradient into both moments and returns the bias-corrected
// direction m̂1 / (sqrt(m̂2) + epsilon), to be scaled by the learning rate
func (params AdamHyperParams) step(moment1, moment2 *float64, gradient float64, bc biasCorrection) float64 {
	*moment1 = params.Beta1**moment1 + (1-params.Beta1)*gradient
	*moment2 = params.Beta2**moment2 + (1-params.Beta2)*gradient*gradient

	mHat := *moment1 / bc.first
	vHat := *moment2 / bc.second

	return mHat / (math.Sqrt(vHat) + params.Epsilon)
}

// ============================================================================
// Mini-batch accumulator
// ============================================================================

// Batch accumulates the proposed new value of every parameter over a mini-batch.
// It stores sums of new values, not deltas.
type Batch struct {
	WeightUpdates []*mat.Dense
	BiasUpdates   [][]float64
}

// NewBatch creates a zeroed accumulator shaped like the parameters
func NewBatch(composition []int) *Batch {
	return &Batch{
		WeightUpdates: zeroMatrices(composition),
		BiasUpdates:   zeroVectors(composition, 1),
	}
}

// Reset zeroes every accumulated value
func (b *Batch) Reset() {
	for _, updates := range b.WeightUpdates {
		updates.Zero()
	}
	for _, updates := range b.BiasUpdates {
		fill(updates, 0)
	}
}

// BatchUpdate replaces every parameter with the mean of its accumulated
// proposals and clears the accumulator. chunkSize must be the number of
// samples actually accumulated, which is smaller than the batch size for the
// final remainder chunk of a dataset.
func (n *Network) BatchUpdate(chunkSize int) {
	if chunkSize < 1 {
		return
	}
	scale := 1.0 / float64(chunkSize)

	for layer, updates := range n.batch.WeightUpdates {
		n.weights[layer].Scale(scale, updates)
	}
	for layer, updates := range n.batch.BiasUpdates {
		for i, update := range updates {
			n.biases[layer][i] = update * scale
		}
	}

	n.batch.Reset()
}
