package nn

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// DefaultHyperParams returns the reference setup for a classifier with the
// given input and output widths: two hidden layers of 16 leaky ReLUs, light
// elastic-net on the weights, max-norm 8, Adam with exponential decay.
func DefaultHyperParams(inputs, outputs int) HyperParams {
	return HyperParams{
		Composition: []int{inputs, 16, 16, outputs},
		Activations: []ActivationType{
			ActivationLeakyReLU001,
			ActivationLeakyReLU001,
			ActivationLeakyReLU001,
		},
		Regularization: Regularization{
			ElasticNet: ElasticNetRegularization{
				Weights: ElasticNetRegularizer{L1: 1e-7, L2: 1e-6},
				Biases:  ElasticNetRegularizer{L1: 0, L2: 0},
			},
			Dropout: Dropout{
				InputLayer:  0,
				HiddenLayer: 0,
				Scaling:     DropoutInverted,
			},
			MaxNormConstraint: 8.0,
		},
		LearningRate: LearningRate{
			Alpha: 0.01,
			Decay: &Decay{Method: DecayExponential, Rate: 0.9},
		},
		Optimizer:     DefaultAdamHyperParams(),
		BatchSize:     4,
		EarlyStopping: EarlyStopping{StabilityThreshold: 0.001, Patience: 5},
		MaxEpochs:     DefaultMaxEpochs,
	}
}

// DefaultAdamHyperParams returns beta1 0.9, beta2 0.999, epsilon 1e-8
func DefaultAdamHyperParams() AdamHyperParams {
	return AdamHyperParams{Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-8}
}

// Validate checks every precondition of NewNetwork
func (hp HyperParams) Validate() error {
	if err := checkComposition(hp.Composition); err != nil {
		return err
	}
	if len(hp.Activations) != len(hp.Composition)-1 {
		return errors.Wrapf(ErrLayerActivationCountMismatch,
			"%d activations for %d layers", len(hp.Activations), len(hp.Composition)-1)
	}
	if hp.BatchSize < 1 {
		return errors.Wrapf(ErrInvalidHyperParams, "batch size %d", hp.BatchSize)
	}

	dropout := hp.Regularization.Dropout
	for name, rate := range map[string]float64{"input": dropout.InputLayer, "hidden": dropout.HiddenLayer} {
		if rate < 0 || rate >= 1 {
			return errors.Wrapf(ErrInvalidHyperParams, "%s dropout rate %g outside [0, 1)", name, rate)
		}
	}

	opt := hp.Optimizer
	if opt.Beta1 < 0 || opt.Beta1 >= 1 || opt.Beta2 < 0 || opt.Beta2 >= 1 {
		return errors.Wrapf(ErrInvalidHyperParams, "betas %g, %g outside [0, 1)", opt.Beta1, opt.Beta2)
	}

	if d := hp.LearningRate.Decay; d != nil && d.Method == DecayStep && d.Step < 1 {
		return errors.Wrapf(ErrInvalidHyperParams, "step decay every %d epochs", d.Step)
	}
	if r := hp.LearningRate.Restart; r != nil && r.Interval < 1 {
		return errors.Wrapf(ErrInvalidHyperParams, "restart interval %d", r.Interval)
	}
	if hp.MaxEpochs < 0 {
		return errors.Wrapf(ErrInvalidHyperParams, "max epochs %d", hp.MaxEpochs)
	}

	return nil
}

// ParseHyperParams decodes a JSON configuration. Fields left out keep the
// values of DefaultHyperParams sized by the given composition.
func ParseHyperParams(data []byte) (HyperParams, error) {
	var shape struct {
		Composition []int `json:"composition"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return HyperParams{}, dataAccessError("parse", "", err)
	}
	if err := checkComposition(shape.Composition); err != nil {
		return HyperParams{}, err
	}

	hp := DefaultHyperParams(shape.Composition[0], shape.Composition[len(shape.Composition)-1])
	hp.Activations = nil
	if err := json.Unmarshal(data, &hp); err != nil {
		return HyperParams{}, decodeError(err)
	}

	if err := hp.Validate(); err != nil {
		return HyperParams{}, err
	}
	return hp, nil
}

// decodeError keeps unknown enumeration tags as their own errors and reports
// everything else as a parse failure
func decodeError(err error) error {
	for _, sentinel := range []error{ErrUnknownActivation, errUnknownDecayMethod, errUnknownDropoutScalingStrategy} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return dataAccessError("parse", "", err)
}

// LoadHyperParams reads a JSON configuration file
func LoadHyperParams(path string) (HyperParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HyperParams{}, dataAccessError("read", path, err)
	}

	hp, err := ParseHyperParams(data)
	if err != nil {
		return HyperParams{}, errors.WithMessagef(err, "config %s", path)
	}
	return hp, nil
}

// SaveHyperParams writes a JSON configuration file
func SaveHyperParams(path string, hp HyperParams) error {
	data, err := json.MarshalIndent(hp, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal hyper parameters")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return dataAccessError("write", path, err)
	}
	return nil
}
