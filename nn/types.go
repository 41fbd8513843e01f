package nn

import (
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ActivationType defines the activation function used in a layer
type ActivationType int

const (
	ActivationSigmoid      ActivationType = 0 // 1 / (1 + exp(-v))
	ActivationTanh         ActivationType = 1 // (exp(v) - exp(-v)) / (exp(v) + exp(-v))
	ActivationSwish        ActivationType = 2 // v * sigmoid(v)
	ActivationReLU         ActivationType = 3 // max(0, v)
	ActivationLeakyReLU01  ActivationType = 4 // v if v >= 0, else v * 0.1
	ActivationLeakyReLU001 ActivationType = 5 // v if v >= 0, else v * 0.01
	ActivationELU          ActivationType = 6 // v if v >= 0, else exp(v) - 1
	ActivationGELU         ActivationType = 7 // tanh approximation
	ActivationBinaryStep   ActivationType = 8 // 1 if v >= 0, else 0
)

var activationNames = map[ActivationType]string{
	ActivationSigmoid:      "SIGMOID",
	ActivationTanh:         "TANH",
	ActivationSwish:        "SWISH",
	ActivationReLU:         "RELU",
	ActivationLeakyReLU01:  "LEAKY_RELU_01",
	ActivationLeakyReLU001: "LEAKY_RELU_001",
	ActivationELU:          "ELU",
	ActivationGELU:         "GELU",
	ActivationBinaryStep:   "BINARY_STEP",
}

func (a ActivationType) String() string {
	if name, ok := activationNames[a]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseActivation resolves a textual tag such as "LEAKY_RELU_001" (case insensitive).
func ParseActivation(s string) (ActivationType, error) {
	tag := strings.ToUpper(strings.TrimSpace(s))
	for a, name := range activationNames {
		if name == tag {
			return a, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownActivation, "tag %q", s)
}

func (a ActivationType) MarshalText() ([]byte, error) {
	if _, ok := activationNames[a]; !ok {
		return nil, errors.Wrapf(ErrUnknownActivation, "tag %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *ActivationType) UnmarshalText(text []byte) error {
	parsed, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// DecayMethod selects how the learning rate decays between restarts
type DecayMethod int

const (
	DecayStep        DecayMethod = 0 // alpha * rate every Step epochs
	DecayExponential DecayMethod = 1 // alpha * rate^epoch
	DecayInverse     DecayMethod = 2 // alpha / (1 + rate*epoch)
)

var decayNames = map[DecayMethod]string{
	DecayStep:        "step",
	DecayExponential: "exponential",
	DecayInverse:     "inverse",
}

func (d DecayMethod) String() string {
	if name, ok := decayNames[d]; ok {
		return name
	}
	return "unknown"
}

func (d DecayMethod) MarshalText() ([]byte, error) {
	if _, ok := decayNames[d]; !ok {
		return nil, errors.Wrapf(errUnknownDecayMethod, "method %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *DecayMethod) UnmarshalText(text []byte) error {
	method := strings.ToLower(strings.TrimSpace(string(text)))
	for m, name := range decayNames {
		if name == method {
			*d = m
			return nil
		}
	}
	return errors.Wrapf(errUnknownDecayMethod, "method %q", string(text))
}

// DropoutScaling selects where the inverse keep-probability factor is applied.
// The two strategies are not equivalent mid-training.
type DropoutScaling int

const (
	// DropoutInverted bakes 1/(1-rate) into the mask of kept neurons.
	DropoutInverted DropoutScaling = 0
	// DropoutPostTraining uses a raw 0/1 mask and rescales every weight and
	// bias once when training finishes.
	DropoutPostTraining DropoutScaling = 1
)

var dropoutScalingNames = map[DropoutScaling]string{
	DropoutInverted:     "inverted",
	DropoutPostTraining: "post_training",
}

func (s DropoutScaling) String() string {
	if name, ok := dropoutScalingNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s DropoutScaling) MarshalText() ([]byte, error) {
	if _, ok := dropoutScalingNames[s]; !ok {
		return nil, errors.Wrapf(errUnknownDropoutScalingStrategy, "strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *DropoutScaling) UnmarshalText(text []byte) error {
	strategy := strings.ToLower(strings.TrimSpace(string(text)))
	for k, name := range dropoutScalingNames {
		if name == strategy {
			*s = k
			return nil
		}
	}
	return errors.Wrapf(errUnknownDropoutScalingStrategy, "strategy %q", string(text))
}

// ElasticNetRegularizer holds the L1 and L2 coefficients for one parameter kind
type ElasticNetRegularizer struct {
	L1 float64 `json:"l1"`
	L2 float64 `json:"l2"`
}

// ElasticNetRegularization holds separate coefficients for weights and biases
type ElasticNetRegularization struct {
	Weights ElasticNetRegularizer `json:"weights"`
	Biases  ElasticNetRegularizer `json:"biases"`
}

// Dropout holds the drop probabilities of the input layer and of every hidden layer.
// The output layer never drops.
type Dropout struct {
	InputLayer  float64        `json:"input_layer"`
	HiddenLayer float64        `json:"hidden_layer"`
	Scaling     DropoutScaling `json:"scaling"`
}

// Regularization groups every regularization setting
type Regularization struct {
	ElasticNet        ElasticNetRegularization `json:"elastic_net"`
	Dropout           Dropout                  `json:"dropout"`
	MaxNormConstraint float64                  `json:"max_norm_constraint"` // 0 = no clipping
}

// Decay configures learning-rate decay
type Decay struct {
	Method DecayMethod `json:"method"`
	Rate   float64     `json:"rate"`
	Step   int         `json:"step,omitempty"` // DecayStep only
}

// Restart configures periodic learning-rate restarts
type Restart struct {
	Interval int     `json:"interval"`
	Alpha    float64 `json:"alpha"`
}

// LearningRate holds the initial step size and its optional schedule
type LearningRate struct {
	Alpha   float64  `json:"alpha"`
	Decay   *Decay   `json:"decay,omitempty"`
	Restart *Restart `json:"restart,omitempty"`
}

// AdamHyperParams holds the Adam moment decay rates and the denominator epsilon
type AdamHyperParams struct {
	Beta1   float64 `json:"beta_1"`
	Beta2   float64 `json:"beta_2"`
	Epsilon float64 `json:"epsilon"`
}

// EarlyStopping configures the validation-accuracy plateau detector
type EarlyStopping struct {
	StabilityThreshold float64 `json:"stability_threshold"`
	Patience           int     `json:"patience"` // 0 = never stop early
}

// HyperParams is the configuration of one training run. It is not modified by training.
type HyperParams struct {
	Composition    []int            `json:"composition"`
	Activations    []ActivationType `json:"activations"`
	Regularization Regularization   `json:"regularization"`
	LearningRate   LearningRate     `json:"learning_rate"`
	Optimizer      AdamHyperParams  `json:"optimizer"`
	BatchSize      int              `json:"batch_size"`
	EarlyStopping  EarlyStopping    `json:"early_stopping"`
	MaxEpochs      int              `json:"max_epochs,omitempty"` // 0 = DefaultMaxEpochs
	Seed           uint64           `json:"seed,omitempty"`       // 0 = seeded from the clock
}

// TrainingState is the state of the training loop
type TrainingState int

const (
	TrainingRunning   TrainingState = 0
	TrainingConverged TrainingState = 1 // stopped by the early-stopping criterion
	TrainingExhausted TrainingState = 2 // stopped by the max-epoch bound
)

func (s TrainingState) String() string {
	switch s {
	case TrainingRunning:
		return "running"
	case TrainingConverged:
		return "converged"
	case TrainingExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Samples is an index-aligned set of inputs and one-hot targets
type Samples struct {
	Inputs  [][]float64
	Targets [][]float64
}

// Len returns the number of samples
func (s Samples) Len() int {
	return len(s.Inputs)
}

// Network represents a dense feedforward network and all of its training state.
// It is not safe for concurrent use.
type Network struct {
	composition []int
	activations []Activation

	// Parameter store. weights[i] is [composition[i+1] × composition[i]].
	weights []*mat.Dense
	biases  [][]float64

	// Storage reused by every forward/backward pass
	netInputs [][]float64
	outputs   [][]float64
	costs     [][]float64

	// dropoutMask[0] is the virtual input layer, the last entry the output layer.
	dropoutMask [][]float64
	activeMask  [][]float64

	optimizer   *Adam
	batch       *Batch
	schedule    *LearningRateSchedule
	performance []float64

	hyperParams HyperParams
	rng         rand.Source
}
