package nn

import (
	"math"

	"github.com/pkg/errors"
)

// Activation is a scalar function together with its derivative with respect
// to the pre-activation value
type Activation interface {
	Apply(x float64) float64
	Derivative(x float64) float64
	Type() ActivationType
}

const (
	sqrt2OverPi    = 0.7978845608028654
	geluCubicCoeff = 0.044715

	// exp(2*20) is far from overflow and tanh(20) rounds to 1 in float64
	tanhSaturation = 20.0
)

type activationFunc struct {
	kind       ActivationType
	apply      func(float64) float64
	derivative func(float64) float64
}

func (a activationFunc) Apply(x float64) float64      { return a.apply(x) }
func (a activationFunc) Derivative(x float64) float64 { return a.derivative(x) }
func (a activationFunc) Type() ActivationType         { return a.kind }

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// tanh as the ratio of exponentials
func tanh(x float64) float64 {
	if x > tanhSaturation {
		return 1
	}
	if x < -tanhSaturation {
		return -1
	}
	expPos := math.Exp(x)
	expNeg := math.Exp(-x)
	return (expPos - expNeg) / (expPos + expNeg)
}

func leakyReLU(slope float64) (func(float64) float64, func(float64) float64) {
	apply := func(x float64) float64 {
		if x < 0 {
			return x * slope
		}
		return x
	}
	derivative := func(x float64) float64 {
		if x >= 0 {
			return 1.0
		}
		return slope
	}
	return apply, derivative
}

func geluInner(x float64) float64 {
	return sqrt2OverPi * (x + geluCubicCoeff*x*x*x)
}

var activationTable = map[ActivationType]activationFunc{}

func register(kind ActivationType, apply, derivative func(float64) float64) {
	activationTable[kind] = activationFunc{kind: kind, apply: apply, derivative: derivative}
}

func init() {
	register(ActivationSigmoid, sigmoid, func(x float64) float64 {
		s := sigmoid(x)
		return s * (1.0 - s)
	})

	register(ActivationTanh, tanh, func(x float64) float64 {
		t := tanh(x)
		return 1.0 - t*t
	})

	register(ActivationSwish, func(x float64) float64 {
		return x * sigmoid(x)
	}, func(x float64) float64 {
		// d/dx x*s(x) = s + x*s*(1-s)
		s := sigmoid(x)
		return s + x*s*(1.0-s)
	})

	register(ActivationReLU, func(x float64) float64 {
		if x < 0 {
			return 0
		}
		return x
	}, func(x float64) float64 {
		if x > 0 {
			return 1.0
		}
		return 0
	})

	apply01, derivative01 := leakyReLU(0.1)
	register(ActivationLeakyReLU01, apply01, derivative01)

	apply001, derivative001 := leakyReLU(0.01)
	register(ActivationLeakyReLU001, apply001, derivative001)

	register(ActivationELU, func(x float64) float64 {
		if x >= 0 {
			return x
		}
		return math.Expm1(x)
	}, func(x float64) float64 {
		if x >= 0 {
			return 1.0
		}
		return math.Exp(x)
	})

	register(ActivationGELU, func(x float64) float64 {
		return 0.5 * x * (1.0 + tanh(geluInner(x)))
	}, func(x float64) float64 {
		t := tanh(geluInner(x))
		dInner := sqrt2OverPi * (1.0 + 3.0*geluCubicCoeff*x*x)
		return 0.5*(1.0+t) + 0.5*x*(1.0-t*t)*dInner
	})

	register(ActivationBinaryStep, func(x float64) float64 {
		if x >= 0 {
			return 1.0
		}
		return 0
	}, func(float64) float64 {
		return 0
	})
}

// GetActivation resolves a single tag
func GetActivation(tag ActivationType) (Activation, error) {
	a, ok := activationTable[tag]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownActivation, "tag %d", int(tag))
	}
	return a, nil
}

// GetActivations resolves one activation per tag, failing on the first unknown tag
func GetActivations(tags []ActivationType) ([]Activation, error) {
	activations := make([]Activation, len(tags))
	for i, tag := range tags {
		a, err := GetActivation(tag)
		if err != nil {
			return nil, errors.WithMessagef(err, "layer %d", i)
		}
		activations[i] = a
	}
	return activations, nil
}
