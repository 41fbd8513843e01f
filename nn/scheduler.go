package nn

import (
	"fmt"
	"math"
)

// LearningRateSchedule tracks the live learning rate of a run. Every decay
// step multiplies or divides the current alpha, so the rate compounds over
// the epochs of a restart cycle.
type LearningRateSchedule struct {
	config LearningRate
	alpha  float64
}

// NewLearningRateSchedule starts a schedule at config.Alpha
func NewLearningRateSchedule(config LearningRate) *LearningRateSchedule {
	return &LearningRateSchedule{
		config: config,
		alpha:  config.Alpha,
	}
}

// Alpha returns the current learning rate
func (s *LearningRateSchedule) Alpha() float64 {
	return s.alpha
}

// Update moves the schedule to the end of the given 1-based epoch.
// A restart takes precedence: when epoch is a multiple of the restart interval
// alpha jumps to the restart value and no decay is applied this epoch.
// Otherwise the epoch is taken modulo the restart interval (when configured)
// and the decay is applied to the current alpha.
func (s *LearningRateSchedule) Update(epoch int) float64 {
	adjusted := epoch

	if restart := s.config.Restart; restart != nil && restart.Interval > 0 {
		if epoch%restart.Interval == 0 {
			s.alpha = restart.Alpha
			return s.alpha
		}
		adjusted = epoch % restart.Interval
	}

	if decay := s.config.Decay; decay != nil {
		s.alpha = decay.apply(s.alpha, adjusted)
	}

	return s.alpha
}

// apply returns alpha after one decay step at the adjusted epoch
func (d *Decay) apply(alpha float64, adjusted int) float64 {
	switch d.Method {
	case DecayStep:
		if d.Step >= 1 && adjusted%d.Step == 0 {
			return alpha * d.Rate
		}
		return alpha
	case DecayExponential:
		return alpha * math.Pow(d.Rate, float64(adjusted))
	case DecayInverse:
		return alpha / (1.0 + d.Rate*float64(adjusted))
	default:
		return alpha
	}
}

// Name describes the schedule for reports
func (s *LearningRateSchedule) Name() string {
	name := "Constant"
	if d := s.config.Decay; d != nil {
		switch d.Method {
		case DecayStep:
			name = fmt.Sprintf("StepDecay(%d, %g)", d.Step, d.Rate)
		case DecayExponential:
			name = fmt.Sprintf("ExponentialDecay(%g)", d.Rate)
		case DecayInverse:
			name = fmt.Sprintf("InverseDecay(%g)", d.Rate)
		}
	}
	if r := s.config.Restart; r != nil && r.Interval > 0 {
		name = fmt.Sprintf("%s+Restart(%d, %g)", name, r.Interval, r.Alpha)
	}
	return name
}
