package nn

import (
	"fmt"

	"github.com/pkg/errors"
)

// These are the errors returned while building, configuring or loading a network.
// Use errors.Is (or errors.Cause) to match them through any added context.
var (
	ErrUnknownActivation             = errors.New("unknown activation")
	ErrLayerActivationCountMismatch  = errors.New("number of activations does not match number of layers")
	ErrParameterCountMismatch        = errors.New("parameter count does not match composition")
	ErrInvalidComposition            = errors.New("invalid composition")
	ErrInvalidHyperParams            = errors.New("invalid hyper parameters")
	ErrSampleCountMismatch           = errors.New("input count does not match target count")
	errUnknownDecayMethod            = errors.New("unknown decay method")
	errUnknownDropoutScalingStrategy = errors.New("unknown dropout scaling")
)

// DataAccessError documents a failure of a collaborator (file system, parser)
// while reading or writing network data. It unwraps to the underlying cause.
type DataAccessError struct {
	Op   string // "open", "read", "parse", "write", ...
	Path string // file involved, empty for plain readers/writers
	Err  error
}

func (e *DataAccessError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("data access: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("data access: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// Cause lets github.com/pkg/errors.Cause see through the wrapper.
func (e *DataAccessError) Cause() error { return e.Err }

func dataAccessError(op, path string, err error) error {
	return &DataAccessError{Op: op, Path: path, Err: err}
}
