// Package dataset reads labelled samples from CSV files into nn.Samples.
//
// Every row is "label,feature,feature,...": the first column is the class
// index, turned into a one-hot target, the remaining columns are the inputs.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/openfluke/densenet/nn"
)

// Options controls how rows are turned into samples
type Options struct {
	Classes int     // width of the one-hot targets
	Scale   float64 // features are divided by Scale when > 0 (255 for raw pixels)
}

// DefaultOptions matches the MNIST CSV layout with pixels already in [0, 1]
func DefaultOptions() Options {
	return Options{Classes: 10}
}

// Dataset holds the training and test splits
type Dataset struct {
	Train nn.Samples
	Test  nn.Samples
}

// Load reads mnist_train.csv and mnist_test.csv from dir
func Load(dir string, opts Options) (*Dataset, error) {
	train, err := ParseCSV(filepath.Join(dir, "mnist_train.csv"), opts)
	if err != nil {
		return nil, err
	}

	test, err := ParseCSV(filepath.Join(dir, "mnist_test.csv"), opts)
	if err != nil {
		return nil, err
	}

	return &Dataset{Train: train, Test: test}, nil
}

// ParseCSV reads one CSV file
func ParseCSV(path string, opts Options) (nn.Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return nn.Samples{}, &nn.DataAccessError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	samples, err := Read(f, opts)
	if err != nil {
		var dataErr *nn.DataAccessError
		if errors.As(err, &dataErr) {
			dataErr.Path = path
			return nn.Samples{}, dataErr
		}
		return nn.Samples{}, err
	}
	return samples, nil
}

// Read parses CSV rows from r. A first row whose label is not a number is
// treated as a header and skipped.
func Read(r io.Reader, opts Options) (nn.Samples, error) {
	if opts.Classes < 1 {
		return nn.Samples{}, errors.Errorf("dataset needs at least one class, got %d", opts.Classes)
	}

	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	samples := nn.Samples{
		Inputs:  make([][]float64, 0),
		Targets: make([][]float64, 0),
	}

	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nn.Samples{}, &nn.DataAccessError{Op: "read", Err: err}
		}

		label, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			if row == 1 {
				continue
			}
			return nn.Samples{}, &nn.DataAccessError{Op: "parse", Err: errors.Wrapf(err, "row %d label", row)}
		}
		if label < 0 || label >= opts.Classes {
			return nn.Samples{}, &nn.DataAccessError{Op: "parse", Err: errors.Errorf("row %d: label %d outside [0, %d)", row, label, opts.Classes)}
		}

		inputs := make([]float64, len(record)-1)
		for i, field := range record[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nn.Samples{}, &nn.DataAccessError{Op: "parse", Err: errors.Wrapf(err, "row %d column %d", row, i+2)}
			}
			if opts.Scale > 0 {
				v /= opts.Scale
			}
			inputs[i] = v
		}

		samples.Inputs = append(samples.Inputs, inputs)
		samples.Targets = append(samples.Targets, nn.OneHot(label, opts.Classes))
	}

	return samples, nil
}

// Split keeps the head of data for training and holds out the last fraction
// for validation. Order is preserved.
func Split(data nn.Samples, fraction float64) (train, validation nn.Samples) {
	if fraction <= 0 {
		return data, nn.Samples{}
	}
	if fraction >= 1 {
		return nn.Samples{}, data
	}

	cut := data.Len() - int(float64(data.Len())*fraction)
	train = nn.Samples{Inputs: data.Inputs[:cut], Targets: data.Targets[:cut]}
	validation = nn.Samples{Inputs: data.Inputs[cut:], Targets: data.Targets[cut:]}
	return train, validation
}

// Label returns the class index of a one-hot target
func Label(target []float64) int {
	return nn.ArgMax(target)
}
