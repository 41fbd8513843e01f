package nn

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultParametersFile is the file written by Save when no other name is chosen
const DefaultParametersFile = "parameters.txt"

// =============================================================================
// Flat parameter file: every bias, then every weight, one value per line
// =============================================================================

// WriteParameters writes every bias then every weight, flattened layer by
// layer then neuron by neuron, one value per line. Values round-trip exactly.
func (n *Network) WriteParameters(w io.Writer) error {
	writer := bufio.NewWriter(w)

	write := func(values []float64) error {
		for _, v := range values {
			if _, err := writer.WriteString(strconv.FormatFloat(v, 'g', -1, 64) + "\n"); err != nil {
				return err
			}
		}
		return nil
	}

	for _, biases := range n.biases {
		if err := write(biases); err != nil {
			return dataAccessError("write", "", err)
		}
	}

	for _, weights := range n.weights {
		rows, _ := weights.Dims()
		for neuron := 0; neuron < rows; neuron++ {
			if err := write(weights.RawRowView(neuron)); err != nil {
				return dataAccessError("write", "", err)
			}
		}
	}

	if err := writer.Flush(); err != nil {
		return dataAccessError("flush", "", err)
	}
	return nil
}

// ReadParameters overwrites the biases then the weights with the values read
// from r, in the order written by WriteParameters. Blank lines are ignored and
// surrounding quotes are stripped. The value count must match the composition
// exactly; on any error the network is left unchanged.
func (n *Network) ReadParameters(r io.Reader) error {
	params := make([]float64, 0)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.Trim(strings.TrimSpace(scanner.Text()), `"`)
		if text == "" {
			continue
		}

		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return dataAccessError("parse", "", errors.Wrapf(err, "line %d", line))
		}
		params = append(params, v)
	}
	if err := scanner.Err(); err != nil {
		return dataAccessError("read", "", err)
	}

	weights, biases := n.ParameterCount()
	if len(params) != weights+biases {
		return errors.Wrapf(ErrParameterCountMismatch,
			"got %d values, composition %v needs %d biases + %d weights",
			len(params), n.composition, biases, weights)
	}

	index := 0
	for _, layer := range n.biases {
		index += copy(layer, params[index:])
	}
	for _, layer := range n.weights {
		rows, _ := layer.Dims()
		for neuron := 0; neuron < rows; neuron++ {
			index += copy(layer.RawRowView(neuron), params[index:])
		}
	}

	return nil
}

// Save writes the flat parameter file
func (n *Network) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return dataAccessError("create", path, err)
	}

	if err := n.WriteParameters(f); err != nil {
		f.Close()
		return withPath(err, path)
	}

	if err := f.Close(); err != nil {
		return dataAccessError("close", path, err)
	}
	return nil
}

// Load builds a fresh network from hp and overwrites its parameters with the
// content of a flat parameter file written by Save
func Load(path string, hp HyperParams) (*Network, error) {
	n, err := NewNetwork(hp)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, dataAccessError("open", path, err)
	}
	defer f.Close()

	if err := n.ReadParameters(f); err != nil {
		return nil, withPath(err, path)
	}

	return n, nil
}

func withPath(err error, path string) error {
	var dataErr *DataAccessError
	if errors.As(err, &dataErr) && dataErr.Path == "" {
		dataErr.Path = path
		return dataErr
	}
	return errors.WithMessagef(err, "file %s", path)
}

// =============================================================================
// JSON model bundle: hyper parameters and parameters in one file
// =============================================================================

// ModelBundle is the on-disk form of a complete network
type ModelBundle struct {
	Type        string        `json:"type"`
	Version     int           `json:"version"`
	HyperParams HyperParams   `json:"hyper_params"`
	Biases      [][]float64   `json:"biases"`
	Weights     [][][]float64 `json:"weights"` // [layer][neuron][input]
}

const (
	bundleType    = "densenet/model"
	bundleVersion = 1
)

// SerializeModel captures the hyper parameters and current parameters
func (n *Network) SerializeModel() ModelBundle {
	bundle := ModelBundle{
		Type:        bundleType,
		Version:     bundleVersion,
		HyperParams: n.hyperParams,
		Biases:      make([][]float64, len(n.biases)),
		Weights:     make([][][]float64, len(n.weights)),
	}

	for layer, biases := range n.biases {
		bundle.Biases[layer] = append([]float64(nil), biases...)
	}
	for layer, weights := range n.weights {
		rows, _ := weights.Dims()
		bundle.Weights[layer] = make([][]float64, rows)
		for neuron := 0; neuron < rows; neuron++ {
			bundle.Weights[layer][neuron] = append([]float64(nil), weights.RawRowView(neuron)...)
		}
	}

	return bundle
}

// DeserializeModel rebuilds a network from a bundle
func DeserializeModel(bundle ModelBundle) (*Network, error) {
	if bundle.Type != bundleType {
		return nil, errors.Errorf("invalid bundle type: expected %s, got %q", bundleType, bundle.Type)
	}

	n, err := NewNetwork(bundle.HyperParams)
	if err != nil {
		return nil, err
	}

	if len(bundle.Biases) != len(n.biases) || len(bundle.Weights) != len(n.weights) {
		return nil, errors.Wrapf(ErrParameterCountMismatch, "bundle has %d bias and %d weight layers, composition %v",
			len(bundle.Biases), len(bundle.Weights), n.composition)
	}

	for layer, biases := range bundle.Biases {
		if len(biases) != len(n.biases[layer]) {
			return nil, errors.Wrapf(ErrParameterCountMismatch, "layer %d has %d biases", layer, len(biases))
		}
		copy(n.biases[layer], biases)
	}
	for layer, rows := range bundle.Weights {
		r, c := n.weights[layer].Dims()
		if len(rows) != r {
			return nil, errors.Wrapf(ErrParameterCountMismatch, "layer %d has %d rows, expected %d", layer, len(rows), r)
		}
		for neuron, row := range rows {
			if len(row) != c {
				return nil, errors.Wrapf(ErrParameterCountMismatch, "layer %d neuron %d has %d weights", layer, neuron, len(row))
			}
			copy(n.weights[layer].RawRowView(neuron), row)
		}
	}

	return n, nil
}

// SaveModel writes the JSON bundle of the network
func (n *Network) SaveModel(path string) error {
	data, err := json.MarshalIndent(n.SerializeModel(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal model")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return dataAccessError("write", path, err)
	}
	return nil
}

// LoadModel reads a JSON bundle written by SaveModel
func LoadModel(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dataAccessError("read", path, err)
	}

	var bundle ModelBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, withPath(decodeError(err), path)
	}

	return DeserializeModel(bundle)
}
