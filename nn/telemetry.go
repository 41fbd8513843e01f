package nn

// NetworkBlueprint contains the structural information and training counters
// of a network, for statistics screens
type NetworkBlueprint struct {
	InputSize   int              `json:"input_size"`
	OutputSize  int              `json:"output_size"`
	Hidden      []int            `json:"hidden"`
	TotalLayers int              `json:"total_layers"`
	Weights     int              `json:"weights"`
	Biases      int              `json:"biases"`
	Iterations  int              `json:"iterations"`
	Alpha       float64          `json:"alpha"`
	Schedule    string           `json:"schedule"`
	Epochs      int              `json:"epochs"`
	Layers      []LayerTelemetry `json:"layers"`
}

// LayerTelemetry contains metadata about a specific dense layer
type LayerTelemetry struct {
	Index      int    `json:"index"`
	Activation string `json:"activation"`
	Inputs     int    `json:"inputs"`
	Neurons    int    `json:"neurons"`
	Parameters int    `json:"parameters"`
}

// ExtractBlueprint summarizes the structure and training progress of a network
func ExtractBlueprint(n *Network) NetworkBlueprint {
	composition := n.composition
	weights, biases := n.ParameterCount()

	blueprint := NetworkBlueprint{
		InputSize:   composition[0],
		OutputSize:  composition[len(composition)-1],
		Hidden:      append([]int{}, composition[1:len(composition)-1]...),
		TotalLayers: len(composition) - 1,
		Weights:     weights,
		Biases:      biases,
		Iterations:  n.optimizer.Iteration,
		Alpha:       n.schedule.Alpha(),
		Schedule:    n.schedule.Name(),
		Epochs:      len(n.performance),
		Layers:      make([]LayerTelemetry, 0, len(composition)-1),
	}

	for i := 1; i < len(composition); i++ {
		blueprint.Layers = append(blueprint.Layers, LayerTelemetry{
			Index:      i - 1,
			Activation: n.activations[i-1].Type().String(),
			Inputs:     composition[i-1],
			Neurons:    composition[i],
			Parameters: composition[i-1]*composition[i] + composition[i],
		})
	}

	return blueprint
}
