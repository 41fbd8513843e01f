package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/openfluke/densenet/dataset"
	"github.com/openfluke/densenet/nn"
)

const width = 50

func main() {
	configPath := flag.String("config", "", "JSON hyper parameters (default: built-in reference setup)")
	dataDir := flag.String("data", "dataset", "Directory holding mnist_train.csv and mnist_test.csv")
	paramsPath := flag.String("params", nn.DefaultParametersFile, "Flat parameter file to write (or read with -load)")
	modelPath := flag.String("model", "", "Optional JSON model bundle to write")
	load := flag.Bool("load", false, "Load parameters from -params instead of training")
	showcase := flag.Int("showcase", 2, "Number of random test samples to render")
	observerURL := flag.String("observer-url", "", "Optional endpoint receiving epoch reports as JSON")
	scale := flag.Float64("scale", 0, "Divide every feature by this value (255 for raw pixels)")
	classes := flag.Int("classes", 10, "Number of classes")
	validationSplit := flag.Float64("validation-split", 0, "Hold out this fraction of the training data for validation (0 = validate on test data)")
	flag.Parse()

	opts := dataset.Options{Classes: *classes, Scale: *scale}
	data := monitor("Parsing CSV", func() *dataset.Dataset {
		d, err := dataset.Load(*dataDir, opts)
		if err != nil {
			log.Fatalf("Failed to load dataset: %v", err)
		}
		return d
	})
	if data.Test.Len() == 0 {
		log.Fatal("Test data is empty")
	}

	hp := nn.DefaultHyperParams(len(data.Test.Inputs[0]), *classes)
	if *configPath != "" {
		var err error
		if hp, err = nn.LoadHyperParams(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	if *load {
		network := monitor("Loading network parameters", func() *nn.Network {
			n, err := nn.Load(*paramsPath, hp)
			if err != nil {
				log.Fatalf("Failed to load parameters: %v", err)
			}
			return n
		})
		statistics(network, data.Test)
		showcaseSamples(network, data.Test, *showcase)
		return
	}

	network := monitor("Initializing network", func() *nn.Network {
		n, err := nn.NewNetwork(hp)
		if err != nil {
			log.Fatalf("Failed to build network: %v", err)
		}
		return n
	})

	train, validation := data.Train, data.Test
	if *validationSplit > 0 {
		train, validation = dataset.Split(data.Train, *validationSplit)
	}

	observers := []nn.Observer{nn.NewConsoleObserver(os.Stdout)}
	if *observerURL != "" {
		observers = append(observers, nn.NewHTTPObserver(*observerURL))
	}

	result := monitor("Training network", func() *nn.TrainingResult {
		r, err := network.Train(train, validation, observers...)
		if err != nil {
			log.Fatalf("Training failed: %v", err)
		}
		return r
	})
	printCentered(fmt.Sprintf("Stopped: %s after %d epochs", result.State, result.Epochs))

	monitor("Saving network parameters", func() struct{} {
		if err := network.Save(*paramsPath); err != nil {
			log.Fatalf("Failed to save parameters: %v", err)
		}
		if *modelPath != "" {
			if err := network.SaveModel(*modelPath); err != nil {
				log.Fatalf("Failed to save model: %v", err)
			}
		}
		return struct{}{}
	})

	statistics(network, data.Test)
	showcaseSamples(network, data.Test, *showcase)
}

// =============================================================================
// Console presentation
// =============================================================================

func printHeader(message string) {
	title := " " + message + " "
	pad := width - len([]rune(title))
	if pad < 0 {
		pad = 0
	}
	fmt.Printf("\n%s%s%s\n\n", strings.Repeat("―", pad/2), title, strings.Repeat("―", pad-pad/2))
}

func printSubheader(message string) {
	fmt.Printf("\n")
	printCentered("――― " + message + " ―――")
	fmt.Printf("\n")
}

func printCentered(message string) {
	pad := (width - len([]rune(message))) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Printf("%s%s\n", strings.Repeat(" ", pad), message)
}

func printTable(left, right string) {
	fmt.Printf("%-25s%25s\n", left, right)
}

func printEnd() {
	fmt.Printf("%s\n\n", strings.Repeat("―", width))
}

// monitor runs fn under a header and reports how long it took
func monitor[T any](message string, fn func() T) T {
	printHeader(message)

	start := time.Now()
	value := fn()

	printCentered(fmt.Sprintf("Finished in %s\n", time.Since(start).Round(time.Millisecond)))
	printEnd()

	return value
}

func statistics(network *nn.Network, data nn.Samples) {
	accuracy, avgCost := network.Evaluate(data)
	blueprint := nn.ExtractBlueprint(network)
	hp := network.HyperParams()
	reg := hp.Regularization

	printHeader("Neural Network Statistics")

	printSubheader("Composition")
	printTable(fmt.Sprintf("Input neurons: %d", blueprint.InputSize), fmt.Sprintf("Output neurons: %d", blueprint.OutputSize))
	fmt.Printf("%-50s\n\n", fmt.Sprintf("Hidden neurons: %v", blueprint.Hidden))
	printTable(fmt.Sprintf("Number of weights: %d", blueprint.Weights), fmt.Sprintf("Number of biases: %d", blueprint.Biases))
	for _, layer := range blueprint.Layers {
		printTable(fmt.Sprintf("Layer %d: %d → %d", layer.Index, layer.Inputs, layer.Neurons), layer.Activation)
	}

	printSubheader("Regularization")
	printTable(fmt.Sprintf("L1 Weights: %.0e", reg.ElasticNet.Weights.L1), fmt.Sprintf("L1 Biases: %.0e", reg.ElasticNet.Biases.L1))
	printTable(fmt.Sprintf("L2 Weights: %.0e", reg.ElasticNet.Weights.L2), fmt.Sprintf("L2 Biases: %.0e", reg.ElasticNet.Biases.L2))
	printTable(fmt.Sprintf("Dropout Input: %g", reg.Dropout.InputLayer), fmt.Sprintf("Dropout Hidden: %g", reg.Dropout.HiddenLayer))
	fmt.Printf("%-50s\n", fmt.Sprintf("Max Norm Constraint: %g", reg.MaxNormConstraint))

	printSubheader("Adam Optimizer")
	printTable(fmt.Sprintf("Alpha: %g", blueprint.Alpha), fmt.Sprintf("Epsilon: %.0e", hp.Optimizer.Epsilon))
	printTable(fmt.Sprintf("Beta 1: %g", hp.Optimizer.Beta1), fmt.Sprintf("Beta 2: %g", hp.Optimizer.Beta2))

	printSubheader("Training")
	printTable(fmt.Sprintf("Batch Size: %d", hp.BatchSize), fmt.Sprintf("Iterations: %d", blueprint.Iterations))
	fmt.Printf("%-50s\n", fmt.Sprintf("LR Schedule: %s", blueprint.Schedule))
	printTable(fmt.Sprintf("Accuracy: %.2f%%", accuracy*100), fmt.Sprintf("Avg. Cost: %.3f", avgCost))

	fmt.Println()
	printEnd()
}

func showcaseSamples(network *nn.Network, data nn.Samples, count int) {
	if count <= 0 || data.Len() == 0 {
		return
	}
	if count > data.Len() {
		count = data.Len()
	}

	printHeader("Showcase")

	for _, index := range rand.Perm(data.Len())[:count] {
		visualize(data, index)
		printPredictions(network, data.Inputs[index])
	}

	printEnd()
}

// visualize renders a square input as shaded characters, two per value
func visualize(data nn.Samples, index int) {
	const shades = " .:-=+*#%"

	printSubheader(fmt.Sprintf("Target: %d", dataset.Label(data.Targets[index])))

	inputs := data.Inputs[index]
	side := int(math.Sqrt(float64(len(inputs))))
	if side*side != len(inputs) {
		return
	}

	var b strings.Builder
	for i, intensity := range inputs {
		shade := int(math.Round(intensity * float64(len(shades)-1)))
		if shade < 0 {
			shade = 0
		}
		if shade >= len(shades) {
			shade = len(shades) - 1
		}
		b.WriteByte(shades[shade])
		b.WriteByte(shades[shade])

		if (i+1)%side == 0 {
			b.WriteByte('\n')
		}
	}
	fmt.Println(b.String())
}

func printPredictions(network *nn.Network, inputs []float64) {
	printSubheader("Predictions")

	type prediction struct {
		class int
		value float64
	}

	outputs := network.Predict(inputs)
	predictions := make([]prediction, len(outputs))
	for class, output := range outputs {
		predictions[class] = prediction{class, output * 100}
	}
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].value > predictions[j].value
	})

	for _, p := range predictions {
		printCentered(fmt.Sprintf("%d: %6.2f%%", p.class, p.value))
	}
	fmt.Println()
}
