package nn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// EpochReport is sent to every observer after each epoch
type EpochReport struct {
	Epoch     int           `json:"epoch"`
	Alpha     float64       `json:"alpha"`
	Accuracy  float64       `json:"accuracy"`
	Cost      float64       `json:"cost"`
	Elapsed   time.Duration `json:"elapsed"` // cumulative training time
	EarlyStop bool          `json:"early_stop"`
}

// Observer receives training progress. It owns all presentation.
type Observer interface {
	OnEpoch(report EpochReport)
}

// ObserverFunc adapts a plain function to the Observer interface
type ObserverFunc func(report EpochReport)

func (f ObserverFunc) OnEpoch(report EpochReport) { f(report) }

// =============================================================================
// Example Observer Implementations
// =============================================================================

// ConsoleObserver prints one line per epoch
type ConsoleObserver struct {
	w io.Writer
}

func NewConsoleObserver(w io.Writer) *ConsoleObserver {
	return &ConsoleObserver{w: w}
}

func (o *ConsoleObserver) OnEpoch(r EpochReport) {
	fmt.Fprintf(o.w, "[%02d] Accuracy: %6.2f%%, Avg. Cost: %.3f, Alpha: %.6f, Elapsed: %s\n",
		r.Epoch, r.Accuracy*100, r.Cost, r.Alpha, r.Elapsed.Round(time.Millisecond))

	if r.EarlyStop {
		fmt.Fprintf(o.w, "\nEarly stop after %d epochs, avg. duration: %s\n",
			r.Epoch, (r.Elapsed / time.Duration(r.Epoch)).Round(time.Millisecond))
	}
}

// HTTPObserver posts every report as JSON to an endpoint (for dashboards)
type HTTPObserver struct {
	URL    string
	client *http.Client
}

func NewHTTPObserver(url string) *HTTPObserver {
	return &HTTPObserver{
		URL: url,
		client: &http.Client{
			Timeout: 100 * time.Millisecond,
		},
	}
}

func (o *HTTPObserver) OnEpoch(r EpochReport) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}

	go func() {
		resp, err := o.client.Post(o.URL, "application/json", bytes.NewReader(data))
		if err == nil && resp != nil {
			resp.Body.Close()
		}
	}()
}

// ChannelObserver sends reports to a Go channel
type ChannelObserver struct {
	Reports chan EpochReport
}

func NewChannelObserver(bufferSize int) *ChannelObserver {
	return &ChannelObserver{
		Reports: make(chan EpochReport, bufferSize),
	}
}

func (o *ChannelObserver) OnEpoch(r EpochReport) {
	select {
	case o.Reports <- r:
	default:
		// channel full, report dropped
	}
}
