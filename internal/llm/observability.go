package llm

import (
	"fmt"
	"io"
	"time"
)

// CallEvent records metadata about a single remote completion.
type CallEvent struct {
	Model        string
	LatencyMs    int64
	Attempts     int
	Success      bool
	ErrorCode    string
	InputTokens  int
	OutputTokens int
}

// Observer receives events about remote calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	status := "ok"
	if !event.Success {
		status = "err:" + event.ErrorCode
	}
	fmt.Fprintf(o.w, "[%s] llm_call model=%s latency_ms=%d attempts=%d tokens_in=%d tokens_out=%d status=%s\n",
		ts, event.Model, event.LatencyMs, event.Attempts, event.InputTokens, event.OutputTokens, status)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

// MultiObserver fans an event out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnCallComplete(event CallEvent) {
	for _, o := range m {
		o.OnCallComplete(event)
	}
}
