// Package metrics exports prometheus counters and histograms for the chat
// path, the remote model and the background analytics writers.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alexanderramin/sophia/internal/llm"
	"github.com/alexanderramin/sophia/internal/service"
)

const namespace = "sophia"

// Metrics holds the collectors registered for one process.
type Metrics struct {
	useCases          *prometheus.CounterVec
	useCaseLatency    *prometheus.HistogramVec
	analyticsFailures *prometheus.CounterVec
	counterFailures   prometheus.Counter
	replies           *prometheus.CounterVec
	llmCalls          *prometheus.CounterVec
	llmTokens         *prometheus.CounterVec
	llmLatency        prometheus.Histogram
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// useCases counts service use cases by name and result.
		// Labels: use_case, result (ok, error)
		useCases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "use_cases_total",
			Help:      "Service use cases by name and result",
		}, []string{"use_case", "result"}),

		useCaseLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"use_case"}),

		// analyticsFailures counts background analytics writes that failed.
		// Labels: operation (log_question, track_gap)
		analyticsFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_failures_total",
			Help:      "Failed background analytics writes",
		}, []string{"operation"}),

		// counterFailures counts clarification counter reads or writes that
		// failed while the turn was still answered.
		counterFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dialogue_state_failures_total",
			Help:      "Failed clarification counter reads or writes",
		}),

		// replies counts answered messages by source and outcome.
		replies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Answered chat messages by source and outcome",
		}, []string{"source", "outcome"}),

		// llmCalls counts remote completions by status.
		// Labels: status (ok, or the error code)
		llmCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Remote model calls by status",
		}, []string{"status"}),

		llmTokens: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Remote model tokens by direction",
		}, []string{"direction"}),

		llmLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "Remote model call latency including retries",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
	}
}

// ObserveUseCase implements service.UseCaseObserver.
func (m *Metrics) ObserveUseCase(_ context.Context, e service.UseCaseEvent) {
	result := "ok"
	if !e.Success {
		result = "error"
	}
	switch e.Name {
	case service.UseCaseLogQuestion, service.UseCaseTrackGap:
		if !e.Success {
			m.analyticsFailures.WithLabelValues(e.Name).Inc()
		}
		return
	case service.UseCaseDialogueState:
		if !e.Success {
			m.counterFailures.Inc()
		}
		return
	case service.UseCaseSendMessage:
		if e.Success {
			source, _ := e.Fields["source"].(string)
			outcome, _ := e.Fields["outcome"].(string)
			m.replies.WithLabelValues(source, outcome).Inc()
		}
	}
	m.useCases.WithLabelValues(e.Name, result).Inc()
	m.useCaseLatency.WithLabelValues(e.Name).Observe(e.Duration.Seconds())
}

// OnCallComplete implements llm.Observer.
func (m *Metrics) OnCallComplete(e llm.CallEvent) {
	status := "ok"
	if !e.Success {
		status = e.ErrorCode
	}
	m.llmCalls.WithLabelValues(status).Inc()
	m.llmTokens.WithLabelValues("input").Add(float64(e.InputTokens))
	m.llmTokens.WithLabelValues("output").Add(float64(e.OutputTokens))
	m.llmLatency.Observe((time.Duration(e.LatencyMs) * time.Millisecond).Seconds())
}

var (
	_ service.UseCaseObserver = (*Metrics)(nil)
	_ llm.Observer            = (*Metrics)(nil)
)
