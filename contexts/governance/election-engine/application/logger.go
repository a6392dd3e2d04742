package application

import (
	"log/slog"
	"time"

	"hoa/contexts/governance/election-engine/ports"
)

const ModuleName = "governance/election-engine"

// ResolveLogger guarantees a non-nil logger for application/worker code paths.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// ResolveMetrics guarantees a non-nil metrics sink.
func ResolveMetrics(metrics ports.Metrics) ports.Metrics {
	if metrics == nil {
		return noopMetrics{}
	}
	return metrics
}

type noopMetrics struct{}

func (noopMetrics) ElectionCreated(string) {}
func (noopMetrics) VoteRecorded(string, string) {}
func (noopMetrics) CandidateChanged(string) {}
func (noopMetrics) EligibilityRejected(string) {}
func (noopMetrics) ElectionConcluded(string) {}
func (noopMetrics) ElectionOpened() {}
func (noopMetrics) SaveConflict(string) {}
func (noopMetrics) ObserveCommand(string, string, time.Duration) {}
