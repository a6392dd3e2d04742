package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the election engine.
type Metrics struct {
	ElectionsCreated   *prometheus.CounterVec
	ElectionsOpened    prometheus.Counter
	ElectionsConcluded *prometheus.CounterVec
	Votes              *prometheus.CounterVec
	CandidateChanges   *prometheus.CounterVec
	EligibilityRejects *prometheus.CounterVec
	SaveConflicts      *prometheus.CounterVec
	CommandDuration    *prometheus.HistogramVec
}

// New registers every election metric on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ElectionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hoa_elections_created_total",
			Help: "Elections registered by kind",
		}, []string{"kind"}),

		ElectionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "hoa_elections_opened_total",
			Help: "Elections moved from scheduled to ongoing",
		}),

		ElectionsConcluded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hoa_elections_concluded_total",
			Help: "Elections concluded by kind",
		}, []string{"kind"}),

		Votes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hoa_election_votes_total",
			Help: "Votes cast or retracted by election kind",
		}, []string{"kind", "action"}), // action: "cast", "retract"

		CandidateChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hoa_election_candidate_changes_total",
			Help: "Board candidate roster changes",
		}, []string{"action"}), // action: "join", "leave"

		EligibilityRejects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hoa_election_eligibility_rejections_total",
			Help: "Candidacy requests rejected by eligibility rule",
		}, []string{"rule"}),

		SaveConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hoa_election_save_conflicts_total",
			Help: "Optimistic concurrency conflicts while saving an election",
		}, []string{"command"}),

		CommandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hoa_election_command_duration_seconds",
			Help:    "Duration of election commands by result",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"command", "result"}),
	}
}

func (m *Metrics) ElectionCreated(kind string) {
	if m != nil {
		m.ElectionsCreated.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) ElectionOpened() {
	if m != nil {
		m.ElectionsOpened.Inc()
	}
}

func (m *Metrics) ElectionConcluded(kind string) {
	if m != nil {
		m.ElectionsConcluded.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) VoteRecorded(kind string, action string) {
	if m != nil {
		m.Votes.WithLabelValues(kind, action).Inc()
	}
}

func (m *Metrics) CandidateChanged(action string) {
	if m != nil {
		m.CandidateChanges.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) EligibilityRejected(rule string) {
	if m != nil {
		m.EligibilityRejects.WithLabelValues(rule).Inc()
	}
}

func (m *Metrics) SaveConflict(command string) {
	if m != nil {
		m.SaveConflicts.WithLabelValues(command).Inc()
	}
}

func (m *Metrics) ObserveCommand(command string, result string, d time.Duration) {
	if m != nil {
		m.CommandDuration.WithLabelValues(command, result).Observe(d.Seconds())
	}
}

// Serve exposes gatherer on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	if logger != nil {
		logger.Info("metrics endpoint listening",
			"event", "metrics_server_started",
			"module", "internal/platform/metrics",
			"layer", "platform",
			"addr", addr,
		)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
