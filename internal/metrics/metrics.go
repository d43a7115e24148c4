package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tictactoe"

// Recorder counts what happens on the boards served by this process.
type Recorder struct {
	placements *prometheus.CounterVec
	resets     prometheus.Counter
	sessions   prometheus.Counter
}

func New(registerer prometheus.Registerer) *Recorder {
	factory := promauto.With(registerer)

	return &Recorder{
		placements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_total",
			Help:      "Placement attempts by outcome.",
		}, []string{"outcome"}),
		resets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Boards reset by a player.",
		}),
		sessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "New game sessions.",
		}),
	}
}

func (that *Recorder) Placement(outcome string) {
	that.placements.WithLabelValues(outcome).Inc()
}

func (that *Recorder) Reset() {
	that.resets.Inc()
}

func (that *Recorder) SessionStarted() {
	that.sessions.Inc()
}
