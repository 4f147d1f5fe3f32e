package migrator

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the result label of the reservations counter.
const (
	ResultMigrated = "migrated"
	ResultFailed   = "failed"
)

// Counters of the migrated reservations and options. A nil pointer is a
// valid no-op instance.
type Metrics struct {
	Registry *prometheus.Registry

	ReservationsTotal *prometheus.CounterVec
	OptionsTotal      *prometheus.CounterVec
}

// Creates the metrics registered in a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	namespace := "kea_migrate"

	return &Metrics{
		Registry: registry,
		ReservationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_total",
			Help:      "Processed host reservations by result",
		}, []string{"result"}),
		OptionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "options_total",
			Help:      "Options attached to the migrated hosts by option name",
		}, []string{"name"}),
	}
}

func (m *Metrics) reservationProcessed(result string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.With(prometheus.Labels{"result": result}).Inc()
}

func (m *Metrics) optionAttached(name string) {
	if m == nil {
		return
	}
	m.OptionsTotal.With(prometheus.Labels{"name": name}).Inc()
}

// Writes the metrics in the text exposition format to the file, e.g.,
// for the node exporter textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}
	return nil
}
