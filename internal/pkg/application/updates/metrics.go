package updates

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	operationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ifc_elements",
		Name:      "updates_total",
		Help:      "Total number of attempted element changes",
	}, []string{"operation", "status"}) // operation: name, material, classification

	itemsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ifc_elements",
		Name:      "update_items_total",
		Help:      "Total number of processed update items",
	}, []string{"status"})
)

// RegisterMetrics registers the update counters with reg. Registering more than once is not an error.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{operationsTotal, itemsTotal} {
		err := reg.Register(c)
		if err == nil {
			continue
		}

		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return err
		}
	}

	return nil
}

func countOperation(operation string, applied bool) {
	status := StatusFailed
	if applied {
		status = StatusSuccess
	}
	operationsTotal.WithLabelValues(operation, string(status)).Inc()
}

func countItem(status Status) {
	itemsTotal.WithLabelValues(string(status)).Inc()
}
