package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "clinicstock"

// Recorder exports engine operation outcomes and import results
type Recorder struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	imported   *prometheus.CounterVec
}

// NewRecorder registers the clinic collectors on reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Engine operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Engine operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"operation"}),
		imported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Imported CSV rows by file kind and result.",
		}, []string{"kind", "result"}),
	}

	for _, c := range []prometheus.Collector{r.operations, r.duration, r.imported} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

// ObserveOperation counts one operation outcome and records its latency
func (r *Recorder) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	r.operations.WithLabelValues(operation, outcome).Inc()
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveImport counts created and skipped rows of one import
func (r *Recorder) ObserveImport(kind string, created, skipped int) {
	r.imported.WithLabelValues(kind, "created").Add(float64(created))
	r.imported.WithLabelValues(kind, "skipped").Add(float64(skipped))
}

// Sample is one flattened counter or histogram count
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

// Snapshot gathers counters and histogram counts from g in name order
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var samples []Sample
	for _, family := range families {
		for _, m := range family.GetMetric() {
			sample := Sample{Name: family.GetName(), Labels: formatLabels(m.GetLabel())}
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				sample.Value = m.GetCounter().GetValue()
			case dto.MetricType_HISTOGRAM:
				sample.Name += "_count"
				sample.Value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			samples = append(samples, sample)
		}
	}
	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return samples[i].Labels < samples[j].Labels
	})
	return samples, nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"="+p.GetValue())
	}
	return strings.Join(parts, ",")
}
