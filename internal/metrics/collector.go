package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/livp123/phaselog/internal/extractor"
)

// Run outcomes used as the "result" label.
const (
	ResultTerminated   = "terminated"
	ResultUnterminated = "unterminated"
	ResultNoMatch      = "no_match"
	ResultError        = "error"
)

// Collector holds the extraction metrics on a private registry so that a
// textfile export only contains phaselog series.
// Collector 在独立的 registry 上保存提取指标，导出的 textfile 只包含 phaselog 指标。
type Collector struct {
	registry *prometheus.Registry

	LinesScanned prometheus.Counter
	Events       *prometheus.CounterVec
	Runs         *prometheus.CounterVec
	LastRun      prometheus.Gauge
}

// NewCollector registers all series on a fresh registry.
// NewCollector 在新的 registry 上注册所有指标。
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		LinesScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "phaselog_lines_scanned_total",
			Help: "Log lines consumed before the scan stopped",
		}),
		Events: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phaselog_events_total",
				Help: "Marker matches by event kind",
			},
			[]string{"kind"},
		),
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phaselog_runs_total",
				Help: "Extraction runs by outcome",
			},
			[]string{"result"},
		),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "phaselog_last_run_timestamp_seconds",
			Help: "Unix time of the last extraction run",
		}),
	}
}

// Record adds one run's counts. res may be nil when the run failed early.
// Record 记录一次运行的统计，运行提前失败时 res 可以为 nil。
func (c *Collector) Record(res *extractor.Result, runErr error) {
	c.LastRun.SetToCurrentTime()

	if res != nil {
		c.LinesScanned.Add(float64(res.Lines))
		for _, kind := range []extractor.EventKind{
			extractor.EventStart, extractor.EventEnd, extractor.EventTick, extractor.EventShift,
		} {
			c.Events.WithLabelValues(kind.String()).Add(float64(res.Count(kind)))
		}
	}

	c.Runs.WithLabelValues(Outcome(res, runErr)).Inc()
}

// Outcome classifies a run for the result label.
func Outcome(res *extractor.Result, runErr error) string {
	switch {
	case runErr != nil || res == nil:
		return ResultError
	case !res.Matched():
		return ResultNoMatch
	case res.Terminated:
		return ResultTerminated
	default:
		return ResultUnterminated
	}
}

// WriteTextfile writes all series in the node_exporter textfile format.
// WriteTextfile 以 node_exporter textfile 格式写出所有指标。
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
