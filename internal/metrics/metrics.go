// Package metrics exposes the scheduler's live counters and gauges as
// Prometheus collectors, generalizing the teacher's single-run Metrics
// snapshot (TotalJobs/ProcessedJobs/FailedJobs/AverageDuration) into
// instruments fit for a long-running scheduler that is queried while
// still dispatching jobs.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Scheduler bundles every collector the core scheduler updates. Registered
// against a caller-supplied *prometheus.Registry rather than the global
// default registry, so a process can embed more than one scheduler without
// metric name collisions.
type Scheduler struct {
	QueueDepth     *prometheus.GaugeVec
	FibersInUse    prometheus.Gauge
	FiberPoolSize  prometheus.Gauge
	JobsInUse      prometheus.Gauge
	JobPoolSize    prometheus.Gauge
	JobsCompleted  prometheus.Counter
	JobsAborted    prometheus.Counter
	JobsEnqueued   prometheus.Counter
	GroupWaits     prometheus.Counter
	QueueInterrupt *prometheus.CounterVec
}

// New constructs the collector set and registers it against reg. Passing
// a nil registry is valid and simply skips registration, which keeps the
// scheduler usable in tests that don't care about metrics.
func New(reg *prometheus.Registry, namespace string) *Scheduler {
	m := &Scheduler{
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Number of jobs currently pending in a queue.",
		}, []string{"queue"}),
		FibersInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fibers_in_use",
			Help:      "Number of fibers currently bound to a job.",
		}),
		FiberPoolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fiber_pool_size",
			Help:      "Total number of fibers configured for the scheduler.",
		}),
		JobsInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_in_use",
			Help:      "Number of job records currently checked out of the job pool.",
		}),
		JobPoolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "job_pool_size",
			Help:      "Total number of job records configured for the scheduler.",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_completed_total",
			Help:      "Number of job bodies that returned normally.",
		}),
		JobsAborted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_aborted_total",
			Help:      "Number of jobs that called Abort.",
		}),
		JobsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_enqueued_total",
			Help:      "Number of job descriptions accepted by EnqueueBatch.",
		}),
		GroupWaits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_waits_total",
			Help:      "Number of times a job body suspended on Wait.",
		}),
		QueueInterrupt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_interrupts_total",
			Help:      "Number of times a queue was interrupted.",
		}, []string{"queue"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.QueueDepth, m.FibersInUse, m.FiberPoolSize, m.JobsInUse, m.JobPoolSize,
			m.JobsCompleted, m.JobsAborted, m.JobsEnqueued, m.GroupWaits, m.QueueInterrupt,
		)
	}
	return m
}
