package fiberscheduler

import (
	"github.com/google/uuid"

	"github.com/go-foundations/fiberscheduler/internal/logging"
)

// EnqueueBatch submits descriptions to the scheduler, optionally tying
// them to group. If group.MaxCount is nonzero, the accepted count is
// clamped to group.MaxCount minus the group's current outstanding count;
// the accepted prefix of descriptions is the one submitted (per the
// resolved Open Question in spec.md §9), and the returned count may be
// less than len(descriptions). The caller is expected to act on a
// reduced count as backpressure, not as an error.
func (sched *Scheduler) EnqueueBatch(descriptions []JobDescription, group *Group) int {
	sched.mu.Lock()
	defer sched.mu.Unlock()

	count := len(descriptions)
	if group != nil {
		if group.MaxCount > 0 {
			remaining := int(group.MaxCount) - int(group.count)
			if remaining < 0 {
				remaining = 0
			}
			if count > remaining {
				count = remaining
			}
		}
		group.count += uint(count)
	}

	if len(sched.jobPool) < count {
		logging.Log.Panic().Int("pool_size", len(sched.jobPool)).Int("requested", count).
			Msg("fiberscheduler: ran out of jobs")
	}

	for i := 0; i < count; i++ {
		desc := descriptions[i]
		if desc.Func == nil {
			logging.Log.Panic().Str("job", desc.Name).Int("index", i).
				Msg("fiberscheduler: job description must have a body function")
		}
		if desc.Name == "" {
			desc.Name = uuid.NewString()
		}

		n := len(sched.jobPool)
		job := sched.jobPool[n-1]
		sched.jobPool = sched.jobPool[:n-1]
		sched.metrics.JobsInUse.Inc()

		*job = Job{desc: desc, scheduler: sched, group: group}

		q := sched.getQueue(desc.QueueIndex)
		q.pushBack(job)
		q.signal()
		sched.metrics.QueueDepth.WithLabelValues(q.name).Set(float64(q.len()))
		sched.metrics.JobsEnqueued.Inc()
	}

	return count
}

// Enqueue is a convenience wrapper around EnqueueBatch for a single job.
// It returns false if group was already at its MaxCount and the job was
// not accepted.
func (sched *Scheduler) Enqueue(name string, fn JobFunc, userData any, userIndex uintptr, queueIdx int, group *Group) bool {
	desc := JobDescription{Name: name, Func: fn, UserData: userData, UserIndex: userIndex, QueueIndex: queueIdx}
	return sched.EnqueueBatch([]JobDescription{desc}, group) == 1
}
