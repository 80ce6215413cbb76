package fiberscheduler

import "github.com/go-foundations/fiberscheduler/internal/logging"

// Run is the entry point worker goroutines use: it repeatedly dequeues
// and executes jobs from queueIdx (following its fallback chain) until
// mode says to stop. It returns whether any job ran.
func (sched *Scheduler) Run(queueIdx int, mode RunMode) bool {
	sched.mu.Lock()
	defer sched.mu.Unlock()

	q := sched.getQueue(queueIdx)
	stamp := q.interruptStamp
	ran := false

	for mode != RunLoop || q.interruptStamp == stamp {
		job, from := q.next()
		if job != nil {
			sched.metrics.QueueDepth.WithLabelValues(from.name).Set(float64(from.len()))
			sched.executeJob(job)
			ran = true
			if mode == RunSingle {
				break
			}
			continue
		}

		if mode != RunLoop {
			break
		}
		q.sleeperCount++
		q.cond.Wait()
	}

	return ran
}

// Interrupt terminates every RunLoop runner on queueIdx as soon as their
// current job finishes; it does not disturb in-flight job bodies.
func (sched *Scheduler) Interrupt(queueIdx int) {
	sched.mu.Lock()
	defer sched.mu.Unlock()
	q := sched.getQueue(queueIdx)
	q.interrupt()
	sched.metrics.QueueInterrupt.WithLabelValues(q.name).Inc()
	logging.Log.Debug().Str("queue", q.name).Msg("queue interrupted")
}

// executeJob binds a fiber to job if needed, resumes it, and reacts to
// the yielded status. Must be called with sched.mu held; it is released
// while the job body itself runs (see fiberEntry) and reacquired before
// this function's caller sees it return.
func (sched *Scheduler) executeJob(job *Job) {
	if job.fiber == nil {
		n := len(sched.fiberPool)
		if n == 0 {
			logging.Log.Panic().Str("job", job.desc.Name).Int("queue", job.desc.QueueIndex).
				Msg("fiberscheduler: ran out of fibers")
		}
		job.fiber = sched.fiberPool[n-1]
		sched.fiberPool = sched.fiberPool[:n-1]
		sched.metrics.FibersInUse.Inc()
	}

	status := job.fiber.Resume(job).(jobStatus)

	switch status {
	case statusAborted:
		job.fiber.Reset(sched.fiberEntry())
		sched.metrics.JobsAborted.Inc()
		fallthrough
	case statusCompleted:
		if status == statusCompleted {
			sched.metrics.JobsCompleted.Inc()
		}
		sched.fiberPool = append(sched.fiberPool, job.fiber)
		sched.metrics.FibersInUse.Dec()
		job.fiber = nil

		group := job.group
		sched.returnJob(job)

		if group != nil {
			group.count--
			if group.count == 0 && group.job != nil {
				waiter := group.job
				wq := sched.queues[waiter.desc.QueueIndex]
				wq.pushFront(waiter)
				wq.signal()
				sched.metrics.QueueDepth.WithLabelValues(wq.name).Set(float64(wq.len()))
			}
		}
	case statusYielding:
		q := sched.queues[job.desc.QueueIndex]
		q.pushBack(job)
		q.signal()
		sched.metrics.QueueDepth.WithLabelValues(q.name).Set(float64(q.len()))
	case statusWaiting:
		sched.metrics.GroupWaits.Inc()
	}
}

// returnJob returns job to the job pool. Must be called with sched.mu held.
func (sched *Scheduler) returnJob(job *Job) {
	job.desc = JobDescription{}
	job.group = nil
	sched.jobPool = append(sched.jobPool, job)
	sched.metrics.JobsInUse.Dec()
}
