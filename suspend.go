package fiberscheduler

import "github.com/go-foundations/fiberscheduler/internal/logging"

// These four methods are the only primitives a job body may call to
// suspend itself; each is only valid from inside the JobFunc that a
// Scheduler is currently running on j. All of them re-enter the
// scheduler mutex (the body runs with it released) before touching
// shared state, and leave it held across the fiber yield — the
// dispatcher's executeJob assumes it is held when Resume returns.

// Wait suspends the job until group's outstanding count drops to
// threshold or below, then returns the (possibly already-satisfied)
// remaining count. If group's count is already at or below threshold,
// Wait returns immediately without suspending.
//
// The temporary subtract-then-restore of threshold is what lets "wake
// when count falls to threshold" share the same completion path as
// "wake when count hits zero": the last completing job only ever
// decrements toward zero, so subtracting threshold up front makes zero
// the uniform wake condition.
func (j *Job) Wait(group *Group, threshold uint) uint {
	j.scheduler.mu.Lock()
	group.job = j

	if group.count > threshold {
		group.count -= threshold
		j.yielder.Yield(statusWaiting)
		group.count += threshold
	}

	group.job = nil
	remaining := group.count
	j.scheduler.mu.Unlock()
	return remaining
}

// Yield reschedules the job at the tail of its current queue, giving
// other pending jobs a turn.
func (j *Job) Yield() {
	j.scheduler.mu.Lock()
	j.yielder.Yield(statusYielding)
	j.scheduler.mu.Unlock()
}

// SwitchQueue moves the job to a different queue, rescheduling it at the
// tail of newQueueIdx, and returns the queue index it was previously on.
// If newQueueIdx is the job's current queue, this is a no-op and the job
// does not yield.
func (j *Job) SwitchQueue(newQueueIdx int) int {
	old := j.desc.QueueIndex
	if newQueueIdx == old {
		return old
	}

	j.scheduler.mu.Lock()
	j.scheduler.getQueue(newQueueIdx) // validates the index before we commit to it
	j.desc.QueueIndex = newQueueIdx
	j.yielder.Yield(statusYielding)
	j.scheduler.mu.Unlock()
	return old
}

// Abort immediately terminates the job's execution and marks it
// completed (group bookkeeping proceeds exactly as for a normal
// completion). It never returns; any code after calling Abort in the
// job body never runs.
func (j *Job) Abort() {
	j.scheduler.mu.Lock()
	j.yielder.Yield(statusAborted)
	logging.Log.Panic().Str("job", j.desc.Name).
		Msg("fiberscheduler: unreachable, a job fiber was resumed after abort")
}
