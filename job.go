package fiberscheduler

import "github.com/go-foundations/fiberscheduler/internal/fiber"

// JobFunc is a job's body. It runs with the scheduler mutex released;
// it may call methods on job (Wait, Yield, SwitchQueue, Abort) to
// suspend itself, each of which re-acquires the mutex internally before
// yielding control back to the dispatcher.
type JobFunc func(job *Job)

// JobDescription describes a unit of work before it is submitted.
// QueueIndex selects which queue the job starts on; SwitchQueue can
// change it later. Name is optional for callers but is always populated
// (auto-generated if left blank) by the time a Job is constructed from a
// description, so logs and metrics always have a stable label.
type JobDescription struct {
	Name       string
	Func       JobFunc
	UserData   any
	UserIndex  uintptr
	QueueIndex int
}

// Job is a live, pool-allocated unit of work. Its fields are only ever
// mutated while the owning Scheduler's mutex is held.
type Job struct {
	desc      JobDescription
	scheduler *Scheduler
	fiber     *fiber.Fiber
	yielder   *fiber.Yielder
	group     *Group
}

// Description returns the description this job was constructed from.
// QueueIndex reflects the job's *current* queue, which may have changed
// since construction via SwitchQueue.
func (j *Job) Description() JobDescription {
	return j.desc
}

// UserData returns the opaque context pointer passed at enqueue time.
func (j *Job) UserData() any {
	return j.desc.UserData
}

// UserIndex returns the caller-assigned index, useful for parallel-for
// style fan-out where many job descriptions share a Func and differ only
// by index.
func (j *Job) UserIndex() uintptr {
	return j.desc.UserIndex
}

// jobStatus is what a fiber yields back to the dispatcher to describe why
// it suspended. It never crosses a package boundary; callers only ever
// observe its effects (a job resuming, completing, or a reduced
// EnqueueBatch count).
type jobStatus int

const (
	statusCompleted jobStatus = iota
	statusWaiting
	statusYielding
	statusAborted
)

// RunMode selects how Scheduler.Run behaves when a queue runs dry.
type RunMode int

const (
	// RunLoop runs jobs from a queue (following its fallback chain)
	// until Interrupt is called on it. Sleeps when the chain is empty.
	RunLoop RunMode = iota
	// RunFlush runs jobs until the queue and its fallback chain yield
	// nothing. Never sleeps; used to drive work to completion inline.
	RunFlush
	// RunSingle runs at most one job, then returns.
	RunSingle
)
