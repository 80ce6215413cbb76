package fiberscheduler

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-foundations/fiberscheduler/internal/fiber"
	"github.com/go-foundations/fiberscheduler/internal/logging"
	"github.com/go-foundations/fiberscheduler/internal/metrics"
)

// Config sizes a Scheduler. JobCount is the maximum number of jobs
// outstanding across the whole scheduler at once (must be a power of
// two, and is also each queue's ring buffer capacity). FiberCount bounds
// how many jobs may be simultaneously suspended-but-not-complete.
// StackSize must be a power of two and is recorded on each fiber for
// parity with the sizing contract even though it bounds no real Go
// allocation.
type Config struct {
	JobCount         uint32
	QueueCount       int
	FiberCount       uint32
	StackSize        uintptr
	MetricsNamespace string
	Registry         *prometheus.Registry
}

// DefaultConfig returns a scheduler sized for light demonstration and
// test use: one queue, a modest job/fiber budget.
func DefaultConfig() Config {
	return Config{
		JobCount:         256,
		QueueCount:       1,
		FiberCount:       32,
		StackSize:        64 * 1024,
		MetricsNamespace: "fiberscheduler",
	}
}

// Scheduler is the single-lifetime object owning every fiber, job, and
// queue. All of its mutable state is guarded by mu; the dispatch loop
// releases mu while a job body is executing (see fiberEntry and
// suspend.go) and while a RunLoop worker sleeps on its queue.
type Scheduler struct {
	mu sync.Mutex

	queues []*queue

	fiberPool []*fiber.Fiber
	jobPool   []*Job

	jobCount   uint32
	fiberCount uint32

	metrics *metrics.Scheduler
}

// Size estimates the byte footprint of a scheduler built from config, for
// parity with the sizing contract in spec.md §4.1 / §6 (tina_scheduler_size).
// Go's allocator and GC make a literal single-buffer layout unnecessary,
// but callers that want to budget memory up front can still use this.
func Size(config Config) uintptr {
	queueBytes := uintptr(config.QueueCount) * (uintptr(config.JobCount) * 8)
	jobBytes := uintptr(config.JobCount) * 96
	fiberBytes := uintptr(config.FiberCount) * (config.StackSize + 64)
	return queueBytes + jobBytes + fiberBytes
}

// New allocates and initializes a Scheduler per config.
func New(config Config) *Scheduler {
	assertPowerOfTwo(config.JobCount, "job_count")
	assertPowerOfTwo(uint32(config.StackSize), "stack_size")
	if config.QueueCount <= 0 {
		logging.Log.Panic().Int("queue_count", config.QueueCount).
			Msg("fiberscheduler: queue_count must be positive")
	}

	sched := &Scheduler{
		jobCount:   config.JobCount,
		fiberCount: config.FiberCount,
		metrics:    metrics.New(config.Registry, config.MetricsNamespace),
	}

	sched.queues = make([]*queue, config.QueueCount)
	for i := range sched.queues {
		sched.queues[i] = newQueue(config.JobCount, &sched.mu, fmt.Sprintf("queue-%d", i))
	}

	sched.jobPool = make([]*Job, config.JobCount)
	for i := range sched.jobPool {
		sched.jobPool[i] = &Job{scheduler: sched}
	}

	sched.fiberPool = make([]*fiber.Fiber, config.FiberCount)
	for i := range sched.fiberPool {
		sched.fiberPool[i] = fiber.New(fmt.Sprintf("fiber-%d", i), config.StackSize, sched.fiberEntry())
	}

	sched.metrics.JobPoolSize.Set(float64(config.JobCount))
	sched.metrics.FiberPoolSize.Set(float64(config.FiberCount))

	logging.Log.Info().
		Uint32("job_count", config.JobCount).
		Int("queue_count", config.QueueCount).
		Uint32("fiber_count", config.FiberCount).
		Msg("scheduler initialized")

	return sched
}

// Init constructs a Scheduler the same way as New, additionally asserting
// that arena is large enough to hold it per Size(config). This mirrors
// tina_scheduler_init's "caller supplies the memory" contract; the arena
// itself is not actually carved up (Go's allocator owns every object's
// real storage), but callers that pre-size an arena get the same
// assertion tina's caller would get from a too-small buffer.
func Init(arena []byte, config Config) *Scheduler {
	if uintptr(len(arena)) < Size(config) {
		logging.Log.Panic().Int("arena_bytes", len(arena)).Uint64("required_bytes", uint64(Size(config))).
			Msg("fiberscheduler: arena too small for scheduler config")
	}
	return New(config)
}

// Destroy stops every queue's sleepers. It does not wait for in-flight
// jobs to finish; the caller is responsible for draining or interrupting
// workers first, exactly as spec.md §4.1 specifies.
func (sched *Scheduler) Destroy() {
	sched.mu.Lock()
	defer sched.mu.Unlock()
	for _, q := range sched.queues {
		q.interrupt()
	}
	logging.Log.Info().Msg("scheduler destroyed")
}

// Free is an alias for Destroy, provided for symmetry with New/Init,
// mirroring tina_scheduler_free pairing malloc+init.
func (sched *Scheduler) Free() {
	sched.Destroy()
}

// SetPriority links fallback as queueIdx's fallback queue: when queueIdx
// is empty, Run will dequeue from fallback instead, and a push onto
// fallback that finds no sleeper on fallback itself will wake a sleeper on
// queueIdx.
// Each queue may have at most one fallback and at most one parent.
func (sched *Scheduler) SetPriority(queueIdx, fallbackIdx int) {
	sched.mu.Lock()
	defer sched.mu.Unlock()
	setPriority(sched.getQueue(queueIdx), sched.getQueue(fallbackIdx))
}

func (sched *Scheduler) getQueue(idx int) *queue {
	if idx < 0 || idx >= len(sched.queues) {
		logging.Log.Panic().Int("queue_index", idx).Int("queue_count", len(sched.queues)).
			Msg("fiberscheduler: invalid queue index")
	}
	return sched.queues[idx]
}

func assertPowerOfTwo(n uint32, label string) {
	if n == 0 || n&(n-1) != 0 {
		logging.Log.Panic().Str("field", label).Uint32("value", n).
			Msg("fiberscheduler: field must be a power of two")
	}
}

// fiberEntry returns the fiber body every pool fiber (and every fiber
// reset after an abort) runs: an infinite loop that unlocks the
// scheduler mutex, runs the bound job's body, relocks, and yields
// COMPLETED so the dispatcher can hand it the next job. This is the
// direct analog of tina's _tina_jobs_fiber.
func (sched *Scheduler) fiberEntry() fiber.EntryFunc {
	return func(y *fiber.Yielder, value any) any {
		for {
			job := value.(*Job)
			job.yielder = y
			sched.mu.Unlock()
			job.desc.Func(job)
			sched.mu.Lock()
			job.yielder = nil
			value = y.Yield(statusCompleted)
		}
	}
}
