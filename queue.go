package fiberscheduler

import (
	"sync"

	"github.com/go-foundations/fiberscheduler/internal/logging"
)

// queue is a power-of-two-capacity ring buffer of pending jobs with its
// own wakeup condition variable, sleeper count, and interrupt stamp. Head
// and tail are free-running counters masked by capacity-1; enqueue and
// yielding jobs are pushed at head (tail-insertion in the conceptual FIFO
// sense — see pushBack), while resumed waiters are pushed at the front via
// pushFront, trading fairness for cache-freshness per spec.md §4.2.
type queue struct {
	arr  []*Job
	mask uint32
	head uint32
	tail uint32

	parent   *queue
	fallback *queue

	cond           *sync.Cond
	sleeperCount   uint
	interruptStamp uint

	name string
}

func newQueue(capacity uint32, mu *sync.Mutex, name string) *queue {
	if capacity == 0 || capacity&(capacity-1) != 0 {
		logging.Log.Panic().Str("queue", name).Uint32("capacity", capacity).
			Msg("fiberscheduler: queue capacity must be a power of two")
	}
	return &queue{
		arr:  make([]*Job, capacity),
		mask: capacity - 1,
		cond: sync.NewCond(mu),
		name: name,
	}
}

// empty reports whether this exact queue (not its fallback chain) has no
// pending jobs.
func (q *queue) empty() bool {
	return q.head == q.tail
}

// len reports the number of jobs pending in this exact queue.
func (q *queue) len() int {
	return int(q.head - q.tail)
}

// pushBack enqueues a job at the tail of the FIFO ordering: new arrivals
// and yielding jobs land here, and are dequeued in the order they arrived.
func (q *queue) pushBack(j *Job) {
	if q.head-q.tail >= uint32(len(q.arr)) {
		logging.Log.Panic().Str("queue", q.name).Int("capacity", len(q.arr)).
			Msg("fiberscheduler: queue overflowed its job-pool-sized capacity")
	}
	q.arr[q.head&q.mask] = j
	q.head++
}

// pushFront re-injects a resumed waiter ahead of everything else pending.
// This is deliberately LIFO relative to pushBack: the just-unblocked job
// has the freshest cache lines and its continuation is worth more than
// starting something new. Because next() dequeues from tail, "front" here
// means decrementing tail so the job is the very next one popped.
func (q *queue) pushFront(j *Job) {
	if q.head-q.tail >= uint32(len(q.arr)) {
		logging.Log.Panic().Str("queue", q.name).Int("capacity", len(q.arr)).
			Msg("fiberscheduler: queue overflowed its job-pool-sized capacity")
	}
	q.tail--
	q.arr[q.tail&q.mask] = j
}

// popLocal pops the head-of-line job from this exact queue, not following
// fallback links.
func (q *queue) popLocal() *Job {
	if q.empty() {
		return nil
	}
	j := q.arr[q.tail&q.mask]
	q.arr[q.tail&q.mask] = nil
	q.tail++
	return j
}

// next pops the next runnable job by walking the fallback chain starting
// at q: q itself, then q.fallback, then q.fallback.fallback, and so on.
// It returns the queue the job actually came from, which may be a
// fallback rather than q itself.
func (q *queue) next() (*Job, *queue) {
	for cur := q; cur != nil; cur = cur.fallback {
		if j := cur.popLocal(); j != nil {
			return j, cur
		}
	}
	return nil, nil
}

// signal wakes one sleeper willing to run work pushed into q. It walks up
// the parent chain from q (a worker sleeping on a higher-priority queue is
// willing to steal from its fallback, which is q) and signals the first
// queue along that walk with a positive sleeper count.
func (q *queue) signal() {
	for cur := q; cur != nil; cur = cur.parent {
		if cur.sleeperCount > 0 {
			cur.sleeperCount--
			cur.cond.Signal()
			return
		}
	}
}

// interrupt bumps the stamp, wakes every sleeper on q, and zeros the
// sleeper count, matching tina_scheduler_interrupt exactly.
func (q *queue) interrupt() {
	q.interruptStamp++
	q.cond.Broadcast()
	q.sleeperCount = 0
}

// setPriority links fallback as q's fallback queue (dequeue path) and q as
// fallback's parent (signal path). Each queue may have at most one parent
// and one fallback, enforced here exactly like tina_scheduler_queue_priority's
// asserts.
func setPriority(q, fallback *queue) {
	if q.fallback != nil {
		logging.Log.Panic().Str("queue", q.name).Str("fallback", q.fallback.name).
			Msg("fiberscheduler: queue already has a fallback assigned")
	}
	if fallback.parent != nil {
		logging.Log.Panic().Str("queue", fallback.name).Str("parent", fallback.parent.name).
			Msg("fiberscheduler: queue already has a parent assigned")
	}
	q.fallback = fallback
	fallback.parent = q
}
