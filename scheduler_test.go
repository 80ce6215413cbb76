package fiberscheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// SchedulerTestSuite exercises the dispatch/queue/group state machine
// described in spec.md §8.
type SchedulerTestSuite struct {
	suite.Suite
}

func TestSchedulerTestSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func smallConfig(queues int) Config {
	c := DefaultConfig()
	c.JobCount = 128
	c.FiberCount = 16
	c.QueueCount = queues
	return c
}

func (ts *SchedulerTestSuite) TestSingleQueueActsAsTrivialFIFO() {
	sched := New(smallConfig(1))

	var order []int
	var mu sync.Mutex
	for i := 0; i < 5; i++ {
		i := i
		ts.True(sched.Enqueue("", func(job *Job) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}, nil, 0, 0, nil))
	}

	sched.Run(0, RunFlush)
	ts.Equal([]int{0, 1, 2, 3, 4}, order)
}

func (ts *SchedulerTestSuite) TestFanOutFanIn() {
	sched := New(smallConfig(1))

	var completed int32
	var group Group
	var parentRanAfter bool

	sched.Enqueue("parent", func(job *Job) {
		descs := make([]JobDescription, 100)
		for i := range descs {
			descs[i] = JobDescription{
				Func: func(job *Job) {
					atomic.AddInt32(&completed, 1)
				},
				QueueIndex: 0,
			}
		}
		accepted := sched.EnqueueBatch(descs, &group)
		ts.Equal(100, accepted)

		remaining := job.Wait(&group, 0)
		ts.Equal(uint(0), remaining)
		ts.Equal(int32(100), atomic.LoadInt32(&completed))
		parentRanAfter = true
	}, nil, 0, 0, nil)

	sched.Run(0, RunFlush)

	ts.True(parentRanAfter)
	ts.Equal(int32(100), completed)
	ts.Equal(uint(0), group.count)
	ts.Equal(int(sched.jobCount), len(sched.jobPool))
	ts.Equal(int(sched.fiberCount), len(sched.fiberPool))
}

func (ts *SchedulerTestSuite) TestThrottledProducer() {
	sched := New(smallConfig(1))
	group := Group{MaxCount: 4}

	descs := make([]JobDescription, 10)
	for i := range descs {
		descs[i] = JobDescription{Func: func(job *Job) {}, QueueIndex: 0}
	}

	accepted := sched.EnqueueBatch(descs, &group)
	ts.Equal(4, accepted)

	// Drain the accepted batch so the group's count returns to zero.
	sched.Run(0, RunFlush)
	ts.Equal(uint(0), group.count)

	accepted = sched.EnqueueBatch(descs, &group)
	ts.Equal(4, accepted)
	sched.Run(0, RunFlush)
}

func (ts *SchedulerTestSuite) TestWaitBelowThresholdReturnsImmediately() {
	sched := New(smallConfig(1))
	group := Group{}
	group.count = 0

	var observed uint
	sched.Enqueue("", func(job *Job) {
		observed = job.Wait(&group, 5)
	}, nil, 0, 0, nil)

	sched.Run(0, RunFlush)
	ts.Equal(uint(0), observed)
}

func (ts *SchedulerTestSuite) TestPriorityChainPrefersHigh() {
	sched := New(smallConfig(2))
	sched.SetPriority(0, 1) // queue 0 (HI) falls back to queue 1 (LO)

	var order []string
	var mu sync.Mutex
	record := func(name string) JobFunc {
		return func(job *Job) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}

	sched.Enqueue("lo", record("lo"), nil, 0, 1, nil)
	sched.Enqueue("hi", record("hi"), nil, 0, 0, nil)

	sched.Run(0, RunFlush)
	ts.Equal([]string{"hi", "lo"}, order)
}

func (ts *SchedulerTestSuite) TestPriorityChainFallsBackWhenEmpty() {
	sched := New(smallConfig(2))
	sched.SetPriority(0, 1)

	ran := false
	sched.Enqueue("lo-only", func(job *Job) { ran = true }, nil, 0, 1, nil)

	sched.Run(0, RunFlush)
	ts.True(ran)
}

func (ts *SchedulerTestSuite) TestInterruptWakesLoopRunners() {
	sched := New(smallConfig(1))

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = sched.Run(0, RunLoop)
		}()
	}

	// Give both workers a chance to reach the sleep point.
	time.Sleep(20 * time.Millisecond)
	sched.Interrupt(0)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		ts.Fail("workers did not return after interrupt")
	}

	ts.False(results[0])
	ts.False(results[1])
}

func (ts *SchedulerTestSuite) TestYieldFairness() {
	sched := New(smallConfig(1))

	var order []string
	var mu sync.Mutex
	record := func(name string) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
	}

	sched.Enqueue("A", func(job *Job) {
		record("A-start")
		job.Yield()
		job.Yield()
		job.Yield()
		record("A-end")
	}, nil, 0, 0, nil)

	sched.Enqueue("B", func(job *Job) {
		record("B-start")
		record("B-end")
	}, nil, 0, 0, nil)

	sched.Run(0, RunFlush)

	ts.Equal([]string{"A-start", "B-start", "B-end", "A-end"}, order)
}

func (ts *SchedulerTestSuite) TestAbortDecrementsGroupLikeCompletion() {
	sched := New(smallConfig(1))
	group := Group{}

	sched.Enqueue("victim", func(job *Job) {
		job.Abort()
	}, nil, 0, 0, &group)

	waited := false
	sched.Enqueue("waiter", func(job *Job) {
		job.Wait(&group, 0)
		waited = true
	}, nil, 0, 0, nil)

	sched.Run(0, RunFlush)

	ts.True(waited)
	ts.Equal(uint(0), group.count)
	ts.Equal(int(sched.jobCount), len(sched.jobPool))
	ts.Equal(int(sched.fiberCount), len(sched.fiberPool))
}

func (ts *SchedulerTestSuite) TestSwitchQueueRoundTrip() {
	sched := New(smallConfig(2))

	var oldIdx, backIdx int
	sched.Enqueue("mover", func(job *Job) {
		oldIdx = job.SwitchQueue(1)
		backIdx = job.SwitchQueue(oldIdx)
	}, nil, 0, 0, nil)

	sched.Run(0, RunFlush)
	sched.Run(1, RunFlush)
	sched.Run(0, RunFlush)

	ts.Equal(0, oldIdx)
	ts.Equal(1, backIdx)
}

func (ts *SchedulerTestSuite) TestEnqueueBatchNeverExceedsRemainingCapacity() {
	sched := New(smallConfig(1))
	group := Group{MaxCount: 3}
	group.count = 2

	descs := make([]JobDescription, 5)
	for i := range descs {
		descs[i] = JobDescription{Func: func(job *Job) {}, QueueIndex: 0}
	}

	accepted := sched.EnqueueBatch(descs, &group)
	ts.Equal(1, accepted)
	sched.Run(0, RunFlush)
}

func (ts *SchedulerTestSuite) TestQuiescentPoolsAreFull() {
	sched := New(smallConfig(1))
	for i := 0; i < 20; i++ {
		sched.Enqueue("", func(job *Job) {}, nil, 0, 0, nil)
	}
	sched.Run(0, RunFlush)

	ts.Equal(int(sched.jobCount), len(sched.jobPool))
	ts.Equal(int(sched.fiberCount), len(sched.fiberPool))
}
