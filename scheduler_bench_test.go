package fiberscheduler

import (
	"fmt"
	"testing"
)

// Benchmark throughput at varying queue counts, each queue drained in
// turn with RunFlush.
func BenchmarkQueueCounts(b *testing.B) {
	queueCounts := []int{1, 2, 4, 8}

	for _, n := range queueCounts {
		b.Run(fmt.Sprintf("Queues_%d", n), func(b *testing.B) {
			config := DefaultConfig()
			config.QueueCount = n
			sched := New(config)

			descs := make([]JobDescription, 100)
			for i := range descs {
				descs[i] = JobDescription{
					Func:       benchmarkJobFunc,
					QueueIndex: i % n,
				}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				sched.EnqueueBatch(descs, nil)
				b.StartTimer()
				for q := range sched.queues {
					for sched.Run(q, RunFlush) {
					}
				}
			}
		})
	}
}

// Benchmark throughput at varying fiber pool sizes, which bounds how many
// jobs may be suspended (not yet completed) at once.
func BenchmarkFiberCounts(b *testing.B) {
	fiberCounts := []uint32{1, 4, 16, 64}

	for _, n := range fiberCounts {
		b.Run(fmt.Sprintf("Fibers_%d", n), func(b *testing.B) {
			config := DefaultConfig()
			config.FiberCount = n
			sched := New(config)

			descs := make([]JobDescription, 100)
			for i := range descs {
				descs[i] = JobDescription{Func: benchmarkJobFunc}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				sched.EnqueueBatch(descs, nil)
				b.StartTimer()
				for sched.Run(0, RunFlush) {
				}
			}
		})
	}
}

// Benchmark batch sizes against a fixed scheduler configuration.
func BenchmarkBatchSizes(b *testing.B) {
	batchSizes := []int{10, 100, 1000}

	for _, n := range batchSizes {
		b.Run(fmt.Sprintf("Jobs_%d", n), func(b *testing.B) {
			config := DefaultConfig()
			config.JobCount = nextPowerOfTwo(uint32(n))
			sched := New(config)

			descs := make([]JobDescription, n)
			for i := range descs {
				descs[i] = JobDescription{Func: benchmarkJobFunc}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				sched.EnqueueBatch(descs, nil)
				b.StartTimer()
				for sched.Run(0, RunFlush) {
				}
			}
		})
	}
}

func benchmarkJobFunc(job *Job) {}

func nextPowerOfTwo(n uint32) uint32 {
	p := uint32(1)
	for p < n {
		p <<= 1
	}
	return p
}
