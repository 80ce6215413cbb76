package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-foundations/fiberscheduler"
)

func newDemoCommand() *cobra.Command {
	demo := &cobra.Command{
		Use:   "demo",
		Short: "Illustrative scenarios built on the scheduler's primitives",
	}
	demo.AddCommand(newFanOutCommand(), newThrottleCommand(), newPriorityCommand())
	return demo
}

func schedulerConfig() fiberscheduler.Config {
	config := fiberscheduler.DefaultConfig()
	if v := cfg.GetUint32("job_count"); v != 0 {
		config.JobCount = v
	}
	if v := cfg.GetUint32("fiber_count"); v != 0 {
		config.FiberCount = v
	}
	return config
}

// newFanOutCommand demonstrates a producer that fans 8 children out onto
// queue 0 and waits on a Group until every one of them has completed.
func newFanOutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fan-out",
		Short: "Fan a batch of jobs out and wait for all of them to complete",
		RunE: func(cmd *cobra.Command, args []string) error {
			sched := fiberscheduler.New(schedulerConfig())
			defer sched.Destroy()

			const childCount = 8
			var completed int32
			var group fiberscheduler.Group

			descs := make([]fiberscheduler.JobDescription, childCount)
			for i := range descs {
				i := i
				descs[i] = fiberscheduler.JobDescription{
					Name: fmt.Sprintf("child-%d", i),
					Func: func(job *fiberscheduler.Job) {
						time.Sleep(time.Millisecond)
						atomic.AddInt32(&completed, 1)
					},
					QueueIndex: 0,
				}
			}
			sched.EnqueueBatch(descs, &group)

			sched.Enqueue("parent", func(job *fiberscheduler.Job) {
				job.Wait(&group, 0)
			}, nil, 0, 0, nil)

			for sched.Run(0, fiberscheduler.RunFlush) {
			}

			fmt.Printf("fan-out: %d/%d children completed\n", completed, childCount)
			return nil
		},
	}
}

// newThrottleCommand demonstrates a Group with a MaxCount bound: a producer
// tries to enqueue more work than the group allows outstanding at once and
// must re-submit the remainder after draining.
func newThrottleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "throttle",
		Short: "Enqueue more jobs than a Group's MaxCount permits at once",
		RunE: func(cmd *cobra.Command, args []string) error {
			sched := fiberscheduler.New(schedulerConfig())
			defer sched.Destroy()

			group := fiberscheduler.Group{MaxCount: 4}
			const total = 10
			var processed int32

			pending := make([]fiberscheduler.JobDescription, total)
			for i := range pending {
				pending[i] = fiberscheduler.JobDescription{
					Name: fmt.Sprintf("unit-%d", i),
					Func: func(job *fiberscheduler.Job) {
						atomic.AddInt32(&processed, 1)
					},
					QueueIndex: 0,
				}
			}

			accepted := 0
			for accepted < total {
				n := sched.EnqueueBatch(pending[accepted:], &group)
				if n == 0 {
					for sched.Run(0, fiberscheduler.RunFlush) {
					}
					continue
				}
				accepted += n
				for sched.Run(0, fiberscheduler.RunFlush) {
				}
			}

			fmt.Printf("throttle: processed %d/%d units under MaxCount=%d\n", processed, total, group.MaxCount)
			return nil
		},
	}
}

// newPriorityCommand demonstrates a two-queue priority chain: queue 0 is
// drained before its fallback, queue 1, is ever consulted.
func newPriorityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "priority",
		Short: "Run a high/low priority queue chain and show dequeue order",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := schedulerConfig()
			config.QueueCount = 2
			sched := fiberscheduler.New(config)
			defer sched.Destroy()
			sched.SetPriority(0, 1)

			var order []string
			record := func(name string) fiberscheduler.JobFunc {
				return func(job *fiberscheduler.Job) {
					order = append(order, name)
				}
			}

			sched.Enqueue("low-1", record("low-1"), nil, 0, 1, nil)
			sched.Enqueue("low-2", record("low-2"), nil, 0, 1, nil)
			sched.Enqueue("high-1", record("high-1"), nil, 0, 0, nil)

			for sched.Run(0, fiberscheduler.RunFlush) {
			}

			fmt.Printf("priority: dequeue order %v\n", order)
			return nil
		},
	}
}
