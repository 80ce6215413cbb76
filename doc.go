// Package fiberscheduler implements a cooperative, fiber-based job
// scheduler: application code submits jobs into prioritized queues, a
// bounded pool of worker goroutines runs them on a bounded pool of
// reusable coroutines ("fibers"), and job dependencies are expressed
// through counter-based Groups that can suspend a running job until
// other jobs complete.
//
// The scheduler owns four cooperating pieces: a fiber pool, a job pool, a
// set of priority-linked queues, and the dispatch loop that ties them
// together under a single mutex. Workers call Run to drive a queue;
// producers call EnqueueBatch (or the Enqueue convenience) to submit work;
// job bodies call Wait, Yield, SwitchQueue, or Abort to suspend
// themselves. See README-level documentation in SPEC_FULL.md for the full
// design rationale.
package fiberscheduler
