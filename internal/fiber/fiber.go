// Package fiber implements the stackful-coroutine substrate the scheduler
// is built on. Go has no exposed primitive for "pause an arbitrary call
// stack and resume it on another OS thread", so this package fakes one: a
// Fiber is a goroutine parked on a channel receive except while it has been
// handed control by Resume. Exactly one side is ever runnable at a time,
// which is the property the scheduler's mutex discipline depends on.
package fiber

// Yielder is handed to an EntryFunc and is the only way the body can
// suspend itself. It is scoped to one fiber generation (one call to New
// or Reset): closing over its own channel pair means a body can safely
// call Yield right up until it returns, even if the scheduler has already
// reacted to a previous yield by resetting the fiber out from under it
// (the old generation's Yielder still talks to the old, now-abandoned,
// channel pair instead of racing on shared fields).
type Yielder struct {
	in  chan any
	out chan any
}

// Yield suspends the running fiber body, handing value back to whoever
// called Resume, and blocks until the fiber is resumed again, returning
// the value passed to that Resume call.
func (y *Yielder) Yield(value any) any {
	y.out <- value
	return <-y.in
}

// EntryFunc is a fiber's body. It receives a Yielder scoped to its own
// generation and the value passed to the Resume call that started it, and
// runs until it calls Yielder.Yield or returns. A returned value is
// delivered to the caller of Resume exactly like a Yield would, but the
// fiber is then dead and must not be resumed again without a Reset.
type EntryFunc func(y *Yielder, value any) any

// Fiber is a reusable, pool-managed coroutine. StackSize is recorded for
// parity with the sizing contract in spec.md §4.1 (callers budget memory
// per fiber) even though Go's goroutine stacks grow on demand; it is
// never used to bound an actual allocation.
type Fiber struct {
	Name      string
	StackSize uintptr

	entry EntryFunc
	in    chan any
	out   chan any
	dead  bool
}

// New creates a fiber and starts its goroutine. The goroutine blocks
// immediately waiting for the first Resume.
func New(name string, stackSize uintptr, entry EntryFunc) *Fiber {
	f := &Fiber{Name: name, StackSize: stackSize, entry: entry}
	f.spawn()
	return f
}

// spawn starts a fresh generation: a new channel pair, a Yielder scoped to
// it, and a goroutine that closes over exactly that pair for its entire
// lifetime. Resume and Reset read/write f.in/f.out, but both are only ever
// called from the single mutex-holding scheduler goroutine, so those
// fields never see concurrent access; the fiber's own goroutine reaches
// its channels only through the Yielder closure, never through the Fiber
// struct, so a Reset racing against an in-flight Yield cannot corrupt
// either generation's rendezvous.
func (f *Fiber) spawn() {
	y := &Yielder{in: make(chan any), out: make(chan any)}
	entry := f.entry
	f.in, f.out, f.dead = y.in, y.out, false

	go func() {
		value := <-y.in
		result := entry(y, value)
		f.dead = true
		y.out <- result
	}()
}

// Resume hands control to the fiber, passing value in, and blocks until the
// fiber calls Yield or its entry function returns. It must only be called
// by the code that currently owns the fiber (the scheduler's dispatch
// loop); Fiber does not itself guard against concurrent Resume calls,
// mirroring the "held mutex during dispatch" discipline of the scheduler
// that wraps it.
func (f *Fiber) Resume(value any) any {
	f.in <- value
	return <-f.out
}

// Dead reports whether the fiber's entry function has returned. A dead
// fiber must be Reset before it can be resumed again. f.dead is written
// by the fiber's own goroutine just before its final send on y.out (=
// f.out), and only read here from the code that already received that
// send via Resume, so the channel operation itself is what makes the
// write visible — no separate synchronization is needed.
func (f *Fiber) Dead() bool {
	return f.dead
}

// Reset re-launches the fiber with a (possibly new) entry function,
// abandoning any in-progress body. This mirrors tina_init() being called
// again on a fiber whose stack was unwound by an abort: the previous
// generation's goroutine, if it is still parked inside a Yield, stays
// parked forever on its own private channel pair — nothing will ever
// resume it, since the Fiber's public identity now points at a new
// generation's channels.
func (f *Fiber) Reset(entry EntryFunc) {
	f.entry = entry
	f.spawn()
}
