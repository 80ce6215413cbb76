package fiber

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type FiberTestSuite struct {
	suite.Suite
}

func TestFiberTestSuite(t *testing.T) {
	suite.Run(t, new(FiberTestSuite))
}

func (ts *FiberTestSuite) TestResumeYieldRoundTrip() {
	f := New("test", 64*1024, func(y *Yielder, value any) any {
		ts.Equal("first", value)
		next := y.Yield("yielded")
		ts.Equal("second", next)
		return "done"
	})

	ts.Equal("yielded", f.Resume("first"))
	ts.False(f.Dead())
	ts.Equal("done", f.Resume("second"))
	ts.True(f.Dead())
}

func (ts *FiberTestSuite) TestResetStartsFreshGeneration() {
	f := New("test", 64*1024, func(y *Yielder, value any) any {
		return "original"
	})
	ts.Equal("original", f.Resume(nil))
	ts.True(f.Dead())

	f.Reset(func(y *Yielder, value any) any {
		return "reset"
	})
	ts.False(f.Dead())
	ts.Equal("reset", f.Resume(nil))
}

func (ts *FiberTestSuite) TestMultipleYieldsLoop() {
	count := 0
	f := New("loop", 64*1024, func(y *Yielder, value any) any {
		for {
			count++
			value = y.Yield(count)
		}
	})

	for i := 1; i <= 3; i++ {
		got := f.Resume(nil)
		ts.Equal(i, got)
	}
}
