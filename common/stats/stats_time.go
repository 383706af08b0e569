package stats

import (
	"time"
)

// For testing.
var Time StatsTime = DefaultStatsTime()

// Defines the calls we make to the stdlib time package. Allows for overriding in tests.
type StatsTime interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

type defaultStatsTime struct{}

func (st *defaultStatsTime) Now() time.Time                  { return time.Now() }
func (st *defaultStatsTime) Since(t time.Time) time.Duration { return time.Since(t) }

func DefaultStatsTime() StatsTime {
	return &defaultStatsTime{}
}

// A StatsTime whose clock advances by a fixed step on every call to Now().
type testStatsTime struct {
	now  time.Time
	step time.Duration
}

func (st *testStatsTime) Now() time.Time {
	n := st.now
	st.now = st.now.Add(st.step)
	return n
}

func (st *testStatsTime) Since(t time.Time) time.Duration {
	return st.Now().Sub(t)
}

// NewTestTime returns a StatsTime that starts at 'now' and moves forward
// 'step' each time it is read, so a Time()/Stop() pair always measures 'step'.
func NewTestTime(now time.Time, step time.Duration) StatsTime {
	return &testStatsTime{now: now, step: step}
}
