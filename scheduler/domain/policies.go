package domain

import (
	"fmt"
	"strings"
)

// SchedulingPolicy selects how queued jobs are ordered before allocation.
type SchedulingPolicy int

const (
	// First come first served, arrival order is kept.
	FCFS SchedulingPolicy = iota

	// Ascending by footprint score, ties keep arrival order.
	SmallestJobFirst

	// Ascending by execution time, ties keep arrival order.
	ShortestDurationFirst
)

var schedulingPolicyNames = map[SchedulingPolicy]string{
	FCFS:                  "fcfs",
	SmallestJobFirst:      "sjf",
	ShortestDurationFirst: "sdf",
}

func (p SchedulingPolicy) String() string {
	if s, ok := schedulingPolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("SchedulingPolicy(%d)", int(p))
}

func (p SchedulingPolicy) Valid() bool {
	_, ok := schedulingPolicyNames[p]
	return ok
}

// ParseSchedulingPolicy accepts the short names (fcfs, sjf, sdf) or the
// numeric selectors 1, 2 and 3.
func ParseSchedulingPolicy(s string) (SchedulingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fcfs", "1", "first_come_first_served":
		return FCFS, nil
	case "sjf", "2", "smallest_job_first":
		return SmallestJobFirst, nil
	case "sdf", "3", "shortest_duration_first":
		return ShortestDurationFirst, nil
	}
	return FCFS, fmt.Errorf("invalid scheduling policy %q, supported values are fcfs, sjf, sdf", s)
}

// FitPolicy selects among the nodes able to hold a job.
type FitPolicy int

const (
	// The lowest id node with room.
	FirstFit FitPolicy = iota

	// The node left with the least spare capacity.
	BestFit

	// The node left with the most spare capacity.
	WorstFit
)

var fitPolicyNames = map[FitPolicy]string{
	FirstFit: "first",
	BestFit:  "best",
	WorstFit: "worst",
}

func (p FitPolicy) String() string {
	if s, ok := fitPolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("FitPolicy(%d)", int(p))
}

func (p FitPolicy) Valid() bool {
	_, ok := fitPolicyNames[p]
	return ok
}

// ParseFitPolicy accepts first, best, worst (optionally suffixed with _fit)
// or the numeric selectors 1, 2 and 3.
func ParseFitPolicy(s string) (FitPolicy, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "_fit") {
	case "first", "1":
		return FirstFit, nil
	case "best", "2":
		return BestFit, nil
	case "worst", "3":
		return WorstFit, nil
	}
	return FirstFit, fmt.Errorf("invalid fit policy %q, supported values are first, best, worst", s)
}
