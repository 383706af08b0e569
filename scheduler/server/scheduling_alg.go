package server

import (
	"fmt"
	"math"
	"sort"

	"github.com/scootdev/batchsim/scheduler/domain"
)

// FootprintFn scores a job for smallest-job-first ordering, smaller runs first.
type FootprintFn func(j *domain.Job) int64

// ProductFootprint is the default footprint:
// ExecutionTime * CoresRequired * MemoryRequired, saturating at math.MaxInt64.
func ProductFootprint(j *domain.Job) int64 {
	return mulSat(mulSat(int64(j.ExecutionTime), int64(j.CoresRequired)), int64(j.MemoryRequired))
}

// WeightedFootprint scores ExecutionTime * (coreWeight*CoresRequired + memWeight*MemoryRequired),
// approximating resource-time as a weighted sum instead of a product of unlike units.
// Scores saturate at math.MaxInt64.
func WeightedFootprint(coreWeight, memWeight int64) FootprintFn {
	return func(j *domain.Job) int64 {
		demand := addSat(mulSat(coreWeight, int64(j.CoresRequired)), mulSat(memWeight, int64(j.MemoryRequired)))
		return mulSat(int64(j.ExecutionTime), demand)
	}
}

// mulSat and addSat expect non-negative operands, which validated jobs and weights are.
func mulSat(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// NewSchedulingAlg returns the algorithm implementing policy.
// A nil footprint selects ProductFootprint; it is ignored by the other policies.
func NewSchedulingAlg(policy domain.SchedulingPolicy, footprint FootprintFn) (SchedulingAlgorithm, error) {
	switch policy {
	case domain.FCFS:
		return &fcfsAlg{}, nil
	case domain.SmallestJobFirst:
		if footprint == nil {
			footprint = ProductFootprint
		}
		return &smallestJobFirstAlg{footprint: footprint}, nil
	case domain.ShortestDurationFirst:
		return &shortestDurationFirstAlg{}, nil
	}
	return nil, fmt.Errorf("unsupported scheduling policy %s", policy)
}

// Order returns jobs ordered by policy using the default footprint.
// The input slice is never modified.
func Order(jobs []*domain.Job, policy domain.SchedulingPolicy) ([]*domain.Job, error) {
	alg, err := NewSchedulingAlg(policy, nil)
	if err != nil {
		return nil, err
	}
	return alg.Order(jobs), nil
}

type fcfsAlg struct{}

func (a *fcfsAlg) Order(jobs []*domain.Job) []*domain.Job {
	return copyJobs(jobs)
}

type smallestJobFirstAlg struct {
	footprint FootprintFn
}

func (a *smallestJobFirstAlg) Order(jobs []*domain.Job) []*domain.Job {
	ordered := copyJobs(jobs)
	// score once, the footprint may be arbitrarily expensive
	scores := make(map[*domain.Job]int64, len(ordered))
	for _, j := range ordered {
		scores[j] = a.footprint(j)
	}
	sort.SliceStable(ordered, func(i, k int) bool {
		return scores[ordered[i]] < scores[ordered[k]]
	})
	return ordered
}

type shortestDurationFirstAlg struct{}

func (a *shortestDurationFirstAlg) Order(jobs []*domain.Job) []*domain.Job {
	ordered := copyJobs(jobs)
	sort.SliceStable(ordered, func(i, k int) bool {
		return ordered[i].ExecutionTime < ordered[k].ExecutionTime
	})
	return ordered
}

func copyJobs(jobs []*domain.Job) []*domain.Job {
	out := make([]*domain.Job, len(jobs))
	copy(out, jobs)
	return out
}
