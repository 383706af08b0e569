// Package server provides the main job scheduling interface for the batch simulator
package server

//go:generate mockgen -source=scheduler.go -package=server -destination=scheduler_mock.go

import (
	"github.com/scootdev/batchsim/scheduler/domain"
)

// Scheduler is the surface a simulation driver uses, once per simulated day.
type Scheduler interface {
	Submit(job *domain.Job) error

	RunDailyCycle(policy domain.SchedulingPolicy, fit domain.FitPolicy) (*CycleReport, error)

	GetStatistics(day int) ([]NodeStats, error)
}

// SchedulingAlgorithm orders queued jobs before allocation is attempted.
// Implementations must be pure and stable.
type SchedulingAlgorithm interface {
	Order(jobs []*domain.Job) []*domain.Job
}
