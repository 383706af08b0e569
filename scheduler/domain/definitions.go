// Package domain provides definitions for simulated batch Jobs and the
// policies used to place them on worker nodes.
package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// HoursPerDay bounds a Job's ArrivalHour.
const HoursPerDay = 24

// NodeId identifies a worker node for the lifetime of a simulation.
type NodeId int

// NoNode is reported for jobs that have not been placed.
const NoNode NodeId = -1

// Job is a unit of work the scheduler places on a single node.
// Id is only unique within an arrival batch; Seq is assigned by the
// scheduler on submission and is unique for the scheduler's lifetime.
type Job struct {
	Id             int
	Seq            int64
	ArrivalDay     int
	ArrivalHour    int
	CoresRequired  int
	MemoryRequired int
	ExecutionTime  int
	RemainingTime  int

	Status Status
	Node   NodeId
}

// NewJob returns a queued, unplaced Job.
func NewJob(id, arrivalDay, arrivalHour, cores, memory, execTime int) *Job {
	return &Job{
		Id:             id,
		ArrivalDay:     arrivalDay,
		ArrivalHour:    arrivalHour,
		CoresRequired:  cores,
		MemoryRequired: memory,
		ExecutionTime:  execTime,
		Status:         Queued,
		Node:           NoNode,
	}
}

func (j *Job) String() string {
	return fmt.Sprintf("job:%d(seq:%d), day:%d, hour:%d, cores:%d, mem:%d, exec:%d, remaining:%d, status:%s, node:%d",
		j.Id, j.Seq, j.ArrivalDay, j.ArrivalHour, j.CoresRequired, j.MemoryRequired,
		j.ExecutionTime, j.RemainingTime, j.Status, j.Node)
}

// Validate rejects jobs that can never be meaningfully scheduled.
// The returned error wraps ErrInvalidJobSpec.
func (j *Job) Validate() error {
	if j == nil {
		return errors.Wrap(ErrInvalidJobSpec, "nil job")
	}
	if j.CoresRequired <= 0 {
		return errors.Wrapf(ErrInvalidJobSpec, "job %d: cores required must be positive, got %d", j.Id, j.CoresRequired)
	}
	if j.MemoryRequired <= 0 {
		return errors.Wrapf(ErrInvalidJobSpec, "job %d: memory required must be positive, got %d", j.Id, j.MemoryRequired)
	}
	if j.ExecutionTime <= 0 {
		return errors.Wrapf(ErrInvalidJobSpec, "job %d: execution time must be positive, got %d", j.Id, j.ExecutionTime)
	}
	if j.ArrivalDay < 0 {
		return errors.Wrapf(ErrInvalidJobSpec, "job %d: negative arrival day %d", j.Id, j.ArrivalDay)
	}
	if j.ArrivalHour < 0 || j.ArrivalHour >= HoursPerDay {
		return errors.Wrapf(ErrInvalidJobSpec, "job %d: arrival hour %d outside [0,%d)", j.Id, j.ArrivalHour, HoursPerDay)
	}
	return nil
}

// Status of a Job
type Status int

const (
	// Waiting in the arrival queue.
	Queued Status = iota

	// Placed on a node and holding its resources.
	Running

	// Finished and released its resources.
	Completed

	// Removed from the queue because no node could ever hold it.
	Dropped
)

func (s Status) String() string {
	asString := [4]string{"Queued", "Running", "Completed", "Dropped"}
	if s < Queued || s > Dropped {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return asString[s]
}
