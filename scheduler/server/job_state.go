package server

import (
	"github.com/scootdev/batchsim/common/allocator"
	"github.com/scootdev/batchsim/scheduler/domain"
)

// Contains all the information for a job holding node resources.
type jobState struct {
	Job       *domain.Job
	Node      domain.NodeId
	DayPlaced int

	grant *allocator.Grant // what Job holds on Node, released exactly once
}

func newJobState(job *domain.Job, node domain.NodeId, grant *allocator.Grant, day int) *jobState {
	job.Status = domain.Running
	job.Node = node
	job.RemainingTime = job.ExecutionTime
	return &jobState{Job: job, Node: node, DayPlaced: day, grant: grant}
}

// advance moves the job one day forward. It reports true when the job just reached
// zero remaining time and must be released. A finished job is never advanced again.
func (j *jobState) advance() bool {
	if j.Job.Status != domain.Running {
		return false
	}
	j.Job.RemainingTime--
	return j.Job.RemainingTime <= 0
}

// finish marks the job completed and returns its grant to the node.
// Returns false if the job had already been released.
func (j *jobState) finish(cs *clusterState) bool {
	if !cs.release(j.Node, j.grant) {
		return false
	}
	j.Job.Status = domain.Completed
	j.Job.RemainingTime = 0
	return true
}
