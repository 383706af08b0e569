package server

import (
	"fmt"
	"sort"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scootdev/batchsim/common/allocator"
	"github.com/scootdev/batchsim/common/stats"
	"github.com/scootdev/batchsim/scheduler/domain"
)

const (
	// Provide defaults for config settings that should never be uninitialized/zero.
	// These mirror the pool the simulator was first built around.

	// Number of worker nodes in the pool.
	DefaultNumNodes = 128

	// Cores per worker node.
	DefaultCoresPerNode = 24

	// Memory units per worker node.
	DefaultMemoryPerNode = 64
)

// SchedulerConfiguration variables read at initialization
// NumNodes -
//
//	number of identical nodes in the pool, each with NodeCapacity.
//
// NodeCapacity -
//
//	total cores and memory of every node.
//
// NodeCapacities -
//
//	if set, one node per entry with that entry's capacity; overrides NumNodes and NodeCapacity.
//
// Footprint -
//
//	footprint score used by the smallest-job-first policy, ProductFootprint if nil.
type SchedulerConfiguration struct {
	NumNodes       int
	NodeCapacity   allocator.Resources
	NodeCapacities []allocator.Resources
	Footprint      FootprintFn
}

func (c SchedulerConfiguration) String() string {
	if len(c.NodeCapacities) > 0 {
		return fmt.Sprintf("SchedulerConfiguration: NodeCapacities: %v", c.NodeCapacities)
	}
	return fmt.Sprintf("SchedulerConfiguration: NumNodes: %d, NodeCapacity: %s", c.NumNodes, c.NodeCapacity)
}

func (c SchedulerConfiguration) capacities() []allocator.Resources {
	if len(c.NodeCapacities) > 0 {
		return c.NodeCapacities
	}
	n := c.NumNodes
	if n <= 0 {
		n = DefaultNumNodes
	}
	capacity := c.NodeCapacity
	if capacity.Cores == 0 {
		capacity.Cores = DefaultCoresPerNode
	}
	if capacity.Memory == 0 {
		capacity.Memory = DefaultMemoryPerNode
	}
	out := make([]allocator.Resources, n)
	for i := range out {
		out[i] = capacity
	}
	return out
}

// Placement records which node a job was placed on.
type Placement struct {
	Job  *domain.Job
	Node domain.NodeId
}

// CycleReport describes what one daily cycle did.
type CycleReport struct {
	Day       int
	Placed    []Placement
	Deferred  []*domain.Job // requeued for the next day, in queue order
	Dropped   []*domain.Job // removed from the simulation, unsatisfiable or no longer placeable
	Completed []*domain.Job // released during this cycle's advancement
	Stats     []NodeStats
}

func (r *CycleReport) String() string {
	return fmt.Sprintf("day:%d, placed:%d, deferred:%d, dropped:%d, completed:%d",
		r.Day, len(r.Placed), len(r.Deferred), len(r.Dropped), len(r.Completed))
}

// StatefulScheduler owns the node pool, the arrival queue and the running jobs of one simulation.
// All methods are safe to call from multiple goroutines; a daily cycle runs to completion under
// the scheduler's lock, and each node's counters are additionally guarded by the node's own pool.
type StatefulScheduler struct {
	config  SchedulerConfiguration
	cluster *clusterState
	stat    stats.StatsReceiver

	mu      sync.Mutex
	day     int
	nextSeq int64
	queue   []*domain.Job
	running []*jobState
	history map[int][]NodeStats
}

// NewStatefulScheduler creates a scheduler whose nodes all start fully available, on day 0.
func NewStatefulScheduler(config SchedulerConfiguration, stat stats.StatsReceiver) (*StatefulScheduler, error) {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	cs, err := newClusterState(config.capacities())
	if err != nil {
		return nil, errors.Wrap(err, "couldn't create cluster")
	}
	if config.Footprint == nil {
		config.Footprint = ProductFootprint
	}
	log.Infof("created scheduler: %s", config)
	return &StatefulScheduler{
		config:  config,
		cluster: cs,
		stat:    stat,
		history: map[int][]NodeStats{},
	}, nil
}

// Day returns the day the next daily cycle will simulate.
func (s *StatefulScheduler) Day() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day
}

// Submit validates the job and appends it to the arrival queue.
// Jobs with a non-positive demand or execution time are rejected with domain.ErrInvalidJobSpec.
// A job that is already queued, or has left the Queued state, is rejected with domain.ErrAlreadySubmitted.
func (s *StatefulScheduler) Submit(job *domain.Job) error {
	if err := job.Validate(); err != nil {
		s.reject(job, err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkNotSubmitted(job); err != nil {
		s.reject(job, err)
		return err
	}
	s.nextSeq++
	job.Seq = s.nextSeq
	job.Status = domain.Queued
	job.Node = domain.NoNode
	job.RemainingTime = 0
	s.queue = append(s.queue, job)
	s.stat.Counter(stats.SchedSubmittedJobsCounter).Inc(1)
	log.WithFields(log.Fields{"jobID": job.Id, "seq": job.Seq, "day": job.ArrivalDay}).Debug("submitted job")
	return nil
}

func (s *StatefulScheduler) reject(job *domain.Job, err error) {
	s.stat.Counter(stats.SchedRejectedJobsCounter).Inc(1)
	log.WithFields(log.Fields{"jobID": jobID(job)}).Warnf("rejected job: %v", err)
}

// Assumes the scheduler lock is held.
func (s *StatefulScheduler) checkNotSubmitted(job *domain.Job) error {
	if job.Status != domain.Queued {
		return errors.Wrapf(domain.ErrAlreadySubmitted, "job %d (seq %d) is %s", job.Id, job.Seq, job.Status)
	}
	for _, queued := range s.queue {
		if queued == job {
			return errors.Wrapf(domain.ErrAlreadySubmitted, "job %d (seq %d) is waiting in the arrival queue", job.Id, job.Seq)
		}
	}
	return nil
}

// Allocate places a single job that was not submitted, outside of any daily cycle, and starts it running.
// Returns an error wrapping domain.ErrUnsatisfiable if no node could ever hold the job,
// or domain.ErrNoCapacityAvailable if none has room now. Callers decide whether to retry.
func (s *StatefulScheduler) Allocate(job *domain.Job, fit domain.FitPolicy) (domain.NodeId, error) {
	if err := job.Validate(); err != nil {
		return domain.NoNode, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, queued := range s.queue {
		if queued == job {
			return domain.NoNode, errors.Wrapf(domain.ErrAlreadySubmitted, "job %d (seq %d) is waiting in the arrival queue", job.Id, job.Seq)
		}
	}
	if job.Seq == 0 {
		s.nextSeq++
		job.Seq = s.nextSeq
	}
	return s.allocate(job, fit)
}

// Assumes the scheduler lock is held.
func (s *StatefulScheduler) allocate(job *domain.Job, fit domain.FitPolicy) (domain.NodeId, error) {
	if job.Status != domain.Queued {
		return job.Node, errors.Wrapf(domain.ErrAlreadySubmitted, "job %d (seq %d) is %s, jobs are placed at most once", job.Id, job.Seq, job.Status)
	}
	ns, grant, err := s.cluster.allocate(job, fit)
	if err != nil {
		return domain.NoNode, err
	}
	s.running = append(s.running, newJobState(job, ns.id, grant, s.day))
	s.stat.Counter(stats.SchedPlacedJobsCounter).Inc(1)
	s.stat.Histogram(stats.SchedQueueWaitDaysHistogram).Update(int64(s.day - job.ArrivalDay))
	log.WithFields(log.Fields{
		"jobID": job.Id,
		"seq":   job.Seq,
		"node":  ns.id,
		"fit":   fit,
	}).Debugf("placed job, node now %s", ns)
	return ns.id, nil
}

// AdvanceDay moves every running job one day forward and releases the jobs that finish.
// Returns the completed jobs in placement order.
func (s *StatefulScheduler) AdvanceDay() []*domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advance()
}

// Assumes the scheduler lock is held.
func (s *StatefulScheduler) advance() []*domain.Job {
	var completed []*domain.Job
	stillRunning := s.running[:0]
	for _, js := range s.running {
		if js.advance() && js.finish(s.cluster) {
			completed = append(completed, js.Job)
			continue
		}
		if js.Job.Status == domain.Running {
			stillRunning = append(stillRunning, js)
		}
	}
	// drop references held past the new length
	for i := len(stillRunning); i < len(s.running); i++ {
		s.running[i] = nil
	}
	s.running = stillRunning
	s.stat.Counter(stats.SchedCompletedJobsCounter).Inc(int64(len(completed)))
	return completed
}

// Release completes a running job early, identified by its submission sequence number,
// returning its cores and memory to its node. Returns false if no running job has that
// sequence number, so a second release of the same job changes nothing.
func (s *StatefulScheduler) Release(seq int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, js := range s.running {
		if js.Job.Seq != seq {
			continue
		}
		released := js.finish(s.cluster)
		s.running = append(s.running[:i], s.running[i+1:]...)
		if released {
			s.stat.Counter(stats.SchedCompletedJobsCounter).Inc(1)
		}
		return released
	}
	return false
}

// RunDailyCycle runs one scheduling pass: order the queue, place what fits, requeue what
// doesn't, drop what never can, advance running jobs, and record the day's node statistics.
func (s *StatefulScheduler) RunDailyCycle(policy domain.SchedulingPolicy, fit domain.FitPolicy) (*CycleReport, error) {
	alg, err := NewSchedulingAlg(policy, s.config.Footprint)
	if err != nil {
		return nil, err
	}
	if !fit.Valid() {
		return nil, fmt.Errorf("unsupported fit policy %s", fit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// the latency's start time is shared, so only time under the lock
	defer s.stat.Latency(stats.SchedDailyCycleLatency_ms).Time().Stop()

	report := &CycleReport{Day: s.day}
	pending := s.queue
	s.queue = nil

	for _, job := range alg.Order(pending) {
		node, err := s.allocate(job, fit)
		switch {
		case err == nil:
			report.Placed = append(report.Placed, Placement{Job: job, Node: node})
		case domain.IsNoCapacity(err):
			s.queue = append(s.queue, job)
			report.Deferred = append(report.Deferred, job)
		case domain.IsUnsatisfiable(err):
			job.Status = domain.Dropped
			report.Dropped = append(report.Dropped, job)
			log.WithFields(log.Fields{"jobID": job.Id, "seq": job.Seq, "day": s.day}).Warnf("dropped job: %v", err)
		default:
			// the job left the Queued state while waiting, requeuing it would retry forever
			report.Dropped = append(report.Dropped, job)
			log.WithFields(log.Fields{"jobID": job.Id, "seq": job.Seq, "day": s.day}).Errorf("dropped job: %v", err)
		}
	}

	// Deferred jobs keep arrival order among themselves, even when the policy reordered them.
	s.queue = inArrivalOrder(s.queue)
	report.Deferred = append([]*domain.Job(nil), s.queue...)

	report.Completed = s.advance()
	report.Stats = s.cluster.snapshot()
	s.history[s.day] = report.Stats

	s.updateStats(report)
	log.Infof("finished cycle %s", report)
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("node stats for day %d: %s", s.day, spew.Sdump(report.Stats))
	}
	s.day++
	return report, nil
}

// Assumes the scheduler lock is held.
func (s *StatefulScheduler) updateStats(report *CycleReport) {
	s.stat.Counter(stats.SchedDeferredJobsCounter).Inc(int64(len(report.Deferred)))
	s.stat.Counter(stats.SchedDroppedJobsCounter).Inc(int64(len(report.Dropped)))
	s.stat.Gauge(stats.SchedQueuedJobsGauge).Update(int64(len(s.queue)))
	s.stat.Gauge(stats.SchedRunningJobsGauge).Update(int64(len(s.running)))
	s.stat.Gauge(stats.SchedDayGauge).Update(int64(report.Day))
	cpu, mem := meanUtilization(report.Stats)
	s.stat.GaugeFloat(stats.SchedMeanCPUUtilizationGauge).Update(cpu)
	s.stat.GaugeFloat(stats.SchedMeanMemUtilizationGauge).Update(mem)
}

// GetStatistics returns the node statistics recorded at the end of the given day's cycle.
func (s *StatefulScheduler) GetStatistics(day int) ([]NodeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nodeStats, ok := s.history[day]
	if !ok {
		return nil, errors.Wrapf(domain.ErrUnknownDay, "no statistics recorded for day %d", day)
	}
	return append([]NodeStats(nil), nodeStats...), nil
}

// Snapshot returns the current per node statistics.
func (s *StatefulScheduler) Snapshot() []NodeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cluster.snapshot()
}

// QueuedJobs returns the jobs waiting in the arrival queue, in queue order.
func (s *StatefulScheduler) QueuedJobs() []*domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Job(nil), s.queue...)
}

// RunningJobs returns the jobs holding node resources, in placement order.
func (s *StatefulScheduler) RunningJobs() []*domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Job, 0, len(s.running))
	for _, js := range s.running {
		out = append(out, js.Job)
	}
	return out
}

// inArrivalOrder sorts jobs by submission sequence, which is the arrival queue order.
func inArrivalOrder(jobs []*domain.Job) []*domain.Job {
	ordered := copyJobs(jobs)
	sort.SliceStable(ordered, func(i, k int) bool {
		return ordered[i].Seq < ordered[k].Seq
	})
	return ordered
}

func jobID(j *domain.Job) interface{} {
	if j == nil {
		return nil
	}
	return j.Id
}
