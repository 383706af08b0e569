package server

import (
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scootdev/batchsim/common/allocator"
	logsetup "github.com/scootdev/batchsim/common/log"
	"github.com/scootdev/batchsim/common/stats"
	"github.com/scootdev/batchsim/scheduler/domain"
)

// Used to get proper logging from tests...
func init() {
	logsetup.SetupFromEnv()
}

func makeTestScheduler(t *testing.T, capacities ...allocator.Resources) (*StatefulScheduler, stats.StatsRegistry) {
	statsRegistry := stats.NewFinagleStatsRegistry()
	statsReceiver := stats.NewCustomStatsReceiver(func() stats.StatsRegistry { return statsRegistry })
	s, err := NewStatefulScheduler(SchedulerConfiguration{NodeCapacities: capacities}, statsReceiver)
	require.NoError(t, err)
	return s, statsRegistry
}

func submitAll(t *testing.T, s *StatefulScheduler, jobs ...*domain.Job) {
	for _, j := range jobs {
		require.NoError(t, s.Submit(j))
	}
}

// checks 0 <= available <= total on every node, and that the resources held on nodes
// are exactly the demand of the running jobs
func assertConsistent(t *testing.T, s *StatefulScheduler) bool {
	ok := true
	var used allocator.Resources
	for _, n := range s.Snapshot() {
		if n.AvailableCores < 0 || n.AvailableCores > n.TotalCores ||
			n.AvailableMemory < 0 || n.AvailableMemory > n.TotalMemory {
			t.Errorf("node out of bounds: %+v", n)
			ok = false
		}
		used.Cores += n.TotalCores - n.AvailableCores
		used.Memory += n.TotalMemory - n.AvailableMemory
	}
	var demand allocator.Resources
	for _, j := range s.RunningJobs() {
		demand.Cores += j.CoresRequired
		demand.Memory += j.MemoryRequired
	}
	if used != demand {
		t.Errorf("conservation violated: nodes hold %s, running jobs need %s", used, demand)
		ok = false
	}
	return ok
}

func Test_StatefulScheduler_DefaultPool(t *testing.T) {
	s, err := NewStatefulScheduler(SchedulerConfiguration{}, nil)
	require.NoError(t, err)
	nodes := s.Snapshot()
	require.Len(t, nodes, DefaultNumNodes)
	for _, n := range nodes {
		assert.Equal(t, DefaultCoresPerNode, n.AvailableCores)
		assert.Equal(t, DefaultMemoryPerNode, n.AvailableMemory)
	}
	assert.Equal(t, 0, s.Day())
}

func Test_StatefulScheduler_AllocateThenComplete(t *testing.T) {
	s, _ := makeTestScheduler(t, res(24, 64))
	job := domain.NewJob(1, 0, 0, 10, 20, 3)

	node, err := s.Allocate(job, domain.FirstFit)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeId(0), node)
	assert.Equal(t, domain.Running, job.Status)
	assert.Equal(t, 3, job.RemainingTime)
	n := s.Snapshot()[0]
	assert.Equal(t, 14, n.AvailableCores)
	assert.Equal(t, 44, n.AvailableMemory)
	assertConsistent(t, s)

	assert.Empty(t, s.AdvanceDay())
	assert.Empty(t, s.AdvanceDay())
	assert.Equal(t, 14, s.Snapshot()[0].AvailableCores)
	completed := s.AdvanceDay()
	require.Len(t, completed, 1)
	assert.Same(t, job, completed[0])
	assert.Equal(t, domain.Completed, job.Status)

	n = s.Snapshot()[0]
	assert.Equal(t, 24, n.AvailableCores)
	assert.Equal(t, 64, n.AvailableMemory)
	assert.Empty(t, s.RunningJobs())

	// advancing past completion changes nothing
	assert.Empty(t, s.AdvanceDay())
	assert.Equal(t, 24, s.Snapshot()[0].AvailableCores)
	assertConsistent(t, s)

	// jobs are placed at most once
	_, err = s.Allocate(job, domain.FirstFit)
	assert.Error(t, err)
}

func Test_StatefulScheduler_DailyCycleAdvancesAndReports(t *testing.T) {
	s, _ := makeTestScheduler(t, res(24, 64))
	submitAll(t, s, domain.NewJob(1, 0, 0, 10, 20, 3))

	report, err := s.RunDailyCycle(domain.FCFS, domain.FirstFit)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Day)
	require.Len(t, report.Placed, 1)
	assert.Equal(t, domain.NodeId(0), report.Placed[0].Node)
	assert.Equal(t, 2, report.Placed[0].Job.RemainingTime)

	day0, err := s.GetStatistics(0)
	require.NoError(t, err)
	require.Len(t, day0, 1)
	assert.InDelta(t, 100.0*10/24, day0[0].CPUUtilization, 1e-9)
	assert.InDelta(t, 100.0*20/64, day0[0].MemoryUtilization, 1e-9)

	for day := 1; day <= 2; day++ {
		report, err = s.RunDailyCycle(domain.FCFS, domain.FirstFit)
		require.NoError(t, err)
		assert.Equal(t, day, report.Day)
	}
	require.Len(t, report.Completed, 1)

	day2, err := s.GetStatistics(2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, day2[0].CPUUtilization)
	assert.Equal(t, 0.0, day2[0].MemoryUtilization)

	// history is kept per day
	day0Again, err := s.GetStatistics(0)
	require.NoError(t, err)
	assert.Equal(t, day0, day0Again)

	_, err = s.GetStatistics(3)
	assert.True(t, domain.IsUnknownDay(err), "expected ErrUnknownDay, got %v", err)
	assert.Equal(t, 3, s.Day())
}

func Test_StatefulScheduler_BestAndWorstFit(t *testing.T) {
	for fit, expected := range map[domain.FitPolicy]domain.NodeId{
		domain.BestFit:  0,
		domain.WorstFit: 1,
		domain.FirstFit: 0,
	} {
		s, _ := makeTestScheduler(t, res(24, 64), res(24, 64))
		_, err := s.Allocate(domain.NewJob(0, 0, 0, 22, 10, 10), domain.FirstFit)
		require.NoError(t, err)
		require.Equal(t, 2, s.Snapshot()[0].AvailableCores)

		submitAll(t, s, domain.NewJob(1, 0, 0, 2, 2, 1))
		report, err := s.RunDailyCycle(domain.FCFS, fit)
		require.NoError(t, err)
		require.Len(t, report.Placed, 1)
		assert.Equal(t, expected, report.Placed[0].Node, "fit policy %s", fit)
	}
}

// with scarce capacity FCFS and smallest-job-first defer different jobs
func Test_StatefulScheduler_FCFSVersusSmallestJobFirst(t *testing.T) {
	makeJobs := func() []*domain.Job {
		return []*domain.Job{
			domain.NewJob(0, 0, 0, 20, 50, 5), // footprint 5000
			domain.NewJob(1, 0, 0, 10, 20, 2), // footprint 400
			domain.NewJob(2, 0, 0, 8, 10, 1),  // footprint 80
		}
	}

	fcfs, _ := makeTestScheduler(t, res(24, 64))
	submitAll(t, fcfs, makeJobs()...)
	fcfsReport, err := fcfs.RunDailyCycle(domain.FCFS, domain.FirstFit)
	require.NoError(t, err)

	sjf, _ := makeTestScheduler(t, res(24, 64))
	submitAll(t, sjf, makeJobs()...)
	sjfReport, err := sjf.RunDailyCycle(domain.SmallestJobFirst, domain.FirstFit)
	require.NoError(t, err)

	placedIds := func(r *CycleReport) []int {
		var out []int
		for _, p := range r.Placed {
			out = append(out, p.Job.Id)
		}
		return out
	}
	assert.Equal(t, []int{0}, placedIds(fcfsReport))
	assert.Equal(t, []int{1, 2}, ids(fcfsReport.Deferred))
	assert.Equal(t, []int{2, 1}, placedIds(sjfReport))
	assert.Equal(t, []int{0}, ids(sjfReport.Deferred))

	assert.Equal(t, []int{1, 2}, ids(fcfs.QueuedJobs()))
	assert.Equal(t, []int{0}, ids(sjf.QueuedJobs()))
	assertConsistent(t, fcfs)
	assertConsistent(t, sjf)
}

func Test_StatefulScheduler_RequeueKeepsArrivalOrder(t *testing.T) {
	s, _ := makeTestScheduler(t, res(24, 64))
	submitAll(t, s,
		domain.NewJob(0, 0, 0, 24, 64, 3), // footprint 4608
		domain.NewJob(1, 0, 0, 20, 60, 1), // footprint 1200
		domain.NewJob(2, 0, 0, 5, 5, 1),   // footprint 25
	)

	report, err := s.RunDailyCycle(domain.SmallestJobFirst, domain.FirstFit)
	require.NoError(t, err)
	require.Len(t, report.Placed, 1)
	assert.Equal(t, 2, report.Placed[0].Job.Id)
	assert.Equal(t, []int{0, 1}, ids(report.Deferred))

	// next day's arrivals queue up behind the requeued jobs
	submitAll(t, s, domain.NewJob(0, 1, 0, 1, 1, 1))
	assert.Equal(t, []int{0, 1, 0}, ids(s.QueuedJobs()))
	assert.Equal(t, []int{0, 0, 1}, []int{s.QueuedJobs()[0].ArrivalDay, s.QueuedJobs()[1].ArrivalDay, s.QueuedJobs()[2].ArrivalDay})

	// job 2 finished on day 0, so the FCFS head of the queue gets the whole node
	report, err = s.RunDailyCycle(domain.FCFS, domain.FirstFit)
	require.NoError(t, err)
	require.Len(t, report.Placed, 1)
	assert.Equal(t, int64(1), report.Placed[0].Job.Seq)
	assertConsistent(t, s)
}

func Test_StatefulScheduler_UnsatisfiableIsDroppedNotRequeued(t *testing.T) {
	s, statsRegistry := makeTestScheduler(t, res(24, 64), res(24, 64))
	tooBig := domain.NewJob(7, 0, 0, 25, 10, 1)
	submitAll(t, s, tooBig, domain.NewJob(8, 0, 0, 1, 1, 2))

	report, err := s.RunDailyCycle(domain.FCFS, domain.BestFit)
	require.NoError(t, err)
	require.Len(t, report.Dropped, 1)
	assert.Same(t, tooBig, report.Dropped[0])
	assert.Equal(t, domain.Dropped, tooBig.Status)
	assert.Empty(t, report.Deferred)
	assert.Empty(t, s.QueuedJobs())

	report, err = s.RunDailyCycle(domain.FCFS, domain.BestFit)
	require.NoError(t, err)
	assert.Empty(t, report.Dropped)

	stats.VerifyStats("unsatisfiable", statsRegistry, t, map[string]stats.Rule{
		stats.SchedSubmittedJobsCounter: {Checker: stats.Int64EqTest, Value: 2},
		stats.SchedPlacedJobsCounter:    {Checker: stats.Int64EqTest, Value: 1},
		stats.SchedDroppedJobsCounter:   {Checker: stats.Int64EqTest, Value: 1},
		stats.SchedCompletedJobsCounter: {Checker: stats.Int64EqTest, Value: 1},
		stats.SchedQueuedJobsGauge:      {Checker: stats.Int64EqTest, Value: 0},
		stats.SchedDayGauge:             {Checker: stats.Int64EqTest, Value: 1},
	})
}

func Test_StatefulScheduler_RejectsInvalidJobs(t *testing.T) {
	s, statsRegistry := makeTestScheduler(t, res(24, 64))
	err := s.Submit(domain.NewJob(1, 0, 0, 0, 10, 1))
	assert.True(t, domain.IsInvalidJobSpec(err), "expected ErrInvalidJobSpec, got %v", err)
	err = s.Submit(domain.NewJob(2, 0, 0, 1, 10, -4))
	assert.True(t, domain.IsInvalidJobSpec(err), "expected ErrInvalidJobSpec, got %v", err)
	assert.Empty(t, s.QueuedJobs())

	_, err = s.Allocate(domain.NewJob(3, 0, 0, 1, 0, 1), domain.FirstFit)
	assert.True(t, domain.IsInvalidJobSpec(err))

	stats.VerifyStats("invalid", statsRegistry, t, map[string]stats.Rule{
		stats.SchedRejectedJobsCounter:  {Checker: stats.Int64EqTest, Value: 2},
		stats.SchedSubmittedJobsCounter: {Checker: stats.DoesNotExistTest, Value: nil},
	})
}

func Test_StatefulScheduler_RejectsResubmittedJobs(t *testing.T) {
	s, statsRegistry := makeTestScheduler(t, res(24, 64))
	running := domain.NewJob(1, 0, 0, 10, 20, 3)
	queued := domain.NewJob(2, 0, 0, 30, 20, 1)
	submitAll(t, s, running)
	_, err := s.RunDailyCycle(domain.FCFS, domain.FirstFit)
	require.NoError(t, err)
	require.Equal(t, domain.Running, running.Status)

	err = s.Submit(running)
	assert.True(t, domain.IsAlreadySubmitted(err), "expected ErrAlreadySubmitted, got %v", err)
	assert.Equal(t, domain.Running, running.Status)
	assert.Equal(t, domain.NodeId(0), running.Node)

	// too big for the only node, dropped on the next cycle
	submitAll(t, s, queued)
	err = s.Submit(queued)
	assert.True(t, domain.IsAlreadySubmitted(err), "expected ErrAlreadySubmitted, got %v", err)
	assert.Equal(t, []int{2}, ids(s.QueuedJobs()))

	for day := 0; day < 5; day++ {
		_, err := s.RunDailyCycle(domain.FCFS, domain.FirstFit)
		require.NoError(t, err)
		assertConsistent(t, s)
	}
	assert.Equal(t, domain.Completed, running.Status)
	assert.Equal(t, domain.Dropped, queued.Status)
	assert.Empty(t, s.QueuedJobs())
	assert.Empty(t, s.RunningJobs())

	for _, j := range []*domain.Job{running, queued} {
		err = s.Submit(j)
		assert.True(t, domain.IsAlreadySubmitted(err), "expected ErrAlreadySubmitted for %s, got %v", j, err)
	}
	n := s.Snapshot()[0]
	assert.Equal(t, 24, n.AvailableCores)
	assert.Equal(t, 64, n.AvailableMemory)

	stats.VerifyStats("resubmitted", statsRegistry, t, map[string]stats.Rule{
		stats.SchedSubmittedJobsCounter: {Checker: stats.Int64EqTest, Value: 2},
		stats.SchedRejectedJobsCounter:  {Checker: stats.Int64EqTest, Value: 4},
		stats.SchedPlacedJobsCounter:    {Checker: stats.Int64EqTest, Value: 1},
	})
}

// a queued job moved out of Queued behind the scheduler's back is dropped once, not retried daily
func Test_StatefulScheduler_DropsJobsThatLeftTheQueuedState(t *testing.T) {
	s, _ := makeTestScheduler(t, res(24, 64))
	job := domain.NewJob(1, 0, 0, 4, 4, 1)
	submitAll(t, s, job)
	job.Status = domain.Completed

	report, err := s.RunDailyCycle(domain.FCFS, domain.FirstFit)
	require.NoError(t, err)
	assert.Empty(t, report.Placed)
	assert.Empty(t, report.Deferred)
	assert.Equal(t, []int{1}, ids(report.Dropped))
	assert.Equal(t, domain.Completed, job.Status)
	assert.Empty(t, s.QueuedJobs())

	report, err = s.RunDailyCycle(domain.FCFS, domain.FirstFit)
	require.NoError(t, err)
	assert.Empty(t, report.Dropped)
	assertConsistent(t, s)
}

func Test_StatefulScheduler_ReleaseIsIdempotent(t *testing.T) {
	s, _ := makeTestScheduler(t, res(24, 64))
	job := domain.NewJob(1, 0, 0, 10, 20, 30)
	_, err := s.Allocate(job, domain.FirstFit)
	require.NoError(t, err)
	other := domain.NewJob(2, 0, 0, 4, 4, 30)
	_, err = s.Allocate(other, domain.FirstFit)
	require.NoError(t, err)

	assert.True(t, s.Release(job.Seq))
	assert.False(t, s.Release(job.Seq))
	assert.False(t, s.Release(12345))
	assert.Equal(t, domain.Completed, job.Status)

	n := s.Snapshot()[0]
	assert.Equal(t, 20, n.AvailableCores)
	assert.Equal(t, 60, n.AvailableMemory)
	assert.Equal(t, []int{2}, ids(s.RunningJobs()))

	// a released job is no longer advanced
	s.AdvanceDay()
	assert.Equal(t, 0, job.RemainingTime)
	assert.Equal(t, 29, other.RemainingTime)
	assertConsistent(t, s)
}

func Test_StatefulScheduler_AllocateRejectsQueuedJob(t *testing.T) {
	s, _ := makeTestScheduler(t, res(24, 64))
	job := domain.NewJob(1, 0, 0, 1, 1, 1)
	submitAll(t, s, job)
	_, err := s.Allocate(job, domain.FirstFit)
	assert.True(t, domain.IsAlreadySubmitted(err), "expected ErrAlreadySubmitted, got %v", err)
	assert.Equal(t, []int{1}, ids(s.QueuedJobs()))

	placed := domain.NewJob(2, 0, 0, 1, 1, 5)
	_, err = s.Allocate(placed, domain.FirstFit)
	require.NoError(t, err)
	_, err = s.Allocate(placed, domain.FirstFit)
	assert.True(t, domain.IsAlreadySubmitted(err), "expected ErrAlreadySubmitted, got %v", err)
	assert.Equal(t, []int{2}, ids(s.RunningJobs()))
	assertConsistent(t, s)
}

func Test_StatefulScheduler_InvalidPolicies(t *testing.T) {
	s, _ := makeTestScheduler(t, res(24, 64))
	submitAll(t, s, domain.NewJob(1, 0, 0, 1, 1, 1))
	_, err := s.RunDailyCycle(domain.SchedulingPolicy(7), domain.FirstFit)
	assert.Error(t, err)
	_, err = s.RunDailyCycle(domain.FCFS, domain.FitPolicy(7))
	assert.Error(t, err)
	// nothing was drained
	assert.Len(t, s.QueuedJobs(), 1)
	assert.Equal(t, 0, s.Day())
}

func Test_StatefulScheduler_ConcurrentAllocate(t *testing.T) {
	s, _ := makeTestScheduler(t, res(24, 64), res(24, 64), res(24, 64), res(24, 64))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		placed int
		full   int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fit := domain.FitPolicy(i % 3)
			_, err := s.Allocate(domain.NewJob(i, 0, 0, 5, 5, 1), fit)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				placed++
			} else if domain.IsNoCapacity(err) {
				full++
			}
		}(i)
	}
	wg.Wait()

	// each node fits 4 jobs of 5 cores
	assert.Equal(t, 16, placed)
	assert.Equal(t, 34, full)
	assertConsistent(t, s)
}

func Test_StatefulScheduler_ConcurrentDailyCycles(t *testing.T) {
	s, statsRegistry := makeTestScheduler(t, res(24, 64), res(24, 64))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Submit(domain.NewJob(i, 0, 0, 6, 10, 1+i%3)))
			_, err := s.RunDailyCycle(domain.FCFS, domain.FitPolicy(i%3))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, s.Day())
	for day := 0; day < 8; day++ {
		_, err := s.GetStatistics(day)
		assert.NoError(t, err)
	}
	assertConsistent(t, s)
	stats.VerifyStats("concurrentCycles", statsRegistry, t, map[string]stats.Rule{
		stats.SchedSubmittedJobsCounter: {Checker: stats.Int64EqTest, Value: 8},
	})
}

// random multi-day workloads never break the node bounds or conservation,
// and only jobs no node could ever hold are dropped
func Test_StatefulScheduler_RandomWorkloads(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	jobFor := func(id, day, seed int) *domain.Job {
		cores := 1 + seed%30
		mem := 1 + (seed/30)%70
		exec := 1 + (seed/(30*70))%4
		return domain.NewJob(id, day, 0, cores, mem, exec)
	}

	properties.Property("bounds and conservation hold after every cycle", prop.ForAll(
		func(seeds []int, policy, fit int) bool {
			s, err := NewStatefulScheduler(SchedulerConfiguration{
				NodeCapacities: []allocator.Resources{res(24, 64), res(24, 64), res(12, 32)},
			}, nil)
			if err != nil {
				return false
			}
			const days = 4
			for day := 0; day < days; day++ {
				for i := day; i < len(seeds); i += days {
					if s.Submit(jobFor(i, day, seeds[i])) != nil {
						return false
					}
				}
				report, err := s.RunDailyCycle(domain.SchedulingPolicy(policy), domain.FitPolicy(fit))
				if err != nil || !assertConsistent(t, s) {
					return false
				}
				for _, j := range report.Dropped {
					if j.CoresRequired <= 24 && j.MemoryRequired <= 64 {
						return false
					}
				}
				running := map[*domain.Job]bool{}
				for _, j := range s.RunningJobs() {
					running[j] = true
				}
				for _, j := range s.QueuedJobs() {
					if running[j] || j.Status != domain.Queued || j.CoresRequired > 24 || j.MemoryRequired > 64 {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 30*70*4-1)),
		gen.IntRange(0, 2),
		gen.IntRange(0, 2),
	))

	properties.TestingRun(t)
}
