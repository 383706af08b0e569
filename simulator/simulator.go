// Package simulator drives a scheduler through a sequence of simulated days:
// it generates each day's arrivals, runs the daily cycle, and persists the
// resulting node statistics.
package simulator

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scootdev/batchsim/common/stats"
	"github.com/scootdev/batchsim/scheduler/domain"
	"github.com/scootdev/batchsim/scheduler/server"
)

const DefaultDays = 30

// Config for one simulation run.
type Config struct {
	Days        int
	SchedPolicy domain.SchedulingPolicy
	FitPolicy   domain.FitPolicy
	PrintJobs   bool
	StatsDir    string
	Generator   GeneratorConfig
}

func (c Config) String() string {
	return fmt.Sprintf("SimulationConfig: Days: %d, SchedPolicy: %s, FitPolicy: %s, PrintJobs: %t, StatsDir: %s, %s",
		c.Days, c.SchedPolicy, c.FitPolicy, c.PrintJobs, c.StatsDir, c.Generator)
}

// Summary totals what happened over the days that ran.
type Summary struct {
	Days          int
	Generated     int
	Rejected      int
	Placed        int
	Dropped       int
	Completed     int
	Queued        int // still waiting after the last day
	WriteFailures int
}

func (s *Summary) String() string {
	return fmt.Sprintf("days:%d, generated:%d, rejected:%d, placed:%d, dropped:%d, completed:%d, queued:%d, writeFailures:%d",
		s.Days, s.Generated, s.Rejected, s.Placed, s.Dropped, s.Completed, s.Queued, s.WriteFailures)
}

func (s *Summary) add(r *server.CycleReport) {
	s.Days++
	s.Placed += len(r.Placed)
	s.Dropped += len(r.Dropped)
	s.Completed += len(r.Completed)
	s.Queued = len(r.Deferred)
}

type Simulator struct {
	config Config
	sched  server.Scheduler
	source JobSource
	writer StatsWriter
	out    io.Writer
	stat   stats.StatsReceiver
	log    *log.Entry
}

// NewSimulator wires a simulation. Admission lines go to out when PrintJobs is set,
// a nil out discards them. A nil stat or logger falls back to a no-op receiver and
// the standard logger.
func NewSimulator(config Config, sched server.Scheduler, source JobSource, writer StatsWriter,
	out io.Writer, stat stats.StatsReceiver, logger *log.Entry) *Simulator {
	if config.Days <= 0 {
		config.Days = DefaultDays
	}
	if out == nil {
		out = ioutil.Discard
	}
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Simulator{
		config: config,
		sched:  sched,
		source: source,
		writer: writer,
		out:    out,
		stat:   stat,
		log:    logger,
	}
}

// Run simulates config.Days days, checking ctx between days. Statistics write failures
// are logged and counted and never stop the run. Returns the summary of the days that
// completed along with any error that ended the run early.
func (s *Simulator) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	s.log.Infof("starting simulation: %s", s.config)
	for day := 0; day < s.config.Days; day++ {
		select {
		case <-ctx.Done():
			return summary, errors.Wrapf(ctx.Err(), "simulation stopped before day %d", day)
		default:
		}
		if err := s.runDay(day, summary); err != nil {
			return summary, err
		}
	}
	s.log.Infof("finished simulation: %s", summary)
	return summary, nil
}

func (s *Simulator) runDay(day int, summary *Summary) error {
	dayLog := s.log.WithField("day", day)

	jobs := s.source.Generate(day)
	summary.Generated += len(jobs)
	s.stat.Counter(stats.SimGeneratedJobsCounter).Inc(int64(len(jobs)))
	if s.config.PrintJobs {
		if err := PrintAdmissions(s.out, jobs); err != nil {
			dayLog.Warnf("couldn't print admissions: %v", err)
		}
	}
	for _, job := range jobs {
		if err := s.sched.Submit(job); err != nil {
			summary.Rejected++
			dayLog.WithField("jobID", job.Id).Warnf("job not admitted: %v", err)
		}
	}

	report, err := s.sched.RunDailyCycle(s.config.SchedPolicy, s.config.FitPolicy)
	if err != nil {
		return errors.Wrapf(err, "daily cycle failed on day %d", day)
	}
	summary.add(report)
	dayLog.Infof("cycle done: %s", report)

	nodeStats, err := s.sched.GetStatistics(report.Day)
	if err == nil {
		err = s.writer.WriteDay(report.Day, nodeStats)
	}
	if err != nil {
		summary.WriteFailures++
		s.stat.Counter(stats.SimStatsWriteFailureCounter).Inc(1)
		dayLog.Errorf("couldn't save statistics: %v", err)
		return nil
	}
	s.stat.Counter(stats.SimStatsWrittenCounter).Inc(1)
	return nil
}
