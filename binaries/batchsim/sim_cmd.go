package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	uuid "github.com/nu7hatch/gouuid"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/scootdev/batchsim/common/errors"
	logsetup "github.com/scootdev/batchsim/common/log"
	"github.com/scootdev/batchsim/common/stats"
	"github.com/scootdev/batchsim/scheduler/config"
	"github.com/scootdev/batchsim/scheduler/server"
	"github.com/scootdev/batchsim/simulator"
)

type simCmd struct {
	configName  string
	days        int
	jobsPerDay  int
	schedPolicy string
	fitPolicy   string
	statsDir    string
	seed        int64
	logLevel    string
	printJobs   bool

	out io.Writer
}

func newSimCmd(out io.Writer) *cobra.Command {
	c := &simCmd{out: out}
	r := &cobra.Command{
		Use:           "batchsim",
		Short:         "batchsim simulates scheduling random batch jobs onto a fixed pool of nodes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.run,
	}
	r.SetOutput(out)
	r.Flags().StringVar(&c.configName, "config", "default", "preset name or path to a .json/.yaml config file")
	r.Flags().IntVar(&c.days, "days", simulator.DefaultDays, "number of days to simulate")
	r.Flags().IntVar(&c.jobsPerDay, "jobs_per_day", simulator.DefaultJobsPerDay, "jobs generated each day")
	r.Flags().StringVar(&c.schedPolicy, "sched_policy", "fcfs", "queue ordering: fcfs, sjf (smallest job first), sdf (shortest duration first)")
	r.Flags().StringVar(&c.fitPolicy, "fit_policy", "first", "node selection: first, best, worst")
	r.Flags().StringVar(&c.statsDir, "stats_dir", ".", "directory for the per day csv files")
	r.Flags().Int64Var(&c.seed, "seed", simulator.DefaultSeed, "job generator seed")
	r.Flags().StringVar(&c.logLevel, "log_level", "info", "log everything at this level and above (error|info|debug)")
	r.Flags().BoolVar(&c.printJobs, "print_jobs", false, "print an admission line for every generated job")
	return r
}

// applyFlags overrides the config with the flags given on the command line.
func (c *simCmd) applyFlags(flags *pflag.FlagSet, configs *config.JSONConfigs) {
	if flags.Changed("days") {
		configs.Simulation.Days = c.days
	}
	if flags.Changed("jobs_per_day") {
		configs.Simulation.JobsPerDay = c.jobsPerDay
	}
	if flags.Changed("seed") {
		configs.Simulation.Seed = c.seed
	}
	if flags.Changed("stats_dir") {
		configs.Simulation.StatsDir = c.statsDir
	}
	if flags.Changed("print_jobs") {
		configs.Simulation.PrintJobs = c.printJobs
	}
	if flags.Changed("sched_policy") {
		configs.Scheduler.SchedPolicy = c.schedPolicy
	}
	if flags.Changed("fit_policy") {
		configs.Scheduler.FitPolicy = c.fitPolicy
	}
}

func (c *simCmd) run(cmd *cobra.Command, args []string) error {
	if err := logsetup.Setup(c.logLevel); err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	runID, err := uuid.NewV4()
	if err != nil {
		return errors.NewError(pkgerrors.Wrap(err, "couldn't create run id"), errors.GenericFailureExitCode)
	}
	logger := log.WithField("runID", runID.String())

	configs, err := config.GetConfigs(c.configName)
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	c.applyFlags(cmd.Flags(), configs)
	logger.Infof("configuration: %s", configs)

	schedConfig, err := configs.CreateSchedulerConfig()
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	simConfig, err := configs.CreateSimulationConfig()
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}

	stat := stats.NewCustomStatsReceiver(stats.NewFinagleStatsRegistry)
	sched, err := server.NewStatefulScheduler(*schedConfig, stat.Scope("scheduler"))
	if err != nil {
		return errors.NewError(err, errors.ConfigFailureExitCode)
	}
	writer, err := simulator.NewCSVStatsWriter(simConfig.StatsDir)
	if err != nil {
		return errors.NewError(err, errors.StatsDirFailureExitCode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		select {
		case <-interrupts:
			logger.Warn("interrupted, stopping after the current day")
			cancel()
		case <-ctx.Done():
		}
	}()

	sim := simulator.NewSimulator(*simConfig, sched, simulator.NewGenerator(simConfig.Generator),
		writer, c.out, stat.Scope("simulator"), logger)
	summary, err := sim.Run(ctx)
	logger.Infof("stats: %s", stat.Render(true))
	if err != nil {
		if pkgerrors.Cause(err) == context.Canceled {
			return errors.NewError(err, errors.AbortedRunExitCode)
		}
		return errors.NewError(err, errors.GenericFailureExitCode)
	}
	fmt.Fprintf(c.out, "run %s: %s\n", runID, summary)
	return nil
}
