package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/scootdev/batchsim/common/errors"
)

// CLI binary simulating a batch scheduler over a number of days
//	Writes scheduler_stats_day_<day>.csv per simulated day to --stats_dir.
//	Flags: (see "-h" for all options)
//		--config [preset name (default, original, small) or .json/.yaml file]
//		--days, --jobs_per_day, --seed [override the config's simulation section]
//		--sched_policy [fcfs|sjf|sdf] --fit_policy [first|best|worst]
//		--print_jobs [print one admission line per generated job]
//		--log_level [<error|info|debug> level and above should be logged]

func main() {
	if err := newSimCmd(os.Stdout).Execute(); err != nil {
		log.Errorf("batchsim failed: %v", err)
		os.Exit(int(errors.ExitCodeOf(err)))
	}
}
