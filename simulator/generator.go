package simulator

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/scootdev/batchsim/scheduler/domain"
)

const (
	DefaultJobsPerDay  = 100
	DefaultMaxCores    = 24
	DefaultMaxMemory   = 64
	DefaultMaxExecTime = 24
	DefaultSeed        = 1
)

// GeneratorConfig bounds the random jobs produced each day.
// Zero values are replaced by the defaults above.
type GeneratorConfig struct {
	JobsPerDay  int
	MaxCores    int
	MaxMemory   int
	MaxExecTime int

	// Spread arrivals uniformly over the day instead of all at hour 0.
	RandomArrivalHour bool

	Seed int64
}

func (c GeneratorConfig) String() string {
	return fmt.Sprintf("GeneratorConfig: JobsPerDay: %d, MaxCores: %d, MaxMemory: %d, MaxExecTime: %d, RandomArrivalHour: %t, Seed: %d",
		c.JobsPerDay, c.MaxCores, c.MaxMemory, c.MaxExecTime, c.RandomArrivalHour, c.Seed)
}

func (c GeneratorConfig) withDefaults() GeneratorConfig {
	if c.JobsPerDay <= 0 {
		c.JobsPerDay = DefaultJobsPerDay
	}
	if c.MaxCores <= 0 {
		c.MaxCores = DefaultMaxCores
	}
	if c.MaxMemory <= 0 {
		c.MaxMemory = DefaultMaxMemory
	}
	if c.MaxExecTime <= 0 {
		c.MaxExecTime = DefaultMaxExecTime
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	return c
}

// JobSource produces the arrivals for a simulated day.
type JobSource interface {
	Generate(day int) []*domain.Job
}

// Generator is a JobSource drawing uniformly random demands from a seeded source,
// so two generators with the same config produce the same jobs.
// Not safe for concurrent use.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

func NewGenerator(config GeneratorConfig) *Generator {
	config = config.withDefaults()
	return &Generator{config: config, rng: rand.New(rand.NewSource(config.Seed))}
}

func (g *Generator) Config() GeneratorConfig {
	return g.config
}

// Generate returns JobsPerDay new jobs for the day, with ids 0..JobsPerDay-1.
func (g *Generator) Generate(day int) []*domain.Job {
	jobs := make([]*domain.Job, 0, g.config.JobsPerDay)
	for i := 0; i < g.config.JobsPerDay; i++ {
		hour := 0
		if g.config.RandomArrivalHour {
			hour = g.rng.Intn(domain.HoursPerDay)
		}
		cores := g.rng.Intn(g.config.MaxCores) + 1
		mem := g.rng.Intn(g.config.MaxMemory) + 1
		exec := g.rng.Intn(g.config.MaxExecTime) + 1
		jobs = append(jobs, domain.NewJob(i, day, hour, cores, mem, exec))
	}
	return jobs
}

// FormatAdmission renders the fixed width line logged for every admitted job.
func FormatAdmission(job *domain.Job) string {
	return fmt.Sprintf("JobId: %10d Arrival Day: %3d Time Hour: %3d MemReq: %3d CPUReq: %3d ExeTime: %3d",
		job.Id, job.ArrivalDay, job.ArrivalHour, job.MemoryRequired, job.CoresRequired, job.ExecutionTime)
}

// PrintAdmissions writes one admission line per job.
func PrintAdmissions(w io.Writer, jobs []*domain.Job) error {
	for _, j := range jobs {
		if _, err := fmt.Fprintln(w, FormatAdmission(j)); err != nil {
			return err
		}
	}
	return nil
}
