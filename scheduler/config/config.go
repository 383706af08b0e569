package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/scootdev/batchsim/common/allocator"
	"github.com/scootdev/batchsim/scheduler/domain"
	"github.com/scootdev/batchsim/scheduler/server"
	"github.com/scootdev/batchsim/simulator"
)

// JSONConfigs config structure holding the original json (or yaml) configs.
// A section whose Type is empty is taken from the default config.
type JSONConfigs struct {
	Cluster    ClusterJSONConfig    `json:"Cluster" yaml:"Cluster"`
	Scheduler  SchedulerJSONConfig  `json:"SchedulerConfig" yaml:"SchedulerConfig"`
	Simulation SimulationJSONConfig `json:"Simulation" yaml:"Simulation"`
}

func (s JSONConfigs) String() string {
	return fmt.Sprintf("\n%s\n%s\n%s", s.Cluster, s.Scheduler, s.Simulation)
}

type ClusterJSONConfig struct {
	Type   string           `json:"Type" yaml:"Type"`     // cluster type: uniform, explicit
	Count  int              `json:"Count" yaml:"Count"`   // uniform only, default to 128
	Cores  int              `json:"Cores" yaml:"Cores"`   // uniform only, default to 24
	Memory int              `json:"Memory" yaml:"Memory"` // uniform only, default to 64
	Nodes  []NodeJSONConfig `json:"Nodes" yaml:"Nodes"`   // explicit only, one entry per node
}

type NodeJSONConfig struct {
	Cores  int `json:"Cores" yaml:"Cores"`
	Memory int `json:"Memory" yaml:"Memory"`
}

func (c ClusterJSONConfig) String() string {
	return fmt.Sprintf("ClusterJSONConfig: Type: %s, Count: %d, Cores: %d, Memory: %d, Nodes: %v",
		c.Type, c.Count, c.Cores, c.Memory, c.Nodes)
}

type SchedulerJSONConfig struct {
	Type         string `json:"Type" yaml:"Type"`                 // scheduler type: stateful
	SchedPolicy  string `json:"SchedPolicy" yaml:"SchedPolicy"`   // fcfs, sjf, sdf; default to fcfs
	FitPolicy    string `json:"FitPolicy" yaml:"FitPolicy"`       // first, best, worst; default to first
	Footprint    string `json:"Footprint" yaml:"Footprint"`       // product, weighted; default to product
	CoreWeight   int64  `json:"CoreWeight" yaml:"CoreWeight"`     // weighted only
	MemoryWeight int64  `json:"MemoryWeight" yaml:"MemoryWeight"` // weighted only
}

func (sc SchedulerJSONConfig) String() string {
	return fmt.Sprintf("SchedulerJSONConfig: Type: %s, SchedPolicy: %s, FitPolicy: %s, Footprint: %s, CoreWeight: %d, MemoryWeight: %d",
		sc.Type, sc.SchedPolicy, sc.FitPolicy, sc.Footprint, sc.CoreWeight, sc.MemoryWeight)
}

type SimulationJSONConfig struct {
	Type              string `json:"Type" yaml:"Type"` // simulation type: generated
	Days              int    `json:"Days" yaml:"Days"`
	JobsPerDay        int    `json:"JobsPerDay" yaml:"JobsPerDay"`
	MaxCores          int    `json:"MaxCores" yaml:"MaxCores"`
	MaxMemory         int    `json:"MaxMemory" yaml:"MaxMemory"`
	MaxExecTime       int    `json:"MaxExecTime" yaml:"MaxExecTime"`
	RandomArrivalHour bool   `json:"RandomArrivalHour" yaml:"RandomArrivalHour"`
	Seed              int64  `json:"Seed" yaml:"Seed"`
	StatsDir          string `json:"StatsDir" yaml:"StatsDir"`
	PrintJobs         bool   `json:"PrintJobs" yaml:"PrintJobs"`
}

func (sc SimulationJSONConfig) String() string {
	return fmt.Sprintf("SimulationJSONConfig: Type: %s, Days: %d, JobsPerDay: %d, MaxCores: %d, MaxMemory: %d, MaxExecTime: %d, "+
		"RandomArrivalHour: %t, Seed: %d, StatsDir: %s, PrintJobs: %t",
		sc.Type, sc.Days, sc.JobsPerDay, sc.MaxCores, sc.MaxMemory, sc.MaxExecTime,
		sc.RandomArrivalHour, sc.Seed, sc.StatsDir, sc.PrintJobs)
}

// GetConfigText returns the text of a named preset.
func GetConfigText(configSelector string) ([]byte, error) {
	configText, ok := SchedulerConfigs[configSelector]
	if !ok {
		keys := make([]string, 0, len(SchedulerConfigs))
		for k := range SchedulerConfigs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("invalid configuration %s, supported values are %v or a .json/.yaml file", configSelector, keys)
	}

	return []byte(configText), nil
}

func isConfigFile(configName string) bool {
	switch strings.ToLower(filepath.Ext(configName)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// ParseConfig parses json, or yaml when isYAML is set.
func ParseConfig(text []byte, isYAML bool) (*JSONConfigs, error) {
	c := &JSONConfigs{}
	var err error
	if isYAML {
		err = yaml.Unmarshal(text, c)
	} else {
		err = json.Unmarshal(text, c)
	}
	if err != nil {
		return nil, errors.Wrap(err, "couldn't parse top-level config")
	}
	return c, nil
}

// GetConfigs resolves configName as a preset name, or as a file path when it ends
// with .json, .yaml or .yml, and fills untyped sections from the default preset.
func GetConfigs(configName string) (*JSONConfigs, error) {
	// get the default values, these will override any of the config
	// sections whose Type is ""
	defaultConfigText, _ := GetConfigText("default")
	defaultConfig, err := ParseConfig(defaultConfigText, false)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't parse the default config")
	}

	var configText []byte
	isYAML := false
	if isConfigFile(configName) {
		configText, err = ioutil.ReadFile(configName)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't read config file %s", configName)
		}
		ext := strings.ToLower(filepath.Ext(configName))
		isYAML = ext == ".yaml" || ext == ".yml"
	} else if configText, err = GetConfigText(configName); err != nil {
		return nil, err
	}

	configs, err := ParseConfig(configText, isYAML)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", configName)
	}

	// use the default values for any sections whose type was not set
	if configs.Cluster.Type == "" {
		log.Infof("using default Cluster config")
		configs.Cluster = defaultConfig.Cluster
	}
	if configs.Scheduler.Type == "" {
		log.Infof("using default Scheduler config")
		configs.Scheduler = defaultConfig.Scheduler
	}
	if configs.Simulation.Type == "" {
		log.Infof("using default Simulation config")
		configs.Simulation = defaultConfig.Simulation
	}

	return configs, nil
}

// CreateClusterConfig converts the cluster section to node capacities.
func (c *ClusterJSONConfig) CreateClusterConfig() (server.SchedulerConfiguration, error) {
	switch c.Type {
	case "uniform":
		return server.SchedulerConfiguration{
			NumNodes:     c.Count,
			NodeCapacity: allocator.Resources{Cores: c.Cores, Memory: c.Memory},
		}, nil
	case "explicit":
		if len(c.Nodes) == 0 {
			return server.SchedulerConfiguration{}, fmt.Errorf("explicit cluster config has no Nodes")
		}
		caps := make([]allocator.Resources, 0, len(c.Nodes))
		for _, n := range c.Nodes {
			caps = append(caps, allocator.Resources{Cores: n.Cores, Memory: n.Memory})
		}
		return server.SchedulerConfiguration{NodeCapacities: caps}, nil
	}
	return server.SchedulerConfiguration{}, fmt.Errorf("unknown cluster type %q, supported values are uniform, explicit", c.Type)
}

// Policies parses the scheduling and fit policy names, empty names select fcfs and first fit.
func (jc *SchedulerJSONConfig) Policies() (domain.SchedulingPolicy, domain.FitPolicy, error) {
	sched, fit := domain.FCFS, domain.FirstFit
	var err error
	if jc.SchedPolicy != "" {
		if sched, err = domain.ParseSchedulingPolicy(jc.SchedPolicy); err != nil {
			return sched, fit, err
		}
	}
	if jc.FitPolicy != "" {
		if fit, err = domain.ParseFitPolicy(jc.FitPolicy); err != nil {
			return sched, fit, err
		}
	}
	return sched, fit, nil
}

func (jc *SchedulerJSONConfig) footprint() (server.FootprintFn, error) {
	switch strings.ToLower(jc.Footprint) {
	case "", "product":
		return server.ProductFootprint, nil
	case "weighted":
		if jc.CoreWeight < 0 || jc.MemoryWeight < 0 || jc.CoreWeight+jc.MemoryWeight == 0 {
			return nil, fmt.Errorf("weighted footprint needs non-negative weights, got CoreWeight %d and MemoryWeight %d",
				jc.CoreWeight, jc.MemoryWeight)
		}
		return server.WeightedFootprint(jc.CoreWeight, jc.MemoryWeight), nil
	}
	return nil, fmt.Errorf("unknown footprint %q, supported values are product, weighted", jc.Footprint)
}

// CreateSchedulerConfig builds the scheduler's configuration from the cluster and scheduler sections.
func (jc *JSONConfigs) CreateSchedulerConfig() (*server.SchedulerConfiguration, error) {
	if jc.Scheduler.Type != "stateful" {
		return nil, fmt.Errorf("unknown scheduler type %q, supported values are stateful", jc.Scheduler.Type)
	}
	serverConfig, err := jc.Cluster.CreateClusterConfig()
	if err != nil {
		return nil, err
	}
	if serverConfig.Footprint, err = jc.Scheduler.footprint(); err != nil {
		return nil, err
	}
	return &serverConfig, nil
}

// CreateSimulationConfig builds the driver's configuration from the simulation and scheduler sections.
func (jc *JSONConfigs) CreateSimulationConfig() (*simulator.Config, error) {
	if jc.Simulation.Type != "generated" {
		return nil, fmt.Errorf("unknown simulation type %q, supported values are generated", jc.Simulation.Type)
	}
	sched, fit, err := jc.Scheduler.Policies()
	if err != nil {
		return nil, err
	}
	sc := jc.Simulation
	return &simulator.Config{
		Days:        sc.Days,
		SchedPolicy: sched,
		FitPolicy:   fit,
		PrintJobs:   sc.PrintJobs,
		StatsDir:    sc.StatsDir,
		Generator: simulator.GeneratorConfig{
			JobsPerDay:        sc.JobsPerDay,
			MaxCores:          sc.MaxCores,
			MaxMemory:         sc.MaxMemory,
			MaxExecTime:       sc.MaxExecTime,
			RandomArrivalHour: sc.RandomArrivalHour,
			Seed:              sc.Seed,
		},
	}, nil
}
