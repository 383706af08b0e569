package config

// SchedulerConfigs the map of available configurations
var SchedulerConfigs = map[string]string{
	"default":  defaultConfig,
	"original": originalConfig,
	"small":    smallConfig,
}

// defaultConfig the configuration values that are used for untyped sections of a specific configuration
const defaultConfig = `{
	"Cluster": {
		"Type": "uniform",
		"Count": 128,
		"Cores": 24,
		"Memory": 64
	},
	"SchedulerConfig": {
		"Type": "stateful",
		"SchedPolicy": "fcfs",
		"FitPolicy": "first",
		"Footprint": "product"
	},
	"Simulation": {
		"Type": "generated",
		"Days": 30,
		"JobsPerDay": 100,
		"MaxCores": 24,
		"MaxMemory": 64,
		"MaxExecTime": 24,
		"Seed": 1,
		"StatsDir": "."
	}
}`

// originalConfig reproduces the first version of the simulator: FCFS, first fit, every admission printed.
// !!! make sure this constant is added to SchedulerConfigs map above !!!
const originalConfig = `{
	"Cluster": {
		"Type": "uniform",
		"Count": 128,
		"Cores": 24,
		"Memory": 64
	},
	"SchedulerConfig": {
		"Type": "stateful",
		"SchedPolicy": "fcfs",
		"FitPolicy": "first"
	},
	"Simulation": {
		"Type": "generated",
		"Days": 30,
		"JobsPerDay": 100,
		"MaxCores": 24,
		"MaxMemory": 64,
		"MaxExecTime": 24,
		"Seed": 1,
		"StatsDir": ".",
		"PrintJobs": true
	}
}`

// smallConfig a week on four mixed nodes, handy for local runs.
// !!! make sure this constant is added to SchedulerConfigs map above !!!
const smallConfig = `{
	"Cluster": {
		"Type": "explicit",
		"Nodes": [
			{"Cores": 24, "Memory": 64},
			{"Cores": 24, "Memory": 64},
			{"Cores": 12, "Memory": 32},
			{"Cores": 8, "Memory": 16}
		]
	},
	"SchedulerConfig": {
		"Type": "stateful",
		"SchedPolicy": "sjf",
		"FitPolicy": "best",
		"Footprint": "weighted",
		"CoreWeight": 4,
		"MemoryWeight": 1
	},
	"Simulation": {
		"Type": "generated",
		"Days": 7,
		"JobsPerDay": 20,
		"MaxCores": 24,
		"MaxMemory": 64,
		"MaxExecTime": 4,
		"RandomArrivalHour": true,
		"Seed": 1,
		"StatsDir": ".batchsim/small"
	}
}`
