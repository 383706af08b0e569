package server

import (
	"github.com/scootdev/batchsim/common/allocator"
	"github.com/scootdev/batchsim/scheduler/domain"
)

// NodeStats is one node's occupancy for a simulated day.
// Utilization is a percentage of the node's total: 100 * (total - available) / total.
type NodeStats struct {
	NodeId            domain.NodeId
	TotalCores        int
	AvailableCores    int
	TotalMemory       int
	AvailableMemory   int
	CPUUtilization    float64
	MemoryUtilization float64
}

func newNodeStats(id domain.NodeId, capacity, avail allocator.Resources) NodeStats {
	return NodeStats{
		NodeId:            id,
		TotalCores:        capacity.Cores,
		AvailableCores:    avail.Cores,
		TotalMemory:       capacity.Memory,
		AvailableMemory:   avail.Memory,
		CPUUtilization:    utilization(capacity.Cores, avail.Cores),
		MemoryUtilization: utilization(capacity.Memory, avail.Memory),
	}
}

func utilization(total, avail int) float64 {
	if total <= 0 {
		return 0
	}
	return 100.0 * float64(total-avail) / float64(total)
}

// meanUtilization averages cpu and memory utilization over all nodes.
func meanUtilization(nodes []NodeStats) (cpu, mem float64) {
	if len(nodes) == 0 {
		return 0, 0
	}
	for _, n := range nodes {
		cpu += n.CPUUtilization
		mem += n.MemoryUtilization
	}
	return cpu / float64(len(nodes)), mem / float64(len(nodes))
}
