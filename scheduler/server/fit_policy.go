package server

import (
	"fmt"

	"github.com/scootdev/batchsim/common/allocator"
	"github.com/scootdev/batchsim/scheduler/domain"
)

// leftover is the capacity a node would have spare after holding demand.
// Cores and memory are weighted equally: (availCores - cores) + (availMem - mem).
func leftover(avail, demand allocator.Resources) int {
	return (avail.Cores - demand.Cores) + (avail.Memory - demand.Memory)
}

// selectNode picks a node able to hold demand under the fit policy, ignoring nodes in skip.
// Nodes are scanned in ascending id order so every tie goes to the lowest id.
// Returns ok=false if no node currently has room.
func selectNode(demand allocator.Resources, fit domain.FitPolicy, nodes []*nodeState,
	skip map[domain.NodeId]bool) (id domain.NodeId, ok bool, err error) {
	if !fit.Valid() {
		return domain.NoNode, false, fmt.Errorf("unsupported fit policy %s", fit)
	}

	selected := domain.NoNode
	selectedLeftover := 0
	for _, ns := range nodes {
		if skip[ns.id] {
			continue
		}
		avail := ns.pool.Available()
		if !demand.Fits(avail) {
			continue
		}
		l := leftover(avail, demand)
		switch fit {
		case domain.FirstFit:
			return ns.id, true, nil
		case domain.BestFit:
			if selected == domain.NoNode || l < selectedLeftover {
				selected, selectedLeftover = ns.id, l
			}
		case domain.WorstFit:
			if selected == domain.NoNode || l > selectedLeftover {
				selected, selectedLeftover = ns.id, l
			}
		}
	}
	return selected, selected != domain.NoNode, nil
}
