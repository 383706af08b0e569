package server

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scootdev/batchsim/common/allocator"
	"github.com/scootdev/batchsim/scheduler/domain"
)

// clusterState maintains the fixed pool of nodes and how much of each node is held by running jobs.
// Nodes are indexed by id, ids are 0..n-1 and never change.
type clusterState struct {
	nodes []*nodeState
}

// The State of A Node in the Cluster
type nodeState struct {
	id         domain.NodeId
	pool       *allocator.ResourcePool
	numRunning int // jobs currently holding a grant on this node, guarded by the scheduler's lock
}

func (n *nodeState) String() string {
	return fmt.Sprintf("{node:%d, capacity:%s, available:%s, running:%d}",
		n.id, n.pool.Capacity(), n.pool.Available(), n.numRunning)
}

// Initializes a Node State with full availability.
func newNodeState(id domain.NodeId, capacity allocator.Resources) (*nodeState, error) {
	pool, err := allocator.NewResourcePool(capacity)
	if err != nil {
		return nil, fmt.Errorf("node %d: %v", id, err)
	}
	return &nodeState{id: id, pool: pool}, nil
}

// Create a clusterState with one node per entry of capacities, node i getting capacities[i].
func newClusterState(capacities []allocator.Resources) (*clusterState, error) {
	if len(capacities) == 0 {
		return nil, fmt.Errorf("cluster needs at least one node")
	}
	cs := &clusterState{nodes: make([]*nodeState, 0, len(capacities))}
	for i, c := range capacities {
		ns, err := newNodeState(domain.NodeId(i), c)
		if err != nil {
			return nil, err
		}
		cs.nodes = append(cs.nodes, ns)
	}
	log.Debugf("created cluster with %d nodes: %s", len(cs.nodes), spew.Sdump(capacities))
	return cs, nil
}

func (c *clusterState) getNodeState(id domain.NodeId) (*nodeState, bool) {
	if id < 0 || int(id) >= len(c.nodes) {
		return nil, false
	}
	return c.nodes[id], true
}

// satisfiable reports whether at least one node could hold the job when completely idle.
func (c *clusterState) satisfiable(demand allocator.Resources) bool {
	for _, ns := range c.nodes {
		if demand.Fits(ns.pool.Capacity()) {
			return true
		}
	}
	return false
}

// allocate selects a node for the job under the fit policy and commits the job's demand to it.
// Selection and commit are separate steps, each node's pool re-checks the demand on commit,
// so a node that lost capacity in between is skipped and selection runs again on the rest.
// Returns an error wrapping domain.ErrUnsatisfiable or domain.ErrNoCapacityAvailable on failure.
func (c *clusterState) allocate(job *domain.Job, fit domain.FitPolicy) (*nodeState, *allocator.Grant, error) {
	demand := demandOf(job)
	if !c.satisfiable(demand) {
		return nil, nil, errors.Wrapf(domain.ErrUnsatisfiable,
			"job %d needs %s, more than any node's total capacity", job.Id, demand)
	}

	tried := map[domain.NodeId]bool{}
	for len(tried) < len(c.nodes) {
		id, ok, err := selectNode(demand, fit, c.nodes, tried)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}
		ns := c.nodes[id]
		grant, err := ns.pool.Alloc(demand)
		if err != nil {
			log.Debugf("node %d lost capacity for job %d between selection and commit: %v", id, job.Id, err)
			tried[id] = true
			continue
		}
		ns.numRunning++
		return ns, grant, nil
	}
	return nil, nil, errors.Wrapf(domain.ErrNoCapacityAvailable, "job %d needs %s", job.Id, demand)
}

// update clusterState to reflect that a job has finished on its node.
// Releasing a grant twice leaves the node unchanged.
func (c *clusterState) release(id domain.NodeId, grant *allocator.Grant) bool {
	ns, ok := c.getNodeState(id)
	if !ok || grant == nil || grant.Released() {
		return false
	}
	grant.Release()
	ns.numRunning--
	return true
}

// snapshot computes per node utilization without modifying any node.
func (c *clusterState) snapshot() []NodeStats {
	out := make([]NodeStats, 0, len(c.nodes))
	for _, ns := range c.nodes {
		out = append(out, newNodeStats(ns.id, ns.pool.Capacity(), ns.pool.Available()))
	}
	return out
}

// totalAllocated sums the cores and memory held across all nodes.
func (c *clusterState) totalAllocated() allocator.Resources {
	var total allocator.Resources
	for _, ns := range c.nodes {
		a := ns.pool.Allocated()
		total.Cores += a.Cores
		total.Memory += a.Memory
	}
	return total
}

func demandOf(job *domain.Job) allocator.Resources {
	return allocator.Resources{Cores: job.CoresRequired, Memory: job.MemoryRequired}
}
