package graph

import (
	"fmt"
	"sort"
)

// Validate checks the structural invariants every well-formed graph holds:
// unique node ids, edges anchored to existing nodes, no self-loops, and no
// fan-in (a target port is fed by at most one edge). Messages are indexed so
// callers can surface them directly.
func (g *Graph) Validate() error {
	var errs []string

	seen := make(map[string]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			errs = append(errs, fmt.Sprintf("nodes[%d]: id must not be empty", i))
			continue
		}
		if _, dup := seen[n.ID]; dup {
			errs = append(errs, fmt.Sprintf("nodes[%d]: duplicate node id %q", i, n.ID))
		}
		seen[n.ID] = struct{}{}
	}

	targets := make(map[string]int)
	for i, e := range g.Edges {
		if _, ok := seen[e.SourceNodeID]; !ok {
			errs = append(errs, fmt.Sprintf("edges[%d]: unknown source node %q", i, e.SourceNodeID))
		}
		if _, ok := seen[e.TargetNodeID]; !ok {
			errs = append(errs, fmt.Sprintf("edges[%d]: unknown target node %q", i, e.TargetNodeID))
		}
		if e.SourceNodeID != "" && e.SourceNodeID == e.TargetNodeID {
			errs = append(errs, fmt.Sprintf("edges[%d]: self-loop on node %q", i, e.SourceNodeID))
		}
		slot := e.TargetNodeID + "\x00" + e.TargetPortKey
		if prev, taken := targets[slot]; taken {
			errs = append(errs, fmt.Sprintf("edges[%d]: target port %q of node %q already fed by edges[%d]", i, e.TargetPortKey, e.TargetNodeID, prev))
		} else {
			targets[slot] = i
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid graph: %s", joinErrs(errs))
	}
	return nil
}

func joinErrs(errs []string) string {
	out := errs[0]
	for _, e := range errs[1:] {
		out += "; " + e
	}
	return out
}

// RecomputeConnections rebuilds every node's connected key sets from the
// edge set. The sets are sorted and deduplicated; stale entries from earlier
// edits are discarded wholesale rather than patched.
func (g *Graph) RecomputeConnections() {
	inputs := make(map[string]map[string]struct{})
	outputs := make(map[string]map[string]struct{})
	for _, e := range g.Edges {
		if inputs[e.TargetNodeID] == nil {
			inputs[e.TargetNodeID] = make(map[string]struct{})
		}
		inputs[e.TargetNodeID][e.TargetPortKey] = struct{}{}
		if outputs[e.SourceNodeID] == nil {
			outputs[e.SourceNodeID] = make(map[string]struct{})
		}
		outputs[e.SourceNodeID][e.SourcePortKey] = struct{}{}
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		n.ConnectedInputKeys = sortedKeys(inputs[n.ID])
		n.ConnectedOutputKeys = sortedKeys(outputs[n.ID])
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
