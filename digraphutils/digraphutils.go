// Package digraphutils provides utilities for directed graphs, represented as
// a list of node keys and a function returning the edges of a node.
package digraphutils

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
)

// Reachable returns the nodes reachable from roots, roots included.
func Reachable[K comparable](roots []K, edges func(K) []K) map[K]struct{} {
	reachable := map[K]struct{}{}
	nodes := slices.Clone(roots)
	var newNodes []K
	for len(nodes) > 0 {
		for _, node := range nodes {
			if _, ok := reachable[node]; ok {
				continue
			}
			reachable[node] = struct{}{}
			newNodes = append(newNodes, edges(node)...)
		}
		nodes, newNodes = newNodes, nodes[:0]
	}
	return reachable
}

// Cyclic returns the nodes that lie on a cycle, i.e. can reach themselves
// over at least one edge.
func Cyclic[K comparable](nodes []K, edges func(K) []K) map[K]bool {
	res := map[K]bool{}
	for _, node := range nodes {
		if _, ok := Reachable(edges(node), edges)[node]; ok {
			res[node] = true
		}
	}
	return res
}

// DOTCode generates graphviz DOT code to visualize a graph.
// nodes represents all nodes included in the graph, edges to other nodes
// are left out. label returns the text shown for a node, and nodeAttrs
// any further attributes, e.g. `color=red`.
func DOTCode[K comparable](nodes []K, edges func(K) []K, name string, label func(K) string, nodeAttrs func(K) string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "digraph %v {\n", strconv.Quote(name))
	b.WriteString("  node [shape=box]\n")
	nodeIDs := map[K]int{}
	for id, key := range nodes {
		fmt.Fprintf(&b, "  %v [label=%v", id, strconv.Quote(label(key)))
		if attrs := nodeAttrs(key); attrs != "" {
			fmt.Fprintf(&b, " %v", attrs)
		}
		b.WriteString("]\n")
		nodeIDs[key] = id
	}
	for id, key := range nodes {
		edgs := slices.DeleteFunc(slices.Clone(edges(key)), func(k K) bool {
			_, ok := nodeIDs[k]
			return !ok
		})
		if len(edgs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %v -> {", id)
		for i, edg := range edgs {
			if i != 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%v", nodeIDs[edg])
		}
		b.WriteString("}\n")
	}
	b.WriteString("}\n")
	return b.Bytes()
}
