// Package identity resolves how a node's resources are keyed.
package identity

import (
	"strconv"
	"strings"
)

// DefaultGroupIndex names the load balancer service when no explicit indices are given.
const DefaultGroupIndex = "1"

// Node identifies one node of the chain. Identity keys every per-node resource name while
// GroupIndex only names the load balancer service; the two are independent.
type Node struct {
	Identity   string
	GroupIndex string
}

// Resolve returns the node at position i. A non-empty addresses list replaces the sequential
// index and a non-empty indices list replaces the default group index. Callers must have checked
// that both lists, when present, cover position i.
func Resolve(addresses, indices []string, i int) Node {
	n := Node{
		Identity:   strconv.Itoa(i),
		GroupIndex: DefaultGroupIndex,
	}
	if len(addresses) != 0 {
		n.Identity = TrimHexPrefix(addresses[i])
	}
	if len(indices) != 0 {
		n.GroupIndex = indices[i]
	}
	return n
}

// ResolveAll resolves count nodes in order.
func ResolveAll(addresses, indices []string, count int) []Node {
	nodes := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		nodes = append(nodes, Resolve(addresses, indices, i))
	}
	return nodes
}

// TrimHexPrefix strips a single leading 0x or 0X.
func TrimHexPrefix(addr string) string {
	if strings.HasPrefix(addr, "0x") || strings.HasPrefix(addr, "0X") {
		return addr[2:]
	}
	return addr
}
