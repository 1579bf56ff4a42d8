// Package dag records which compose services start after which. The
// orchestrator adds one node per emitted service and one edge per depends_on
// entry, then asks the graph to prove the topology acyclic and to list the
// services in start order.
package dag
