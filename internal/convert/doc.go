// Package convert is the orchestrator: it turns a validated model.System into
// a compose.File.
//
// Conversion runs in a fixed order. The plan decides which services exist;
// extra mounts are checked against that set; every planned service is built;
// extra mounts are appended; depends_on edges are loaded into a dag.Graph and
// proven acyclic; finally the networks and named volumes the services refer to
// are declared at the top level.
//
// Convert does no I/O and reads the clock only through Options.Now, so the
// same System and Options always yield the same document.
package convert
