// Package memory configures Go's soft memory limit from container
// metadata.
//
// When MEMORY_LIMIT is provided (for example via the Kubernetes Downward
// API), [ConfigureFromEnv] sets GOMEMLIMIT to a fraction of it so the
// runtime starts collecting before the container hits its limit. An
// explicitly set GOMEMLIMIT always wins.
package memory
