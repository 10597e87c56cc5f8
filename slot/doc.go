// Package slot implements the type erasure machinery behind basebox:
// interned value type descriptors with per type replicator functions,
// and the fixed capacity storage cell the container places values into.
//
// Most users never import this package directly. The basebox package
// exposes everything needed to work with containers; slot is for code
// that wants to inspect value types or build its own storage on top of
// the same mechanism.
package slot
