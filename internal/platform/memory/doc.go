// Package memory provides the in-memory implementation of store.TaskStore.
//
// Tasks live in a map guarded by a read/write mutex. Every value handed in or
// out of the store is a deep copy, so callers never share state with it.
// Transactions hold the write lock for their whole duration and stage their
// writes, which are applied only when the callback succeeds.
//
// The package also loads seed tasks from a YAML fixture (see Seed).
package memory
