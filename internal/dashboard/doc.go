// Package dashboard implements the snapshot Aggregator.
//
// The Aggregator:
//   - Fires every source fetch at once and waits for all of them
//   - Never short-circuits on the first failure
//   - Folds each failed source into its fallback value in one place
//   - Always returns a complete Snapshot, never an error
package dashboard
