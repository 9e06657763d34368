// Package dedup implements the new-event tracker.
//
// The Tracker:
//   - Keys events by identity: the indexer event id, else (txHash, logIndex)
//   - Reports the events of a batch that were absent from the previous batch
//   - Replaces, never merges, its identity set on every call
//   - Keeps state in memory only; a restart reports the first batch as new
package dedup
