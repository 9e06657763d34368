// Package poller implements the Snapshot Poller component.
//
// The Snapshot Poller:
//   - Fetches one snapshot immediately on Start, then one per interval
//   - Delivers every snapshot to a single Consumer
//   - Keeps ticking through fetch and consumer errors
//   - Allows at most one active run; Start cancels the previous one
package poller
