// Package indexer provides the HTTP client for the OUC event indexer canister.
//
// Endpoints:
//   - Production: https://<canister-id>.raw.ic0.app
//   - Local replica: http://<canister-id>.localhost:4943
//
// Reads: /events, /events/{id}, /stats, /health, /auditors, /auditors/{id},
// /subscription, /treasury, /ouc/status.
// Writes (forwarded by the indexer to the OUC canister): /subscription/tier,
// /subscription/auto-renew.
//
// The client performs exactly one HTTP exchange per call. It never retries;
// callers decide what a failure means.
package indexer
