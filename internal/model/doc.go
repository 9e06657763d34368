// Package model defines shared data types used across the OUC dashboard.
//
// All types mirror the JSON payloads served by the event indexer and the OUC
// ledger backend.
//
// Conventions:
//   - Token amounts: decimal strings (ledger nat values can exceed int64)
//   - Timestamps: int64 nanoseconds since Unix epoch, as reported by the canisters
//   - IDs: strings (canister principals, event ids)
package model
