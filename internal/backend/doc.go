// Package backend implements the connection cache and read client for the
// OUC ledger canister's remote-procedure interface.
//
// The connection cache:
//   - Hands out Handle values wrapping a gRPC client connection
//   - Local replica: a fresh handle per call plus a root-key trust bootstrap,
//     because the replica restarts often and a stale handle fails silently
//   - Production: one handle, built once and memoized for the process lifetime
//   - Chooses the strategy once at startup (NewProvider)
//
// Calls use a JSON codec so no generated stubs are needed.
package backend
