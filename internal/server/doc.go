// Package server implements the dashboard push server.
//
// The Hub is a poller consumer. Each snapshot is run through the dedup
// tracker, stored as the latest snapshot and broadcast to every connected
// WebSocket client together with the events that are new since the previous
// snapshot. The Server exposes the Hub and the poller controls over HTTP.
package server
