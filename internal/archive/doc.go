// Package archive stores a history of dashboard snapshots in PostgreSQL.
//
// Each delivered snapshot becomes one row in dashboard_snapshots with the
// full snapshot as JSONB. The archive is optional; when disabled nothing in
// the dashboard touches a database.
package archive
