// Package history keeps a journal of merge runs in a SQL database.
//
// Every finished run (done, failed or aborted; dry runs excluded) is stored with its
// ordered folders, so an operator can later find out which folder a merged file came
// from even when no index file was written.
//
// # Storage
//
// Runs live in merge_runs and their folders in merge_run_folders. The tables are created
// by Migrate. SQLite is the default backend; MySQL works through the same models.
//
// # HTTP Endpoints
//
//   - GET /runs : Lists recent runs, newest first (supports ?limit=n, at most 500).
//   - GET /runs/:id : Returns one run with its folders; 404 when unknown.
package history
