// Package mirror copies local merge backups to S3 compatible object storage.
//
// Mirror implements merge.Mirror. It is used by the merge command when storage.enabled is
// set, and runs right after the local backup directory has been written.
//
// # Object Layout
//
// Files are stored as <prefix>/<run id>/<backup name>/<folder>/<file>, so every run gets
// its own prefix and an earlier backup is never overwritten.
//
// # Failure Handling
//
// Uploads happen one file at a time. When an upload fails, or the final listing does not
// account for every uploaded file, the objects written so far are removed in one batch
// and the error is returned; the merge engine then treats the whole backup as failed.
package mirror
