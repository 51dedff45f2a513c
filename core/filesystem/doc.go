// Package filesystem provides the minimal directory access capability set used by the merge engine.
//
// The merge engine never touches the os package directly. Everything it needs from the
// filesystem is expressed by the Access interface, which keeps the engine testable against an
// in-memory filesystem and keeps the set of operations explicit.
//
// # Implementation
//
// AferoAccess implements Access on top of spf13/afero. Production code uses NewOS (afero.OsFs);
// tests use New(afero.NewMemMapFs()).
//
// # Operations
//
//   - ReadDir: immediate children of a directory, sorted by name.
//   - Exists / IsDir: existence and kind checks.
//   - Mkdir / Remove / Rename: directory management (Remove is recursive).
//   - Copy: file or recursive directory copy. Never overwrites an existing destination.
//   - AppendFile / Open / Walk: used by the index recorder and the remote backup mirror.
//
// # Usage
//
//	fsys := filesystem.NewOS()
//	entries, err := fsys.ReadDir("/scans/book")
package filesystem
