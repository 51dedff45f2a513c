// Package merge implements the folder merge engine.
//
// A merge takes the folders of a main directory in an operator-chosen order and produces a
// single folder whose files are renumbered 1, 2, 3... zero-padded to the digit count of the
// total. The first folder in the order gives the result its name.
//
// # Phases
//
//   - Collect: one snapshot of the main directory; Filter drops excluded names and plain files.
//   - Order: ParseOrder validates the operator's index list; the Runner re-prompts on *FormatError.
//   - Plan: the Planner lists each folder once and assigns every destination name up front.
//   - Backup (optional): BackupManager copies each folder, recursively, into the backup directory.
//   - Stage: the Stager copies every file into a staging directory. Nothing is moved.
//   - Commit: source folders are removed and the staging directory is renamed.
//   - Rollback: on any staging failure the staging directory is removed; sources are untouched.
//
// The optional index file gets one block per folder, appended as the folder's first file is staged:
//
//	0 - 'Ch1'
//	Starts on the file named '1.png'
//
// # Collaborators
//
// The engine depends only on filesystem.Access and the Prompter interface, and reaches
// optional collaborators through Mirror (remote copy of the backup) and Journal (run history).
// All per-run state lives in a Session created by the caller.
//
// # Usage
//
//	sess := &merge.Session{Root: root, FS: filesystem.NewOS(), Logger: log}
//	report, err := merge.NewRunner(sess, prompt.New(os.Stdin, os.Stdout), merge.Options{}).Run(ctx)
package merge
