package merge

import (
	"fmt"
)

// DefaultIndexName is the index file name used when none is configured.
const DefaultIndexName = "Index.txt"

// IndexEntry records where a source folder's contribution begins.
type IndexEntry struct {
	Ordinal          int    `json:"ordinal"`
	Folder           string `json:"folder"`
	FirstDestination string `json:"first_destination"`
}

// Format renders the entry as an index block, including the trailing blank line.
func (e IndexEntry) Format() string {
	return fmt.Sprintf("%d - '%s'\nStarts on the file named '%s'\n\n", e.Ordinal, e.Folder, e.FirstDestination)
}

// IndexRecorder appends index blocks to a file, one per source folder, in merge order.
type IndexRecorder struct {
	sess    *Session
	path    string
	entries []IndexEntry
}

// NewIndexRecorder validates name and reserves <root>/<name> for the index.
// A taken name is reported as *PathCollisionError before anything is written.
func NewIndexRecorder(sess *Session, name string) (*IndexRecorder, error) {
	path, err := checkFreeName(sess, "index", name)
	if err != nil {
		return nil, err
	}
	return &IndexRecorder{sess: sess, path: path}, nil
}

// Path returns the index file path.
func (r *IndexRecorder) Path() string {
	return r.path
}

// Entries returns the blocks written so far.
func (r *IndexRecorder) Entries() []IndexEntry {
	return r.entries
}

// Record appends one block.
func (r *IndexRecorder) Record(entry IndexEntry) error {
	if err := r.sess.FS.AppendFile(r.path, []byte(entry.Format())); err != nil {
		return &FilesystemOperationError{Op: "append", Path: r.path, Err: err}
	}
	r.entries = append(r.entries, entry)
	return nil
}

// Hook returns a FolderHook that records each folder as its first file is staged.
func (r *IndexRecorder) Hook() FolderHook {
	return func(folder PlannedFolder) error {
		return r.Record(IndexEntry{
			Ordinal:          folder.Ordinal,
			Folder:           folder.Entry.Name,
			FirstDestination: folder.FirstDestination,
		})
	}
}
