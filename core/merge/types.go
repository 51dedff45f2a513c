package merge

import (
	"path/filepath"
	"time"

	"fmerge/core/filesystem"

	"go.uber.org/zap"
)

// SourceEntry is a directory entry found in the main directory.
type SourceEntry struct {
	// Index is the position of the entry when it was first enumerated.
	Index int `json:"index"`

	// Name is the base name of the entry.
	Name string `json:"name"`

	// Path is the full path of the entry.
	Path string `json:"path"`

	// IsDir indicates whether the entry is a directory.
	IsDir bool `json:"is_dir"`
}

// ExcludeSet holds names or full paths that are never merge sources.
type ExcludeSet map[string]struct{}

// NewExcludeSet builds an ExcludeSet from names or paths. Empty values are ignored.
func NewExcludeSet(values ...string) ExcludeSet {
	set := make(ExcludeSet, len(values))
	set.Add(values...)
	return set
}

// Add inserts values into the set.
func (s ExcludeSet) Add(values ...string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		s[v] = struct{}{}
	}
}

// Contains reports whether the entry's name or full path is excluded.
func (s ExcludeSet) Contains(name, path string) bool {
	if _, ok := s[name]; ok {
		return true
	}
	if path == "" {
		return false
	}
	_, ok := s[filepath.Clean(path)]
	return ok
}

// State is a run-level state.
type State string

const (
	StateCollectingEntries State = "collecting_entries"
	StateSpecifyingOrder   State = "specifying_order"
	StateOrderConfirmed    State = "order_confirmed"
	StateBackingUp         State = "backing_up"
	StateStaging           State = "staging"
	StateCommitting        State = "committing"
	StateRollingBack       State = "rolling_back"
	StateDone              State = "done"
	StateFailed            State = "failed"
	StateAborted           State = "aborted"
)

// IsTerminal reports whether no transition leaves the state.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed || s == StateAborted
}

// Session carries the per-run context shared by the engine components.
// It is created by the caller for one run and never stored globally.
type Session struct {
	// Root is the main directory that contains the source folders.
	Root string

	// FS is the filesystem capability set.
	FS filesystem.Access

	// Logger receives diagnostics.
	Logger *zap.Logger

	// Excludes lists names and paths never eligible as sources.
	Excludes ExcludeSet

	// Entries is the snapshot taken by Collect.
	Entries []SourceEntry
}

// Report describes the outcome of one run.
type Report struct {
	RunID      string        `json:"run_id"`
	Root       string        `json:"root"`
	State      State         `json:"state"`
	DryRun     bool          `json:"dry_run"`
	Method     Method        `json:"method"`
	Order      []SourceEntry `json:"order"`
	Plan       *Plan         `json:"plan,omitempty"`
	Backup     *BackupRecord `json:"backup,omitempty"`
	IndexPath  string        `json:"index_path,omitempty"`
	Merged     string        `json:"merged,omitempty"`
	Warnings   []string      `json:"warnings,omitempty"`
	Err        error         `json:"-"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
