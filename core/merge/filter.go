package merge

import (
	"fmt"

	"go.uber.org/zap"
)

// Filter decides whether a discovered entry is an eligible merge source.
type Filter struct {
	excludes ExcludeSet
	logger   *zap.Logger
}

// NewFilter creates a filter over the given exclusions.
func NewFilter(excludes ExcludeSet, logger *zap.Logger) *Filter {
	if excludes == nil {
		excludes = NewExcludeSet()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filter{excludes: excludes, logger: logger}
}

// IsEligible reports whether entry can be merged. Every rejection is logged with its reason.
func (f *Filter) IsEligible(entry SourceEntry) bool {
	if f.excludes.Contains(entry.Name, entry.Path) {
		f.logger.Info("Skipping excluded entry", zap.String("entry", entry.Name), zap.String("reason", "excluded filename"))
		return false
	}
	if !entry.IsDir {
		f.logger.Info("Skipping entry", zap.String("entry", entry.Name), zap.String("reason", "not a directory, cannot merge this file"))
		return false
	}
	return true
}

// Candidates returns the eligible entries in enumeration order.
func (f *Filter) Candidates(entries []SourceEntry) []SourceEntry {
	candidates := make([]SourceEntry, 0, len(entries))
	for _, entry := range entries {
		if f.IsEligible(entry) {
			candidates = append(candidates, entry)
		}
	}
	return candidates
}

// Collect takes the entry snapshot of the session's main directory and stores it on the session.
func Collect(sess *Session) ([]SourceEntry, error) {
	children, err := sess.FS.ReadDir(sess.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", sess.Root, err)
	}

	entries := make([]SourceEntry, 0, len(children))
	for i, child := range children {
		entries = append(entries, SourceEntry{
			Index: i,
			Name:  child.Name,
			Path:  child.Path,
			IsDir: child.IsDir,
		})
	}
	sess.Entries = entries
	return entries, nil
}
