package merge

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// NestedPolicy selects what happens when a source folder contains a directory.
type NestedPolicy string

const (
	// NestedAbort fails the whole merge.
	NestedAbort NestedPolicy = "abort"
	// NestedSkip drops the offending folder and merges the rest.
	NestedSkip NestedPolicy = "skip"
)

// ParseNestedPolicy validates a policy name. Empty selects NestedAbort.
func ParseNestedPolicy(s string) (NestedPolicy, error) {
	switch NestedPolicy(s) {
	case "", NestedAbort:
		return NestedAbort, nil
	case NestedSkip:
		return NestedSkip, nil
	default:
		return "", fmt.Errorf("unknown nested directory policy %q (want %q or %q)", s, NestedAbort, NestedSkip)
	}
}

// Operation copies one source file to its destination name.
type Operation struct {
	// Folder is the path of the source folder the file belongs to.
	Folder string `json:"folder"`

	// Source is the full path of the original file.
	Source string `json:"source"`

	// Destination is the new file name inside the merged directory.
	Destination string `json:"destination"`
}

// PlannedFolder is a source folder that takes part in the merge.
type PlannedFolder struct {
	// Ordinal is the zero-based position of the folder in the confirmed order.
	Ordinal int `json:"ordinal"`

	// Entry is the folder itself.
	Entry SourceEntry `json:"entry"`

	// Files is the snapshot of the folder's file names, in enumeration order.
	Files []string `json:"files"`

	// FirstDestination is the destination name of the folder's first file.
	// Empty when the folder holds no files.
	FirstDestination string `json:"first_destination,omitempty"`
}

// SkippedFolder is a folder left out under NestedSkip.
type SkippedFolder struct {
	Ordinal int         `json:"ordinal"`
	Entry   SourceEntry `json:"entry"`
	Reason  string      `json:"reason"`
}

// Plan is the precomputed rename plan for one run.
type Plan struct {
	// Operations lists every copy in execution order.
	Operations []Operation `json:"operations"`

	// Width is the zero-padding digit count used for every destination name.
	Width int `json:"width"`

	// Total is the number of files being merged.
	Total int `json:"total"`

	// Folders lists the contributing folders in merge order.
	Folders []PlannedFolder `json:"folders"`

	// Skipped lists folders dropped because they contain directories.
	Skipped []SkippedFolder `json:"skipped,omitempty"`
}

// Winner returns the folder whose name the merged directory takes.
func (p *Plan) Winner() (PlannedFolder, bool) {
	if len(p.Folders) == 0 {
		return PlannedFolder{}, false
	}
	return p.Folders[0], true
}

// FirstDestination returns the first destination name contributed by the folder at path.
func (p *Plan) FirstDestination(folderPath string) (string, bool) {
	for _, f := range p.Folders {
		if f.Entry.Path == folderPath && f.FirstDestination != "" {
			return f.FirstDestination, true
		}
	}
	return "", false
}

// Width returns the number of decimal digits in total, and at least 1.
func Width(total int) int {
	if total < 10 {
		return 1
	}
	return len(strconv.Itoa(total))
}

// DestinationName formats seq zero-padded to width, followed by ext.
func DestinationName(seq, width int, ext string) string {
	return fmt.Sprintf("%0*d%s", width, seq, ext)
}

// Planner builds merge plans.
type Planner struct {
	sess   *Session
	policy NestedPolicy
}

// NewPlanner creates a planner for the session.
func NewPlanner(sess *Session, policy NestedPolicy) *Planner {
	if policy == "" {
		policy = NestedAbort
	}
	return &Planner{sess: sess, policy: policy}
}

// Plan enumerates every folder once and assigns destination names.
// Under NestedAbort a folder that contains a directory fails with *NestedDirectoryError.
func (p *Planner) Plan(folders []SourceEntry) (*Plan, error) {
	logger := p.logger()
	plan := &Plan{}

	for ordinal, folder := range folders {
		files, err := p.snapshot(folder)
		if err != nil {
			var nested *NestedDirectoryError
			if errors.As(err, &nested) && p.policy == NestedSkip {
				logger.Warn("Skipping folder that contains a directory",
					zap.String("folder", folder.Name),
					zap.String("child", nested.Child),
				)
				plan.Skipped = append(plan.Skipped, SkippedFolder{
					Ordinal: ordinal,
					Entry:   folder,
					Reason:  err.Error(),
				})
				continue
			}
			return nil, err
		}

		plan.Folders = append(plan.Folders, PlannedFolder{
			Ordinal: ordinal,
			Entry:   folder,
			Files:   files,
		})
		plan.Total += len(files)
	}

	if plan.Total == 0 {
		return nil, fmt.Errorf("%w: the selected folders contain no files", ErrNothingToMerge)
	}

	plan.Width = Width(plan.Total)
	plan.Operations = make([]Operation, 0, plan.Total)

	seq := 1
	for i := range plan.Folders {
		folder := &plan.Folders[i]
		for j, name := range folder.Files {
			dest := DestinationName(seq, plan.Width, filepath.Ext(name))
			if j == 0 {
				folder.FirstDestination = dest
			}
			plan.Operations = append(plan.Operations, Operation{
				Folder:      folder.Entry.Path,
				Source:      filepath.Join(folder.Entry.Path, name),
				Destination: dest,
			})
			seq++
		}
	}

	logger.Info("Merge plan built",
		zap.Int("folders", len(plan.Folders)),
		zap.Int("skipped", len(plan.Skipped)),
		zap.Int("files", plan.Total),
		zap.Int("width", plan.Width),
	)

	return plan, nil
}

// snapshot lists the files of one folder.
func (p *Planner) snapshot(folder SourceEntry) ([]string, error) {
	children, err := p.sess.FS.ReadDir(folder.Path)
	if err != nil {
		return nil, &FilesystemOperationError{Op: "list", Path: folder.Path, Err: err}
	}

	files := make([]string, 0, len(children))
	for _, child := range children {
		if p.sess.Excludes.Contains(child.Name, child.Path) {
			p.logger().Info("Skipping excluded file", zap.String("folder", folder.Name), zap.String("file", child.Name))
			continue
		}
		if child.IsDir {
			return nil, &NestedDirectoryError{Folder: folder.Name, Child: child.Name}
		}
		files = append(files, child.Name)
	}
	return files, nil
}

func (p *Planner) logger() *zap.Logger {
	if p.sess.Logger == nil {
		return zap.NewNop()
	}
	return p.sess.Logger
}
