package merge

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultStagingName is the reserved staging directory name.
const DefaultStagingName = ".fmerge-staging"

// FolderHook is called after the first file of a folder has been staged.
type FolderHook func(folder PlannedFolder) error

// CommitResult describes a finished commit.
type CommitResult struct {
	// Merged is the full path of the merged directory.
	Merged string

	// Warnings lists source folders that could not be removed.
	Warnings []string
}

// Stager copies a plan into a staging directory and then commits or rolls it back.
type Stager struct {
	sess *Session
	path string
}

// NewStager creates a stager that stages into <root>/<name>.
func NewStager(sess *Session, name string) *Stager {
	if name == "" {
		name = DefaultStagingName
	}
	return &Stager{sess: sess, path: filepath.Join(sess.Root, name)}
}

// Path returns the staging directory path.
func (s *Stager) Path() string {
	return s.path
}

// Execute copies every planned file into the staging directory.
// A pre-existing staging directory is a *PathCollisionError (a stale run) and nothing is created.
// On any copy failure, hook failure or context cancellation the staging directory is removed
// and the error is returned; source folders are never modified.
func (s *Stager) Execute(ctx context.Context, plan *Plan, hook FolderHook) error {
	logger := s.logger()

	exists, err := s.sess.FS.Exists(s.path)
	if err != nil {
		return &FilesystemOperationError{Op: "stat", Path: s.path, Err: err}
	}
	if exists {
		return &PathCollisionError{Purpose: "staging", Path: s.path}
	}
	if err := s.sess.FS.Mkdir(s.path); err != nil {
		return &FilesystemOperationError{Op: "mkdir", Path: s.path, Err: err}
	}

	fail := func(err error) error {
		logger.Error("Staging failed, rolling back", zap.Error(err))
		if rbErr := s.Rollback(); rbErr != nil {
			logger.Error("Rollback failed", zap.String("staging", s.path), zap.Error(rbErr))
		}
		return err
	}

	op := 0
	for _, folder := range plan.Folders {
		for i := range folder.Files {
			if err := ctx.Err(); err != nil {
				return fail(err)
			}

			o := plan.Operations[op]
			op++

			dst := filepath.Join(s.path, o.Destination)
			if err := s.sess.FS.Copy(o.Source, dst, false); err != nil {
				return fail(&FilesystemOperationError{Op: "copy", Path: o.Source, Err: err})
			}
			logger.Debug("Staged file", zap.String("source", o.Source), zap.String("destination", o.Destination))

			if i == 0 && hook != nil {
				if err := hook(folder); err != nil {
					return fail(err)
				}
			}
		}
	}

	logger.Info("Staging complete", zap.String("staging", s.path), zap.Int("files", op))
	return nil
}

// Commit promotes the staging directory to the winning folder's name and then removes the
// other contributing source folders. The winner is removed first; if that fails the staging
// directory is rolled back and no source folder is touched. Once the staging directory is
// promoted, failed removals are logged and returned as warnings.
func (s *Stager) Commit(plan *Plan) (*CommitResult, error) {
	logger := s.logger()

	winner, ok := plan.Winner()
	if !ok {
		return nil, ErrNothingToMerge
	}

	result := &CommitResult{}
	if err := s.sess.FS.Remove(winner.Entry.Path); err != nil {
		logger.Error("Failed to remove winning folder", zap.String("folder", winner.Entry.Path), zap.Error(err))
		if rbErr := s.Rollback(); rbErr != nil {
			logger.Warn("Failed to remove staging directory", zap.String("staging", s.path), zap.Error(rbErr))
		}
		return result, &FilesystemOperationError{Op: "remove", Path: winner.Entry.Path, Err: err}
	}

	target := filepath.Join(s.sess.Root, winner.Entry.Name)
	exists, err := s.sess.FS.Exists(target)
	if err != nil {
		return result, &FilesystemOperationError{Op: "stat", Path: target, Err: err}
	}
	if exists {
		return result, &FilesystemOperationError{
			Op:   "promote",
			Path: s.path,
			Err:  &PathCollisionError{Purpose: "merged", Path: target},
		}
	}
	if err := s.sess.FS.Rename(s.path, target); err != nil {
		return result, &FilesystemOperationError{Op: "promote", Path: s.path, Err: err}
	}
	result.Merged = target

	for _, folder := range plan.Folders {
		if folder.Entry.Path == winner.Entry.Path {
			continue
		}
		if err := s.sess.FS.Remove(folder.Entry.Path); err != nil {
			logger.Warn("Failed to remove source folder", zap.String("folder", folder.Entry.Path), zap.Error(err))
			result.Warnings = append(result.Warnings, "failed to remove "+folder.Entry.Path+": "+err.Error())
			continue
		}
		logger.Debug("Removed source folder", zap.String("folder", folder.Entry.Path))
	}

	logger.Info("Merge committed", zap.String("merged", target), zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

// Rollback removes the staging directory. It is safe to call more than once.
func (s *Stager) Rollback() error {
	if err := s.sess.FS.Remove(s.path); err != nil {
		return &FilesystemOperationError{Op: "remove", Path: s.path, Err: err}
	}
	return nil
}

func (s *Stager) logger() *zap.Logger {
	if s.sess.Logger == nil {
		return zap.NewNop()
	}
	return s.sess.Logger
}
