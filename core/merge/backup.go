package merge

import (
	"context"
	"fmt"
	"path/filepath"

	"fmerge/core/filesystem"

	"go.uber.org/zap"
)

// DefaultBackupName is the backup directory name used when none is configured.
const DefaultBackupName = "Backup"

// BackupRecord maps each ordered source folder to its backup copy.
type BackupRecord struct {
	// RunID identifies the run that created the backup.
	RunID string `json:"run_id"`

	// Name is the backup directory name.
	Name string `json:"name"`

	// Root is the full path of the backup directory.
	Root string `json:"root"`

	// Folders maps a source folder path to its backup path, in merge order.
	Folders []BackupFolder `json:"folders"`
}

// BackupFolder is one source folder and its backup destination.
type BackupFolder struct {
	Source string `json:"source"`
	Backup string `json:"backup"`
}

// Mirror copies a finished local backup somewhere else.
type Mirror interface {
	MirrorBackup(ctx context.Context, record *BackupRecord) error
}

// BackupManager snapshots source folders before anything destructive happens.
type BackupManager struct {
	sess   *Session
	mirror Mirror
}

// NewBackupManager creates a backup manager. mirror may be nil.
func NewBackupManager(sess *Session, mirror Mirror) *BackupManager {
	return &BackupManager{sess: sess, mirror: mirror}
}

// CheckName validates a backup directory name and reports a *PathCollisionError when it is taken.
func (b *BackupManager) CheckName(name string) (string, error) {
	return checkFreeName(b.sess, "backup", name)
}

// Backup copies every folder, recursively, into <root>/<name>/<folder name>.
// Either every folder is copied (and mirrored, when a mirror is set) or the backup
// directory is removed again and a *BackupCreationError is returned.
func (b *BackupManager) Backup(ctx context.Context, runID string, folders []SourceEntry, name string) (*BackupRecord, error) {
	root, err := b.CheckName(name)
	if err != nil {
		return nil, err
	}

	logger := b.sess.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := b.sess.FS.Mkdir(root); err != nil {
		return nil, &BackupCreationError{Path: root, Err: err}
	}

	record := &BackupRecord{RunID: runID, Name: name, Root: root}
	fail := func(err error) (*BackupRecord, error) {
		if rmErr := b.sess.FS.Remove(root); rmErr != nil {
			logger.Error("Failed to remove incomplete backup", zap.String("path", root), zap.Error(rmErr))
		}
		return nil, &BackupCreationError{Path: root, Err: err}
	}

	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		dst := filepath.Join(root, folder.Name)
		if err := b.sess.FS.Copy(folder.Path, dst, true); err != nil {
			return fail(err)
		}
		record.Folders = append(record.Folders, BackupFolder{Source: folder.Path, Backup: dst})
		logger.Debug("Backed up folder", zap.String("folder", folder.Name), zap.String("backup", dst))
	}

	if b.mirror != nil {
		if err := b.mirror.MirrorBackup(ctx, record); err != nil {
			return fail(fmt.Errorf("mirror: %w", err))
		}
	}

	logger.Info("Backup created", zap.String("path", root), zap.Int("folders", len(record.Folders)))
	return record, nil
}

// checkFreeName validates name and returns its full path under the session root.
func checkFreeName(sess *Session, purpose, name string) (string, error) {
	if err := filesystem.ValidateName(name); err != nil {
		return "", fmt.Errorf("invalid %s name: %w", purpose, err)
	}
	path := filepath.Join(sess.Root, name)
	exists, err := sess.FS.Exists(path)
	if err != nil {
		return "", &FilesystemOperationError{Op: "stat", Path: path, Err: err}
	}
	if exists {
		return "", &PathCollisionError{Purpose: purpose, Path: path}
	}
	return path, nil
}
