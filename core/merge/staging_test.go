package merge

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planFor(t *testing.T, sess *Session, names ...string) *Plan {
	t.Helper()
	folders := make([]SourceEntry, 0, len(names))
	for _, n := range names {
		folders = append(folders, folderEntry(n))
	}
	plan, err := NewPlanner(sess, NestedAbort).Plan(folders)
	require.NoError(t, err)
	return plan
}

func TestStager_ExecuteAndCommit(t *testing.T) {
	sess, fs := newTestSession(t, "Ch1/a.png", "Ch1/b.png", "Ch2/c.png", "notes.txt")
	plan := planFor(t, sess, "Ch1", "Ch2")
	stager := NewStager(sess, "")
	assert.Equal(t, "/scans/"+DefaultStagingName, stager.Path())

	var hooked []string
	err := stager.Execute(context.Background(), plan, func(f PlannedFolder) error {
		hooked = append(hooked, fmt.Sprintf("%d:%s:%s", f.Ordinal, f.Entry.Name, f.FirstDestination))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"0:Ch1:1.png", "1:Ch2:3.png"}, hooked)
	assert.Equal(t, []string{"1.png", "2.png", "3.png"}, dirNames(t, fs, stager.Path()))
	assert.True(t, exists(t, fs, "/scans/Ch2/c.png"))

	result, err := stager.Commit(plan)
	require.NoError(t, err)
	assert.Equal(t, "/scans/Ch1", result.Merged)
	assert.Empty(t, result.Warnings)

	assert.Equal(t, []string{"Ch1", "notes.txt"}, dirNames(t, fs, testRoot))
	assert.Equal(t, "Ch1/a.png", readFile(t, fs, "/scans/Ch1/1.png"))
	assert.Equal(t, "Ch1/b.png", readFile(t, fs, "/scans/Ch1/2.png"))
	assert.Equal(t, "Ch2/c.png", readFile(t, fs, "/scans/Ch1/3.png"))
}

func TestStager_RollbackOnKthCopyFailure(t *testing.T) {
	for k := 1; k <= 3; k++ {
		t.Run(fmt.Sprint(k), func(t *testing.T) {
			sess, fs := newTestSession(t, "Ch1/a.png", "Ch1/b.png", "Ch2/c.png")
			before := snapshotTree(t, fs, testRoot)
			plan := planFor(t, sess, "Ch1", "Ch2")
			sess.FS = &faultyAccess{Access: sess.FS, failFileCopyAt: k}

			stager := NewStager(sess, "")
			err := stager.Execute(context.Background(), plan, nil)

			var fsErr *FilesystemOperationError
			require.True(t, errors.As(err, &fsErr))
			assert.Equal(t, "copy", fsErr.Op)
			assert.ErrorIs(t, err, errInjected)

			assert.False(t, exists(t, fs, stager.Path()))
			assert.Equal(t, before, snapshotTree(t, fs, testRoot))
		})
	}
}

func TestStager_HookFailureRollsBack(t *testing.T) {
	sess, fs := newTestSession(t, "Ch1/a.png", "Ch2/c.png")
	plan := planFor(t, sess, "Ch1", "Ch2")
	stager := NewStager(sess, "")

	calls := 0
	err := stager.Execute(context.Background(), plan, func(PlannedFolder) error {
		calls++
		if calls == 2 {
			return errInjected
		}
		return nil
	})
	assert.ErrorIs(t, err, errInjected)
	assert.False(t, exists(t, fs, stager.Path()))
}

func TestStager_Cancelled(t *testing.T) {
	sess, fs := newTestSession(t, "Ch1/a.png")
	plan := planFor(t, sess, "Ch1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stager := NewStager(sess, "")
	err := stager.Execute(ctx, plan, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, exists(t, fs, stager.Path()))
}

func TestStager_StaleStagingDirectory(t *testing.T) {
	sess, fs := newTestSession(t, "Ch1/a.png", ".fmerge-staging/old.png")
	plan := planFor(t, sess, "Ch1")

	err := NewStager(sess, "").Execute(context.Background(), plan, nil)

	var collision *PathCollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, "staging", collision.Purpose)
	assert.Equal(t, ".fmerge-staging/old.png", readFile(t, fs, "/scans/.fmerge-staging/old.png"))
}

func TestStager_CommitRemovalFailureIsWarning(t *testing.T) {
	sess, fs := newTestSession(t, "Ch1/a.png", "Ch2/c.png")
	plan := planFor(t, sess, "Ch1", "Ch2")
	stager := NewStager(sess, "")
	require.NoError(t, stager.Execute(context.Background(), plan, nil))

	sess.FS = &faultyAccess{Access: sess.FS, failRemove: map[string]bool{"/scans/Ch2": true}}
	result, err := stager.Commit(plan)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "/scans/Ch2")
	assert.Equal(t, "/scans/Ch1", result.Merged)
	assert.True(t, exists(t, fs, "/scans/Ch2/c.png"))
	assert.Equal(t, []string{"1.png", "2.png"}, dirNames(t, fs, "/scans/Ch1"))
}

func TestStager_CommitWinnerNotRemoved(t *testing.T) {
	sess, fs := newTestSession(t, "Ch1/a.png", "Ch2/c.png")
	before := snapshotTree(t, fs, testRoot)
	plan := planFor(t, sess, "Ch1", "Ch2")
	stager := NewStager(sess, "")
	require.NoError(t, stager.Execute(context.Background(), plan, nil))

	sess.FS = &faultyAccess{Access: sess.FS, failRemove: map[string]bool{"/scans/Ch1": true}}
	result, err := stager.Commit(plan)

	var fsErr *FilesystemOperationError
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, "remove", fsErr.Op)
	assert.Equal(t, "/scans/Ch1", fsErr.Path)
	assert.ErrorIs(t, err, errInjected)

	assert.Empty(t, result.Merged)
	assert.Empty(t, result.Warnings)
	assert.False(t, exists(t, fs, stager.Path()))
	assert.Equal(t, before, snapshotTree(t, fs, testRoot))
}

func TestStager_RollbackIsIdempotent(t *testing.T) {
	sess, fs := newTestSession(t, "Ch1/a.png")
	plan := planFor(t, sess, "Ch1")
	stager := NewStager(sess, "")
	require.NoError(t, stager.Execute(context.Background(), plan, nil))

	require.NoError(t, stager.Rollback())
	require.NoError(t, stager.Rollback())
	assert.False(t, exists(t, fs, stager.Path()))
	assert.True(t, exists(t, fs, "/scans/Ch1/a.png"))
}
