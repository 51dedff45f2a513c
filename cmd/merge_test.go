package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fmerge/core/merge"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodFromFlags(t *testing.T) {
	assert.Nil(t, methodFromFlags(false, false, false))
	assert.Equal(t, &merge.MethodBoth, methodFromFlags(true, false, false))
	assert.Equal(t, &merge.Method{Backup: false, Index: true}, methodFromFlags(false, true, false))
	assert.Equal(t, &merge.Method{Backup: true, Index: false}, methodFromFlags(false, false, true))
	assert.Equal(t, &merge.Method{}, methodFromFlags(true, true, true))
}

func TestApplyMergeFlags(t *testing.T) {
	c := &cobra.Command{}
	c.Flags().StringVar(&mergeBackupName, "backup-name", "", "")
	c.Flags().StringVar(&mergeIndexName, "index-name", "", "")
	c.Flags().BoolVar(&mergeSkipNested, "skip-nested", false, "")
	c.Flags().StringSliceVar(&mergeExcludes, "exclude", nil, "")
	require.NoError(t, c.Flags().Parse([]string{"--backup-name", "Originals", "--skip-nested", "--exclude", "Thumbs.db"}))
	t.Cleanup(func() {
		mergeBackupName, mergeIndexName, mergeSkipNested, mergeExcludes = "", "", false, nil
	})

	cfg := merge.Config{BackupName: "Backup", IndexName: "Index.txt", NestedPolicy: "abort", Exclude: []string{"desktop.ini"}}
	applyMergeFlags(c, &cfg)

	assert.Equal(t, "Originals", cfg.BackupName)
	assert.Equal(t, "Index.txt", cfg.IndexName)
	assert.Equal(t, "skip", cfg.NestedPolicy)
	assert.Equal(t, []string{"desktop.ini", "Thumbs.db"}, cfg.Exclude)
}

func TestPrintMergeReport(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	started := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	printMergeReport(&buf, &merge.Report{
		RunID:      "run-1",
		State:      merge.StateDone,
		Merged:     "/scans/Ch1",
		Backup:     &merge.BackupRecord{Root: "/scans/Backup"},
		IndexPath:  "/scans/Index.txt",
		Warnings:   []string{"failed to remove /scans/Ch2"},
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
	})
	out := buf.String()
	assert.Contains(t, out, "DONE merged into /scans/Ch1")
	assert.Contains(t, out, "Backup: /scans/Backup")
	assert.Contains(t, out, "Index:  /scans/Index.txt")
	assert.Contains(t, out, "WARNING failed to remove /scans/Ch2")
	assert.Contains(t, out, "Run run-1 took 2s")

	buf.Reset()
	printMergeReport(&buf, &merge.Report{
		RunID:  "run-2",
		State:  merge.StateDone,
		DryRun: true,
		Plan: &merge.Plan{
			Folders:    []merge.PlannedFolder{{Ordinal: 0, Entry: merge.SourceEntry{Name: "Ch1"}, Files: []string{"a.png"}, FirstDestination: "1.png"}},
			Operations: []merge.Operation{{Source: "/scans/Ch1/a.png", Destination: "1.png"}},
		},
	})
	assert.Contains(t, buf.String(), "0 - 'Ch1' (1 files, starts on 1.png)")
	assert.Contains(t, buf.String(), "1.png <- /scans/Ch1/a.png")
	assert.Contains(t, buf.String(), "nothing was changed (dry run)")

	buf.Reset()
	printMergeReport(&buf, &merge.Report{RunID: "run-3", State: merge.StateFailed, Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "FAILED boom")
}

func TestMergeCmd_YesKeepsListedOrder(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	dir := t.TempDir()
	for _, p := range []string{"Ch1/a.png", "Ch1/b.png", "Ch2/c.png"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, filepath.Dir(p)), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, p), []byte(p), 0o644))
	}
	t.Cleanup(func() {
		mergeOrder, mergeYes, mergeNoBackup, mergeDryRun = "", false, false, false
	})

	var out bytes.Buffer
	RootCmd.SetIn(strings.NewReader(""))
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"merge", dir, "--yes", "--no-backup", "--dry-run"})
	t.Cleanup(func() {
		RootCmd.SetIn(nil)
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	})

	require.NoError(t, RootCmd.Execute())

	assert.NotContains(t, out.String(), "Enter the order")
	assert.Contains(t, out.String(), "Planned merge:")
	assert.Contains(t, out.String(), "0 - 'Ch1' (2 files, starts on 1.png)")
	assert.Contains(t, out.String(), "1 - 'Ch2' (1 files, starts on 3.png)")
	assert.Contains(t, out.String(), "DONE nothing was changed (dry run)")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ch1", entries[0].Name())
	assert.Equal(t, "Ch2", entries[1].Name())
}
