package history

import (
	"strings"

	"fmerge/core/merge"
	"fmerge/feature/history/models"
)

// FromReport converts a run report into its journal row.
func FromReport(report *merge.Report) models.Run {
	run := models.Run{
		ID:         report.RunID,
		Root:       report.Root,
		State:      string(report.State),
		Method:     report.Method.String(),
		Merged:     report.Merged,
		IndexPath:  report.IndexPath,
		Warnings:   strings.Join(report.Warnings, "\n"),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		DurationMs: report.Duration().Milliseconds(),
	}
	if report.Err != nil {
		run.Error = report.Err.Error()
	}
	if report.Backup != nil {
		run.BackupPath = report.Backup.Root
	}

	if report.Plan == nil {
		return run
	}
	run.Width = report.Plan.Width
	run.TotalFiles = report.Plan.Total

	for _, f := range report.Plan.Folders {
		run.Folders = append(run.Folders, models.RunFolder{
			RunID:     report.RunID,
			Ordinal:   f.Ordinal,
			Name:      f.Entry.Name,
			Files:     len(f.Files),
			FirstFile: f.FirstDestination,
		})
	}
	for _, s := range report.Plan.Skipped {
		run.Folders = append(run.Folders, models.RunFolder{
			RunID:   report.RunID,
			Ordinal: s.Ordinal,
			Name:    s.Entry.Name,
			Skipped: true,
			Reason:  s.Reason,
		})
	}
	return run
}
