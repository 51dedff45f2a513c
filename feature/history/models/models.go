package models

import "time"

// Run is one recorded merge run.
type Run struct {
	ID         string      `gorm:"primaryKey;column:id;size:36" json:"id"`
	Root       string      `gorm:"column:root;size:1024" json:"root"`
	State      string      `gorm:"column:state;size:32;index" json:"state"`
	Method     string      `gorm:"column:method;size:16" json:"method"`
	Merged     string      `gorm:"column:merged;size:1024" json:"merged,omitempty"`
	Width      int         `gorm:"column:width" json:"width"`
	TotalFiles int         `gorm:"column:total_files" json:"total_files"`
	BackupPath string      `gorm:"column:backup_path;size:1024" json:"backup_path,omitempty"`
	IndexPath  string      `gorm:"column:index_path;size:1024" json:"index_path,omitempty"`
	Warnings   string      `gorm:"column:warnings;type:text" json:"warnings,omitempty"` // newline separated
	Error      string      `gorm:"column:error;type:text" json:"error,omitempty"`
	StartedAt  time.Time   `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt time.Time   `gorm:"column:finished_at" json:"finished_at"`
	DurationMs int64       `gorm:"column:duration_ms" json:"duration_ms"`
	Folders    []RunFolder `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"folders,omitempty"`
}

func (Run) TableName() string {
	return "merge_runs"
}

// RunFolder is one source folder of a recorded run.
type RunFolder struct {
	ID        uint   `gorm:"primaryKey;column:id" json:"-"`
	RunID     string `gorm:"column:run_id;size:36;index" json:"-"`
	Ordinal   int    `gorm:"column:ordinal" json:"ordinal"`
	Name      string `gorm:"column:name;size:255" json:"name"`
	Files     int    `gorm:"column:files" json:"files"`
	FirstFile string `gorm:"column:first_file;size:255" json:"first_file,omitempty"`
	Skipped   bool   `gorm:"column:skipped" json:"skipped"`
	Reason    string `gorm:"column:reason;size:1024" json:"reason,omitempty"`
}

func (RunFolder) TableName() string {
	return "merge_run_folders"
}
