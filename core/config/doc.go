// Package config provides configuration management for fmerge.
//
// It utilizes Viper for loading configuration from environment variables and an optional
// .env file. Defaults come from the `default` struct tags of every section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Merge: backup/index/staging names, nested directory policy, excluded names
//   - Log: logging level and format
//   - Database: run journal connection (sqlite or mysql), disabled by default
//   - Storage: S3/MinIO credentials for the remote backup mirror, disabled by default
//   - Server: journal API port and key
//
// Environment keys are the upper-cased section and key joined by an underscore,
// for example MERGE_BACKUP_NAME or STORAGE_ENABLED. Slices are comma separated
// (MERGE_EXCLUDE=desktop.ini,Thumbs.db).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Merge.BackupName)
package config
