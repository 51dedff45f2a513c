package merge

// Config holds configuration for merge runs.
type Config struct {
	// BackupName is the preferred backup directory name.
	BackupName string `mapstructure:"backup_name" default:"Backup"`
	// IndexName is the preferred index file name.
	IndexName string `mapstructure:"index_name" default:"Index.txt"`
	// StagingName is the reserved staging directory name.
	StagingName string `mapstructure:"staging_name" default:".fmerge-staging"`
	// NestedPolicy is "abort" or "skip".
	NestedPolicy string `mapstructure:"nested_policy" default:"abort"`
	// Exclude lists names that are never merged (comma separated in the environment).
	Exclude []string `mapstructure:"exclude" default:"desktop.ini"`
}

// withDefaults fills empty names with the package defaults.
func (c Config) withDefaults() Config {
	if c.BackupName == "" {
		c.BackupName = DefaultBackupName
	}
	if c.IndexName == "" {
		c.IndexName = DefaultIndexName
	}
	if c.StagingName == "" {
		c.StagingName = DefaultStagingName
	}
	return c
}
